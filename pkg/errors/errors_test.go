package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	dup := errors.New(errors.ErrFeatureDuplicate, "feature x11 declared twice")
	assert.Equal(t, "[FEATURE_DUPLICATE] feature x11 declared twice", dup.Error())
	assert.NotNil(t, dup.Details)

	missing := errors.Newf(errors.ErrCacheMissing, "no cache at %s", "build/c4che/_cache.py")
	assert.Equal(t, "[CACHE_MISSING] no cache at build/c4che/_cache.py", missing.Error())

	wrapped := errors.Wrapf(stderrors.New("disk full"), errors.ErrCacheWrite, "cannot write %s", "cache.py")
	assert.Equal(t, "[CACHE_WRITE] cannot write cache.py: disk full", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "x"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "x %d", 1))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrFeatureRequired, "need x11").
		WithDetail("feature", "x11").
		WithDetail("pass", 2)

	assert.Equal(t, map[string]interface{}{"feature": "x11", "pass": 2}, errors.GetErrorDetails(err))

	bare := &errors.FeatlinkError{Code: errors.ErrInternal}
	bare.WithDetail("k", "v")
	assert.Equal(t, "v", bare.Details["k"])

	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestCodeMatching(t *testing.T) {
	parse := errors.New(errors.ErrExprParse, "bad")
	wrapped := fmt.Errorf("loading: %w", errors.Wrap(stderrors.New("eof"), errors.ErrCacheParse, "line 3"))

	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
		want bool
	}{
		{"same code", parse, errors.ErrExprParse, true},
		{"other code", parse, errors.ErrInternal, false},
		{"behind fmt wrap", wrapped, errors.ErrCacheParse, true},
		{"plain error", stderrors.New("x"), errors.ErrNotFound, false},
		{"nil", nil, errors.ErrNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.IsErrorCode(tt.err, tt.code))
		})
	}

	assert.Equal(t, errors.ErrCacheParse, errors.GetErrorCode(wrapped))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestIsMatchesOnCode(t *testing.T) {
	a := errors.New(errors.ErrFeatureReference, "unknown feature gl")
	b := errors.New(errors.ErrFeatureReference, "cycle through vdpau")

	assert.ErrorIs(t, a, b)
	assert.NotErrorIs(t, a, errors.New(errors.ErrInternal, "x"))
}

func TestIsFatal(t *testing.T) {
	assert.False(t, errors.IsFatal(nil))
	assert.False(t, errors.IsFatal(errors.New(errors.ErrSearchRoot, "unreadable /opt/cuda")))
	assert.True(t, errors.IsFatal(errors.New(errors.ErrCacheMissing, "gone")))
	assert.True(t, errors.IsFatal(stderrors.New("plain")))
}

func TestChainKeepsRootCause(t *testing.T) {
	root := stderrors.New("root cause")
	parseErr := errors.Wrap(root, errors.ErrExprParse, "unbalanced parenthesis")
	configErr := errors.Wrap(parseErr, errors.ErrConfigValid, "feature gl-x11")

	assert.True(t, errors.IsErrorCode(configErr, errors.ErrConfigValid))
	assert.ErrorIs(t, configErr, root)

	var inner *errors.FeatlinkError
	require.True(t, stderrors.As(configErr.Unwrap(), &inner))
	assert.Equal(t, errors.ErrExprParse, inner.Code)
}

func TestIsConfigurationError(t *testing.T) {
	for _, code := range []errors.ErrorCode{
		errors.ErrConfigValid, errors.ErrConfigParse, errors.ErrExprParse,
		errors.ErrDeclarationsParse, errors.ErrFeatureDuplicate, errors.ErrFeatureReference,
	} {
		assert.True(t, errors.IsConfigurationError(errors.New(code, "x")), code)
	}
	for _, code := range []errors.ErrorCode{
		errors.ErrFeatureRequired, errors.ErrCacheMissing, errors.ErrSearchRoot, errors.ErrConfigLoad,
	} {
		assert.False(t, errors.IsConfigurationError(errors.New(code, "x")), code)
	}
	assert.False(t, errors.IsConfigurationError(nil))
}
