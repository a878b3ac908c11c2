package features_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/featlink/pkg/features"
	"github.com/arthur-debert/featlink/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeRegistry_Build(t *testing.T) {
	reg := features.NewProbeRegistry(testutil.NewMemoryFS(), nil)

	tests := []struct {
		name    string
		spec    features.ProbeSpec
		wantErr string
	}{
		{"file", features.ProbeSpec{Kind: features.ProbeFile, Paths: []string{"/usr/include/EGL/egl.h"}}, ""},
		{"file without paths", features.ProbeSpec{Kind: features.ProbeFile}, "at least one path"},
		{"library", features.ProbeSpec{Kind: features.ProbeLibrary, Libs: []string{"X11"}}, ""},
		{"library without libs", features.ProbeSpec{Kind: features.ProbeLibrary}, "at least one library"},
		{"env", features.ProbeSpec{Kind: features.ProbeEnv, Var: "HAVE_CUDA"}, ""},
		{"env without var", features.ProbeSpec{Kind: features.ProbeEnv}, "variable name"},
		{"const", features.ProbeSpec{Kind: features.ProbeConst, Value: true}, ""},
		{"unknown", features.ProbeSpec{Kind: "pkg-config"}, "unknown probe kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe, err := reg.Build(tt.spec)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, probe)
		})
	}
}

func TestFileProbe(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.MustWriteFile(t, "/usr/include/EGL/egl.h", "")
	fs.MustWriteFile(t, "/usr/include/EGL/eglext.h", "")

	ok, err := (&features.FileProbe{FS: fs, Paths: []string{"/usr/include/EGL/egl.h", "/usr/include/EGL/eglext.h"}}).
		Check(context.Background(), "egl")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = (&features.FileProbe{FS: fs, Paths: []string{"/usr/include/EGL/egl.h", "/usr/include/GLES3/gl3.h"}}).
		Check(context.Background(), "gles3")
	require.NoError(t, err)
	assert.False(t, ok, "every path must exist")
}

func TestFileProbe_StatError(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.WithError("/secret/header.h", stderrors.New("permission denied"))

	_, err := (&features.FileProbe{FS: fs, Paths: []string{"/secret/header.h"}}).Check(context.Background(), "secret")
	assert.Error(t, err)
}

func TestLibraryProbe(t *testing.T) {
	fs := testutil.NewLibraryFS(t, "/usr/lib64/libass.a")
	fs.MustWriteFile(t, "/usr/lib/libX11.so", "")
	fs.MustWriteFile(t, "/usr/lib/libvdpau.so.1.0.0", "")

	dirs := []string{"/usr/lib64", "/usr/lib"}

	tests := []struct {
		name string
		libs []string
		want bool
	}{
		{"static archive", []string{"ass"}, true},
		{"shared object", []string{"X11"}, true},
		{"versioned shared object", []string{"vdpau"}, true},
		{"all present", []string{"ass", "X11"}, true},
		{"one missing", []string{"ass", "caca"}, false},
		{"prefix is not a match", []string{"vdp"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probe := &features.LibraryProbe{FS: fs, Dirs: dirs, Libs: tt.libs}
			ok, err := probe.Check(context.Background(), "test")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestLibraryProbe_MissingDirectory(t *testing.T) {
	probe := &features.LibraryProbe{FS: testutil.NewMemoryFS(), Dirs: []string{"/nonexistent"}, Libs: []string{"m"}}

	ok, err := probe.Check(context.Background(), "libm")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnvProbe(t *testing.T) {
	env := map[string]string{"CUDA": "yes", "ROCM": "0", "VULKAN": " TRUE "}
	getenv := func(key string) string { return env[key] }

	for name, want := range map[string]bool{"CUDA": true, "ROCM": false, "VULKAN": true, "UNSET": false} {
		ok, err := (&features.EnvProbe{Var: name, Getenv: getenv}).Check(context.Background(), name)
		require.NoError(t, err)
		assert.Equal(t, want, ok, name)
	}
}

func TestProbeRegistry_WithGetenv(t *testing.T) {
	reg := features.NewProbeRegistry(testutil.NewMemoryFS(), nil).
		WithGetenv(func(string) string { return "on" })

	probe, err := reg.Build(features.ProbeSpec{Kind: features.ProbeEnv, Var: "ANYTHING"})
	require.NoError(t, err)

	ok, err := probe.Check(context.Background(), "anything")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConstProbe(t *testing.T) {
	ok, _ := features.ConstProbe(true).Check(context.Background(), "x")
	assert.True(t, ok)
	ok, _ = features.ConstProbe(false).Check(context.Background(), "x")
	assert.False(t, ok)
}
