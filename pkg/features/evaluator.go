package features

import (
	"context"
	"fmt"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/expr"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Evaluator resolves declaration passes into a State
type Evaluator struct {
	state     *State
	exprs     *expr.Cache
	overrides map[string]Override
	validate  *validator.Validate
	logger    zerolog.Logger
	pass      int
}

// Option configures an Evaluator
type Option func(*Evaluator)

// WithOverrides applies user enable/disable choices
func WithOverrides(overrides map[string]Override) Option {
	return func(e *Evaluator) {
		e.overrides = overrides
	}
}

// WithState continues from a previously evaluated state
func WithState(state *State) Option {
	return func(e *Evaluator) {
		e.state = state
	}
}

// NewEvaluator creates an evaluator with an empty state
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		state:     NewState(),
		exprs:     expr.NewCache(),
		overrides: map[string]Override{},
		validate:  validator.New(),
		logger:    logging.GetLogger("features.evaluator"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the state accumulated so far
func (e *Evaluator) State() *State {
	return e.state
}

// EvaluatePasses evaluates each pass in order. Overrides must name declared features.
func (e *Evaluator) EvaluatePasses(ctx context.Context, passes ...[]Declaration) (*State, error) {
	if err := e.checkOverrides(passes); err != nil {
		return e.state, err
	}

	done := logging.LogOperationStart(e.logger, "evaluate features")
	defer done()

	for _, decls := range passes {
		if _, err := e.Evaluate(ctx, decls); err != nil {
			return e.state, err
		}
	}
	return e.state, nil
}

// Evaluate runs a single pass. On a fatal error the returned state holds
// everything resolved so far; later declarations of the pass stay unresolved.
func (e *Evaluator) Evaluate(ctx context.Context, decls []Declaration) (*State, error) {
	e.pass++
	logger := e.logger.With().Int("pass", e.pass).Logger()
	logger.Debug().Int("declarations", len(decls)).Msg("Evaluating pass")

	for i := range decls {
		d := &decls[i]
		if err := e.validate.Struct(d); err != nil {
			return e.state, errors.Wrapf(err, errors.ErrConfigValid,
				"invalid declaration #%d %q", i+1, d.Name).
				WithDetail("feature", d.Name)
		}
		if e.state.Has(d.Name) {
			return e.state, errors.Newf(errors.ErrFeatureDuplicate,
				"feature %q is declared more than once", d.Name).
				WithDetail("feature", d.Name)
		}
		e.state.register(d.Name, e.pass)
	}

	for i := range decls {
		if err := ctx.Err(); err != nil {
			return e.state, err
		}
		if err := e.evaluateOne(ctx, &decls[i], logger); err != nil {
			return e.state, err
		}
	}

	return e.state, nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, d *Declaration, logger zerolog.Logger) error {
	deps, err := e.parse(d, d.Deps, "deps")
	if err != nil {
		return err
	}

	var depsNeg expr.Expr
	if !expr.IsTrivial(d.DepsNeg) {
		if depsNeg, err = e.parse(d, d.DepsNeg, "deps_neg"); err != nil {
			return err
		}
	}

	if err := e.checkReferences(d, deps, depsNeg); err != nil {
		return err
	}

	override := e.overrides[d.Name]
	status, reason := e.decide(ctx, d, deps, depsNeg, override, logger)
	e.state.resolve(d.Name, status, reason, d.Libs)

	logger.Debug().
		Str("feature", d.Name).
		Str("status", status.String()).
		Str("reason", reason).
		Msg("Feature resolved")

	required := d.Required || override == OverrideEnable
	if status == Disabled && required {
		message := d.Message
		if message == "" {
			message = fmt.Sprintf("required feature %q is unavailable (%s)", d.Name, reason)
		}
		return errors.New(errors.ErrFeatureRequired, message).
			WithDetail("feature", d.Name).
			WithDetail("reason", reason)
	}

	return nil
}

func (e *Evaluator) decide(ctx context.Context, d *Declaration, deps, depsNeg expr.Expr, override Override, logger zerolog.Logger) (Status, string) {
	if override == OverrideDisable {
		return Disabled, "disabled by user"
	}

	// References were checked, so lookups cannot fail.
	lookup := func(name string) (bool, error) {
		return e.state.Enabled(name), nil
	}

	if ok, _ := expr.Eval(deps, lookup); !ok {
		return Disabled, "unmet dependencies: " + d.Deps
	}
	if depsNeg != nil {
		if hit, _ := expr.Eval(depsNeg, lookup); hit {
			return Disabled, "conflicts with: " + d.DepsNeg
		}
	}

	if d.Probe != nil {
		ok, err := d.Probe.Check(ctx, d.Name)
		if err != nil {
			logger.Warn().Err(err).Str("feature", d.Name).Msg("Probe failed")
			return Disabled, "probe failed: " + err.Error()
		}
		if !ok {
			return Disabled, "not found"
		}
		return Enabled, "found"
	}

	if override == OverrideEnable {
		return Enabled, "enabled by user"
	}
	if d.DefaultsToEnabled() {
		return Enabled, "default"
	}
	return Disabled, "disabled by default"
}

func (e *Evaluator) parse(d *Declaration, src, field string) (expr.Expr, error) {
	parsed, err := e.exprs.Parse(src)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrExprParse,
			"feature %q: malformed %s expression", d.Name, field).
			WithDetail("feature", d.Name).
			WithDetail("expression", src)
	}
	return parsed, nil
}

// checkReferences requires every referenced feature to be terminal
func (e *Evaluator) checkReferences(d *Declaration, exprs ...expr.Expr) error {
	for _, x := range exprs {
		if x == nil {
			continue
		}
		for _, name := range expr.Idents(x) {
			if !e.state.Has(name) {
				return errors.Newf(errors.ErrFeatureReference,
					"feature %q depends on unknown feature %q", d.Name, name).
					WithDetail("feature", d.Name).
					WithDetail("reference", name)
			}
			if !e.state.Status(name).Terminal() {
				return errors.Newf(errors.ErrFeatureReference,
					"feature %q depends on %q which is not resolved yet (forward or cyclic reference)", d.Name, name).
					WithDetail("feature", d.Name).
					WithDetail("reference", name)
			}
		}
	}
	return nil
}

func (e *Evaluator) checkOverrides(passes [][]Declaration) error {
	if len(e.overrides) == 0 {
		return nil
	}
	declared := make(map[string]bool)
	for name := range e.state.outcomes {
		declared[name] = true
	}
	for _, decls := range passes {
		for _, d := range decls {
			declared[d.Name] = true
		}
	}
	for name := range e.overrides {
		if !declared[name] {
			return errors.Newf(errors.ErrConfigValid, "override for unknown feature %q", name).
				WithDetail("feature", name)
		}
	}
	return nil
}

// Evaluate is a shortcut for NewEvaluator(opts...).EvaluatePasses(ctx, passes...)
func Evaluate(ctx context.Context, passes [][]Declaration, opts ...Option) (*State, error) {
	return NewEvaluator(opts...).EvaluatePasses(ctx, passes...)
}
