package features

import (
	"context"
	"strings"
)

// DefaultState is the state applied when a declaration has no probe
type DefaultState string

const (
	DefaultEnabled  DefaultState = "enabled"
	DefaultDisabled DefaultState = "disabled"
)

// Probe checks whether a capability is available on the build host
type Probe interface {
	Check(ctx context.Context, feature string) (bool, error)
}

// ProbeFunc adapts a function to the Probe interface
type ProbeFunc func(ctx context.Context, feature string) (bool, error)

// Check calls f
func (f ProbeFunc) Check(ctx context.Context, feature string) (bool, error) {
	return f(ctx, feature)
}

// Declaration describes one optional feature of the build
type Declaration struct {
	// Name is unique across all passes and case-sensitive
	Name string `validate:"required"`

	// Deps must evaluate true for the feature to be considered. Empty means true.
	Deps string

	// DepsNeg must evaluate false. Empty means no exclusion.
	DepsNeg string

	Default DefaultState `validate:"omitempty,oneof=enabled disabled"`

	// Required aborts evaluation when the feature resolves disabled
	Required bool

	// Message is shown when a required feature is unavailable
	Message string

	// Libs are link tokens recorded under LIB_<name> when the feature is enabled
	Libs []string

	// Probe is optional; without it Default applies
	Probe Probe `validate:"-"`
}

// DefaultsToEnabled reports whether the declaration's default is enabled.
// An empty default counts as enabled.
func (d Declaration) DefaultsToEnabled() bool {
	return d.Default != DefaultDisabled
}

// Override is a user choice for a single feature
type Override int

const (
	// OverrideAuto lets dependencies and probes decide
	OverrideAuto Override = iota
	// OverrideEnable makes the feature required
	OverrideEnable
	// OverrideDisable turns the feature off without probing
	OverrideDisable
)

func (o Override) String() string {
	switch o {
	case OverrideEnable:
		return "enable"
	case OverrideDisable:
		return "disable"
	default:
		return "auto"
	}
}

// ParseOverride parses "auto", "enable" or "disable"
func ParseOverride(s string) (Override, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return OverrideAuto, true
	case "enable", "enabled", "yes", "on":
		return OverrideEnable, true
	case "disable", "disabled", "no", "off":
		return OverrideDisable, true
	}
	return OverrideAuto, false
}

// VarName converts a feature name into the identifier used in cache keys
// and defines: anything outside [A-Za-z0-9_] becomes an underscore.
func VarName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
