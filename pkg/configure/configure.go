// Package configure runs the configuration step: it evaluates feature
// declarations and writes a fresh build cache for the rewrite step.
package configure

import (
	"context"

	"github.com/arthur-debert/featlink/pkg/buildenv"
	"github.com/arthur-debert/featlink/pkg/features"
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/arthur-debert/featlink/pkg/types"
)

// Cache keys written by Run
const (
	KeyDefines  = "DEFINES"
	KeyEnabled  = "ENABLED_FEATURES"
	KeyDisabled = "DISABLED_FEATURES"
)

// Templates are the link-line format sentinels seeded into every new cache
var Templates = []linkcache.Entry{
	{Key: "LIB_ST", Value: linkcache.Scalar("-l%s")},
	{Key: "STLIB_ST", Value: linkcache.Scalar("-l%s")},
	{Key: "STLIB_MARKER", Value: linkcache.Scalar("-Wl,-Bstatic")},
	{Key: "RPATH_ST", Value: linkcache.Scalar("-Wl,-rpath,%s")},
}

// Options controls a configuration run
type Options struct {
	FS types.FS

	// DeclarationsPath is a .toml, .yaml or .hcl declaration file
	DeclarationsPath string

	// CachePath receives the new cache. Empty means do not write.
	CachePath string

	Overrides map[string]features.Override

	// LibDirs are searched by library probes
	LibDirs []string

	// Getenv backs env probes; nil means os.Getenv
	Getenv func(string) string

	// Seed entries are copied into the cache before generated ones
	Seed *linkcache.Cache

	// Env receives every cache entry when not nil
	Env *buildenv.Env
}

// Result is the outcome of a run
type Result struct {
	State *features.State
	Cache *linkcache.Cache
}

// Run loads declarations, evaluates them and writes the cache. When
// evaluation fails the state evaluated so far is returned with the error
// and nothing is written.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("configure")

	file, err := features.LoadFile(opts.FS, opts.DeclarationsPath)
	if err != nil {
		return nil, err
	}

	reg := features.NewProbeRegistry(opts.FS, opts.LibDirs)
	if opts.Getenv != nil {
		reg.WithGetenv(opts.Getenv)
	}

	passes, err := file.Passes(reg)
	if err != nil {
		return nil, err
	}

	state, err := features.Evaluate(ctx, passes, features.WithOverrides(opts.Overrides))
	result := &Result{State: state}
	if err != nil {
		return result, err
	}

	result.Cache = BuildCache(state, opts.Seed)

	if opts.CachePath != "" {
		if err := linkcache.Write(opts.FS, opts.CachePath, result.Cache); err != nil {
			return result, err
		}
		logger.Info().
			Str("path", opts.CachePath).
			Int("entries", result.Cache.Len()).
			Msg("Cache written")
	}

	if opts.Env != nil {
		opts.Env.Merge(result.Cache)
	}

	return result, nil
}

// BuildCache turns an evaluated state into cache entries: seed entries,
// the defines, the feature lists, LIB_<name> for enabled features carrying
// link tokens, and any template not already present.
func BuildCache(state *features.State, seed *linkcache.Cache) *linkcache.Cache {
	c := linkcache.New()
	if seed != nil {
		for _, e := range seed.Entries() {
			c.Set(e.Key, e.Value)
		}
	}

	c.Set(KeyDefines, linkcache.List(state.Defines()...))
	c.Set(KeyEnabled, linkcache.List(state.EnabledNames()...))
	c.Set(KeyDisabled, linkcache.List(state.DisabledNames()...))

	for _, o := range state.Outcomes() {
		if o.Status != features.Enabled || len(o.Libs) == 0 {
			continue
		}
		c.Set("LIB_"+features.VarName(o.Name), linkcache.List(o.Libs...))
	}

	for _, tmpl := range Templates {
		if !c.Has(tmpl.Key) {
			c.Set(tmpl.Key, tmpl.Value)
		}
	}

	return c
}
