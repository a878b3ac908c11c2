package staticlink

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/featlink/pkg/buildenv"
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/arthur-debert/featlink/pkg/types"
	"github.com/rs/zerolog"
)

// Rewriter turns dynamic link variables into static archive paths
type Rewriter struct {
	cfg         Config
	fs          types.FS
	finder      *Finder
	neverStatic map[string]bool
	sentinels   map[string]bool
	logger      zerolog.Logger
}

// NewRewriter creates a rewriter searching fs with cfg
func NewRewriter(fs types.FS, cfg Config) *Rewriter {
	r := &Rewriter{
		cfg:         cfg,
		fs:          fs,
		finder:      NewFinder(fs),
		neverStatic: make(map[string]bool, len(cfg.NeverStatic)),
		sentinels:   make(map[string]bool, len(cfg.Sentinels)),
		logger:      logging.GetLogger("staticlink.rewriter"),
	}
	for _, lib := range cfg.NeverStatic {
		r.neverStatic[lib] = true
	}
	for _, key := range cfg.Sentinels {
		r.sentinels[key] = true
	}
	return r
}

// Rewrite returns a rewritten copy of cache. Each produced entry is also set
// in env when env is not nil. Output keys are ordered by first production and
// tokens keep their input order within a key.
func (r *Rewriter) Rewrite(ctx context.Context, cache *linkcache.Cache, env *buildenv.Env) (*linkcache.Cache, *Report, error) {
	done := logging.LogOperationStart(r.logger, "static link rewrite")
	defer done()

	out := linkcache.New()
	report := &Report{}

	for _, entry := range cache.Entries() {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		key, v := entry.Key, entry.Value
		switch {
		case key == r.cfg.StaticFormatKey && r.cfg.StaticFormatKey != "":
			out.Set(key, linkcache.Scalar(r.cfg.StaticFormat))
		case r.sentinels[key]:
			out.Set(key, v)
		case r.excluded(key):
			out.Set(key, linkcache.List())
			report.Cleared = append(report.Cleared, key)
		case v.IsList() && isLinkKey(key):
			if err := r.rewriteEntry(ctx, key, v.Tokens, out, report); err != nil {
				return nil, report, err
			}
		default:
			out.Set(key, v)
		}
	}

	if env != nil {
		env.Merge(out)
	}

	r.logger.Info().
		Int("tokens", len(report.Records)).
		Int("static", report.Static()).
		Int("cleared", len(report.Cleared)).
		Msg("Link variables rewritten")

	return out, report, nil
}

// rewriteEntry classifies every token of one link variable. A cancelled
// context aborts the entry so a half-searched cache is never returned.
func (r *Rewriter) rewriteEntry(ctx context.Context, key string, tokens []string, out *linkcache.Cache, report *Report) error {
	name := logicalName(key)

	// An empty list still produces its key.
	if len(tokens) == 0 && !out.Has(key) {
		out.Set(key, linkcache.List())
	}

	for _, token := range tokens {
		class, result, err := r.classify(ctx, name, token)
		if err != nil {
			return err
		}

		target := DynamicPrefix + name
		if class.Static() {
			target = StaticPrefix + name
		}
		// The combined archive of a special case stands in for all its tokens.
		if class != ClassSpecial || !holds(out, target, result) {
			out.Append(target, result)
		}

		report.add(Record{Key: key, Name: name, Token: token, Class: class, Result: result, Target: target})
		r.logger.Debug().
			Str("key", key).
			Str("token", token).
			Str("class", string(class)).
			Str("result", result).
			Msg("Token classified")
	}
	return nil
}

func holds(c *linkcache.Cache, key, token string) bool {
	v, ok := c.Get(key)
	if !ok {
		return false
	}
	for _, t := range v.Tokens {
		if t == token {
			return true
		}
	}
	return false
}

// classify decides where a single token goes and what it becomes. The only
// error is the context's.
func (r *Rewriter) classify(ctx context.Context, name, token string) (Class, string, error) {
	if r.isStaticPath(token) {
		return ClassExistingStatic, token, nil
	}
	if r.neverStatic[token] {
		return ClassNeverStatic, token, nil
	}
	if path, ok := r.cfg.Special[name]; ok {
		return ClassSpecial, path, nil
	}
	path, ok, err := r.finder.FindFirst(ctx, r.cfg.SearchRoots, token)
	switch {
	case err != nil:
		return "", "", err
	case ok:
		return ClassFound, path, nil
	}
	return ClassFallback, token, nil
}

// isStaticPath accepts absolute archives below a static prefix or a search
// root, so that anything the finder returns is recognised on the next run.
func (r *Rewriter) isStaticPath(token string) bool {
	if !filepath.IsAbs(token) || !strings.HasSuffix(token, ".a") {
		return false
	}
	token = filepath.Clean(token)
	if underAny(token, r.cfg.StaticPrefixes) {
		return true
	}
	for _, root := range r.cfg.SearchRoots {
		if underAny(token, []string{root.Dir}) {
			return true
		}
	}
	return false
}

func (r *Rewriter) excluded(key string) bool {
	for _, pattern := range r.cfg.ExcludePatterns {
		if ok, _ := filepath.Match(pattern, key); ok {
			return true
		}
	}
	return false
}

// RewriteFile rewrites the cache file at path in place. The previous file is
// copied to path+BackupSuffix first and the result is appended entry by entry
// to the truncated original.
func (r *Rewriter) RewriteFile(ctx context.Context, path string, env *buildenv.Env) (*Report, error) {
	cache, err := linkcache.Read(r.fs, path)
	if err != nil {
		return nil, err
	}

	backup, err := linkcache.Backup(r.fs, path, r.cfg.BackupSuffix)
	if err != nil {
		return nil, err
	}
	r.logger.Info().Str("path", path).Str("backup", backup).Msg("Cache backed up")

	out, report, err := r.Rewrite(ctx, cache, env)
	if err != nil {
		return report, err
	}
	report.Backup = backup

	if err := linkcache.Write(r.fs, path, out); err != nil {
		return report, err
	}
	return report, nil
}

func isLinkKey(key string) bool {
	return strings.HasPrefix(key, DynamicPrefix) || strings.HasPrefix(key, StaticPrefix)
}

func logicalName(key string) string {
	if strings.HasPrefix(key, StaticPrefix) {
		return strings.TrimPrefix(key, StaticPrefix)
	}
	return strings.TrimPrefix(key, DynamicPrefix)
}
