package staticlink

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/arthur-debert/featlink/pkg/types"
	"github.com/rs/zerolog"
)

const (
	maxLinkHops  = 40
	maxWalkDepth = 64
)

var errTooManyLinks = stderrors.New("too many levels of symbolic links")

// Finder locates static archives by walking search roots. Symbolic links to
// directories are followed; each real directory is visited once per walk.
type Finder struct {
	fs     types.TreeReader
	logger zerolog.Logger
}

// NewFinder creates a finder over fs
func NewFinder(fs types.TreeReader) *Finder {
	return &Finder{
		fs:     fs,
		logger: logging.GetLogger("staticlink.finder"),
	}
}

// ArchiveNames returns the file names accepted for token
func ArchiveNames(token string) []string {
	return []string{"lib" + token + ".a", "lib" + token + "_static.a"}
}

// Find walks root for an archive of token. The returned path is built from
// root.Dir and the names walked, not from resolved link targets. An unreadable
// root yields a SEARCH_ROOT error.
func (f *Finder) Find(ctx context.Context, root SearchRoot, token string) (string, bool, error) {
	anchors := root.Anchors
	if len(anchors) == 0 {
		anchors = []string{root.Dir}
	}

	w := &walk{
		finder:  f,
		ctx:     ctx,
		names:   ArchiveNames(token),
		anchors: anchors,
		visited: make(map[string]bool),
	}

	realDir, err := f.resolve(root.Dir)
	if err == nil {
		var entries []fs.DirEntry
		if entries, err = f.fs.ReadDir(realDir); err == nil {
			path, ok := w.dir(filepath.Clean(root.Dir), realDir, entries, 0)
			return path, ok, ctx.Err()
		}
	}

	return "", false, errors.Wrapf(err, errors.ErrSearchRoot, "cannot walk search root %s", root.Dir).
		WithDetail("root", root.Dir)
}

// FindFirst tries each root in order and returns the first match. Unreadable
// roots are logged and skipped; only cancellation of ctx is returned as an
// error, and then no match is reported even if one was found.
func (f *Finder) FindFirst(ctx context.Context, roots []SearchRoot, token string) (string, bool, error) {
	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return "", false, err
		}
		path, ok, err := f.Find(ctx, root, token)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", false, ctxErr
		}
		if err != nil {
			f.logger.Warn().Err(err).Str("root", root.Dir).Str("token", token).Msg("Skipping search root")
			continue
		}
		if ok {
			return path, true, nil
		}
	}
	return "", false, nil
}

type walk struct {
	finder  *Finder
	ctx     context.Context
	names   []string
	anchors []string
	visited map[string]bool
}

// dir checks the files of one directory, then descends into its
// subdirectories in name order.
func (w *walk) dir(logical, realDir string, entries []fs.DirEntry, depth int) (string, bool) {
	w.visited[realDir] = true

	type subdir struct{ logical, real string }
	var subdirs []subdir

	for _, entry := range entries {
		name := entry.Name()
		childLogical := filepath.Join(logical, name)
		childReal := filepath.Join(realDir, name)

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := w.finder.resolve(childReal)
			if err != nil {
				w.finder.logger.Debug().Err(err).Str("path", childLogical).Msg("Dangling link")
				continue
			}
			info, err := w.finder.fs.Stat(target)
			if err != nil {
				continue
			}
			childReal = target
			isDir = info.IsDir()
		}

		if isDir {
			subdirs = append(subdirs, subdir{childLogical, childReal})
			continue
		}
		if w.matches(name, childLogical) {
			return childLogical, true
		}
	}

	if depth >= maxWalkDepth {
		return "", false
	}

	for _, sd := range subdirs {
		if w.ctx.Err() != nil {
			return "", false
		}
		if w.visited[sd.real] {
			continue
		}
		entries, err := w.finder.fs.ReadDir(sd.real)
		if err != nil {
			w.finder.logger.Debug().Err(err).Str("path", sd.logical).Msg("Skipping unreadable directory")
			continue
		}
		if path, ok := w.dir(sd.logical, sd.real, entries, depth+1); ok {
			return path, true
		}
	}
	return "", false
}

func (w *walk) matches(name, path string) bool {
	for _, n := range w.names {
		if name == n {
			return underAny(path, w.anchors)
		}
	}
	return false
}

// resolve follows a chain of symbolic links starting at path
func (f *Finder) resolve(path string) (string, error) {
	path = filepath.Clean(path)
	for hops := 0; ; hops++ {
		info, err := f.fs.Lstat(path)
		if err != nil {
			return "", err
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}
		if hops >= maxLinkHops {
			return "", &fs.PathError{Op: "resolve", Path: path, Err: errTooManyLinks}
		}
		target, err := f.fs.Readlink(path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = filepath.Clean(target)
	}
}

// underAny reports whether path lies strictly below one of dirs
func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if dir == "/" || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
