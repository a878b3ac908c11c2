package linkcache

import (
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/arthur-debert/featlink/pkg/types"
)

// DefaultBackupSuffix is appended to the cache path by Backup
const DefaultBackupSuffix = ".bak"

// Read loads the cache at path. A missing file is a CACHE_MISSING error.
func Read(fs types.FS, path string) (*Cache, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		msg := "cannot read cache %s"
		if os.IsNotExist(err) {
			msg = "cache %s does not exist, run configure first"
		}
		return nil, errors.Wrapf(err, errors.ErrCacheMissing, msg, path).
			WithDetail("path", path)
	}

	c, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	logger := logging.GetLogger("linkcache")
	logger.Debug().
		Str("path", path).
		Int("entries", c.Len()).
		Msg("Cache loaded")
	return c, nil
}

// Backup copies path to path+suffix and returns the backup path.
// An empty suffix means DefaultBackupSuffix.
func Backup(fs types.FS, path, suffix string) (string, error) {
	if suffix == "" {
		suffix = DefaultBackupSuffix
	}
	backup := path + suffix

	data, err := fs.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrCacheMissing, "cannot back up cache %s", path).
			WithDetail("path", path)
	}

	info, err := fs.Stat(path)
	perm := os.FileMode(0644)
	if err == nil {
		perm = info.Mode().Perm()
	}

	if err := fs.WriteFile(backup, data, perm); err != nil {
		return "", errors.Wrapf(err, errors.ErrCacheWrite, "cannot write backup %s", backup).
			WithDetail("path", backup)
	}
	return backup, nil
}

// Appender writes cache entries to a file one line at a time
type Appender struct {
	path    string
	w       io.WriteCloser
	written int
}

// Create truncates path, creating it and its directory when needed,
// and returns an Appender positioned at the end of the empty file.
func Create(fs types.FS, path string) (*Appender, error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCacheWrite, "cannot create directory for %s", path).
			WithDetail("path", path)
	}

	w, err := fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCacheWrite, "cannot open cache %s", path).
			WithDetail("path", path)
	}
	return &Appender{path: path, w: w}, nil
}

// Append writes a single entry
func (a *Appender) Append(key string, v Value) error {
	line, err := EncodeLine(key, v)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCacheWrite, "cannot encode %s for %s", key, a.path).
			WithDetail("path", a.path).
			WithDetail("key", key)
	}
	if _, err := io.WriteString(a.w, line+"\n"); err != nil {
		return errors.Wrapf(err, errors.ErrCacheWrite, "cannot write %s", a.path).
			WithDetail("path", a.path)
	}
	a.written++
	return nil
}

// Written returns the number of entries appended so far
func (a *Appender) Written() int {
	return a.written
}

// Close closes the underlying file
func (a *Appender) Close() error {
	if err := a.w.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrCacheWrite, "cannot close %s", a.path).
			WithDetail("path", a.path)
	}
	return nil
}

// Write replaces the file at path with the entries of c
func Write(fs types.FS, path string, c *Cache) (err error) {
	a, err := Create(fs, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); err == nil {
			err = cerr
		}
	}()

	for _, e := range c.Entries() {
		if err := a.Append(e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}
