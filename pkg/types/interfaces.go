package types

import (
	"io"
	"io/fs"
)

// TreeReader is the read side of FS. The archive finder, the capability
// probes and the declaration loader only need this much.
type TreeReader interface {
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	Readlink(name string) (string, error)
}

// TreeWriter is the write side of FS used by the cache store
type TreeWriter interface {
	WriteFile(name string, data []byte, perm fs.FileMode) error
	// OpenFile follows os.OpenFile flag semantics; cache entries are
	// appended one line at a time through it.
	OpenFile(name string, flag int, perm fs.FileMode) (io.WriteCloser, error)
	MkdirAll(path string, perm fs.FileMode) error
	Symlink(target, link string) error
	Remove(name string) error
}

// FS is a filesystem featlink can both search and write caches to
type FS interface {
	TreeReader
	TreeWriter
}
