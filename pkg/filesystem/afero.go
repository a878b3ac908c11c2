package filesystem

import (
	"io"
	"io/fs"
	"os"
	"syscall"

	"github.com/arthur-debert/featlink/pkg/types"
	"github.com/spf13/afero"
)

// Afero adapts an afero.Fs to types.FS. Link operations are forwarded when
// the backend implements them and fail with afero.ErrNoSymlink or
// afero.ErrNoReadlink otherwise; Lstat degrades to Stat.
type Afero struct {
	afero.Afero
}

var _ types.FS = (*Afero)(nil)

// NewAferoFS wraps backend, typically afero.NewMemMapFs in tests or a
// BasePathFs over the OS to confine a search tree
func NewAferoFS(backend afero.Fs) *Afero {
	return &Afero{Afero: afero.Afero{Fs: backend}}
}

// ReadFile refuses directories, which some backends read as empty
func (a *Afero) ReadFile(name string) ([]byte, error) {
	isDir, err := a.IsDir(name)
	if err != nil {
		return nil, err
	}
	if isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: syscall.EISDIR}
	}
	return a.Afero.ReadFile(name)
}

func (a *Afero) OpenFile(name string, flag int, perm fs.FileMode) (io.WriteCloser, error) {
	f, err := a.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ReadDir lists name sorted by entry name
func (a *Afero) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := a.Afero.ReadDir(name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, nil
}

func (a *Afero) Symlink(target, link string) error {
	linker, ok := a.Fs.(afero.Linker)
	if !ok {
		return &os.LinkError{Op: "symlink", Old: target, New: link, Err: afero.ErrNoSymlink}
	}
	return linker.SymlinkIfPossible(target, link)
}

func (a *Afero) Readlink(name string) (string, error) {
	reader, ok := a.Fs.(afero.LinkReader)
	if !ok {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
	}
	return reader.ReadlinkIfPossible(name)
}

func (a *Afero) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := a.Fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(name)
		return info, err
	}
	return a.Fs.Stat(name)
}
