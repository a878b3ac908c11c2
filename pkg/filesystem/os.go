package filesystem

import (
	"io"
	"io/fs"
	"os"

	"github.com/arthur-debert/featlink/pkg/types"
)

// OS is the real filesystem. Paths are passed to the os package unchanged.
type OS struct{}

var _ types.FS = OS{}

// NewOS returns the real filesystem as a types.FS
func NewOS() types.FS {
	return OS{}
}

func (OS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (OS) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

func (OS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (OS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (OS) Readlink(name string) (string, error) {
	return os.Readlink(name)
}

func (OS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// OpenFile returns the *os.File as a writer; the cache appender only writes
func (OS) OpenFile(name string, flag int, perm fs.FileMode) (io.WriteCloser, error) {
	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (OS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OS) Symlink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

func (OS) Remove(name string) error {
	return os.Remove(name)
}
