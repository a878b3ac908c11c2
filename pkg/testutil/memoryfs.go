package testutil

import (
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// maxLinkHops bounds symlink resolution in Stat and ReadFile
const maxLinkHops = 40

// MemoryFS is an in-memory types.FS. Paths are kept in a flat map keyed by
// their cleaned absolute form; relative paths are taken from "/". Symlinks
// are resolved only at the final path element, which is all the walkers in
// this module rely on.
type MemoryFS struct {
	mu     sync.Mutex
	nodes  map[string]*memNode
	faults map[string]error

	reads  int
	writes int
}

type memNode struct {
	mode    fs.FileMode
	data    []byte
	target  string
	modTime time.Time
}

func (n *memNode) isDir() bool  { return n.mode.IsDir() }
func (n *memNode) isLink() bool { return n.mode&fs.ModeSymlink != 0 }

// NewMemoryFS returns a filesystem holding only the root directory
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		nodes:  map[string]*memNode{"/": {mode: fs.ModeDir | 0755, modTime: time.Now()}},
		faults: make(map[string]error),
	}
}

// WithError makes every operation on path fail with err, whether or not
// path exists
func (m *MemoryFS) WithError(p string, err error) *MemoryFS {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.faults[clean(p)] = err
	return m
}

// Stats returns the number of file reads and writes performed
func (m *MemoryFS) Stats() (reads, writes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads, m.writes
}

func clean(p string) string {
	return path.Clean("/" + p)
}

func pathErr(op, p string, err error) error {
	return &fs.PathError{Op: op, Path: p, Err: err}
}

// lookup returns the node at p without following links. Injected faults win.
func (m *MemoryFS) lookup(op, p string) (*memNode, error) {
	if err, ok := m.faults[p]; ok {
		return nil, err
	}
	n, ok := m.nodes[p]
	if !ok {
		return nil, pathErr(op, p, fs.ErrNotExist)
	}
	return n, nil
}

// follow resolves links at the final element of p
func (m *MemoryFS) follow(op, p string) (string, *memNode, error) {
	for hops := 0; ; hops++ {
		n, err := m.lookup(op, p)
		if err != nil {
			return "", nil, err
		}
		if !n.isLink() {
			return p, n, nil
		}
		if hops >= maxLinkHops {
			return "", nil, pathErr(op, p, syscall.ELOOP)
		}
		target := n.target
		if !path.IsAbs(target) {
			target = path.Join(path.Dir(p), target)
		}
		p = clean(target)
	}
}

// parentDir requires the parent of p to be an existing directory
func (m *MemoryFS) parentDir(op, p string) error {
	parent, err := m.lookup(op, path.Dir(p))
	if err != nil {
		return err
	}
	if !parent.isDir() {
		return pathErr(op, p, syscall.ENOTDIR)
	}
	return nil
}

func (m *MemoryFS) mkdirAll(p string, perm fs.FileMode) error {
	n, err := m.lookup("mkdir", p)
	if err == nil {
		if !n.isDir() {
			return pathErr("mkdir", p, syscall.ENOTDIR)
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	if p != "/" {
		if err := m.mkdirAll(path.Dir(p), perm); err != nil {
			return err
		}
	}
	m.nodes[p] = &memNode{mode: fs.ModeDir | perm.Perm(), modTime: time.Now()}
	return nil
}

// Stat returns file info, following a symlink at the final path element
func (m *MemoryFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := clean(name)
	_, n, err := m.follow("stat", p)
	if err != nil {
		return nil, err
	}
	return &memInfo{name: path.Base(p), node: n}, nil
}

// Lstat returns file info without following symlinks
func (m *MemoryFS) Lstat(name string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := clean(name)
	n, err := m.lookup("lstat", p)
	if err != nil {
		return nil, err
	}
	return &memInfo{name: path.Base(p), node: n}, nil
}

// ReadFile returns a copy of the file content, following symlinks
func (m *MemoryFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reads++
	_, n, err := m.follow("read", clean(name))
	if err != nil {
		return nil, err
	}
	if n.isDir() {
		return nil, pathErr("read", name, syscall.EISDIR)
	}
	return append([]byte(nil), n.data...), nil
}

// WriteFile replaces the file content. Missing parent directories are created.
func (m *MemoryFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	p := clean(name)
	if err, ok := m.faults[p]; ok {
		return err
	}
	if n, ok := m.nodes[p]; ok && n.isDir() {
		return pathErr("write", name, syscall.EISDIR)
	}
	if err := m.mkdirAll(path.Dir(p), 0755); err != nil {
		return err
	}

	m.nodes[p] = &memNode{mode: perm.Perm(), data: append([]byte(nil), data...), modTime: time.Now()}
	return nil
}

// OpenFile opens a file for writing. O_CREATE, O_TRUNC and O_APPEND are
// honoured; the parent directory must exist.
func (m *MemoryFS) OpenFile(name string, flag int, perm fs.FileMode) (io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := clean(name)
	n, err := m.lookup("open", p)
	switch {
	case err == nil:
	case os.IsNotExist(err) && flag&os.O_CREATE != 0:
		if err := m.parentDir("open", p); err != nil {
			return nil, err
		}
		n = &memNode{mode: perm.Perm(), modTime: time.Now()}
		m.nodes[p] = n
	default:
		return nil, err
	}

	if n.isDir() {
		return nil, pathErr("open", name, syscall.EISDIR)
	}
	if flag&os.O_TRUNC != 0 {
		n.data = nil
	}
	return &memWriter{fs: m, node: n, append: flag&os.O_APPEND != 0}, nil
}

// MkdirAll creates p and any missing parents
func (m *MemoryFS) MkdirAll(p string, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.mkdirAll(clean(p), perm)
}

// ReadDir lists the direct children of a directory sorted by name
func (m *MemoryFS) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir, n, err := m.follow("readdir", clean(name))
	if err != nil {
		return nil, err
	}
	if !n.isDir() {
		return nil, pathErr("readdir", name, syscall.ENOTDIR)
	}

	prefix := strings.TrimSuffix(dir, "/") + "/"
	var entries []fs.DirEntry
	for p, child := range m.nodes {
		if p == dir || !strings.HasPrefix(p, prefix) || strings.Contains(p[len(prefix):], "/") {
			continue
		}
		entries = append(entries, fs.FileInfoToDirEntry(&memInfo{name: path.Base(p), node: child}))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// Symlink creates link pointing at target. The target need not exist.
func (m *MemoryFS) Symlink(target, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := clean(link)
	if _, ok := m.nodes[p]; ok {
		return pathErr("symlink", link, fs.ErrExist)
	}
	if err := m.parentDir("symlink", p); err != nil {
		return err
	}
	m.nodes[p] = &memNode{mode: fs.ModeSymlink | 0777, target: target, modTime: time.Now()}
	return nil
}

// Readlink returns the target of a symlink as written
func (m *MemoryFS) Readlink(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, err := m.lookup("readlink", clean(name))
	if err != nil {
		return "", err
	}
	if !n.isLink() {
		return "", pathErr("readlink", name, syscall.EINVAL)
	}
	return n.target, nil
}

// Remove deletes a file, a link or an empty directory
func (m *MemoryFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := clean(name)
	n, err := m.lookup("remove", p)
	if err != nil {
		return err
	}
	if n.isDir() {
		prefix := strings.TrimSuffix(p, "/") + "/"
		for other := range m.nodes {
			if other != p && strings.HasPrefix(other, prefix) {
				return pathErr("remove", name, syscall.ENOTEMPTY)
			}
		}
	}
	delete(m.nodes, p)
	return nil
}

// memWriter writes into a node. Without O_APPEND, writes continue from the
// end of the previous write.
type memWriter struct {
	fs     *MemoryFS
	node   *memNode
	append bool
	offset int
}

func (w *memWriter) Write(b []byte) (int, error) {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()

	w.fs.writes++
	if w.append {
		w.node.data = append(w.node.data, b...)
	} else {
		if end := w.offset + len(b); end > len(w.node.data) {
			w.node.data = append(w.node.data, make([]byte, end-len(w.node.data))...)
		}
		copy(w.node.data[w.offset:], b)
		w.offset += len(b)
	}
	w.node.modTime = time.Now()
	return len(b), nil
}

func (w *memWriter) Close() error { return nil }

type memInfo struct {
	name string
	node *memNode
}

func (i *memInfo) Name() string       { return i.name }
func (i *memInfo) Size() int64        { return int64(len(i.node.data)) }
func (i *memInfo) Mode() fs.FileMode  { return i.node.mode }
func (i *memInfo) ModTime() time.Time { return i.node.modTime }
func (i *memInfo) IsDir() bool        { return i.node.isDir() }
func (i *memInfo) Sys() interface{}   { return nil }
