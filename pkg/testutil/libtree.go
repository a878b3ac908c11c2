package testutil

import (
	"testing"
)

// ArchiveMagic is the content written for fake static archives
const ArchiveMagic = "!<arch>\n"

// NewLibraryFS returns a MemoryFS holding an empty static archive at each path.
// Parent directories are created as needed.
func NewLibraryFS(t *testing.T, archives ...string) *MemoryFS {
	t.Helper()

	fs := NewMemoryFS()
	for _, path := range archives {
		if err := fs.WriteFile(path, []byte(ArchiveMagic), 0644); err != nil {
			t.Fatalf("failed to create archive %s: %v", path, err)
		}
	}
	return fs
}

// MustSymlink creates a symlink in the memory filesystem or fails the test
func (m *MemoryFS) MustSymlink(t *testing.T, target, link string) {
	t.Helper()

	if err := m.Symlink(target, link); err != nil {
		t.Fatalf("failed to create symlink %s -> %s: %v", link, target, err)
	}
}

// MustWriteFile writes content to path or fails the test
func (m *MemoryFS) MustWriteFile(t *testing.T, path, content string) {
	t.Helper()

	if err := m.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
