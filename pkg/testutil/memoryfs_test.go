// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test MemoryFS implementation

package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFS_BasicOperations(t *testing.T) {
	fs := NewMemoryFS()

	t.Run("WriteAndRead", func(t *testing.T) {
		require.NoError(t, fs.WriteFile("/build/c4che/_cache.py", []byte("LIB_m = ['m']\n"), 0644))

		content, err := fs.ReadFile("/build/c4che/_cache.py")
		require.NoError(t, err)
		assert.Equal(t, "LIB_m = ['m']\n", string(content))
	})

	t.Run("MkdirAll", func(t *testing.T) {
		require.NoError(t, fs.MkdirAll("/usr/lib64/pkgconfig", 0755))

		info, err := fs.Stat("/usr/lib64/pkgconfig")
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("Symlink", func(t *testing.T) {
		fs.MustWriteFile(t, "/usr/lib/libz.so.1.3", "")
		fs.MustSymlink(t, "libz.so.1.3", "/usr/lib/libz.so")

		dest, err := fs.Readlink("/usr/lib/libz.so")
		require.NoError(t, err)
		assert.Equal(t, "libz.so.1.3", dest)
	})

	t.Run("Remove", func(t *testing.T) {
		fs.MustWriteFile(t, "/tmp/stale.bak", "x")
		require.NoError(t, fs.Remove("/tmp/stale.bak"))

		_, err := fs.Stat("/tmp/stale.bak")
		assert.True(t, os.IsNotExist(err))
	})
}

func TestMemoryFS_ErrorInjection(t *testing.T) {
	fs := NewLibraryFS(t, "/usr/lib/libass.a")
	fs.WithError("/usr/lib", os.ErrPermission)

	_, err := fs.ReadDir("/usr/lib")
	assert.ErrorIs(t, err, os.ErrPermission)

	_, err = fs.Stat("/usr/lib")
	assert.ErrorIs(t, err, os.ErrPermission)

	fs.WithError("/build/cache.py", os.ErrPermission)
	assert.ErrorIs(t, fs.WriteFile("/build/cache.py", []byte("x"), 0644), os.ErrPermission)
}

func TestMemoryFS_Stats(t *testing.T) {
	fs := NewMemoryFS()

	reads, writes := fs.Stats()
	assert.Zero(t, reads)
	assert.Zero(t, writes)

	fs.MustWriteFile(t, "/build/cache.py", "LIB_x = ['x']\n")
	_, _ = fs.ReadFile("/build/cache.py")
	_, _ = fs.ReadFile("/build/cache.py")

	reads, writes = fs.Stats()
	assert.Equal(t, 2, reads)
	assert.Equal(t, 1, writes)
}

func TestMemoryFS_OpenFile(t *testing.T) {
	fs := NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/build/c4che", 0755))

	w, err := fs.OpenFile("/build/c4che/_cache.py", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = w.Write([]byte("LIB_foo = ['foo']\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w, err = fs.OpenFile("/build/c4che/_cache.py", os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = w.Write([]byte("LIB_bar = ['bar']\n"))
	require.NoError(t, err)

	content, err := fs.ReadFile("/build/c4che/_cache.py")
	require.NoError(t, err)
	assert.Equal(t, "LIB_foo = ['foo']\nLIB_bar = ['bar']\n", string(content))

	_, err = fs.OpenFile("/build/missing.py", os.O_WRONLY, 0644)
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryFS_StatFollowsSymlinks(t *testing.T) {
	fs := NewLibraryFS(t, "/opt/cuda/lib64/libcudart_static.a")
	require.NoError(t, fs.MkdirAll("/usr/lib64", 0755))
	fs.MustSymlink(t, "/opt/cuda/lib64", "/usr/lib64/cuda")

	info, err := fs.Stat("/usr/lib64/cuda")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	linfo, err := fs.Lstat("/usr/lib64/cuda")
	require.NoError(t, err)
	assert.NotZero(t, linfo.Mode()&os.ModeSymlink)

	entries, err := fs.ReadDir("/usr/lib64")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cuda", entries[0].Name())
}

func TestMemoryFS_ReadDirSorted(t *testing.T) {
	fs := NewLibraryFS(t, "/usr/lib/libz.a", "/usr/lib/liba.a", "/usr/lib/libm.a")

	entries, err := fs.ReadDir("/usr/lib")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"liba.a", "libm.a", "libz.a"}, names)
}
