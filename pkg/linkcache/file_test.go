// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS, afero MemMapFs
// PURPOSE: Test cache persistence, backup and append-mode writing

package linkcache_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/filesystem"
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead_Missing(t *testing.T) {
	_, err := linkcache.Read(testutil.NewMemoryFS(), "/build/c4che/_cache.py")
	require.Error(t, err)

	assert.True(t, errors.IsErrorCode(err, errors.ErrCacheMissing))
	assert.Contains(t, err.Error(), "/build/c4che/_cache.py")
	assert.Contains(t, err.Error(), "run configure first")
	assert.True(t, errors.IsFatal(err))
}

func TestRead_Parses(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.MustWriteFile(t, "/build/cache", "LIB_m = ['m']\nSTLIB_ST = '%s'\n")

	c, err := linkcache.Read(fs, "/build/cache")
	require.NoError(t, err)
	assert.Equal(t, []string{"LIB_m", "STLIB_ST"}, c.Keys())
}

func TestBackup(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.MustWriteFile(t, "/build/cache", "LIB_m = ['m']\n")

	backup, err := linkcache.Backup(fs, "/build/cache", "")
	require.NoError(t, err)
	assert.Equal(t, "/build/cache.bak", backup)

	data, err := fs.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "LIB_m = ['m']\n", string(data))

	custom, err := linkcache.Backup(fs, "/build/cache", ".orig")
	require.NoError(t, err)
	assert.Equal(t, "/build/cache.orig", custom)
}

func TestBackup_MissingSource(t *testing.T) {
	_, err := linkcache.Backup(testutil.NewMemoryFS(), "/build/cache", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrCacheMissing))
}

func TestBackup_WriteFailure(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.MustWriteFile(t, "/build/cache", "")
	fs.WithError("/build/cache.bak", stderrors.New("read-only filesystem"))

	_, err := linkcache.Backup(fs, "/build/cache", "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrCacheWrite))
}

func TestAppender_TruncatesThenAppends(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.MustWriteFile(t, "/build/cache", "OLD = ['stale']\n")

	a, err := linkcache.Create(fs, "/build/cache")
	require.NoError(t, err)
	require.NoError(t, a.Append("LIB_m", linkcache.List("m")))
	require.NoError(t, a.Append("STLIB_ST", linkcache.Scalar("%s")))
	assert.Equal(t, 2, a.Written())
	require.NoError(t, a.Close())

	c, err := linkcache.Read(fs, "/build/cache")
	require.NoError(t, err)
	assert.Equal(t, []string{"LIB_m", "STLIB_ST"}, c.Keys())
	assert.False(t, c.Has("OLD"))
}

func TestAppender_OpenFailure(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.WithError("/build/cache", stderrors.New("permission denied"))

	_, err := linkcache.Create(fs, "/build/cache")
	assert.True(t, errors.IsErrorCode(err, errors.ErrCacheWrite))
}

func TestWrite_CreatesDirectory(t *testing.T) {
	fs := filesystem.NewAferoFS(afero.NewMemMapFs())

	c := linkcache.New()
	c.Set("DEFINES", linkcache.List("HAVE_GL=1"))
	c.Set("LIB_gl", linkcache.List("GL"))

	require.NoError(t, linkcache.Write(fs, "/tmp/build/c4che/_cache.py", c))

	read, err := linkcache.Read(fs, "/tmp/build/c4che/_cache.py")
	require.NoError(t, err)
	assert.True(t, c.Equal(read))
}
