// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS
// PURPOSE: Test classification of link tokens, idempotence and cache file replacement

package staticlink_test

import (
	"context"
	stderrors "errors"
	iofs "io/fs"
	"testing"

	"github.com/arthur-debert/featlink/pkg/buildenv"
	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/staticlink"
	"github.com/arthur-debert/featlink/pkg/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(key string, tokens ...string) linkcache.Entry {
	return linkcache.Entry{Key: key, Value: linkcache.List(tokens...)}
}

func scalar(key, s string) linkcache.Entry {
	return linkcache.Entry{Key: key, Value: linkcache.Scalar(s)}
}

func rewrite(t *testing.T, fs *testutil.MemoryFS, entries ...linkcache.Entry) (*linkcache.Cache, *staticlink.Report) {
	t.Helper()

	rw := staticlink.NewRewriter(fs, staticlink.DefaultConfig())
	out, report, err := rw.Rewrite(context.Background(), linkcache.FromEntries(entries...), nil)
	require.NoError(t, err)
	return out, report
}

func assertEntries(t *testing.T, want []linkcache.Entry, got *linkcache.Cache) {
	t.Helper()
	if diff := cmp.Diff(want, got.Entries()); diff != "" {
		t.Errorf("rewritten cache mismatch (-want +got):\n%s", diff)
	}
}

func TestRewrite_FoundArchive(t *testing.T) {
	fs := testutil.NewLibraryFS(t, "/usr/lib64/libfoo.a")

	out, report := rewrite(t, fs, entry("LIB_foo", "foo"))

	assertEntries(t, []linkcache.Entry{entry("STLIB_foo", "/usr/lib64/libfoo.a")}, out)
	require.Len(t, report.Records, 1)
	assert.Equal(t, staticlink.ClassFound, report.Records[0].Class)
	assert.Equal(t, "STLIB_foo", report.Records[0].Target)
}

func TestRewrite_NoArchiveFallsBack(t *testing.T) {
	fs := testutil.NewLibraryFS(t, "/usr/lib64/libbar.a")

	out, report := rewrite(t, fs, entry("LIB_foo", "foo"))

	assertEntries(t, []linkcache.Entry{entry("LIB_foo", "foo")}, out)
	assert.Equal(t, 1, report.Count(staticlink.ClassFallback))
}

func TestRewrite_NeverStaticStaysDynamic(t *testing.T) {
	fs := testutil.NewLibraryFS(t,
		"/usr/lib/libm.a",
		"/usr/lib/libpthread.a",
		"/usr/lib/libdl.a",
		"/usr/lib64/libGL.a",
	)

	out, report := rewrite(t, fs, entry("LIB_libm", "m", "pthread", "dl"), entry("LIB_gl", "GL"))

	assertEntries(t, []linkcache.Entry{
		entry("LIB_libm", "m", "pthread", "dl"),
		entry("LIB_gl", "GL"),
	}, out)
	assert.Equal(t, 4, report.Count(staticlink.ClassNeverStatic))
	assert.Equal(t, 0, report.Static())
}

func TestRewrite_SpecialCase(t *testing.T) {
	out, report := rewrite(t, testutil.NewMemoryFS(), entry("LIB_shaderc", "shaderc_shared"))

	assertEntries(t, []linkcache.Entry{entry("STLIB_shaderc", "/usr/lib/libshaderc_combined.a")}, out)
	assert.Equal(t, 1, report.Count(staticlink.ClassSpecial))
}

func TestRewrite_SpecialCaseEmittedOncePerKey(t *testing.T) {
	out, report := rewrite(t, testutil.NewMemoryFS(), entry("LIB_shaderc", "shaderc_shared", "glslang", "m"))

	assertEntries(t, []linkcache.Entry{
		entry("STLIB_shaderc", "/usr/lib/libshaderc_combined.a"),
		entry("LIB_shaderc", "m"),
	}, out)
	assert.Equal(t, 2, report.Count(staticlink.ClassSpecial))
}

func TestRewrite_ExistingStaticPassesThrough(t *testing.T) {
	out, report := rewrite(t, testutil.NewMemoryFS(),
		entry("STLIB_ass", "/usr/lib/libass.a"),
		entry("LIB_vendor", "/opt/cuda/lib64/libnpps_static.a"),
		entry("LIB_rel", "libfoo.a"),
	)

	assertEntries(t, []linkcache.Entry{
		entry("STLIB_ass", "/usr/lib/libass.a"),
		entry("STLIB_vendor", "/opt/cuda/lib64/libnpps_static.a"),
		entry("LIB_rel", "libfoo.a"),
	}, out)
	assert.Equal(t, 2, report.Count(staticlink.ClassExistingStatic))
}

func TestRewrite_MixedTokensKeepOrder(t *testing.T) {
	fs := testutil.NewLibraryFS(t,
		"/usr/lib/libavcodec.a",
		"/usr/lib/libavutil.a",
	)

	out, _ := rewrite(t, fs, entry("LIB_ffmpeg", "m", "avcodec", "unknown", "avutil"))

	assertEntries(t, []linkcache.Entry{
		entry("LIB_ffmpeg", "m", "unknown"),
		entry("STLIB_ffmpeg", "/usr/lib/libavcodec.a", "/usr/lib/libavutil.a"),
	}, out)
}

func TestRewrite_SentinelsAndScalars(t *testing.T) {
	out, report := rewrite(t, testutil.NewMemoryFS(),
		scalar("LIB_ST", "-l%s"),
		scalar("STLIB_ST", "-l%s"),
		scalar("STLIB_MARKER", "-Wl,-Bstatic"),
		scalar("RPATH_ST", "-Wl,-rpath,%s"),
		entry("RPATH_cuda", "/opt/cuda/lib64"),
		entry("DEFINES", "HAVE_CUDA=1"),
		scalar("LIB_odd", "not-a-list"),
		entry("LIB_empty"),
	)

	assertEntries(t, []linkcache.Entry{
		scalar("LIB_ST", "-l%s"),
		scalar("STLIB_ST", "%s"),
		scalar("STLIB_MARKER", "-Wl,-Bstatic"),
		scalar("RPATH_ST", "-Wl,-rpath,%s"),
		entry("RPATH_cuda"),
		entry("DEFINES", "HAVE_CUDA=1"),
		scalar("LIB_odd", "not-a-list"),
		entry("LIB_empty"),
	}, out)
	assert.Equal(t, []string{"RPATH_cuda"}, report.Cleared)
	assert.Empty(t, report.Records)
}

func TestRewrite_Idempotent(t *testing.T) {
	fs := testutil.NewLibraryFS(t,
		"/usr/lib64/libfoo.a",
		"/opt/cuda/lib64/libcudart_static.a",
		"/usr/lib/libass.a",
	)

	input := []linkcache.Entry{
		scalar("STLIB_ST", "-l%s"),
		entry("LIB_foo", "foo"),
		entry("LIB_cuda", "cudart", "dl", "rt"),
		entry("STLIB_ass", "/usr/lib/libass.a"),
		entry("LIB_missing", "missing"),
		entry("LIB_shaderc", "shaderc_shared"),
		entry("RPATH_cuda", "/opt/cuda/lib64"),
		entry("LIB_mixed", "ass", "m", "ass"),
	}

	once, _ := rewrite(t, fs, input...)
	twice, report := rewrite(t, fs, once.Entries()...)

	if diff := cmp.Diff(once.Entries(), twice.Entries()); diff != "" {
		t.Errorf("second rewrite changed the cache (-once +twice):\n%s", diff)
	}
	assert.Zero(t, report.Count(staticlink.ClassFound), "nothing is searched twice")
}

func TestRewrite_MirrorsIntoEnv(t *testing.T) {
	fs := testutil.NewLibraryFS(t, "/usr/lib64/libfoo.a")
	env := buildenv.New()
	env.Set("LIB_foo", linkcache.List("stale"))

	rw := staticlink.NewRewriter(fs, staticlink.DefaultConfig())
	_, _, err := rw.Rewrite(context.Background(),
		linkcache.FromEntries(entry("LIB_foo", "foo"), scalar("STLIB_ST", "-l%s")), env)
	require.NoError(t, err)

	assert.Equal(t, []string{"/usr/lib64/libfoo.a"}, env.Tokens("STLIB_foo"))
	v, _ := env.Get("STLIB_ST")
	assert.Equal(t, "%s", v.Str)
}

func TestRewrite_UnreadableRootFallsThrough(t *testing.T) {
	fs := testutil.NewLibraryFS(t, "/usr/lib/libfoo.a", "/opt/cuda/lib64/libfoo.a")
	fs.WithError("/opt/cuda/lib64", stderrors.New("permission denied"))

	out, _ := rewrite(t, fs, entry("LIB_foo", "foo"))
	assertEntries(t, []linkcache.Entry{entry("STLIB_foo", "/usr/lib/libfoo.a")}, out)
}

func TestRewrite_CustomConfig(t *testing.T) {
	fs := testutil.NewLibraryFS(t, "/sdk/lib/libvk.a", "/usr/lib/libm.a")

	cfg := staticlink.DefaultConfig()
	cfg.SearchRoots = []staticlink.SearchRoot{{Dir: "/sdk"}}
	cfg.NeverStatic = []string{"vk"}
	cfg.Special = nil

	rw := staticlink.NewRewriter(fs, cfg)
	out, _, err := rw.Rewrite(context.Background(),
		linkcache.FromEntries(entry("LIB_vk", "vk"), entry("LIB_m", "m")), nil)
	require.NoError(t, err)

	assertEntries(t, []linkcache.Entry{
		entry("LIB_vk", "vk"),
		entry("LIB_m", "m"),
	}, out)
}

func TestRewrite_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rw := staticlink.NewRewriter(testutil.NewMemoryFS(), staticlink.DefaultConfig())
	_, _, err := rw.Rewrite(ctx, linkcache.FromEntries(entry("LIB_foo", "foo")), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// cancelOnReadDir cancels the rewrite the first time a directory is listed
type cancelOnReadDir struct {
	*testutil.MemoryFS
	cancel context.CancelFunc
}

func (c *cancelOnReadDir) ReadDir(name string) ([]iofs.DirEntry, error) {
	c.cancel()
	return c.MemoryFS.ReadDir(name)
}

func TestRewriteFile_CancelledDuringSearchKeepsCache(t *testing.T) {
	mem := testutil.NewLibraryFS(t, "/usr/lib64/libfoo.a")
	original := "LIB_foo = ['foo']\n"
	mem.MustWriteFile(t, "/build/c4che/_cache.py", original)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rw := staticlink.NewRewriter(&cancelOnReadDir{MemoryFS: mem, cancel: cancel}, staticlink.DefaultConfig())

	_, err := rw.RewriteFile(ctx, "/build/c4che/_cache.py", nil)
	require.ErrorIs(t, err, context.Canceled)

	data, err := mem.ReadFile("/build/c4che/_cache.py")
	require.NoError(t, err)
	assert.Equal(t, original, string(data), "a cancelled rewrite must not replace the cache")

	_, _, err = rw.Rewrite(ctx, linkcache.FromEntries(entry("LIB_foo", "foo")), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRewriteFile(t *testing.T) {
	fs := testutil.NewLibraryFS(t, "/usr/lib64/libfoo.a")
	original := "LIB_foo = ['foo']\nLIB_m = ['m']\nSTLIB_ST = '-l%s'\n"
	fs.MustWriteFile(t, "/build/c4che/_cache.py", original)

	rw := staticlink.NewRewriter(fs, staticlink.DefaultConfig())
	report, err := rw.RewriteFile(context.Background(), "/build/c4che/_cache.py", nil)
	require.NoError(t, err)
	assert.Equal(t, "/build/c4che/_cache.py.bak", report.Backup)

	backup, err := fs.ReadFile("/build/c4che/_cache.py.bak")
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))

	rewritten, err := linkcache.Read(fs, "/build/c4che/_cache.py")
	require.NoError(t, err)
	assertEntries(t, []linkcache.Entry{
		entry("STLIB_foo", "/usr/lib64/libfoo.a"),
		entry("LIB_m", "m"),
		scalar("STLIB_ST", "%s"),
	}, rewritten)
}

func TestRewriteFile_MissingCache(t *testing.T) {
	fs := testutil.NewMemoryFS()
	rw := staticlink.NewRewriter(fs, staticlink.DefaultConfig())

	_, err := rw.RewriteFile(context.Background(), "/build/c4che/_cache.py", nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCacheMissing))
	assert.Contains(t, err.Error(), "/build/c4che/_cache.py")

	_, statErr := fs.Stat("/build/c4che/_cache.py.bak")
	assert.Error(t, statErr, "no backup without a cache")
}
