// Package linkcache reads and writes the persisted build cache shared between
// the configure step and the static link rewrite.
//
// The cache is a line file of assignments:
//
//	DEFINES = ['HAVE_X11=1', 'HAVE_VDPAU=0']
//	LIB_x11 = ['X11', 'Xext']
//	STLIB_ST = '%s'
//
// Values are either lists of strings or single strings, written with TOML
// value syntax. Blank lines and lines starting with # are ignored. Key order
// is preserved on read and on write.
package linkcache
