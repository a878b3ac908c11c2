// Package filesystem holds the types.FS backends: OS for the real disk and
// Afero for any afero.Fs, such as a MemMapFs in tests or a BasePathFs that
// confines archive searches to a sysroot.
package filesystem
