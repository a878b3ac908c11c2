// Package testutil supports featlink tests.
//
// MemoryFS is a types.FS kept entirely in memory, with symlinks, fault
// injection and read/write counters. NewLibraryFS seeds one with empty
// static archives so finder and rewriter tests never touch /usr.
package testutil
