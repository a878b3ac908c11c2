// Package types holds the filesystem interfaces shared across featlink.
// Readers and writers are split so search code cannot touch the tree it walks.
package types
