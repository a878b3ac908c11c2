package staticlink

// SearchRoot is a directory walked for static archives. A match must lie
// under one of Anchors; without anchors the directory itself is the anchor.
type SearchRoot struct {
	Dir     string
	Anchors []string
}

// Config drives the rewrite
type Config struct {
	// SearchRoots are walked in order; the first match wins
	SearchRoots []SearchRoot

	// StaticPrefixes are directories under which an absolute .a token is
	// already considered resolved
	StaticPrefixes []string

	// NeverStatic tokens always stay dynamic
	NeverStatic []string

	// Special maps a logical dependency name to a fixed archive path
	Special map[string]string

	// ExcludePatterns are key globs whose lists are cleared
	ExcludePatterns []string

	// Sentinels are template keys copied verbatim
	Sentinels []string

	// StaticFormatKey names the sentinel normalised to StaticFormat
	StaticFormatKey string
	StaticFormat    string

	BackupSuffix string
}

// Cache key prefixes
const (
	DynamicPrefix = "LIB_"
	StaticPrefix  = "STLIB_"
)

// DefaultConfig returns the stock layout: the CUDA SDK first, then the
// system lib64 and lib directories.
func DefaultConfig() Config {
	anchors := []string{"/usr", "/opt/cuda"}
	return Config{
		SearchRoots: []SearchRoot{
			{Dir: "/opt/cuda/lib64", Anchors: anchors},
			{Dir: "/usr/lib64", Anchors: anchors},
			{Dir: "/usr/lib", Anchors: anchors},
		},
		StaticPrefixes: []string{"/usr/lib", "/usr/lib64", "/usr/local/lib", "/opt/cuda"},
		NeverStatic:    []string{"c", "GL", "gomp", "pthread", "stdc++", "gcc_s", "gcc", "rt", "dl", "m"},
		Special: map[string]string{
			"shaderc": "/usr/lib/libshaderc_combined.a",
		},
		ExcludePatterns: []string{"RPATH_*"},
		Sentinels:       []string{"LIB_ST", "STLIB_ST", "STLIB_MARKER", "RPATH_ST"},
		StaticFormatKey: "STLIB_ST",
		StaticFormat:    "%s",
		BackupSuffix:    ".bak",
	}
}
