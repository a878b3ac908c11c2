package features

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/featlink/pkg/types"
)

// Probe kinds understood by ProbeRegistry
const (
	ProbeFile    = "file"
	ProbeLibrary = "library"
	ProbeEnv     = "env"
	ProbeConst   = "const"
)

// ProbeSpec is the serialised form of a probe in declaration files
type ProbeSpec struct {
	Kind  string   `toml:"kind" yaml:"kind" hcl:"kind" validate:"required,oneof=file library env const"`
	Paths []string `toml:"paths" yaml:"paths" hcl:"paths,optional"`
	Libs  []string `toml:"libs" yaml:"libs" hcl:"libs,optional"`
	Var   string   `toml:"var" yaml:"var" hcl:"var,optional"`
	Value bool     `toml:"value" yaml:"value" hcl:"value,optional"`
}

// ProbeRegistry builds probes from specs
type ProbeRegistry struct {
	fs      types.TreeReader
	libDirs []string
	getenv  func(string) string
}

// NewProbeRegistry creates a registry. libDirs are searched in order by library probes.
func NewProbeRegistry(fs types.TreeReader, libDirs []string) *ProbeRegistry {
	return &ProbeRegistry{fs: fs, libDirs: libDirs, getenv: os.Getenv}
}

// WithGetenv replaces the environment lookup used by env probes
func (r *ProbeRegistry) WithGetenv(getenv func(string) string) *ProbeRegistry {
	r.getenv = getenv
	return r
}

// Build returns the probe described by spec
func (r *ProbeRegistry) Build(spec ProbeSpec) (Probe, error) {
	switch spec.Kind {
	case ProbeFile:
		if len(spec.Paths) == 0 {
			return nil, fmt.Errorf("file probe needs at least one path")
		}
		return &FileProbe{FS: r.fs, Paths: spec.Paths}, nil
	case ProbeLibrary:
		if len(spec.Libs) == 0 {
			return nil, fmt.Errorf("library probe needs at least one library")
		}
		return &LibraryProbe{FS: r.fs, Dirs: r.libDirs, Libs: spec.Libs}, nil
	case ProbeEnv:
		if spec.Var == "" {
			return nil, fmt.Errorf("env probe needs a variable name")
		}
		return &EnvProbe{Var: spec.Var, Getenv: r.getenv}, nil
	case ProbeConst:
		return ConstProbe(spec.Value), nil
	default:
		return nil, fmt.Errorf("unknown probe kind %q", spec.Kind)
	}
}

// FileProbe passes when every path exists
type FileProbe struct {
	FS    types.TreeReader
	Paths []string
}

// Check implements Probe
func (p *FileProbe) Check(_ context.Context, _ string) (bool, error) {
	for _, path := range p.Paths {
		if _, err := p.FS.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

// LibraryProbe passes when every library is present in one of Dirs,
// either as lib<name>.a, lib<name>.so or a versioned lib<name>.so.N.
type LibraryProbe struct {
	FS   types.TreeReader
	Dirs []string
	Libs []string
}

// Check implements Probe
func (p *LibraryProbe) Check(ctx context.Context, _ string) (bool, error) {
	for _, lib := range p.Libs {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if !p.find(lib) {
			return false, nil
		}
	}
	return true, nil
}

func (p *LibraryProbe) find(lib string) bool {
	base := "lib" + lib
	for _, dir := range p.Dirs {
		for _, ext := range []string{".a", ".so"} {
			if _, err := p.FS.Stat(filepath.Join(dir, base+ext)); err == nil {
				return true
			}
		}

		entries, err := p.FS.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), base+".so.") {
				return true
			}
		}
	}
	return false
}

// EnvProbe passes when Var is set to a truthy value
type EnvProbe struct {
	Var    string
	Getenv func(string) string
}

// Check implements Probe
func (p *EnvProbe) Check(_ context.Context, _ string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(p.Getenv(p.Var))) {
	case "1", "true", "yes", "on":
		return true, nil
	}
	return false, nil
}

// ConstProbe always returns its value
type ConstProbe bool

// Check implements Probe
func (p ConstProbe) Check(_ context.Context, _ string) (bool, error) {
	return bool(p), nil
}
