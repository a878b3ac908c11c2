package features

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File is the on-disk form of feature declarations. Each group is one pass.
//
// TOML:
//
//	[[group]]
//	name = "platform"
//	  [[group.feature]]
//	  name = "x11"
//	  deps = "posix"
//	  libs = ["X11", "Xext"]
//	  probe = { kind = "library", libs = ["X11"] }
//
// HCL:
//
//	group "platform" {
//	  feature "x11" {
//	    deps = "posix"
//	    probe {
//	      kind = "library"
//	      libs = ["X11"]
//	    }
//	  }
//	}
type File struct {
	Groups []Group `toml:"group" yaml:"groups" hcl:"group,block" validate:"dive"`
}

// Group is an ordered list of feature specs evaluated as one pass
type Group struct {
	Name     string        `toml:"name" yaml:"name" hcl:"name,label"`
	Features []FeatureSpec `toml:"feature" yaml:"features" hcl:"feature,block" validate:"dive"`
}

// FeatureSpec is the serialised form of a Declaration
type FeatureSpec struct {
	Name     string     `toml:"name" yaml:"name" hcl:"name,label" validate:"required"`
	Deps     string     `toml:"deps" yaml:"deps" hcl:"deps,optional"`
	DepsNeg  string     `toml:"deps_neg" yaml:"deps_neg" hcl:"deps_neg,optional"`
	Default  string     `toml:"default" yaml:"default" hcl:"default,optional" validate:"omitempty,oneof=enabled disabled"`
	Required bool       `toml:"required" yaml:"required" hcl:"required,optional"`
	Message  string     `toml:"message" yaml:"message" hcl:"message,optional"`
	Libs     []string   `toml:"libs" yaml:"libs" hcl:"libs,optional"`
	Probe    *ProbeSpec `toml:"probe" yaml:"probe" hcl:"probe,block"`
}

// Format identifies a declaration file syntax
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// FormatFromPath picks the syntax from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	}
	return "", fmt.Errorf("unsupported declaration file extension %q", filepath.Ext(path))
}

// LoadFile reads and validates a declaration file
func LoadFile(fs types.TreeReader, path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDeclarationsParse, "cannot load %s", path).
			WithDetail("path", path)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot read declarations %s", path).
			WithDetail("path", path)
	}

	return Decode(path, data, format)
}

// Decode parses data in the given format. name is used in error messages.
func Decode(name string, data []byte, format Format) (*File, error) {
	var f File
	var err error

	switch format {
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&f)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	case FormatHCL:
		filename := name
		if !strings.HasSuffix(filename, ".hcl") {
			filename += ".hcl"
		}
		err = hclsimple.Decode(filename, data, nil, &f)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrDeclarationsParse, "cannot parse declarations %s", name).
			WithDetail("path", name)
	}

	if err := validator.New().Struct(&f); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid declarations in %s", name).
			WithDetail("path", name)
	}

	return &f, nil
}

// Passes converts the file into declaration passes, building probes with reg.
// reg may be nil when no feature carries a probe.
func (f *File) Passes(reg *ProbeRegistry) ([][]Declaration, error) {
	passes := make([][]Declaration, 0, len(f.Groups))

	for _, g := range f.Groups {
		decls := make([]Declaration, 0, len(g.Features))
		for _, spec := range g.Features {
			d := Declaration{
				Name:     spec.Name,
				Deps:     spec.Deps,
				DepsNeg:  spec.DepsNeg,
				Default:  DefaultState(spec.Default),
				Required: spec.Required,
				Message:  spec.Message,
				Libs:     spec.Libs,
			}

			if spec.Probe != nil {
				if reg == nil {
					return nil, errors.Newf(errors.ErrConfigValid,
						"feature %q has a probe but no probe registry is configured", spec.Name)
				}
				probe, err := reg.Build(*spec.Probe)
				if err != nil {
					return nil, errors.Wrapf(err, errors.ErrConfigValid,
						"feature %q in group %q", spec.Name, g.Name).
						WithDetail("feature", spec.Name)
				}
				d.Probe = probe
			}

			decls = append(decls, d)
		}
		passes = append(passes, decls)
	}

	return passes, nil
}
