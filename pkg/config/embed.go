package config

import (
	_ "embed"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultsTOML []byte

// DefaultsContent returns the embedded defaults.toml, the base layer of Load
func DefaultsContent() string {
	return string(defaultsTOML)
}

// defaultsProvider feeds the embedded defaults to koanf. Only the bytes
// form is offered; Load pairs it with the TOML parser.
type defaultsProvider struct{}

var _ koanf.Provider = defaultsProvider{}

func (defaultsProvider) ReadBytes() ([]byte, error) {
	return defaultsTOML, nil
}

func (defaultsProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New(errors.ErrInternal, "embedded defaults must be parsed as TOML")
}
