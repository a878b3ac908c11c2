// Package buildenv holds the live build environment shared by the configure
// and rewrite steps. An Env is created by the caller and passed explicitly;
// nothing in featlink keeps a process-wide environment.
package buildenv

import (
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/logging"
	"github.com/rs/zerolog"
)

// Env is an ordered set of build variables
type Env struct {
	vars   *linkcache.Cache
	logger zerolog.Logger
}

// New creates an empty environment
func New() *Env {
	return &Env{
		vars:   linkcache.New(),
		logger: logging.GetLogger("buildenv"),
	}
}

// FromCache creates an environment seeded with a copy of c
func FromCache(c *linkcache.Cache) *Env {
	e := New()
	e.Merge(c)
	return e
}

// Set replaces the value of key
func (e *Env) Set(key string, v linkcache.Value) {
	e.logger.Trace().Str("key", key).Stringer("value", v).Msg("Set variable")
	e.vars.Set(key, v)
}

// Get returns the value of key
func (e *Env) Get(key string) (linkcache.Value, bool) {
	return e.vars.Get(key)
}

// Tokens returns the list under key, or nil when key is unset or scalar
func (e *Env) Tokens(key string) []string {
	v, ok := e.vars.Get(key)
	if !ok || v.Scalar {
		return nil
	}
	return v.Tokens
}

// Append adds tokens to the list under key
func (e *Env) Append(key string, tokens ...string) {
	e.vars.Append(key, tokens...)
}

// Unset removes key
func (e *Env) Unset(key string) {
	e.vars.Delete(key)
}

// Merge sets every entry of c, keeping c's order for new keys
func (e *Env) Merge(c *linkcache.Cache) {
	for _, entry := range c.Entries() {
		e.vars.Set(entry.Key, entry.Value)
	}
}

// Keys returns variable names in insertion order
func (e *Env) Keys() []string {
	return e.vars.Keys()
}

// Len returns the number of variables
func (e *Env) Len() int {
	return e.vars.Len()
}

// Snapshot returns a copy of the environment as a cache
func (e *Env) Snapshot() *linkcache.Cache {
	return e.vars.Clone()
}
