// Package view holds the render-ready forms of featlink results shared by
// the terminal, text and JSON renderers.
package view

import (
	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/arthur-debert/featlink/pkg/features"
	"github.com/arthur-debert/featlink/pkg/linkcache"
	"github.com/arthur-debert/featlink/pkg/staticlink"
)

// Feature is one evaluated feature
type Feature struct {
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Reason string   `json:"reason,omitempty"`
	Pass   int      `json:"pass"`
	Libs   []string `json:"libs,omitempty"`
}

// Features is the result of a configure run
type Features struct {
	Features   []Feature `json:"features"`
	Enabled    int       `json:"enabled"`
	Disabled   int       `json:"disabled"`
	Unresolved int       `json:"unresolved"`
	Error      string    `json:"error,omitempty"`
	ErrorCode  string    `json:"error_code,omitempty"`
}

// FromState builds the view of state. err is the evaluation error, if any.
func FromState(state *features.State, err error) Features {
	v := Features{Features: []Feature{}}
	if state != nil {
		for _, o := range state.Outcomes() {
			v.Features = append(v.Features, Feature{
				Name:   o.Name,
				Status: o.Status.String(),
				Reason: o.Reason,
				Pass:   o.Pass,
				Libs:   o.Libs,
			})
			switch o.Status {
			case features.Enabled:
				v.Enabled++
			case features.Disabled:
				v.Disabled++
			default:
				v.Unresolved++
			}
		}
	}
	if err != nil {
		v.Error = err.Error()
		v.ErrorCode = string(errors.GetErrorCode(err))
	}
	return v
}

// Token is one rewritten link token
type Token struct {
	Key    string `json:"key"`
	Token  string `json:"token"`
	Class  string `json:"class"`
	Result string `json:"result"`
	Target string `json:"target"`
}

// Report is the result of a rewrite
type Report struct {
	Tokens  []Token  `json:"tokens"`
	Static  int      `json:"static"`
	Dynamic int      `json:"dynamic"`
	Cleared []string `json:"cleared,omitempty"`
	Backup  string   `json:"backup,omitempty"`
}

// FromReport builds the view of a rewrite report
func FromReport(r *staticlink.Report) Report {
	v := Report{Tokens: []Token{}}
	if r == nil {
		return v
	}
	for _, rec := range r.Records {
		v.Tokens = append(v.Tokens, Token{
			Key:    rec.Key,
			Token:  rec.Token,
			Class:  string(rec.Class),
			Result: rec.Result,
			Target: rec.Target,
		})
	}
	v.Static = r.Static()
	v.Dynamic = len(r.Records) - v.Static
	v.Cleared = r.Cleared
	v.Backup = r.Backup
	return v
}

// Entry is one cache entry. Exactly one of Tokens and Value is set.
type Entry struct {
	Key    string   `json:"key"`
	Tokens []string `json:"tokens,omitempty"`
	Value  *string  `json:"value,omitempty"`
}

// Display renders the value the way it is stored
func (e Entry) Display() string {
	if e.Value != nil {
		return linkcache.Scalar(*e.Value).String()
	}
	return linkcache.List(e.Tokens...).String()
}

// Cache is a cache listing
type Cache struct {
	Path    string  `json:"path"`
	Entries []Entry `json:"entries"`
}

// FromCache builds the view of c
func FromCache(path string, c *linkcache.Cache) Cache {
	v := Cache{Path: path, Entries: []Entry{}}
	for _, e := range c.Entries() {
		entry := Entry{Key: e.Key}
		if e.Value.Scalar {
			s := e.Value.Str
			entry.Value = &s
		} else {
			entry.Tokens = e.Value.Tokens
		}
		v.Entries = append(v.Entries, entry)
	}
	return v
}
