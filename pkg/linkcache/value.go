package linkcache

import (
	"strconv"
	"strings"
)

// Value is a cache entry: an ordered token list or a single string
type Value struct {
	Tokens []string
	Str    string
	Scalar bool
}

// List returns a list value holding a copy of tokens. The result is never nil.
func List(tokens ...string) Value {
	return Value{Tokens: append([]string{}, tokens...)}
}

// Scalar returns a single string value
func Scalar(s string) Value {
	return Value{Str: s, Scalar: true}
}

// IsList reports whether v holds a token list
func (v Value) IsList() bool {
	return !v.Scalar
}

// Clone returns a deep copy of v
func (v Value) Clone() Value {
	if v.Scalar {
		return v
	}
	return List(v.Tokens...)
}

// Equal compares kind and content. Nil and empty lists are equal.
func (v Value) Equal(o Value) bool {
	if v.Scalar != o.Scalar {
		return false
	}
	if v.Scalar {
		return v.Str == o.Str
	}
	if len(v.Tokens) != len(o.Tokens) {
		return false
	}
	for i := range v.Tokens {
		if v.Tokens[i] != o.Tokens[i] {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	if v.Scalar {
		return strconv.Quote(v.Str)
	}
	quoted := make([]string, len(v.Tokens))
	for i, t := range v.Tokens {
		quoted[i] = strconv.Quote(t)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
