package linkcache

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/featlink/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

const maxLineSize = 1 << 20

// EncodeLine renders one assignment without the trailing newline. Values
// are written as Python literals, e.g. LIB_x = ['x', 'y'].
func EncodeLine(key string, v Value) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	if v.Scalar {
		return key + " = " + pyQuote(v.Str), nil
	}

	quoted := make([]string, len(v.Tokens))
	for i, t := range v.Tokens {
		quoted[i] = pyQuote(t)
	}
	return key + " = [" + strings.Join(quoted, ", ") + "]", nil
}

// DecodeLine parses one assignment. ok is false for blank and comment lines.
func DecodeLine(line string) (key string, v Value, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", Value{}, false, nil
	}

	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return "", Value{}, false, fmt.Errorf("missing '='")
	}

	key = strings.TrimSpace(line[:eq])
	if !validKey(key) {
		return "", Value{}, false, fmt.Errorf("invalid key %q", key)
	}

	rest := strings.TrimSpace(line[eq+1:])
	if rest == "" {
		return "", Value{}, false, fmt.Errorf("missing value for %s", key)
	}

	value, err := pyToTOML(rest)
	if err != nil {
		return "", Value{}, false, fmt.Errorf("bad value for %s: %w", key, err)
	}

	var holder struct {
		V interface{} `toml:"v"`
	}
	if err := toml.Unmarshal([]byte("v = "+value), &holder); err != nil {
		return "", Value{}, false, fmt.Errorf("bad value for %s: %w", key, err)
	}

	switch x := holder.V.(type) {
	case string:
		return key, Scalar(x), true, nil
	case []interface{}:
		tokens := make([]string, 0, len(x))
		for i, item := range x {
			s, isString := item.(string)
			if !isString {
				return "", Value{}, false, fmt.Errorf("%s[%d]: expected string, got %T", key, i, item)
			}
			tokens = append(tokens, s)
		}
		return key, List(tokens...), true, nil
	default:
		return "", Value{}, false, fmt.Errorf("%s: unsupported value type %T", key, holder.V)
	}
}

// Parse decodes a whole cache. name is used in error messages.
func Parse(name string, data []byte) (*Cache, error) {
	c := New()

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, v, ok, err := DecodeLine(scanner.Text())
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrCacheParse, "%s:%d: malformed cache line", name, lineNo).
				WithDetail("path", name).
				WithDetail("line", lineNo)
		}
		if ok {
			c.Set(key, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrCacheParse, "cannot scan cache %s", name).
			WithDetail("path", name)
	}

	return c, nil
}

// Encode writes every entry of c to w, one line each
func Encode(w io.Writer, c *Cache) error {
	for _, e := range c.Entries() {
		line, err := EncodeLine(e.Key, e.Value)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func validKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}
