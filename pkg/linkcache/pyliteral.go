package linkcache

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Cache files are Python literals. Values are rewritten into TOML value
// syntax so go-toml can decode the list structure, with every string
// literal decoded by Python escape rules and re-encoded as a TOML basic
// string. Encoding produces what Python's repr would.

// pyToTOML rewrites the Python literal src into TOML value syntax.
// True and False become TOML booleans; other names are rejected.
func pyToTOML(src string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\'' || c == '"':
			s, n, err := readPyString(src[i:], false)
			if err != nil {
				return "", err
			}
			writeTOMLString(&b, s)
			i += n
		case isStringPrefix(c) && i+1 < len(src) && (src[i+1] == '\'' || src[i+1] == '"'):
			s, n, err := readPyString(src[i+1:], c == 'r' || c == 'R')
			if err != nil {
				return "", err
			}
			writeTOMLString(&b, s)
			i += 1 + n
		case c == '#':
			i = len(src)
		case c == '_' || unicode.IsLetter(rune(c)):
			j := i
			for j < len(src) && (src[j] == '_' || unicode.IsLetter(rune(src[j])) || unicode.IsDigit(rune(src[j]))) {
				j++
			}
			switch word := src[i:j]; word {
			case "True":
				b.WriteString("true")
			case "False":
				b.WriteString("false")
			default:
				return "", fmt.Errorf("unsupported literal %s", word)
			}
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), nil
}

func isStringPrefix(c byte) bool {
	return c == 'r' || c == 'R' || c == 'u' || c == 'U'
}

// readPyString decodes the quoted string at the start of s and returns it
// with the number of bytes consumed, quotes included
func readPyString(s string, raw bool) (string, int, error) {
	q := s[0]
	if strings.HasPrefix(s, strings.Repeat(string(q), 3)) {
		return "", 0, fmt.Errorf("triple-quoted strings are not supported")
	}

	var out strings.Builder
	for i := 1; i < len(s); {
		c := s[i]
		switch {
		case c == q:
			return out.String(), i + 1, nil
		case c != '\\':
			out.WriteByte(c)
			i++
		case i+1 >= len(s):
			return "", 0, fmt.Errorf("unterminated string")
		case raw:
			out.WriteByte('\\')
			out.WriteByte(s[i+1])
			i += 2
		default:
			n, err := decodeEscape(&out, s[i+1:])
			if err != nil {
				return "", 0, err
			}
			i += 1 + n
		}
	}
	return "", 0, fmt.Errorf("unterminated string")
}

var simpleEscapes = map[byte]byte{
	'\\': '\\', '\'': '\'', '"': '"',
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
}

// decodeEscape writes the character escaped by the text following a
// backslash and returns how many bytes of s it used. Unknown escapes keep
// their backslash.
func decodeEscape(out *strings.Builder, s string) (int, error) {
	e := s[0]
	if r, ok := simpleEscapes[e]; ok {
		out.WriteByte(r)
		return 1, nil
	}

	switch e {
	case 'x', 'u', 'U':
		width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[e]
		if len(s) < 1+width {
			return 0, fmt.Errorf(`truncated \%c escape`, e)
		}
		code, err := strconv.ParseUint(s[1:1+width], 16, 32)
		if err != nil || code > unicode.MaxRune {
			return 0, fmt.Errorf(`invalid \%c escape %q`, e, s[1:1+width])
		}
		out.WriteRune(rune(code))
		return 1 + width, nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 1
		for n < 3 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
			n++
		}
		code, _ := strconv.ParseUint(s[:n], 8, 32)
		out.WriteRune(rune(code))
		return n, nil
	}

	out.WriteByte('\\')
	out.WriteByte(e)
	return 1, nil
}

func writeTOMLString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(b, `\u%04X`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

// pyQuote renders s the way Python's repr does: single quotes unless s
// holds a single quote and no double quote
func pyQuote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&b, `\x%02x`, s[i])
		case r == '\\' || r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r):
			switch {
			case r <= 0xff:
				fmt.Fprintf(&b, `\x%02x`, r)
			case r <= 0xffff:
				fmt.Fprintf(&b, `\u%04x`, r)
			default:
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
		i += size
	}
	b.WriteByte(q)
	return b.String()
}
