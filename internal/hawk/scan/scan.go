// Package scan splits query text on separators that sit outside brackets and
// quoted strings.
package scan

import (
	"strings"

	"github.com/jacoelho/hawk/internal/hawk/qerr"
)

var closers = map[byte]byte{')': '(', ']': '['}

// Split cuts s at every sep found outside parentheses, brackets and single or
// double quotes. Parts are returned untrimmed. Unbalanced or crossed brackets
// and unterminated quotes yield an invalid query error.
func Split(s string, sep byte) ([]string, error) {
	var (
		parts []string
		open  []byte
		quote byte
		start int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			if opensQuote(s, i) {
				quote = c
			}
		case '(', '[':
			open = append(open, c)
		case ')', ']':
			if len(open) == 0 || open[len(open)-1] != closers[c] {
				return nil, qerr.InvalidQuery("unexpected '%c' at position %d in %q", c, i, s)
			}
			open = open[:len(open)-1]
		case sep:
			if len(open) == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	if quote != 0 {
		return nil, qerr.InvalidQuery("unterminated string in %q", s)
	}
	if len(open) != 0 {
		return nil, qerr.InvalidQuery("unmatched '%c' in %q", open[len(open)-1], s)
	}

	return append(parts, s[start:]), nil
}

// opensQuote reports whether the quote character at s[i] starts a string
// literal. Only a quote at the start of a token does, so the apostrophe in
// O'Neil is an ordinary character.
func opensQuote(s string, i int) bool {
	if i == 0 {
		return true
	}
	return strings.IndexByte(" \t\n\r([,=!<>|:", s[i-1]) >= 0
}

// SplitTrim is Split with every part trimmed and empty parts dropped.
func SplitTrim(s string, sep byte) ([]string, error) {
	parts, err := Split(s, sep)
	if err != nil {
		return nil, err
	}

	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out, nil
}

// Unquote strips one pair of matching single or double quotes.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Call splits "name(args)" into name and the text between the outermost
// parentheses. ok is false when s is not of that shape.
func Call(s string) (name, args string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return strings.TrimSpace(s[:open]), s[open+1 : len(s)-1], true
}

// Enclosed reports whether s starts with '(' whose matching ')' is the last
// byte of s, as in "(a | b)" but not "(a) | (b)".
func Enclosed(s string) bool {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return false
	}

	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			if opensQuote(s, i) {
				quote = c
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

// IndexAny returns the position of the first token found outside quotes and the
// token itself. Tokens are tried in order at each position, so longer tokens
// that share a prefix with shorter ones must come first.
func IndexAny(s string, tokens ...string) (int, string) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if (c == '"' || c == '\'') && opensQuote(s, i) {
			quote = c
			continue
		}
		for _, token := range tokens {
			if strings.HasPrefix(s[i:], token) {
				return i, token
			}
		}
	}
	return -1, ""
}
