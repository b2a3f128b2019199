// Package parse turns raw command lines into executable pipelines.
//
// Token recognition loosely follows
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
// restricted to words, quoting, the pipe operator and output redirection.
package parse

import (
	"errors"
	"fmt"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
)

// ErrUnterminatedQuote is reported when a line ends inside a quoted string.
var ErrUnterminatedQuote = errors.New("unterminated quoted string")

// TokenKind discriminates words from operators.
type TokenKind int

const (
	// Word is a literal argument with quotes stripped.
	Word TokenKind = iota
	// Pipe is the `|` operator.
	Pipe
	// RedirectOut is the `>` operator.
	RedirectOut
)

// Token is one semantic unit of a command line.
type Token struct {
	Kind TokenKind
	Val  string
}

func (t Token) String() string {
	switch t.Kind {
	case Pipe:
		return "|"
	case RedirectOut:
		return ">"
	default:
		return t.Val
	}
}

// Tokenize splits a command line into word and operator tokens. Whitespace
// separates words outside quotes; `|` and `>` are operators even without
// surrounding whitespace; single or double quoted segments become one word
// with quotes stripped and embedded whitespace preserved. An empty line
// yields no tokens.
func Tokenize(line string) ([]Token, error) {
	var out []Token
	var segment strings.Builder

	// flush shlex-splits the accumulated operator-free segment into words.
	flush := func() error {
		s := segment.String()
		segment.Reset()
		if strings.TrimSpace(s) == "" {
			return nil
		}
		words, err := shlex.Split(s, true)
		if err != nil {
			return fmt.Errorf("%w near %q", ErrUnterminatedQuote, strings.TrimSpace(s))
		}
		for _, w := range words {
			out = append(out, Token{Kind: Word, Val: w})
		}
		return nil
	}

	// quote holds the active quote character, 0 outside quotes. escaped is
	// set when the previous rune was an unquoted backslash.
	var quote rune
	escaped := false

	for _, r := range line {
		switch {
		case escaped:
			escaped = false
			segment.WriteRune(r)

		case quote == '\'':
			if r == '\'' {
				quote = 0
			}
			segment.WriteRune(r)

		case quote == '"':
			if r == '"' {
				quote = 0
			}
			segment.WriteRune(r)

		case r == '\\':
			escaped = true
			segment.WriteRune(r)

		case r == '\'' || r == '"':
			quote = r
			segment.WriteRune(r)

		case r == '|':
			if err := flush(); err != nil {
				return nil, err
			}
			out = append(out, Token{Kind: Pipe})

		case r == '>':
			if err := flush(); err != nil {
				return nil, err
			}
			out = append(out, Token{Kind: RedirectOut})

		default:
			segment.WriteRune(r)
		}
	}

	if quote != 0 || escaped {
		return nil, fmt.Errorf("%w at end of line", ErrUnterminatedQuote)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return out, nil
}
