package parse

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyStage is reported when a pipe operator has no command on one
	// of its sides.
	ErrEmptyStage = errors.New("syntax error near unexpected token `|'")

	// ErrBadRedirect is reported when `>` is missing its file operand, names
	// more than one, or appears anywhere but after the final stage.
	ErrBadRedirect = errors.New("syntax error near unexpected token `>'")
)

// Stage is one command of a pipeline with its argument list.
type Stage struct {
	Command string
	Args    []string
}

// Argv returns the stage as an argv slice, command first.
func (s Stage) Argv() []string {
	return append([]string{s.Command}, s.Args...)
}

// Pipeline is an ordered chain of stages. Stage i's output feeds stage
// i+1's input. If RedirectPath is non-empty the final stage's output is
// written there instead of the terminal.
type Pipeline struct {
	Stages       []Stage
	RedirectPath string
}

// Build splits a token sequence on pipe operators into a pipeline. An empty
// token sequence yields an empty pipeline, which callers treat as a no-op.
func Build(tokens []Token) (*Pipeline, error) {
	out := &Pipeline{}
	if len(tokens) == 0 {
		return out, nil
	}

	var words []string
	endStage := func() error {
		if len(words) == 0 {
			return ErrEmptyStage
		}
		out.Stages = append(out.Stages, Stage{Command: words[0], Args: words[1:]})
		words = nil
		return nil
	}

	for i := 0; i < len(tokens); i++ {
		switch tok := tokens[i]; tok.Kind {
		case Word:
			words = append(words, tok.Val)

		case Pipe:
			if err := endStage(); err != nil {
				return nil, err
			}

		case RedirectOut:
			// Redirection binds to the last stage and must be the tail of
			// the line: `> FILE`.
			if i+1 >= len(tokens) || tokens[i+1].Kind != Word {
				return nil, fmt.Errorf("%w: missing file operand", ErrBadRedirect)
			}
			if i+2 != len(tokens) {
				return nil, fmt.Errorf("%w: trailing tokens after redirect", ErrBadRedirect)
			}
			out.RedirectPath = tokens[i+1].Val
			i++

		default:
			return nil, fmt.Errorf("unknown token %q", tok)
		}
	}

	if err := endStage(); err != nil {
		return nil, err
	}

	return out, nil
}
