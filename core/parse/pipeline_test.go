package parse

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTokenize(t *testing.T, line string) []Token {
	t.Helper()
	tokens, err := Tokenize(line)
	require.Nil(t, err)
	return tokens
}

func TestBuild(t *testing.T) {
	t.Run("single stage", func(t *testing.T) {
		p, err := Build(mustTokenize(t, "cat file.txt"))
		require.Nil(t, err)
		assert.Equal(t, []Stage{{Command: "cat", Args: []string{"file.txt"}}}, p.Stages)
		assert.Empty(t, p.RedirectPath)
	})

	t.Run("three stages", func(t *testing.T) {
		p, err := Build(mustTokenize(t, "cat f | grep x | wc"))
		require.Nil(t, err)
		require.Len(t, p.Stages, 3)
		assert.Equal(t, "cat", p.Stages[0].Command)
		assert.Equal(t, "grep", p.Stages[1].Command)
		assert.Equal(t, []string{"x"}, p.Stages[1].Args)
		assert.Equal(t, "wc", p.Stages[2].Command)
	})

	t.Run("redirect", func(t *testing.T) {
		p, err := Build(mustTokenize(t, "sort names.txt | head > out.txt"))
		require.Nil(t, err)
		require.Len(t, p.Stages, 2)
		assert.Equal(t, "out.txt", p.RedirectPath)
	})

	t.Run("empty", func(t *testing.T) {
		p, err := Build(nil)
		require.Nil(t, err)
		assert.Empty(t, p.Stages)
	})
}

func TestBuild_stageCounts(t *testing.T) {
	// A pipeline with K pipes always has K+1 stages.
	for k := 0; k < 4; k++ {
		var parts []string
		for i := 0; i <= k; i++ {
			parts = append(parts, fmt.Sprintf("cmd%d arg%d", i, i))
		}
		line := strings.Join(parts, " | ")

		t.Run(line, func(t *testing.T) {
			p, err := Build(mustTokenize(t, line))
			require.Nil(t, err)
			require.Len(t, p.Stages, k+1)
			for i, stage := range p.Stages {
				assert.Equal(t, fmt.Sprintf("cmd%d", i), stage.Command)
				assert.Equal(t, []string{fmt.Sprintf("arg%d", i)}, stage.Args)
			}
		})
	}
}

func TestBuild_errors(t *testing.T) {
	emptyStage := []string{
		"cat f |",
		"| wc",
		"a | | b",
	}
	for _, line := range emptyStage {
		t.Run(line, func(t *testing.T) {
			_, err := Build(mustTokenize(t, line))
			assert.True(t, errors.Is(err, ErrEmptyStage), "got %v", err)
		})
	}

	badRedirect := []string{
		"a >",
		"a > f g",
		"a > f | b",
		"a > | b",
	}
	for _, line := range badRedirect {
		t.Run(line, func(t *testing.T) {
			_, err := Build(mustTokenize(t, line))
			assert.True(t, errors.Is(err, ErrBadRedirect), "got %v", err)
		})
	}
}

func TestStage_Argv(t *testing.T) {
	stage := Stage{Command: "grep", Args: []string{"-i", "foo"}}
	assert.Equal(t, []string{"grep", "-i", "foo"}, stage.Argv())
}
