package history

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Record(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Len())

	first := s.Record("ls")
	second := s.Record("cat f.txt")

	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 2, second.Index)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Resolve(t *testing.T) {
	s := NewStore()
	s.Record("ls")
	s.Record("cat f.txt")
	s.Record("grep foo f.txt")

	line, err := s.Resolve("!2")
	require.Nil(t, err)
	assert.Equal(t, "cat f.txt", line)

	// Out of range, zero and non-numeric references all fail the same way.
	for _, ref := range []string{"!4", "!0", "!-1", "!abc", "!"} {
		_, err := s.Resolve(ref)
		assert.True(t, errors.Is(err, ErrNotFound), "%s: got %v", ref, err)
	}
}

func TestStore_ClearKeepsCounting(t *testing.T) {
	s := NewStore()
	s.Record("a")
	s.Record("b")
	s.Clear()

	assert.Equal(t, 0, s.Len())

	entry := s.Record("c")
	assert.Equal(t, 3, entry.Index, "indices are never reused")

	_, err := s.Resolve("!1")
	assert.True(t, errors.Is(err, ErrNotFound))

	line, err := s.Resolve("!3")
	require.Nil(t, err)
	assert.Equal(t, "c", line)
}

func TestIsReference(t *testing.T) {
	assert.True(t, IsReference("!1"))
	assert.True(t, IsReference("!abc"))
	assert.False(t, IsReference("ls"))
	assert.False(t, IsReference(" !1"))
}

func TestStore_persistence(t *testing.T) {
	s := NewStore()
	s.Record("ls")
	s.Record("pwd")
	s.Record("echo done")

	var buf bytes.Buffer
	require.Nil(t, s.WriteTo(&buf, 0))
	assert.Equal(t, "ls\npwd\necho done\n", buf.String())

	restored := NewStore()
	require.Nil(t, restored.ReadFrom(&buf))
	assert.Equal(t, 3, restored.Len())

	line, err := restored.Resolve("!2")
	require.Nil(t, err)
	assert.Equal(t, "pwd", line)
}

func TestStore_WriteToMax(t *testing.T) {
	s := NewStore()
	s.Record("one")
	s.Record("two")
	s.Record("three")

	var buf bytes.Buffer
	require.Nil(t, s.WriteTo(&buf, 2))
	assert.Equal(t, "two\nthree\n", buf.String())
}

func TestStore_ReadFromSkipsBlanks(t *testing.T) {
	s := NewStore()
	require.Nil(t, s.ReadFrom(strings.NewReader("ls\n\n\npwd\n")))
	assert.Equal(t, 2, s.Len())
}
