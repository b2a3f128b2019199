package commands

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChmodApplyMode(t *testing.T) {
	cases := []struct {
		mode     string
		orig     fs.FileMode
		expected fs.FileMode
	}{
		{"777", 0000, 0777},
		{"644", 0777, 0644},
		{"+x", 0644, 0755},
		{"u+x", 0644, 0744},
		{"a-w", 0666, 0444},
		{"go-rwx", 0777, 0700},
		{"u=rw", 0777, 0600},
	}

	for _, tc := range cases {
		t.Run(tc.mode, func(t *testing.T) {
			actual, err := ChmodApplyMode(tc.mode, tc.orig)
			assert.Nil(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestChmodApplyMode_errors(t *testing.T) {
	_, err := ChmodApplyMode("q+x", 0644)
	assert.NotNil(t, err)

	_, err = ChmodApplyMode("rwx", 0644)
	assert.NotNil(t, err, "no action provided")
}
