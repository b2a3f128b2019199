package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maepreville/psh/core/vos/vostest"
)

func TestGrep(t *testing.T) {
	fruit := map[string]string{"/f.txt": "apple\nbanana\ncherry\n"}

	cases := goldenTestSuite{
		"match":       {Args: []string{"grep", "an", "/f.txt"}, Files: fruit},
		"invert-n":    {Args: []string{"grep", "-vn", "an", "/f.txt"}, Files: fruit},
		"ignore-case": {Args: []string{"grep", "-i", "APPLE", "/f.txt"}, Files: fruit},
		"stdin":       {Args: []string{"grep", "foo"}, Stdin: "foo\nbar\nfoobar\n"},
	}

	cases.Run(t, Grep)
}

func TestGrep_exitCodes(t *testing.T) {
	// No matches exits 1.
	cmd := vostest.Command(Grep, "grep", "zzz")
	cmd.Stdin = strings.NewReader("nothing here\n")
	_, err := cmd.CombinedOutput()
	assert.Nil(t, err)
	assert.Equal(t, 1, cmd.ExitStatus)

	// Bad patterns exit 2.
	cmd = vostest.Command(Grep, "grep", "[unclosed")
	cmd.Stdin = strings.NewReader("anything\n")
	_, err = cmd.CombinedOutput()
	assert.Nil(t, err)
	assert.Equal(t, 2, cmd.ExitStatus)

	// Missing pattern exits 2.
	cmd = vostest.Command(Grep, "grep")
	_, err = cmd.CombinedOutput()
	assert.Nil(t, err)
	assert.Equal(t, 2, cmd.ExitStatus)
}
