package commands

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/maepreville/psh/core/vos/vostest"
)

func TestCat(t *testing.T) {
	cases := goldenTestSuite{
		"missing": {Args: []string{"cat", "missing.txt"}},
		"stdin":   {Args: []string{"cat"}, Stdin: "piped through\n"},
		"multi": {
			Args: []string{"cat", "/a.txt", "/b.txt"},
			Files: map[string]string{
				"/a.txt": "first\n",
				"/b.txt": "second\n",
			},
		},
	}

	cases.Run(t, Cat)
}

func TestCat_files(t *testing.T) {
	cmd := vostest.Command(Cat, "cat", "/foo.txt")

	// Test with missing file
	{
		assert.Nil(t, cmd.Run())
		assert.NotEqual(t, 0, cmd.ExitStatus, "exit code")
	}
	{
		helloWorld := []byte("Hello, world!")
		assert.Nil(t, afero.WriteFile(cmd.VOS, "/foo.txt", helloWorld, 0600))

		out, err := cmd.CombinedOutput()

		assert.Equal(t, 0, cmd.ExitStatus, "exit code")
		assert.Nil(t, err)
		assert.Equal(t, string(helloWorld), string(out))
	}
}

func TestCat_stdin(t *testing.T) {
	cmd := vostest.Command(Cat, "cat")
	cmd.Stdin = strings.NewReader("from stdin")

	out, err := cmd.CombinedOutput()

	assert.Nil(t, err)
	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Equal(t, "from stdin", string(out))
}
