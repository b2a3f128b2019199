package commands

import (
	"fmt"
	"strings"
	"testing"
)

func numberedLines(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "l%d\n", i)
	}
	return sb.String()
}

func TestHead(t *testing.T) {
	cases := goldenTestSuite{
		"default": {
			Args:  []string{"head", "/f.txt"},
			Files: map[string]string{"/f.txt": numberedLines(12)},
		},
		"lines": {
			Args:  []string{"head", "-n", "3", "/f.txt"},
			Files: map[string]string{"/f.txt": numberedLines(12)},
		},
		"multi": {
			Args: []string{"head", "-n", "1", "/a.txt", "/b.txt"},
			Files: map[string]string{
				"/a.txt": "a1\na2\n",
				"/b.txt": "b1\nb2\n",
			},
		},
		"stdin": {Args: []string{"head", "-n", "2"}, Stdin: numberedLines(5)},
	}

	cases.Run(t, Head)
}
