package vos

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInitOS(t *testing.T) *ProcOS {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.Nil(t, fs.MkdirAll("/home/user", 0755))
	return NewInitOS(fs, []string{"USER=user", "HOME=/home/user"}, "/home/user")
}

func TestProcOS_Chdir(t *testing.T) {
	p := newTestInitOS(t)
	require.Nil(t, p.MkdirAll("/etc", 0755))

	assert.Equal(t, "/home/user", p.Getwd())

	require.Nil(t, p.Chdir("/etc"))
	assert.Equal(t, "/etc", p.Getwd())

	// Relative paths resolve against the working directory.
	require.Nil(t, p.Chdir(".."))
	assert.Equal(t, "/", p.Getwd())

	assert.NotNil(t, p.Chdir("/missing"))

	// Chdir to a file fails.
	require.Nil(t, afero.WriteFile(p, "/etc/passwd", []byte("x"), 0644))
	assert.NotNil(t, p.Chdir("/etc/passwd"))
}

func TestProcOS_relativePaths(t *testing.T) {
	p := newTestInitOS(t)

	require.Nil(t, afero.WriteFile(p, "notes.txt", []byte("hi"), 0644))

	// The file lands relative to the working directory.
	contents, err := afero.ReadFile(p, "/home/user/notes.txt")
	require.Nil(t, err)
	assert.Equal(t, "hi", string(contents))
}

func TestProcOS_StartProcess(t *testing.T) {
	p := newTestInitOS(t)

	child, err := p.StartProcess("wc", []string{"wc", "-l"}, nil)
	require.Nil(t, err)

	assert.Equal(t, []string{"wc", "-l"}, child.Args())
	assert.Equal(t, "/home/user", child.Getwd())
	assert.NotEqual(t, p.Getpid(), child.Getpid())

	// The environment is copied, not shared.
	assert.Equal(t, "user", child.Getenv("USER"))
	child.Setenv("USER", "other")
	assert.Equal(t, "user", p.Getenv("USER"))
}

func TestProcOS_StartProcessAttrs(t *testing.T) {
	p := newTestInitOS(t)
	require.Nil(t, p.MkdirAll("/work", 0755))

	child, err := p.StartProcess("sh", []string{"sh"}, &ProcAttr{
		Dir: "/work",
		Env: []string{"ONLY=this"},
	})
	require.Nil(t, err)

	assert.Equal(t, "/work", child.Getwd())
	assert.Equal(t, []string{"ONLY=this"}, child.Environ())

	// A bad directory fails the spawn.
	_, err = p.StartProcess("sh", []string{"sh"}, &ProcAttr{Dir: "/missing"})
	assert.NotNil(t, err)
}

func TestProcOS_sharedFilesystem(t *testing.T) {
	p := newTestInitOS(t)

	child, err := p.StartProcess("sh", []string{"sh"}, nil)
	require.Nil(t, err)

	require.Nil(t, afero.WriteFile(child, "/shared.txt", []byte("seen"), 0644))

	contents, err := afero.ReadFile(p, "/shared.txt")
	require.Nil(t, err)
	assert.Equal(t, "seen", string(contents))
}

func TestProcOS_pidsIncrease(t *testing.T) {
	p := newTestInitOS(t)

	a, err := p.StartProcess("a", nil, nil)
	require.Nil(t, err)
	b, err := p.StartProcess("b", nil, nil)
	require.Nil(t, err)

	assert.Less(t, a.Getpid(), b.Getpid())
}
