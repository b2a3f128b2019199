package commands

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maepreville/psh/core/vos/vostest"
)

func TestPwd(t *testing.T) {
	cmd := vostest.Command(Pwd, "pwd")
	out, err := cmd.CombinedOutput()

	assert.Nil(t, err)
	assert.Equal(t, 0, cmd.ExitStatus)
	assert.Equal(t, "/\n", string(out))
}

func TestMkdir(t *testing.T) {
	cmd := vostest.Command(Mkdir, "mkdir", "/a")
	assert.Nil(t, cmd.Run())
	assert.Equal(t, 0, cmd.ExitStatus)

	isDir, err := afero.IsDir(cmd.VOS, "/a")
	assert.Nil(t, err)
	assert.True(t, isDir)

	// An existing directory is an error without -p.
	cmd2 := vostest.Command(Mkdir, "mkdir", "/a")
	cmd2.VOS = cmd.VOS
	assert.Nil(t, cmd2.Run())
	assert.NotEqual(t, 0, cmd2.ExitStatus)

	// -p tolerates existing directories and builds nested paths.
	cmd3 := vostest.Command(Mkdir, "mkdir", "-p", "/a", "/x/y/z")
	cmd3.VOS = cmd.VOS
	assert.Nil(t, cmd3.Run())
	assert.Equal(t, 0, cmd3.ExitStatus)

	isDir, err = afero.IsDir(cmd.VOS, "/x/y/z")
	assert.Nil(t, err)
	assert.True(t, isDir)
}

func TestRm(t *testing.T) {
	cmd := vostest.Command(Rm, "rm", "/f.txt")
	require.Nil(t, afero.WriteFile(cmd.VOS, "/f.txt", []byte("x"), 0644))

	assert.Nil(t, cmd.Run())
	assert.Equal(t, 0, cmd.ExitStatus)

	exists, err := afero.Exists(cmd.VOS, "/f.txt")
	assert.Nil(t, err)
	assert.False(t, exists)
}

func TestRm_directories(t *testing.T) {
	// Directories need -r.
	cmd := vostest.Command(Rm, "rm", "/d")
	require.Nil(t, cmd.VOS.MkdirAll("/d", 0755))
	require.Nil(t, afero.WriteFile(cmd.VOS, "/d/f.txt", []byte("x"), 0644))

	assert.Nil(t, cmd.Run())
	assert.NotEqual(t, 0, cmd.ExitStatus)

	cmd2 := vostest.Command(Rm, "rm", "-r", "/d")
	cmd2.VOS = cmd.VOS
	assert.Nil(t, cmd2.Run())
	assert.Equal(t, 0, cmd2.ExitStatus)

	exists, err := afero.Exists(cmd.VOS, "/d")
	assert.Nil(t, err)
	assert.False(t, exists)
}

func TestRm_missing(t *testing.T) {
	cmd := vostest.Command(Rm, "rm", "/nope")
	assert.Nil(t, cmd.Run())
	assert.NotEqual(t, 0, cmd.ExitStatus)

	// -f ignores missing files.
	cmd = vostest.Command(Rm, "rm", "-f", "/nope")
	assert.Nil(t, cmd.Run())
	assert.Equal(t, 0, cmd.ExitStatus)
}

func TestCp(t *testing.T) {
	cmd := vostest.Command(Cp, "cp", "/src.txt", "/dst.txt")
	require.Nil(t, afero.WriteFile(cmd.VOS, "/src.txt", []byte("payload"), 0644))

	assert.Nil(t, cmd.Run())
	assert.Equal(t, 0, cmd.ExitStatus)

	contents, err := afero.ReadFile(cmd.VOS, "/dst.txt")
	assert.Nil(t, err)
	assert.Equal(t, "payload", string(contents))
}

func TestCp_recursive(t *testing.T) {
	cmd := vostest.Command(Cp, "cp", "/d", "/copy")
	require.Nil(t, cmd.VOS.MkdirAll("/d/sub", 0755))
	require.Nil(t, afero.WriteFile(cmd.VOS, "/d/sub/f.txt", []byte("deep"), 0644))

	// Directories need -r.
	assert.Nil(t, cmd.Run())
	assert.NotEqual(t, 0, cmd.ExitStatus)

	cmd2 := vostest.Command(Cp, "cp", "-r", "/d", "/copy")
	cmd2.VOS = cmd.VOS
	assert.Nil(t, cmd2.Run())
	assert.Equal(t, 0, cmd2.ExitStatus)

	contents, err := afero.ReadFile(cmd.VOS, "/copy/sub/f.txt")
	assert.Nil(t, err)
	assert.Equal(t, "deep", string(contents))
}

func TestMv(t *testing.T) {
	cmd := vostest.Command(Mv, "mv", "/src.txt", "/dst.txt")
	require.Nil(t, afero.WriteFile(cmd.VOS, "/src.txt", []byte("payload"), 0644))

	assert.Nil(t, cmd.Run())
	assert.Equal(t, 0, cmd.ExitStatus)

	exists, err := afero.Exists(cmd.VOS, "/src.txt")
	assert.Nil(t, err)
	assert.False(t, exists)

	contents, err := afero.ReadFile(cmd.VOS, "/dst.txt")
	assert.Nil(t, err)
	assert.Equal(t, "payload", string(contents))
}

func TestMv_intoDirectory(t *testing.T) {
	cmd := vostest.Command(Mv, "mv", "/src.txt", "/d")
	require.Nil(t, cmd.VOS.MkdirAll("/d", 0755))
	require.Nil(t, afero.WriteFile(cmd.VOS, "/src.txt", []byte("payload"), 0644))

	assert.Nil(t, cmd.Run())
	assert.Equal(t, 0, cmd.ExitStatus)

	contents, err := afero.ReadFile(cmd.VOS, "/d/src.txt")
	assert.Nil(t, err)
	assert.Equal(t, "payload", string(contents))
}

func TestTouch(t *testing.T) {
	cmd := vostest.Command(Touch, "touch", "/new.txt")
	assert.Nil(t, cmd.Run())
	assert.Equal(t, 0, cmd.ExitStatus)

	exists, err := afero.Exists(cmd.VOS, "/new.txt")
	assert.Nil(t, err)
	assert.True(t, exists)

	// -c doesn't create.
	cmd = vostest.Command(Touch, "touch", "-c", "/other.txt")
	assert.Nil(t, cmd.Run())
	assert.Equal(t, 0, cmd.ExitStatus)

	exists, err = afero.Exists(cmd.VOS, "/other.txt")
	assert.Nil(t, err)
	assert.False(t, exists)
}
