// Package vostest runs process functions against a deterministic in-memory
// OS context, mirroring the os/exec API.
package vostest

import (
	"bytes"
	"io"

	"github.com/spf13/afero"

	"github.com/maepreville/psh/core/vos"
)

// deterministicEnviron keeps command output stable across test hosts.
var deterministicEnviron = []string{
	"USER=user",
	"HOME=/home/user",
	"HOSTNAME=testhost",
	"PATH=/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin",
}

// NewDeterministicOS creates a root context over an empty in-memory
// filesystem with a fixed environment.
func NewDeterministicOS() vos.VOS {
	return vos.NewInitOS(afero.NewMemMapFs(), deterministicEnviron, "/")
}

// Cmd is similar to exec.Cmd.
type Cmd struct {
	// Process function.
	Process vos.ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string
	// If Env is non-nil, it gives the environment variables for the new
	// process in the form returned by Environ.
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	ExitStatus int

	// VOS is the root context the command runs under. It shares the
	// command's filesystem, so tests can seed files on it before Run.
	VOS vos.VOS
}

func Command(process vos.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process: process,
		Argv:    append([]string{name}, arg...),
		VOS:     NewDeterministicOS(),
	}
}

// CombinedOutput runs the command and returns its combined stdout and
// stderr.
func (c *Cmd) CombinedOutput() ([]byte, error) {
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	err := c.Run()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run starts the command and waits for it to complete.
func (c *Cmd) Run() error {
	runner, err := c.VOS.StartProcess(c.Argv[0], c.Argv, &vos.ProcAttr{
		Dir:   c.Dir,
		Env:   c.Env,
		Files: vos.NewVIOAdapter(c.Stdin, c.Stdout, c.Stderr),
	})
	if err != nil {
		return err
	}

	c.ExitStatus = c.Process(runner)
	return nil
}
