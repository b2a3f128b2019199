package vos

import (
	"io"

	"github.com/spf13/afero"
)

// PTY holds information about the controlling terminal, if any.
type PTY struct {
	Width  int
	Height int
	Term   string
	IsPTY  bool
}

// VIO holds the standard I/O streams of a process.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

// VFS is the filesystem interface commands operate against.
type VFS = afero.Fs

// VOS provides a virtual OS context for a single command invocation.
type VOS interface {
	VEnv
	VIO
	VFS

	// Args holds command line arguments, including the command as Args[0].
	Args() []string

	// Getpid returns the process ID of the command.
	Getpid() int

	// Getwd returns the working directory of the command.
	Getwd() string

	// Chdir changes the working directory of the command.
	Chdir(dir string) error

	GetPTY() PTY

	StartProcess(name string, argv []string, attr *ProcAttr) (VOS, error)
}

// ProcessFunc is a "process" that can be run.
type ProcessFunc func(VOS) int

// ProcessResolver looks up a process by command name, it returns nil if
// no process was found.
type ProcessResolver func(name string) ProcessFunc
