package vos

import (
	"fmt"
	"os"
	"path"
	"sync/atomic"
	"time"

	"github.com/spf13/afero"
)

// session holds state shared by every process spawned within one shell
// session: the backing filesystem, terminal info and the PID counter.
type session struct {
	fs      afero.Fs
	pty     PTY
	nextPID int32
}

func (s *session) NextPID() int {
	return int(atomic.AddInt32(&s.nextPID, 1))
}

// ProcOS is the virtual OS context of a single process. Each pipeline stage
// gets its own ProcOS with its own argv and I/O streams.
type ProcOS struct {
	VEnv
	VIO

	session *session

	// ExecutablePath is the name the process was started as.
	ExecutablePath string
	// ProcArgs holds command line arguments, including the command as
	// ProcArgs[0].
	ProcArgs []string
	// PID is the process ID of the process.
	PID int
	// Dir is the working directory of the process.
	Dir string
}

var _ VOS = (*ProcOS)(nil)

// NewInitOS creates the root process context for a session. Commands are
// descendants created via StartProcess.
func NewInitOS(fs afero.Fs, environ []string, dir string) *ProcOS {
	if dir == "" || !path.IsAbs(dir) {
		dir = "/"
	}
	return &ProcOS{
		VEnv:           NewMapEnvFromEnvList(environ),
		VIO:            NewNullIO(),
		session:        &session{fs: fs},
		ExecutablePath: "init",
		ProcArgs:       []string{"init"},
		PID:            0,
		Dir:            dir,
	}
}

// Args implements VOS.Args.
func (p *ProcOS) Args() []string {
	return p.ProcArgs
}

// Getpid implements VOS.Getpid.
func (p *ProcOS) Getpid() int {
	return p.PID
}

// Getwd implements VOS.Getwd.
func (p *ProcOS) Getwd() string {
	return p.Dir
}

// Chdir implements VOS.Chdir.
func (p *ProcOS) Chdir(dir string) error {
	dir = p.resolve(dir)

	stat, err := p.session.fs.Stat(dir)
	switch {
	case err != nil:
		return fmt.Errorf("%s: %v", dir, err)
	case !stat.IsDir():
		return fmt.Errorf("%s: not a directory", dir)
	default:
		p.Dir = dir
		return nil
	}
}

func (p *ProcOS) SetPTY(pty PTY) {
	p.session.pty = pty
}

func (p *ProcOS) GetPTY() PTY {
	return p.session.pty
}

// resolve turns a possibly relative path into an absolute one against the
// process working directory.
func (p *ProcOS) resolve(name string) string {
	if path.IsAbs(name) {
		return path.Clean(name)
	}
	return path.Clean(path.Join(p.Dir, name))
}

type ProcAttr struct {
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string
	// If Env is non-nil, it gives the environment variables for the new
	// process in the form returned by Environ. If it is nil, the parent's
	// environment is copied.
	Env []string
	// Files specifies the open streams inherited by the new process.
	Files VIO
}

// StartProcess creates a new process context with the program name,
// arguments and attributes specified. The argv slice becomes Args in the new
// process, so it normally starts with the program name.
func (p *ProcOS) StartProcess(name string, argv []string, attr *ProcAttr) (VOS, error) {
	if attr == nil {
		attr = &ProcAttr{}
	}
	if argv == nil {
		argv = []string{name}
	}

	var env VEnv
	if attr.Env == nil {
		env = NewMapEnvFrom(p.VEnv)
	} else {
		env = NewMapEnvFromEnvList(attr.Env)
	}

	out := &ProcOS{
		VEnv:           env,
		session:        p.session,
		ExecutablePath: name,
		ProcArgs:       argv,
		PID:            p.session.NextPID(),
		Dir:            p.Dir,
	}

	if attr.Files == nil {
		out.VIO = NewNullIO()
	} else {
		out.VIO = attr.Files
	}

	if attr.Dir != "" {
		if err := out.Chdir(attr.Dir); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// The afero.Fs implementation below delegates to the session filesystem
// after resolving paths against the process working directory.

func (p *ProcOS) Create(name string) (afero.File, error) {
	return p.session.fs.Create(p.resolve(name))
}

func (p *ProcOS) Mkdir(name string, perm os.FileMode) error {
	return p.session.fs.Mkdir(p.resolve(name), perm)
}

func (p *ProcOS) MkdirAll(name string, perm os.FileMode) error {
	return p.session.fs.MkdirAll(p.resolve(name), perm)
}

func (p *ProcOS) Open(name string) (afero.File, error) {
	return p.session.fs.Open(p.resolve(name))
}

func (p *ProcOS) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return p.session.fs.OpenFile(p.resolve(name), flag, perm)
}

func (p *ProcOS) Remove(name string) error {
	return p.session.fs.Remove(p.resolve(name))
}

func (p *ProcOS) RemoveAll(name string) error {
	return p.session.fs.RemoveAll(p.resolve(name))
}

func (p *ProcOS) Rename(oldname, newname string) error {
	return p.session.fs.Rename(p.resolve(oldname), p.resolve(newname))
}

func (p *ProcOS) Stat(name string) (os.FileInfo, error) {
	return p.session.fs.Stat(p.resolve(name))
}

func (p *ProcOS) Name() string {
	return "ProcOS"
}

func (p *ProcOS) Chmod(name string, mode os.FileMode) error {
	return p.session.fs.Chmod(p.resolve(name), mode)
}

func (p *ProcOS) Chown(name string, uid, gid int) error {
	return p.session.fs.Chown(p.resolve(name), uid, gid)
}

func (p *ProcOS) Chtimes(name string, atime, mtime time.Time) error {
	return p.session.fs.Chtimes(p.resolve(name), atime, mtime)
}
