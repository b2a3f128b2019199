package core

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	"github.com/gliderlabs/ssh"
	"github.com/juju/ratelimit"
	"github.com/spf13/afero"
	gossh "golang.org/x/crypto/ssh"

	"github.com/maepreville/psh/core/config"
	"github.com/maepreville/psh/core/vos"
)

// Server exposes the shell over SSH. Every session gets its own in-memory
// filesystem and its interaction is recorded to a transcript.
type Server struct {
	configuration *config.Configuration
	logger        *log.Logger
	sshServer     *ssh.Server
}

func NewServer(configuration *config.Configuration, logWriter io.Writer) (*Server, error) {
	server := &Server{
		configuration: configuration,
		logger:        log.New(logWriter, "", log.LstdFlags),
	}

	server.sshServer = &ssh.Server{
		Addr:    fmt.Sprintf(":%d", configuration.SSHPort),
		Version: configuration.SSHBanner,
		Handler: func(s ssh.Session) {
			server.HandleConnection(s)
		},
		PasswordHandler: func(ctx ssh.Context, password string) bool {
			return server.checkPassword(ctx.User(), password)
		},
	}

	keyPem, err := configuration.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("reading host key: %v", err)
	}
	hostKey, err := gossh.ParsePrivateKey(keyPem)
	if err != nil {
		return nil, fmt.Errorf("parsing host key: %v", err)
	}
	server.sshServer.AddHostKey(hostKey)

	return server, nil
}

// checkPassword compares the password against every candidate for the user
// rather than returning on first match so timing doesn't leak which entry
// differed.
func (srv *Server) checkPassword(username, password string) bool {
	if srv.configuration.AllowAnyPassword {
		return true
	}

	ok := false
	for _, candidate := range srv.configuration.GetPasswords(username) {
		if subtle.ConstantTimeCompare([]byte(password), []byte(candidate)) == 1 {
			ok = true
		}
	}
	return ok
}

func (srv *Server) HandleConnection(s ssh.Session) {
	srv.logger.Printf("session start user=%q remote=%s", s.User(), s.RemoteAddr())

	logFileName := fmt.Sprintf("%s.log", time.Now().Format(time.RFC3339))
	logFd, err := srv.configuration.CreateSessionLog(logFileName)
	if err != nil {
		srv.logger.Printf("creating session log: %v", err)
		s.Exit(1)
		return
	}
	defer logFd.Close()

	var stdout io.Writer = s
	if limit := srv.configuration.OutputRateLimit; limit > 0 {
		bucket := ratelimit.NewBucketWithRate(float64(limit), int64(limit))
		stdout = ratelimit.Writer(s, bucket)
	}

	vio := Record(vos.NewVIOAdapter(s, stdout, stdout), logFd)

	home := path.Join("/home", s.User())
	fs := afero.NewMemMapFs()
	fs.MkdirAll(home, 0755)

	initOS := vos.NewInitOS(fs, s.Environ(), home)

	ptyInfo, winch, isPTY := s.Pty()
	initOS.SetPTY(vos.PTY{
		Width:  ptyInfo.Window.Width,
		Height: ptyInfo.Window.Height,
		Term:   ptyInfo.Term,
		IsPTY:  isPTY,
	})
	go func() {
		for window := range winch {
			initOS.SetPTY(vos.PTY{
				Width:  window.Width,
				Height: window.Height,
				Term:   ptyInfo.Term,
				IsPTY:  isPTY,
			})
		}
	}()

	shellOS, err := initOS.StartProcess("psh", []string{"psh"}, &vos.ProcAttr{
		Env:   s.Environ(),
		Files: vio,
	})
	if err != nil {
		srv.logger.Printf("starting shell process: %v", err)
		s.Exit(1)
		return
	}

	shellOS.Setenv(EnvHome, home)
	if srv.configuration.Prompt != "" {
		shellOS.Setenv(EnvPrompt, srv.configuration.Prompt)
	}

	shell, err := NewShell(shellOS)
	if err != nil {
		srv.logger.Printf("starting shell: %v", err)
		s.Exit(1)
		return
	}
	defer shell.Close()

	shell.Init(s.User())
	historyFile := srv.configuration.HistoryFile
	if historyFile == "" {
		historyFile = config.HistoryFileName
	}
	shell.HistoryPath = path.Join(home, historyFile)
	if srv.configuration.HistoryLimit > 0 {
		shell.HistoryLimit = srv.configuration.HistoryLimit
	}

	if srv.configuration.Motd != "" {
		fmt.Fprint(shellOS.Stdout(), srv.configuration.Motd)
	}

	code := shell.Run()
	srv.logger.Printf("session end user=%q remote=%s code=%d", s.User(), s.RemoteAddr(), code)
	s.Exit(code)
}

func (srv *Server) ListenAndServe() error {
	srv.logger.Printf("Starting SSH server on %s", srv.sshServer.Addr)
	return srv.sshServer.ListenAndServe()
}

func (srv *Server) Shutdown(ctx context.Context) error {
	return srv.sshServer.Shutdown(ctx)
}
