package core

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	fcolor "github.com/fatih/color"

	"github.com/maepreville/psh/commands"
	"github.com/maepreville/psh/core/history"
	"github.com/maepreville/psh/core/parse"
	"github.com/maepreville/psh/core/vos"
)

const (
	EnvHome     = "HOME"
	EnvPath     = "PATH"
	EnvPrompt   = "PS1"
	EnvHostname = "HOSTNAME"
	EnvUser     = "USER"

	DefaultPrompt = `\u@\h:\w\$ `

	// DefaultHistoryLimit bounds how many entries are persisted to the
	// history file on exit.
	DefaultHistoryLimit = 500
)

var errColor = fcolor.New(fcolor.FgRed)

// Shell is one interactive session: a line editor, a history list and a
// pipeline executor bound to a virtual OS context.
type Shell struct {
	VirtualOS vos.VOS
	Readline  *readline.Instance
	History   *history.Store
	Executor  *Executor

	// HistoryPath is where history is loaded from at startup and written on
	// exit. Empty disables persistence.
	HistoryPath string
	// HistoryLimit bounds the entries written to HistoryPath.
	HistoryLimit int

	lastExit int
	exitCode int
	quit     bool
}

// NewShell builds a shell around the given OS context. The line editor reads
// and writes the context's standard streams.
func NewShell(virtualOS vos.VOS) (*Shell, error) {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(virtualOS.Stdin()),
		Stdout: virtualOS.Stdout(),
		Stderr: virtualOS.Stderr(),
		FuncGetWidth: func() int {
			return virtualOS.GetPTY().Width
		},
		FuncIsTerminal: func() bool {
			return virtualOS.GetPTY().IsPTY
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &Shell{
		VirtualOS:    virtualOS,
		Readline:     rl,
		History:      history.NewStore(),
		Executor:     NewExecutor(commands.Resolver()),
		HistoryLimit: DefaultHistoryLimit,
	}, nil
}

// Init sets up the environment similar to login + source ~/.bashrc.
func (s *Shell) Init(username string) {
	if username == "" {
		username = s.VirtualOS.Getenv(EnvUser)
	}
	if username == "" {
		username = "user"
	}

	if s.VirtualOS.Getenv(EnvHome) == "" {
		homedir := fmt.Sprintf("/home/%s", username)
		if username == "root" {
			homedir = "/root"
		}
		s.VirtualOS.Setenv(EnvHome, homedir)
	}

	if s.VirtualOS.Getenv(EnvPath) == "" {
		s.VirtualOS.Setenv(EnvPath, "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin")
	}
	if s.VirtualOS.Getenv(EnvHostname) == "" {
		s.VirtualOS.Setenv(EnvHostname, "psh")
	}
	if s.VirtualOS.Getenv(EnvPrompt) == "" {
		s.VirtualOS.Setenv(EnvPrompt, DefaultPrompt)
	}
	s.VirtualOS.Setenv(EnvUser, username)
}

// Prompt expands the PS1 escapes \u, \h, \w and \$ against the current
// environment.
func (s *Shell) Prompt() string {
	prompt := s.VirtualOS.Getenv(EnvPrompt)
	if prompt == "" {
		prompt = DefaultPrompt
	}
	prompt = strings.ReplaceAll(prompt, `\u`, s.VirtualOS.Getenv(EnvUser))
	prompt = strings.ReplaceAll(prompt, `\h`, s.VirtualOS.Getenv(EnvHostname))

	pwd := s.VirtualOS.Getwd()
	if home := s.VirtualOS.Getenv(EnvHome); home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if s.VirtualOS.Getenv(EnvUser) == "root" {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads and executes lines until exit or end of input. The return value
// is the session's exit code.
func (s *Shell) Run() int {
	s.loadHistory()
	defer s.saveHistory()

	for !s.quit {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return s.exitCode // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue // ^C discards the line.

		case err != nil:
			s.errorf("readline: %v", err)
			continue
		}

		s.Interpret(line)
	}

	return s.exitCode
}

// Interpret expands, records and executes a single line.
func (s *Shell) Interpret(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if history.IsReference(line) {
		expanded, err := s.History.Resolve(line)
		if err != nil {
			s.errorf("%s: event not found", line)
			return
		}
		// Bash echoes the expanded command before running it.
		fmt.Fprintln(s.VirtualOS.Stdout(), expanded)
		line = expanded
	}

	// The recorded entry is the expanded line so that re-running a reference
	// never chases a chain of references.
	s.History.Record(line)

	tokens, err := parse.Tokenize(line)
	if err != nil {
		s.errorf("%v", err)
		return
	}

	pipeline, err := parse.Build(tokens)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	if len(pipeline.Stages) == 0 {
		return
	}

	// Builtins act on shell state, so they only run as a standalone command,
	// never inside a pipeline.
	if len(pipeline.Stages) == 1 && pipeline.RedirectPath == "" {
		if builtin, ok := AllBuiltins[pipeline.Stages[0].Command]; ok {
			s.lastExit = builtin.Main(s, pipeline.Stages[0].Argv())
			return
		}
	}

	results, err := s.Executor.Run(s.VirtualOS, pipeline)
	if err != nil {
		s.errorf("%v", err)
		s.lastExit = 127
		return
	}

	s.lastExit = 0
	for _, result := range results {
		if result.ExitCode != 0 && len(results) > 1 {
			s.errorf("%s: exit status %d", result.Command, result.ExitCode)
		}
	}
	if len(results) > 0 {
		s.lastExit = results[len(results)-1].ExitCode
	}
}

func (s *Shell) Close() error {
	return s.Readline.Close()
}

// errorf reports a shell-level error on stderr with the "psh: " prefix,
// colored when attached to a terminal.
func (s *Shell) errorf(format string, a ...interface{}) {
	prefix := "psh: "
	if s.VirtualOS.GetPTY().IsPTY {
		prefix = errColor.Sprint(prefix)
	}
	fmt.Fprintf(s.VirtualOS.Stderr(), "%s%s\n", prefix, fmt.Sprintf(format, a...))
}

func (s *Shell) loadHistory() {
	if s.HistoryPath == "" {
		return
	}

	fd, err := s.VirtualOS.Open(s.HistoryPath)
	if err != nil {
		return // No history yet.
	}
	defer fd.Close()

	if err := s.History.ReadFrom(fd); err != nil {
		s.errorf("reading %s: %v", s.HistoryPath, err)
		return
	}

	// Seed the line editor so arrow-up works across sessions.
	for _, entry := range s.History.List() {
		s.Readline.SaveHistory(entry.Line)
	}
}

func (s *Shell) saveHistory() {
	if s.HistoryPath == "" {
		return
	}

	fd, err := s.VirtualOS.OpenFile(s.HistoryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		s.errorf("writing %s: %v", s.HistoryPath, err)
		return
	}
	defer fd.Close()

	if err := s.History.WriteTo(fd, s.HistoryLimit); err != nil {
		s.errorf("writing %s: %v", s.HistoryPath, err)
	}
}
