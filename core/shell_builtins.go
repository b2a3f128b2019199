package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pborman/getopt/v2"

	"github.com/maepreville/psh/commands"
)

// AllBuiltins holds a list of all registered shell builtins.
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// Cd is the cd shell builtin.
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		args = append(args, s.VirtualOS.Getenv(EnvHome))
		fallthrough
	case 2:
		if err := s.VirtualOS.Chdir(args[1]); err != nil {
			fmt.Fprintf(s.VirtualOS.Stderr(), "%s: %v\n", args[0], err)
			return 1
		}
	default:
		fmt.Fprintf(s.VirtualOS.Stderr(), "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

// Exit quits the shell. With no argument the exit code is that of the last
// command.
func Exit(s *Shell, args []string) int {
	code := s.lastExit
	if len(args) > 1 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(s.VirtualOS.Stderr(), "exit: %s: numeric argument required\n", args[1])
			parsed = 2
		}
		code = parsed
	}

	s.quit = true
	s.exitCode = code
	return code
}

// History displays or manipulates the history list.
func History(s *Shell, args []string) int {
	opts := getopt.New()
	clear := opts.Bool('c', "clear the history by deleting all entries")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.VirtualOS.Stderr()
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: history [-c]")
		fmt.Fprintln(w, "Display the history list with entry numbers.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 1
		}
		return 0
	}

	if *clear {
		s.Readline.Operation.ResetHistory()
		s.History.Clear()
		return 0
	}

	for _, entry := range s.History.List() {
		fmt.Fprintf(s.VirtualOS.Stdout(), "% 5d  %s\n", entry.Index, entry.Line)
	}
	return 0
}

// Help lists the builtins and registered commands.
func Help(s *Shell, args []string) int {
	w := s.VirtualOS.Stdout()
	fmt.Fprintln(w, "These shell commands are defined internally.  Type `help' to see this list.")
	fmt.Fprintln(w, "Type `NAME --help' to find out more about the command `NAME'.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Builtins:")

	var builtins []string
	for k := range AllBuiltins {
		builtins = append(builtins, k)
	}
	sort.Strings(builtins)
	for _, name := range builtins {
		fmt.Fprintf(w, "  %s\n", name)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, entry := range commands.ListBuiltinCommands() {
		fmt.Fprintf(w, "  %s\n", strings.Join(entry.Names, ", "))
	}

	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["history"] = ShellBuiltinFunc(History)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
}
