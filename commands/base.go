package commands

import (
	"fmt"
	"io"
	"sort"

	getopt "github.com/pborman/getopt/v2"

	"github.com/maepreville/psh/core/vos"
)

// CommandEntry is one registered command with all of its names.
type CommandEntry struct {
	Names []string
	Proc  vos.ProcessFunc
}

var (
	registry []CommandEntry
	index    = make(map[string]vos.ProcessFunc)
)

// mustAddCmd registers a command under one or more names. The registry is
// populated in init functions and immutable afterwards.
func mustAddCmd(proc vos.ProcessFunc, names ...string) {
	if proc == nil {
		panic(fmt.Sprintf("nil command: %v", names))
	}
	if len(names) == 0 {
		panic("command registered without a name")
	}
	for _, name := range names {
		if _, ok := index[name]; ok {
			panic(fmt.Sprintf("duplicate command: %s", name))
		}
		index[name] = proc
	}
	registry = append(registry, CommandEntry{Names: names, Proc: proc})
}

// Lookup finds a command by name.
func Lookup(name string) (vos.ProcessFunc, bool) {
	proc, ok := index[name]
	return proc, ok
}

// Resolver adapts the registry to a vos.ProcessResolver.
func Resolver() vos.ProcessResolver {
	return func(name string) vos.ProcessFunc {
		proc, ok := Lookup(name)
		if !ok {
			return nil
		}
		return proc
	}
}

// ListBuiltinCommands returns all registered commands sorted by primary
// name.
func ListBuiltinCommands() []CommandEntry {
	out := make([]CommandEntry, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Names[0] < out[j].Names[0]
	})
	return out
}

// BytesToHuman formats a byte count in the style of ls -h.
func BytesToHuman(bytes int64) string {
	for _, e := range []struct {
		unit  string
		power int64
	}{
		{"P", 1e15},
		{"T", 1e12},
		{"G", 1e9},
		{"M", 1e6},
		{"K", 1e3},
	} {
		quotient := bytes / e.power
		switch {
		case quotient == 0:
			continue
		case quotient > 10:
			return fmt.Sprintf("%d%s", quotient, e.unit)
		default:
			return fmt.Sprintf("%0.1f%s", float64(bytes)/float64(e.power), e.unit)
		}
	}

	return fmt.Sprintf("%d", bytes)
}

// SimpleCommand standardizes flag parsing and help output for commands.
type SimpleCommand struct {
	// Use holds a one line usage string.
	Use string
	// Short holds a one line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not. If this is non-nil
	// when Run() is called, then the default help flag isn't added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on flag errors and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was successful call the callback.
func (s *SimpleCommand) Run(virtOS vos.VOS, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(virtOS.Args(), nil)
	if err != nil && !s.NeverBail {
		fmt.Fprintf(virtOS.Stderr(), "error: %s\n\n", err)

		s.PrintHelp(virtOS.Stdout())
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(virtOS.Stdout())
		return 0
	}

	return callback()
}

// RunE runs the command reporting any callback error on stderr prefixed
// with the command's name.
func (s *SimpleCommand) RunE(virtOS vos.VOS, callback func() error) int {
	return s.Run(virtOS, func() int {
		if err := callback(); err != nil {
			fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", virtOS.Args()[0], err)
			return 1
		}
		return 0
	})
}

// RunEachFileOrStdin invokes the callback once per named file, or once with
// stdin if no files are given. Processing continues past per-file errors;
// the exit code reflects whether any failed.
func (s *SimpleCommand) RunEachFileOrStdin(virtOS vos.VOS, files []string, callback func(name string, fd io.Reader) error) int {
	if len(files) == 0 {
		if err := callback("-", virtOS.Stdin()); err != nil {
			fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", virtOS.Args()[0], err)
			return 1
		}
		return 0
	}

	exitCode := 0
	for _, file := range files {
		err := func() error {
			fd, err := virtOS.Open(file)
			if err != nil {
				return err
			}
			defer fd.Close()
			return callback(file, fd)
		}()
		if err != nil {
			fmt.Fprintf(virtOS.Stderr(), "%s: %v\n", virtOS.Args()[0], err)
			exitCode = 1
		}
	}

	return exitCode
}
