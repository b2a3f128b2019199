package commands

import (
	"io"

	"github.com/maepreville/psh/core/vos"
)

// Cat implements the UNIX cat command.
func Cat(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "cat [FILE]...",
		Short: "Concatenate FILE(s), or standard input, to standard output.",
	}

	return cmd.Run(virtOS, func() int {
		return cmd.RunEachFileOrStdin(virtOS, cmd.Flags().Args(), func(name string, fd io.Reader) error {
			_, err := io.Copy(virtOS.Stdout(), fd)
			return err
		})
	})
}

var _ vos.ProcessFunc = Cat

func init() {
	mustAddCmd(Cat, "cat")
}
