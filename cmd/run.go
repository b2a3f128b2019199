package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/abiosoft/readline"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/maepreville/psh/core"
	"github.com/maepreville/psh/core/config"
	"github.com/maepreville/psh/core/vos"
)

var recordPath string

type osVIO struct{}

func (c *osVIO) Stdin() io.ReadCloser   { return os.Stdin }
func (c *osVIO) Stdout() io.WriteCloser { return os.Stdout }
func (c *osVIO) Stderr() io.WriteCloser { return os.Stderr }

var _ vos.VIO = (*osVIO)(nil)

// runCmd starts an interactive shell on the local terminal.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive shell on the local terminal.",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		wd, err := os.Getwd()
		if err != nil {
			wd = "/"
		}

		initOS := vos.NewInitOS(afero.NewOsFs(), os.Environ(), wd)

		width := readline.GetScreenWidth()
		if width <= 0 {
			width = 80
		}
		initOS.SetPTY(vos.PTY{
			Width:  width,
			Height: 24,
			Term:   os.Getenv("TERM"),
			IsPTY:  readline.IsTerminal(int(os.Stdin.Fd())),
		})

		var vio vos.VIO = &osVIO{}
		if recordPath != "" {
			fd, err := os.Create(recordPath)
			if err != nil {
				return err
			}
			defer fd.Close()
			vio = core.Record(vio, fd)
		}

		shellOS, err := initOS.StartProcess("psh", []string{"psh"}, &vos.ProcAttr{
			Files: vio,
		})
		if err != nil {
			return err
		}

		shell, err := core.NewShell(shellOS)
		if err != nil {
			return err
		}
		defer shell.Close()

		shell.Init(os.Getenv("USER"))
		if home := shellOS.Getenv("HOME"); home != "" {
			shell.HistoryPath = filepath.Join(home, config.HistoryFileName)
		}

		if code := shell.Run(); code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&recordPath, "record", "", "record the session transcript to this file")
	rootCmd.AddCommand(runCmd)
}
