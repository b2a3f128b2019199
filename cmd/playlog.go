package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/maepreville/psh/core"
)

var playMaxSleep time.Duration

// playLogCmd replays a session transcript.
var playLogCmd = &cobra.Command{
	Use:   "play FILE",
	Short: "Play a recorded interactive session.",
	Long:  `Plays a recorded interactive session back to the current terminal.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		fd, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer fd.Close()

		return core.Replay(fd, cmd.OutOrStdout(), core.MaxSleep(playMaxSleep))
	},
}

func init() {
	playLogCmd.Flags().DurationVar(&playMaxSleep, "max-sleep", 3*time.Second, "longest pause between replayed events")
	rootCmd.AddCommand(playLogCmd)
}
