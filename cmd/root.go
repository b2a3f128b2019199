package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/spf13/cobra"

	"github.com/maepreville/psh/core/config"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "psh",
	Short: "A small interactive shell",
	Long:  `An interactive shell with concurrent pipelines, history expansion and a built-in command set, runnable locally or served over SSH.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
