package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maepreville/psh/core"
)

// serveCmd starts the SSH front end.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shell over SSH on a local port.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		configuration, err := loadConfig()
		if err != nil {
			return err
		}

		server, err := core.NewServer(configuration, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		go func() {
			if err := server.ListenAndServe(); err != nil {
				log.Fatal(err)
			}
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigs
		log.Printf("Got signal %q, terminating...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server shutdown failed: %s", err)
		}
		log.Print("Server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
