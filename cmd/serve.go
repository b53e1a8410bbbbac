package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arjunrk/govdoc-intel/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the document intelligence HTTP API",
	Long:  `Starts the HTTP server exposing document upload, extraction records, corpus statistics, and retrieval-augmented chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		comps, err := openComponents(cfg)
		if err != nil {
			return err
		}
		defer comps.Close()

		srv := server.New(cfg, comps.db, comps.engine, comps.pipe, comps.index, comps.retriever, comps.agent)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server: %w", err)
		case sig := <-stop:
			fmt.Fprintf(os.Stderr, "\nReceived %s, shutting down...\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
