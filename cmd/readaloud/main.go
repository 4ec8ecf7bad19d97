package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/readaloud/internal/cli"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create commands
	rootCmd := cli.CreateRootCommand(flags)
	serveCmd := cli.CreateServeCommand(flags)
	batchCmd := cli.CreateBatchCommand(flags)
	rootCmd.AddCommand(serveCmd, batchCmd)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	app := cli.NewApp(flags, os.Stdout)

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context())
	}
	serveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.Serve(cmd.Context())
	}
	batchCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.Batch(cmd.Context(), args[0])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
