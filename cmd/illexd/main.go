// Command illexd is the CLI entrypoint for the synthetic JSON generator and
// streaming server: it wires github.com/spf13/cobra subcommands onto the
// producer/server/client packages, grounded on the teacher's
// cmd/downloader/main.go (persistent --config/--verbose flags, a
// PersistentPreRunE that loads config and builds a zap.Logger once, and a
// signal-aware root context built with signal.NotifyContext).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SigmaX-ai/illex/internal/config"
)

var (
	cfgFile string
	verbose bool

	logger *zap.Logger
	cfg    *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "illexd",
		Short: "Synthetic JSON generator and streaming TCP server/client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				var err error
				logger, err = setupLogger(verbose, nil)
				return err
			}

			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}

			logger, err = setupLogger(verbose, &cfg.Logging)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", os.Getenv("ILLEX_CONFIG"), "config file path (or set ILLEX_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (development) logging")

	rootCmd.AddCommand(produceCmd())
	rootCmd.AddCommand(clientCmd())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("command failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	if logger != nil {
		_ = logger.Sync()
	}
}
