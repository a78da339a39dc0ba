package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SigmaX-ai/illex/internal/illexerr"
	"github.com/SigmaX-ai/illex/internal/producer"
	"github.com/SigmaX-ai/illex/internal/queue"
	"github.com/SigmaX-ai/illex/internal/server"
	"github.com/SigmaX-ai/illex/internal/stats"
)

func produceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "produce",
		Short: "Produce synthetic JSON, to a file/stdout or to a streaming TCP consumer",
	}
	cmd.AddCommand(produceFileCmd())
	cmd.AddCommand(produceStreamCmd())
	return cmd
}

var produceSchemaName string

func resolveOptions() (producer.Options, error) {
	node, ok := lookupSchema(produceSchemaName)
	if !ok {
		return producer.Options{}, illexerr.CliError("unknown --schema preset: " + produceSchemaName)
	}
	pc := cfg.Producer
	return producer.Options{
		Seed:           pc.Seed,
		Schema:         node,
		Pretty:         pc.Pretty,
		Whitespace:     pc.Whitespace,
		WhitespaceChar: pc.WhitespaceByte(),
		NumJSONs:       pc.NumJSONs,
		NumBatches:     pc.NumBatches,
		Batching:       pc.Batching,
		NumThreads:     pc.NumThreads,
	}, nil
}

// produceFileCmd implements the file/standard-output branch of spec.md §1.
// It is explicitly out of scope as a *feature* to design further (see
// DESIGN.md), so the command wires the minimum needed to exercise it:
// producer.DrainToWriter draining straight to a file or to stdout.
func produceFileCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "file",
		Short: "Write synthetic JSON to a file or standard output",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions()
			if err != nil {
				return err
			}

			var out = os.Stdout
			if outPath != "" && outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return illexerr.IoError("create output file", err)
				}
				defer f.Close()
				out = f
			}

			q := queue.New(cfg.Producer.QueueSize)
			shutdown := producer.NewShutdown()
			p := producer.New(opts, q, shutdown, logger)
			p.Start()

			targetBatches := int64(opts.NumJSONs)
			if opts.Batching {
				targetBatches = int64(opts.NumBatches)
			}

			pm, err := producer.DrainToWriter(p, out, targetBatches)
			if err != nil {
				return err
			}

			logger.Info("production complete",
				zap.Int64("num_jsons", pm.NumJSONs),
				zap.Int64("num_batches", pm.NumBatches),
				zap.Int64("num_chars", pm.NumChars),
				zap.Duration("time", pm.Time),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path, or '-' for standard output")
	cmd.Flags().StringVar(&produceSchemaName, "schema", "counter", "named schema preset to generate")
	return cmd
}

func produceStreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Stream synthetic JSON to a single connected TCP consumer",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions()
			if err != nil {
				return err
			}

			var reg *stats.Registry
			if cfg.Server.StatsAddr != "" {
				reg = stats.NewRegistry()
				go serveStats(cmd.Context(), cfg.Server.StatsAddr, reg)
			}

			srv, err := server.New(cfg.Server.Port, cfg.Server.Verbose, reg, logger)
			if err != nil {
				return err
			}
			defer srv.Close()

			m, err := srv.SendJSONs(opts, cfg.Producer.QueueSize, server.RepeatOptions{
				Times:      cfg.Server.RepeatTimes,
				IntervalMs: cfg.Server.RepeatIntervalMs,
			})

			logger.Info("stream complete",
				zap.Int64("num_messages", m.NumMessages),
				zap.Int64("num_bytes", m.NumBytes),
				zap.Duration("time", m.Time),
			)
			return err
		},
	}
	cmd.Flags().StringVar(&produceSchemaName, "schema", "counter", "named schema preset to generate")
	return cmd
}
