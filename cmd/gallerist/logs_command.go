package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"gallerist/internal/logging"
	"gallerist/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		follow bool
		lines  int
		filter logs.Filter
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display gallerist session logs",
		Long: "Display the JSON log file shared by every gallerist session.\n" +
			"Use --follow from a second terminal to watch a running browser.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}

			opts := logs.TailOptions{Offset: -1, Limit: max(lines, 0), Filter: filter}
			if lines <= 0 {
				opts.Offset = 0
			}
			printed := false
			for {
				res, err := logs.Tail(runCtx, path, opts)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return fmt.Errorf("tail logs: %w", err)
				}
				for _, line := range res.Lines() {
					fmt.Fprintln(cmd.OutOrStdout(), line)
					printed = true
				}
				if !follow {
					if !printed {
						fmt.Fprintln(cmd.OutOrStdout(), "No log entries available")
					}
					return nil
				}
				opts.Offset = res.Offset
				opts.Limit = 0
				opts.Follow = true
				opts.Wait = time.Second
				if runCtx.Err() != nil {
					return nil
				}
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 20, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Minimum level (debug, info, warn, error)")
	cmd.Flags().StringVar(&filter.SessionID, "session", "", "Only show lines from this session ID")
	cmd.Flags().StringVar(&filter.Component, "component", "", "Only show lines from this component")
	cmd.Flags().StringVar(&filter.CorrelationID, "request", "", "Only show lines for this backend request ID")
	return cmd
}
