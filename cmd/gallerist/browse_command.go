package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"gallerist/internal/browser"
	"gallerist/internal/cart"
	"gallerist/internal/logging"
	"gallerist/internal/poller"
	"gallerist/internal/submission"
	"gallerist/internal/tui"
)

func newBrowseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive asset browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(true)
			if err != nil {
				return err
			}
			if removed := logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, cfg.Paths.LogDir, ""); removed > 0 {
				logger.Info("pruned old log files", logging.Int("removed", removed))
			}

			client, err := ctx.backendClient(logger)
			if err != nil {
				return err
			}
			wf := submission.New(client, cfg.Backend.MediaRoot, logger)

			runCtx := cmd.Context()
			return ctx.withCart(runCtx, func(items *cart.Cart, store *cart.Store) error {
				session := browser.NewSession(browser.Options{
					Root:        cfg.RootScope(time.Now()),
					ClientDepth: cfg.Browse.ClientDepth,
					MediaRoot:   cfg.Backend.MediaRoot,
				}, items)

				sink, snapshots := tui.SnapshotSink()
				scope := func() string { return cfg.RootScope(time.Now()) }
				p := poller.New(client, cfg.PollInterval(), scope, sink, logger)
				if err := p.Start(runCtx); err != nil {
					return err
				}
				defer p.Stop()

				logger.Info("browser session started",
					logging.String("root", session.Root()),
					logging.Int("cart_items", items.Size()),
					logging.String("cart_db", store.Path()),
				)

				events := ctx.recorder(store, logger)
				defer events.Wait()

				model := tui.New(tui.Options{
					Session:   session,
					Workflow:  wf,
					Snapshots: snapshots,
					Refresh:   p.RefreshNow,
					Events:    events,
					Logger:    logger,
					Context:   runCtx,
				})
				program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(runCtx))
				if _, err := program.Run(); err != nil {
					return fmt.Errorf("run browser: %w", err)
				}
				logger.Info("browser session ended", logging.Int("cart_items", items.Size()))
				return nil
			})
		},
	}
}
