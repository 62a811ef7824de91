package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gallerist/internal/cart"
	"gallerist/internal/logging"
	"gallerist/internal/services"
)

func newCartCommand(ctx *commandContext) *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and edit the persistent cart",
	}
	cartCmd.AddCommand(newCartListCommand(ctx))
	cartCmd.AddCommand(newCartAddCommand(ctx))
	cartCmd.AddCommand(newCartRemoveCommand(ctx))
	cartCmd.AddCommand(newCartClearCommand(ctx))
	return cartCmd
}

func newCartListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cart entries in the order they were added",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCart(cmd.Context(), func(items *cart.Cart, _ *cart.Store) error {
				entries := items.List()
				if asJSON {
					return writeJSON(cmd, entries)
				}
				w := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(w, "Cart is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for i, e := range entries {
					rows = append(rows, []string{strconv.Itoa(i + 1), e.URL, e.AddedAt.Local().Format(time.DateTime)})
				}
				fmt.Fprintln(w, renderTable([]tableColumn{
					{Header: "#", Align: alignRight},
					{Header: "URL", MaxWidth: 100},
					{Header: "Added"},
				}, rows))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCartAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>...",
		Short: "Add asset URLs to the cart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCart(cmd.Context(), func(items *cart.Cart, _ *cart.Store) error {
				added := 0
				for _, url := range args {
					ok, err := items.Add(url)
					if err != nil {
						return fmt.Errorf("add %q: %w", url, err)
					}
					if ok {
						added++
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d, skipped %d already present; %d in cart\n", added, len(args)-added, items.Size())
				return nil
			})
		},
	}
}

func newCartRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <url|#>...",
		Short: "Remove entries by URL or by list position",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCart(cmd.Context(), func(items *cart.Cart, _ *cart.Store) error {
				targets, err := resolveCartTargets(items, args)
				if err != nil {
					return err
				}
				removed := 0
				for _, url := range targets {
					n, err := items.Remove(url)
					if err != nil {
						return fmt.Errorf("remove %q: %w", url, err)
					}
					removed += n
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d; %d in cart\n", removed, items.Size())
				return nil
			})
		},
	}
}

// resolveCartTargets maps 1-based positions to URLs against the listing as
// it was before any removal; other arguments are taken as URLs.
func resolveCartTargets(items *cart.Cart, args []string) ([]string, error) {
	entries := items.List()
	out := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if n, err := strconv.Atoi(arg); err == nil {
			if n < 1 || n > len(entries) {
				return nil, fmt.Errorf("cart position %d out of range (cart has %d entries)", n, len(entries))
			}
			out = append(out, entries[n-1].URL)
			continue
		}
		out = append(out, arg)
	}
	return out, nil
}

func newCartClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard the current order and empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCart(cmd.Context(), func(items *cart.Cart, store *cart.Store) error {
				count := items.Size()
				if err := items.Clear(); err != nil {
					return err
				}
				if count > 0 {
					events := ctx.recorder(store, nil)
					defer events.Wait()
					if err := events.RecordEvent(cmd.Context(), cart.EventDiscarded, "", count); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cart cleared (%d removed)\n", count)
				return nil
			})
		},
	}
}

func newConfirmCommand(ctx *commandContext) *cobra.Command {
	var email string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Submit the cart for delivery to a client email",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			wf, err := ctx.workflow(logger)
			if err != nil {
				return err
			}
			return ctx.withCart(cmd.Context(), func(items *cart.Cart, store *cart.Store) error {
				runCtx := services.WithRequestID(cmd.Context(), uuid.NewString())
				res, err := wf.ConfirmCart(runCtx, email, items.URLs())
				if err != nil {
					return userError(err)
				}
				if err := items.Clear(); err != nil {
					return fmt.Errorf("cart delivered but could not be emptied: %w", err)
				}
				events := ctx.recorder(store, logger)
				defer events.Wait()
				if err := events.RecordEvent(cmd.Context(), cart.EventConfirmed, res.Email, res.Count); err != nil {
					logging.WarnWithContext(logger, "order history not recorded", "history_write_failed", logging.Error(err))
				}
				if asJSON {
					return writeJSON(cmd, res)
				}
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, renderStatusLine("Cart", statusOK, fmt.Sprintf("%d file(s) copied for %s", res.Count, res.Email), shouldColorize(w)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Client email address")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent client folders, confirmations and discarded orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return errors.New("--limit must be positive")
			}
			return ctx.withCart(cmd.Context(), func(_ *cart.Cart, store *cart.Store) error {
				events, err := store.Events(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, events)
				}
				w := cmd.OutOrStdout()
				if len(events) == 0 {
					fmt.Fprintln(w, "No history yet")
					return nil
				}
				rows := make([][]string, 0, len(events))
				for _, e := range events {
					rows = append(rows, []string{
						e.CreatedAt.Local().Format(time.DateTime),
						titleCaser.String(string(e.Kind)),
						e.Detail,
						strconv.Itoa(e.ItemCount),
					})
				}
				fmt.Fprintln(w, renderTable([]tableColumn{
					{Header: "When"},
					{Header: "Event"},
					{Header: "Detail", MaxWidth: 48},
					{Header: "Items", Align: alignRight},
				}, rows))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
