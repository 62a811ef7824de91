package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gallerist/internal/browser"
	"gallerist/internal/cart"
	"gallerist/internal/logging"
	"gallerist/internal/services"
)

type selectOutput struct {
	Folder  string   `json:"folder"`
	Message string   `json:"message,omitempty"`
	URLs    []string `json:"urls"`
	Added   int      `json:"added,omitempty"`
}

func newSelectCommand(ctx *commandContext) *cobra.Command {
	var day string
	var path string
	var client string
	var addAll bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "select <first> <last>",
		Short: "Move a contiguous run of assets into a new client folder",
		Long: "Select every asset between <first> and <last> (inclusive, in listing order) in the folder\n" +
			"given by --path and ask the asset service to move them into a client folder named --client.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(client) == "" {
				return errors.New("--client is required")
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			wf, err := ctx.workflow(logger)
			if err != nil {
				return err
			}
			return ctx.withCart(cmd.Context(), func(items *cart.Cart, store *cart.Store) error {
				session, err := ctx.loadSession(cmd.Context(), day, logger, items)
				if err != nil {
					return userError(err)
				}
				review, err := walk(session, path)
				if err != nil {
					return err
				}
				if review {
					return fmt.Errorf("%q is already a client folder", path)
				}

				for _, arg := range args {
					leaf, err := findLeaf(session, arg)
					if err != nil {
						return err
					}
					if _, err := session.Click(leaf); err != nil {
						return err
					}
				}
				rng, err := session.PendingRange()
				if err != nil {
					return err
				}

				runCtx := services.WithPath(services.WithRequestID(cmd.Context(), uuid.NewString()), session.Current())
				res, err := wf.Materialize(runCtx, client, rng)
				if err != nil {
					return userError(err)
				}
				session.ApplyMaterialized(res.Folder, res.URLs, res.Message)
				events := ctx.recorder(store, logger)
				defer events.Wait()
				if err := events.RecordEvent(cmd.Context(), cart.EventMaterialized, res.Folder, len(res.URLs)); err != nil {
					logging.WarnWithContext(logger, "order history not recorded", "history_write_failed", logging.Error(err))
				}

				out := selectOutput{Folder: res.Folder, Message: res.Message, URLs: res.URLs}
				if addAll {
					added, err := addReviewToCart(session, session.Review())
					if err != nil {
						return err
					}
					out.Added = added
				}
				if asJSON {
					return writeJSON(cmd, out)
				}
				return printSelect(cmd, out, items)
			})
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to browse (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&path, "path", "p", "", "Folder holding the assets, relative to the day")
	cmd.Flags().StringVar(&client, "client", "", "Client folder name")
	cmd.Flags().BoolVar(&addAll, "add", false, "Add the moved assets to the cart")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

// findLeaf resolves a visible asset by file name or record path.
func findLeaf(session *browser.Session, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	for _, node := range session.Items() {
		if node.Folder {
			continue
		}
		if node.Name == arg || node.Record.Path == arg {
			return node.Record.Path, nil
		}
	}
	return "", fmt.Errorf("no asset %q in %s", arg, session.Current())
}

func printSelect(cmd *cobra.Command, out selectOutput, items *cart.Cart) error {
	w := cmd.OutOrStdout()
	colorize := shouldColorize(w)
	for _, line := range renderSectionHeader("client folder "+out.Folder, colorize) {
		fmt.Fprintln(w, line)
	}
	if out.Message != "" {
		fmt.Fprintln(w, renderStatusLine("Asset service", statusOK, out.Message, colorize))
	}
	rows := make([][]string, 0, len(out.URLs))
	for i, url := range out.URLs {
		rows = append(rows, []string{strconv.Itoa(i + 1), url, yesNo(items.Contains(url))})
	}
	fmt.Fprintln(w, renderTable([]tableColumn{
		{Header: "#", Align: alignRight},
		{Header: "URL", MaxWidth: 100},
		{Header: "In cart"},
	}, rows))
	return nil
}
