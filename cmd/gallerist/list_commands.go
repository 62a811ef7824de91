package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gallerist/internal/assets"
	"gallerist/internal/browser"
	"gallerist/internal/cart"
)

type listEntry struct {
	Name   string `json:"name"`
	Folder bool   `json:"folder"`
	Path   string `json:"path,omitempty"`
	URL    string `json:"url,omitempty"`
	InCart bool   `json:"in_cart,omitempty"`
}

type listOutput struct {
	Root    string      `json:"root"`
	Path    string      `json:"path"`
	Entries []listEntry `json:"entries"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var day string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the folders and assets under a path of the day's tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			rel := ""
			if len(args) == 1 {
				rel = args[0]
			}
			return ctx.withCartView(cmd.Context(), func(items *cart.Cart) error {
				session, err := ctx.loadSession(cmd.Context(), day, logger, items)
				if err != nil {
					return userError(err)
				}
				review, err := walk(session, rel)
				if err != nil {
					return err
				}
				if review {
					return fmt.Errorf("%q is a client folder; use `gallerist review %s`", rel, rel)
				}

				out := listOutput{Root: session.Root(), Path: session.Current()}
				for _, node := range session.Items() {
					entry := listEntry{Name: node.Name, Folder: node.Folder}
					if !node.Folder {
						entry.Path = node.Record.Path
						entry.URL = session.URL(node.Record.Path)
						entry.InCart = items.Contains(entry.URL)
					}
					out.Entries = append(out.Entries, entry)
				}
				if asJSON {
					return writeJSON(cmd, out)
				}
				return printListing(cmd, out)
			})
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to browse (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func printListing(cmd *cobra.Command, out listOutput) error {
	w := cmd.OutOrStdout()
	colorize := shouldColorize(w)
	for _, line := range renderSectionHeader(out.Path, colorize) {
		fmt.Fprintln(w, line)
	}
	if len(out.Entries) == 0 {
		fmt.Fprintln(w, "No assets here")
		return nil
	}
	rows := make([][]string, 0, len(out.Entries))
	leaf := 0
	for _, e := range out.Entries {
		if e.Folder {
			rows = append(rows, []string{"", "dir", e.Name + "/", ""})
			continue
		}
		leaf++
		rows = append(rows, []string{strconv.Itoa(leaf), "file", e.Name, yesNo(e.InCart)})
	}
	fmt.Fprintln(w, renderTable([]tableColumn{
		{Header: "#", Align: alignRight},
		{Header: "Type"},
		{Header: "Name", MaxWidth: 60},
		{Header: "In cart"},
	}, rows))
	return nil
}

type reviewOutput struct {
	Folder string   `json:"folder"`
	Path   string   `json:"path"`
	URLs   []string `json:"urls"`
	Added  int      `json:"added,omitempty"`
}

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var day string
	var addAll bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "review <path>",
		Short: "Show every asset of a client folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			run := func(items *cart.Cart) error {
				session, err := ctx.loadSession(cmd.Context(), day, logger, items)
				if err != nil {
					return userError(err)
				}
				review, err := walk(session, args[0])
				if err != nil {
					return err
				}
				if !review {
					return fmt.Errorf("%q is not a client folder (client folders sit at depth %d); use `gallerist ls`", session.Current(), ctx.configValue().Browse.ClientDepth)
				}
				r := session.Review()
				out := reviewOutput{Folder: r.Folder(), Path: assets.Join(session.Current(), r.Folder()), URLs: r.URLs()}
				if addAll {
					added, err := addReviewToCart(session, r)
					if err != nil {
						return err
					}
					out.Added = added
				}
				if asJSON {
					return writeJSON(cmd, out)
				}
				return printReview(cmd, out, items)
			}
			if addAll {
				return ctx.withCart(cmd.Context(), func(items *cart.Cart, _ *cart.Store) error { return run(items) })
			}
			return ctx.withCartView(cmd.Context(), run)
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Day to browse (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&addAll, "add", false, "Add every reviewed asset to the cart")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func addReviewToCart(session *browser.Session, r *browser.Review) (int, error) {
	added := 0
	for i := 0; i < r.Len(); i++ {
		if err := r.Select(i); err != nil {
			return added, err
		}
		ok, err := session.AddCurrentToCart()
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

func printReview(cmd *cobra.Command, out reviewOutput, items *cart.Cart) error {
	w := cmd.OutOrStdout()
	colorize := shouldColorize(w)
	for _, line := range renderSectionHeader("review "+out.Folder, colorize) {
		fmt.Fprintln(w, line)
	}
	if len(out.URLs) == 0 {
		fmt.Fprintln(w, "No assets in this folder")
		return nil
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
	if out.Added > 0 {
		fmt.Fprintln(w, renderStatusLine("Cart", statusOK, fmt.Sprintf("added %d asset(s); %d in cart", out.Added, items.Size()), colorize))
	}
	return nil
}
