// Package main hosts the gallerist CLI entrypoint and command graph.
//
// `gallerist browse` opens the terminal browser; the remaining commands run
// one step of the same workflow non-interactively (list a folder, review a
// client folder, materialize a range, manage and confirm the cart) against
// the asset service and the persistent cart in the state directory.
package main
