// Package poller keeps the asset listing fresh.
//
// A Poller fetches the complete listing once on Start and then on a fixed
// interval, filters it to the current root scope and hands every result to a
// sink as a Snapshot. Each snapshot is a full replacement; failures arrive as
// snapshots with Err set so the consumer can keep its previous records.
// The poller never touches session state itself.
package poller
