// Package notifications pushes order events to an ntfy topic.
//
// NewService returns a no-op notifier when no topic is configured, so callers
// never branch on configuration. Recorder sits in front of the cart history
// store: every recorded event is persisted first and then announced in the
// background, and a failed push is logged rather than surfaced to the user.
package notifications
