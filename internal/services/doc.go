// Package services defines shared utilities consumed by the browser core,
// the backend client, and the command layer.
//
// Key responsibilities:
//   - Context helpers that stamp request correlation IDs and the current
//     virtual path for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     as local validation, transport, or backend-reported errors, and
//     UserMessage which turns any of them into operator-facing text.
package services
