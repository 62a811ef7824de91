// Package submission carries the two operator actions that reach the asset
// service: materializing a selected range into a client folder and confirming
// the cart for delivery. Both validate locally before any request, share one
// busy flag and return results the session applies.
package submission
