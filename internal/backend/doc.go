// Package backend is the HTTP client for the asset service.
//
// It speaks JSON over HTTP to three endpoints: the full asset listing, client
// folder creation, and cart confirmation. Every request carries an
// X-Request-ID so log lines on both sides can be correlated. Failures are
// classified with the services error markers: a request that never got an
// answer is a transport error, anything the service answered with a
// non-success status or an {"error": ...} body is a backend error whose
// message is kept verbatim.
package backend
