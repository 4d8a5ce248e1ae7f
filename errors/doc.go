// Package errors defines the error taxonomy surfaced by structrest clients.
//
// Every failure is an *APIError carrying a machine-readable Code. Declaration
// defects and bad call arguments are reported before any network I/O; transport
// faults, HTTP failures and unparsable responses are kept apart so callers can
// tell "the server said no" from "we never got a usable answer".
package errors
