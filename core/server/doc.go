// Package server holds configuration for the status HTTP server.
//
// The janitor is a CLI first; the server is a small read-only surface over
// the run history so operators can inspect janitor activity without shell
// access to the build machine.
package server
