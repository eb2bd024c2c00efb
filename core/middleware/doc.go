// Package middleware groups the HTTP middleware used by the status server.
//
// Currently only API-key authentication (see the auth subpackage); the
// status surface is read-only, so no rate limiting or request tracing is
// carried here.
package middleware
