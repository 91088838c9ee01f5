// Package api provides the JSON API handlers. Every response uses the
// shared.Envelope shape and errors are mapped to status codes in errors.go.
package api
