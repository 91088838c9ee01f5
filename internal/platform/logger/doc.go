// Package logger configures the process-wide slog logger and carries
// request-scoped loggers through context.Context.
//
// Every component obtains its logger with FromContextOrDefault so that
// request attributes (trace id, deck id) added by middleware show up in
// store and service log lines without being passed explicitly.
package logger
