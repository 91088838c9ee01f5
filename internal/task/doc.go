// Package task runs background work outside the request path. Tasks are
// persisted before they are queued, so pending and interrupted work is
// recovered when the process restarts. The only task type today fills in a
// generated example sentence for a newly created card.
package task
