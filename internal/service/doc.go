// Package service contains the use cases behind the JSON API and the review
// pages. Services coordinate the stores in internal/store, scope decks and
// cards to the configured user, run multi-step writes in a transaction and
// publish events for background work.
//
// Errors from the store layer are wrapped in ServiceError so callers can
// still match the store sentinels with errors.Is.
package service
