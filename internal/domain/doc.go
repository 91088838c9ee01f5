// Package domain holds the entities of the flashcard service (users, decks,
// cards), their ratings and the partial-update forms used to change them.
// It has no knowledge of storage or transport.
package domain
