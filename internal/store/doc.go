// Package store declares the persistence interfaces of the flashcard service
// and the errors every implementation reports. Implementations live in
// internal/platform/postgres.
package store
