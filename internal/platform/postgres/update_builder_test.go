package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateBuilder(t *testing.T) {
	name := "Ana"
	var email *string

	b := newUpdate("users")
	assert.True(t, b.empty())

	setIf(b, "name", &name)
	setIf(b, "email", email)
	b.whereEq("id", 3)

	query, args := b.build()
	assert.False(t, b.empty())
	assert.Equal(t, "UPDATE users SET name = $1 WHERE id = $2", query)
	assert.Equal(t, []any{"Ana", 3}, args)
}

func TestUpdateBuilderScoped(t *testing.T) {
	b := newUpdate("decks").set("from_language", "de").set("to_language_primary", "en")
	b.whereEq("id", 4).whereEq("user_id", 1)

	query, args := b.build()
	assert.Equal(t, "UPDATE decks SET from_language = $1, to_language_primary = $2 WHERE id = $3 AND user_id = $4", query)
	assert.Len(t, args, 4)
}
