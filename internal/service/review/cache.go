package review

import (
	"sync"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// session is the ordered card list of one open deck.
type session struct {
	deck    domain.Deck
	cards   []domain.Card
	expires time.Time
}

// sessionCache holds sessions by deck id. Entries expire after ttl; a zero
// ttl keeps them until replaced.
type sessionCache struct {
	mu       sync.RWMutex
	sessions map[int]*session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionCache(ttl time.Duration, now func() time.Time) *sessionCache {
	return &sessionCache{
		sessions: make(map[int]*session),
		ttl:      ttl,
		now:      now,
	}
}

func (c *sessionCache) expired(s *session) bool {
	return c.ttl > 0 && !c.now().Before(s.expires)
}

// put stores a session and drops expired ones.
func (c *sessionCache) put(deck domain.Deck, cards []domain.Card) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, s := range c.sessions {
		if c.expired(s) {
			delete(c.sessions, id)
		}
	}
	c.sessions[deck.ID] = &session{
		deck:    deck,
		cards:   cards,
		expires: c.now().Add(c.ttl),
	}
}

// at returns the deck, the card at index and the session length. ok is
// false when there is no live session; index past the end returns the end
// card.
func (c *sessionCache) at(deckID, index int) (deck domain.Deck, card domain.Card, n int, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, found := c.sessions[deckID]
	if !found || c.expired(s) {
		return domain.Deck{}, domain.Card{}, 0, false
	}
	n = len(s.cards)
	if index < 0 || index >= n {
		return s.deck, domain.EndCard(deckID), n, true
	}
	return s.deck, s.cards[index], n, true
}

// deck returns the deck of a live session.
func (c *sessionCache) deck(deckID int) (domain.Deck, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s, found := c.sessions[deckID]
	if !found || c.expired(s) {
		return domain.Deck{}, false
	}
	return s.deck, true
}

// update applies fn to the cached copy of a card. It reports whether the
// card was found.
func (c *sessionCache) update(deckID, cardID int, fn func(card *domain.Card)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, found := c.sessions[deckID]
	if !found {
		return false
	}
	for i := range s.cards {
		if s.cards[i].ID == cardID {
			fn(&s.cards[i])
			return true
		}
	}
	return false
}

func (c *sessionCache) drop(deckID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, deckID)
}
