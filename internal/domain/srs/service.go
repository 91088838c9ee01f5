package srs

import (
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/samber/lo"
)

// Service orders the cards of a deck for a review session.
type Service interface {
	// Order returns cards highest weight first. The input is not modified.
	Order(cards []domain.Card, deckSeenAt time.Time) []domain.Card

	// Weigh is Order with the weights exposed, for diagnostics.
	Weigh(cards []domain.Card, deckSeenAt time.Time) []Weighted
}

type defaultService struct {
	params *Params
}

// NewDefaultService creates a Service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates a Service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{params: params}
}

func (s *defaultService) Order(cards []domain.Card, deckSeenAt time.Time) []domain.Card {
	return lo.Map(weigh(cards, deckSeenAt, s.params), func(w Weighted, _ int) domain.Card {
		return w.Card
	})
}

func (s *defaultService) Weigh(cards []domain.Card, deckSeenAt time.Time) []Weighted {
	return weigh(cards, deckSeenAt, s.params)
}
