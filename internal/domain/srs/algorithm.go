package srs

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/samber/lo"
)

// Weighted pairs a card with its position weight; higher comes first.
type Weighted struct {
	Card   domain.Card
	Weight int
}

// byRecency sorts youngest (latest updated_at) first, ties by id.
func byRecency(cards []domain.Card) []domain.Card {
	sorted := slices.Clone(cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID < b.ID
	})
	return sorted
}

// ageBucket maps age within span onto 0..buckets, rounding up.
func ageBucket(age, span time.Duration, buckets int) int {
	if span <= 0 || age <= 0 {
		return 0
	}
	return int(math.Ceil(float64(age) / float64(span) * float64(buckets)))
}

// weigh assigns every card a weight. deckSeenAt is when the deck was opened
// before the current session started.
func weigh(cards []domain.Card, deckSeenAt time.Time, p *Params) []Weighted {
	if len(cards) == 0 {
		return nil
	}

	sorted := byRecency(cards)
	youngest := sorted[0].UpdatedAt
	span := youngest.Sub(sorted[len(sorted)-1].UpdatedAt)

	weighted := lo.Map(sorted, func(c domain.Card, _ int) Weighted {
		w := Weighted{Card: c}
		switch {
		case c.Rating == domain.RatingEasy && deckSeenAt.Before(c.UpdatedAt):
			w.Weight = p.RecentEasyWeight
		case c.Rating == domain.RatingUnrated:
			w.Weight = p.UnratedWeight
		default:
			w.Weight = int(c.Rating) + ageBucket(youngest.Sub(c.UpdatedAt), span, p.AgeBuckets)
		}
		return w
	})
	sort.SliceStable(weighted, func(i, j int) bool {
		return weighted[i].Weight > weighted[j].Weight
	})
	return weighted
}
