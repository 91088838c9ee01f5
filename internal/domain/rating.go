package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Rating is a self-reported recall score. Zero means the card has never been
// rated; a review always submits 1..4.
type Rating int

const (
	RatingUnrated Rating = iota
	RatingAgain
	RatingHard
	RatingGood
	RatingEasy
)

var ratingNames = [...]string{"unrated", "again", "hard", "good", "easy"}

// Valid reports whether r can be stored (0..4).
func (r Rating) Valid() bool {
	return r >= RatingUnrated && r <= RatingEasy
}

// IsReview reports whether r is a score a reviewer may submit (1..4).
func (r Rating) IsReview() bool {
	return r >= RatingAgain && r <= RatingEasy
}

func (r Rating) String() string {
	if !r.Valid() {
		return fmt.Sprintf("rating(%d)", int(r))
	}
	return ratingNames[r]
}

// ParseRating accepts a number ("3") or a name ("good").
func ParseRating(s string) (Rating, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		r := Rating(n)
		if !r.Valid() {
			return RatingUnrated, fmt.Errorf("%w: %d", ErrInvalidRating, n)
		}
		return r, nil
	}
	for i, name := range ratingNames {
		if name == s {
			return Rating(i), nil
		}
	}
	return RatingUnrated, fmt.Errorf("%w: %q", ErrInvalidRating, s)
}
