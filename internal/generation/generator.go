package generation

import (
	"context"
	"fmt"
	"strings"
)

// ExampleRequest describes the card an example sentence is wanted for.
type ExampleRequest struct {
	// Language is the deck's source language; the sentence is written in it.
	Language string
	// Text is the word or phrase that must appear in the sentence.
	Text string
	// Translation is the primary meaning, used to disambiguate Text.
	Translation string
	// SecondaryTranslation is optional.
	SecondaryTranslation string
}

// Validate checks that the request names a language and a text.
func (r ExampleRequest) Validate() error {
	if strings.TrimSpace(r.Language) == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}
	return nil
}

// Generator produces content for cards using an external language model.
type Generator interface {
	// GenerateExample returns one short sentence in req.Language that uses
	// req.Text. Errors wrap the sentinels in this package.
	GenerateExample(ctx context.Context, req ExampleRequest) (string, error)
}
