package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExampleRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     ExampleRequest
		wantErr bool
	}{
		{"complete", ExampleRequest{Language: "de", Text: "Haus", Translation: "house"}, false},
		{"translation optional", ExampleRequest{Language: "de", Text: "Haus"}, false},
		{"missing language", ExampleRequest{Text: "Haus"}, true},
		{"blank text", ExampleRequest{Language: "de", Text: "  "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
