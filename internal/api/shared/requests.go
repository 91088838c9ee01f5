package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// ErrUnsupportedMediaType is returned for bodies that are neither JSON nor a
// url-encoded form.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// Global validator instance for reuse
var validate = validator.New()

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// DecodeForm decodes a JSON body or a url-encoded form into v. Form fields
// are matched by their json tag. Empty form values are treated as absent, so
// a blank input leaves the field untouched.
func DecodeForm(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		var err error
		mediaType, _, err = mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedMediaType, err)
		}
	}

	switch mediaType {
	case "application/json":
		return DecodeJSON(r, v)
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return err
		}
		return decodeValues(r.PostForm, v)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}
}

func decodeValues(values map[string][]string, v any) error {
	input := make(map[string]any, len(values))
	for key, vals := range values {
		var kept []string
		for _, s := range vals {
			if s != "" {
				kept = append(kept, s)
			}
		}
		switch len(kept) {
		case 0:
		case 1:
			input[key] = kept[0]
		default:
			input[key] = kept
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           v,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v any) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}
