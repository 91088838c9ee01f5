// Package gemini implements generation.Generator with Google's Gemini API.
//
// The generator renders an embedded prompt template for each card, calls the
// model through google.golang.org/genai and retries transient failures with
// exponential backoff and jitter. Responses blocked by safety filters or
// without text are reported as permanent failures.
package gemini
