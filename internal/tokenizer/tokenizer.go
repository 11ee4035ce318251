// Package tokenizer estimates how many model tokens a rendered tree occupies.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	// DefaultModel is used when no model is configured.
	DefaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	errorFallbackEncodingFormat = "initialize fallback tokenizer: %w"
)

var errNilCounter = errors.New("nil tokenizer counter")

// NewCounter returns a tiktoken Counter for the requested model and the name it resolved to.
// Models tiktoken does not know fall back to the cl100k_base encoding.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.ToLower(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = DefaultModel
	}
	encoding, encodingError := tiktoken.EncodingForModel(model)
	if encodingError == nil && encoding != nil {
		return tiktokenCounter{encoding: encoding, name: model}, model, nil
	}
	fallback, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf(errorFallbackEncodingFormat, fallbackError)
	}
	return tiktokenCounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}

// CountText counts the tokens of text with counter.
func CountText(counter Counter, text string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	return counter.CountString(text)
}
