// Package codec converts quote collections to and from JSON documents.
//
// Two decoders exist. DecodeStrict is used for the stored collection, where
// any structural problem means the document is discarded. Import is used for
// user-supplied files and drops bad elements instead of failing.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jsamuelsen/quotesync/internal/domain"
)

// Reasons reported by Import through domain.FormatError.
const (
	ReasonNotArray = "top level must be an array"
	ReasonNoValid  = "no valid quotes found"
)

var errInvalidElement = errors.New("element is not a quote")

// Export renders quotes as an indented JSON array with fields text, category.
func Export(quotes []domain.Quote) ([]byte, error) {
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	out, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export document: %w", err)
	}

	return out, nil
}

// Encode renders quotes as a compact JSON array for storage.
func Encode(quotes []domain.Quote) ([]byte, error) {
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	out, err := json.Marshal(quotes)
	if err != nil {
		return nil, fmt.Errorf("encoding quotes: %w", err)
	}

	return out, nil
}

// EncodeQuote renders a single quote.
func EncodeQuote(q domain.Quote) ([]byte, error) {
	out, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encoding quote: %w", err)
	}

	return out, nil
}

// DecodeQuote parses a single quote and rejects one with empty fields.
func DecodeQuote(doc []byte) (domain.Quote, error) {
	var raw any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return domain.Quote{}, fmt.Errorf("decoding quote: %w", err)
	}

	q, ok := quoteFrom(raw)
	if !ok {
		return domain.Quote{}, errInvalidElement
	}

	return q, nil
}

// DecodeStrict parses a stored collection. Every element must be an object
// with non-empty string text and category; otherwise an error is returned.
// An empty array is valid.
func DecodeStrict(doc []byte) ([]domain.Quote, error) {
	elements, err := decodeArray(doc)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(elements))

	for i, el := range elements {
		q, ok := quoteFrom(el)
		if !ok {
			return nil, fmt.Errorf("element %d: %w", i, errInvalidElement)
		}

		quotes = append(quotes, q)
	}

	return quotes, nil
}

// Import parses a user-supplied document. Elements without non-empty string
// text and category are dropped. The result is never empty on success.
func Import(doc []byte) ([]domain.Quote, error) {
	elements, err := decodeArray(doc)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(elements))

	for _, el := range elements {
		if q, ok := quoteFrom(el); ok {
			quotes = append(quotes, q)
		}
	}

	if len(quotes) == 0 {
		return nil, domain.NewFormatError(ReasonNoValid)
	}

	return quotes, nil
}

func decodeArray(doc []byte) ([]any, error) {
	var raw any

	dec := json.NewDecoder(bytes.NewReader(doc))
	if err := dec.Decode(&raw); err != nil {
		return nil, domain.NewFormatError("invalid JSON: " + err.Error())
	}

	// Anything but whitespace after the first value, stray closing
	// delimiters included, makes the document invalid.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, domain.NewFormatError("invalid JSON: trailing data after document")
	}

	elements, ok := raw.([]any)
	if !ok {
		return nil, domain.NewFormatError(ReasonNotArray)
	}

	return elements, nil
}

// quoteFrom accepts only objects whose text and category are non-empty
// strings after trimming. The returned quote is trimmed.
func quoteFrom(el any) (domain.Quote, bool) {
	obj, ok := el.(map[string]any)
	if !ok {
		return domain.Quote{}, false
	}

	text, ok := obj["text"].(string)
	if !ok {
		return domain.Quote{}, false
	}

	category, ok := obj["category"].(string)
	if !ok {
		return domain.Quote{}, false
	}

	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)

	if text == "" || category == "" {
		return domain.Quote{}, false
	}

	return domain.Quote{Text: text, Category: category}, true
}
