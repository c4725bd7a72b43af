package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotesync/internal/adapters/clients"
)

// BaseAdapter provides request helpers shared by ACL adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a new base adapter with the given client and service name.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: serviceName,
	}
}

// ServiceName returns the name of the external service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET request and returns the response body (caller must close).
// Non-2xx responses and client failures come back as domain errors.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)

	return a.bodyOrError(resp, err, operation)
}

// PostJSON performs a JSON POST request and returns the response body (caller must close).
func (a *BaseAdapter) PostJSON(ctx context.Context, path string, payload any, operation string) (io.ReadCloser, error) {
	resp, err := a.client.PostJSON(ctx, path, payload)

	return a.bodyOrError(resp, err, operation)
}

func (a *BaseAdapter) bodyOrError(resp *http.Response, err error, operation string) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp.Body, nil
}

// DecodeResponse reads and decodes a JSON response body into the target type.
// Closes the body after reading.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// Translator converts an external DTO to a domain value.
// ok=false drops the item without failing the batch.
type Translator[External any, Domain any] func(ext *External) (value Domain, ok bool)

// TranslateSlice applies translate to at most limit items, keeping those
// that translate. A non-positive limit means no limit.
func TranslateSlice[E any, D any](items []E, limit int, translate Translator[E, D]) []D {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	result := make([]D, 0, limit)

	for i := range items[:limit] {
		if translated, ok := translate(&items[i]); ok {
			result = append(result, translated)
		}
	}

	return result
}
