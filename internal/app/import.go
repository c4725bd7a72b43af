package app

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/quotesync/internal/adapters/codec"
	"github.com/jsamuelsen/quotesync/internal/domain"
)

// maxParallelDecodes bounds concurrent document decoding in ImportDocuments.
const maxParallelDecodes = 4

// decodeDocuments decodes docs concurrently and returns their quotes in
// document order. The first document that fails stops the rest; its error
// names the document's 1-based position.
func decodeDocuments(ctx context.Context, docs [][]byte) ([]domain.Quote, error) {
	decoded := make([][]domain.Quote, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelDecodes)

	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			quotes, err := codec.Import(doc)
			if err != nil {
				return fmt.Errorf("document %d: %w", i+1, err)
			}

			decoded[i] = quotes

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.Concat(decoded...), nil
}
