package signature

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// VerifyFunc verifies one signature under fixed public parameters.
type VerifyFunc[PK, Sig any] func(pk PK, message []byte, sig Sig) (bool, error)

// Item is one entry of a batch verification.
type Item[PK, Sig any] struct {
	PublicKey PK
	Message   []byte
	Signature Sig
}

// VerifyBatch verifies items concurrently with at most limit goroutines
// (GOMAXPROCS when limit <= 0). results[i] holds the outcome of items[i].
// The first malformed item aborts the batch with its error.
func VerifyBatch[PK, Sig any](ctx context.Context, verify VerifyFunc[PK, Sig], items []Item[PK, Sig], limit int) ([]bool, error) {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := verify(items[i].PublicKey, items[i].Message, items[i].Signature)
			if err != nil {
				return err
			}
			results[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// gctx is always done after Wait; only the caller's context matters.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
