package repository

import (
	"context"

	"github.com/nliven/airsync/internal/airport"
)

// Reader is the query surface exposed to presentation code.
type Reader interface {
	All(ctx context.Context) ([]airport.Airport, error)
	Get(ctx context.Context, code string) (airport.Airport, error)
}

// AirportStore abstracts the durable airport collection. Every mutation
// is persisted by the end of the call. The store itself does not make
// a DeleteAll followed by a batch of Inserts atomic; callers that need
// replace semantics use ReplaceAll.
// JSONStore implements this interface.
type AirportStore interface {
	Reader
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, a airport.Airport) error
	ReplaceAll(ctx context.Context, airports []airport.Airport) error
	StartWatcher(ctx context.Context) error
}
