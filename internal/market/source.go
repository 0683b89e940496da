package market

import (
	"context"
)

// Source abstracts where a table of observations comes from
// (the synthetic generator, a local CSV file, a remote CSV endpoint).
type Source interface {
	Name() string
	Load(ctx context.Context) (Table, error)
}

// Store is the contract the in-memory dataset store must satisfy.
type Store interface {
	Save(ds Dataset)
	Latest() (Dataset, error)
	Get(id string) (Dataset, error)
	List() []Dataset
}
