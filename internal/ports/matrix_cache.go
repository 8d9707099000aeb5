package ports

import "context"

// Port: a store for parsed travel-time matrices keyed by source file identity.
type MatrixCache interface {
	// Return the cached table and whether it was found.
	GetMatrix(ctx context.Context, key string) ([][]int, bool, error)
	PutMatrix(ctx context.Context, key string, table [][]int) error
}
