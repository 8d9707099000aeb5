package traveltime

import (
	"darp-checker/internal/domain"
	"errors"
	"fmt"
)

var ErrNodeOutOfRange = errors.New("node index out of range")

// Matrix serves travel times from a precomputed square table indexed by Node.Idx.
// The table is never modified after construction.
type Matrix struct {
	table [][]int
}

// Build a matrix provider, rejecting tables that are not square.
func NewMatrix(table [][]int) (*Matrix, error) {
	for i, row := range table {
		if len(row) != len(table) {
			return nil, fmt.Errorf("new matrix: row %d has %d columns, want %d", i, len(row), len(table))
		}
	}
	return &Matrix{table: table}, nil
}

func (m *Matrix) Size() int { return len(m.table) }

// Return the underlying table. Callers must not modify it.
func (m *Matrix) Table() [][]int { return m.table }

func (m *Matrix) TravelTime(from domain.Node, to domain.Node) (int, error) {
	n := len(m.table)
	if from.Idx < 0 || from.Idx >= n {
		return 0, fmt.Errorf("matrix travel time: from node %d of %d: %w", from.Idx, n, ErrNodeOutOfRange)
	}
	if to.Idx < 0 || to.Idx >= n {
		return 0, fmt.Errorf("matrix travel time: to node %d of %d: %w", to.Idx, n, ErrNodeOutOfRange)
	}
	return m.table[from.Idx][to.Idx], nil
}
