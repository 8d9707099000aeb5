package traveltime

import (
	"context"
	"darp-checker/internal/platform/obs"
	"darp-checker/internal/ports"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrUnsupportedMatrixFormat = errors.New("unsupported matrix format")

// Parse a header-less square matrix of travel times from a CSV file.
func LoadMatrixCSV(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load matrix csv: %w", err)
	}
	defer f.Close()

	table, err := readMatrixCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load matrix csv %q: %w", path, err)
	}
	return NewMatrix(table)
}

func readMatrixCSV(r io.Reader) ([][]int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	var table [][]int
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(table)+1, err)
		}

		row := make([]int, len(record))
		for j, cell := range record {
			v, err := parseTravelTime(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", len(table)+1, j+1, err)
			}
			row[j] = v
		}
		table = append(table, row)
	}
	return table, nil
}

func parseTravelTime(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if v, err := strconv.Atoi(cell); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("parse travel time %q: %w", cell, err)
	}
	return int(math.Round(f)), nil
}

// Return the cache key identifying the current content of a matrix file.
func MatrixCacheKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("matrix cache key: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("matrix cache key: %w", err)
	}
	return fmt.Sprintf("darpcheck:matrix:%s:%d:%d", abs, info.ModTime().UnixNano(), info.Size()), nil
}

// Load a matrix file, consulting the cache first when one is given.
// Cache failures are logged and never fail the load.
func LoadMatrixFile(ctx context.Context, path string, cache ports.MatrixCache) (_ *Matrix, err error) {
	defer obs.Time(ctx, "traveltime.LoadMatrixFile")(&err)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
	// HDF5 readers for Go need cgo.
	case ".h5", ".hdf5":
		return nil, fmt.Errorf("load matrix %q: %w (convert it to csv)", path, ErrUnsupportedMatrixFormat)
	default:
		return nil, fmt.Errorf("load matrix %q: %w", path, ErrUnsupportedMatrixFormat)
	}

	if cache == nil {
		return LoadMatrixCSV(path)
	}

	key, err := MatrixCacheKey(path)
	if err != nil {
		return nil, err
	}

	table, ok, cacheErr := cache.GetMatrix(ctx, key)
	if cacheErr != nil {
		log.Warn().Err(cacheErr).Str("path", path).Msg("matrix cache read failed")
	}
	if ok {
		log.Debug().Str("path", path).Int("size", len(table)).Msg("matrix cache hit")
		return NewMatrix(table)
	}

	m, err := LoadMatrixCSV(path)
	if err != nil {
		return nil, err
	}

	if err := cache.PutMatrix(ctx, key, m.Table()); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("matrix cache write failed")
	}
	return m, nil
}
