package loader

import (
	"darp-checker/internal/domain"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// One line of vehicles.csv. The operation window columns are optional.
type vehicleRow struct {
	Node           int   `csv:"node"`
	Capacity       int   `csv:"capacity"`
	OperationStart int64 `csv:"operation_start"`
	OperationEnd   int64 `csv:"operation_end"`
}

// Parse a tab separated, header-less vehicles file. Vehicles are indexed by line.
func readVehicles(r io.Reader) ([]*domain.Vehicle, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []vehicleRow
	if err := gocsv.UnmarshalCSVWithoutHeaders(cr, &rows); err != nil {
		return nil, fmt.Errorf("read vehicles: %w", err)
	}

	vehicles := make([]*domain.Vehicle, 0, len(rows))
	for i, row := range rows {
		v := &domain.Vehicle{
			Index:           i,
			InitialPosition: &domain.Node{Idx: row.Node},
			Capacity:        row.Capacity,
		}
		if row.OperationStart != 0 {
			v.OperationStart = domain.UnixSeconds(row.OperationStart)
		}
		if row.OperationEnd != 0 {
			v.OperationEnd = domain.UnixSeconds(row.OperationEnd)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}
