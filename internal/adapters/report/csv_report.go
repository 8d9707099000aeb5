package report

import (
	"darp-checker/internal/domain"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gocarina/gocsv"
)

type row struct {
	SolutionPath      string  `csv:"solution_path"`
	InstancePath      string  `csv:"instance_path"`
	Area              string  `csv:"area"`
	OK                bool    `csv:"ok"`
	PlanDepartureTime int     `csv:"plan_departure_time"`
	Violations        int     `csv:"violations"`
	Warnings          int     `csv:"warnings"`
	Cost              float64 `csv:"cost"`
	CheckedAt         string  `csv:"checked_at"`
}

// Write one CSV row per check record, with a header.
func WriteCSV(w io.Writer, records []domain.CheckRecord) error {
	rows := make([]row, 0, len(records))
	for _, r := range records {
		rows = append(rows, row{
			SolutionPath:      r.SolutionPath,
			InstancePath:      r.InstancePath,
			Area:              r.Area,
			OK:                r.OK,
			PlanDepartureTime: r.PlanDepartureTimeFailures,
			Violations:        r.Violations,
			Warnings:          r.Warnings,
			Cost:              r.Cost,
			CheckedAt:         r.CheckedAt.UTC().Format(time.RFC3339),
		})
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Write the report to path.
func WriteCSVFile(path string, records []domain.CheckRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
