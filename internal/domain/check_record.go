package domain

import "time"

// Represents the outcome of checking one solution file in a batch.
type CheckRecord struct {
	SolutionPath              string
	InstancePath              string
	Area                      string
	OK                        bool
	PlanDepartureTimeFailures int
	Violations                int
	Warnings                  int
	Cost                      float64
	CheckedAt                 time.Time
}
