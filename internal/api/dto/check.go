package dto

import (
	"encoding/json"
	"time"
)

type CheckRequest struct {
	InstancePath string          `json:"instance_path"`
	Solution     json.RawMessage `json:"solution"`
	MaxErrors    *int            `json:"max_errors"`
}

type ViolationResponse struct {
	Kind    string `json:"kind"`
	Plan    int    `json:"plan,omitempty"`
	Action  int    `json:"action,omitempty"`
	Request *int   `json:"request,omitempty"`
	Warning bool   `json:"warning"`
	Message string `json:"message"`
}

type CheckResponse struct {
	OK                        bool                `json:"ok"`
	Aborted                   bool                `json:"aborted"`
	Cost                      float64             `json:"cost"`
	PlanDepartureTimeFailures int                 `json:"plan_departure_time_failures"`
	ViolationCount            int                 `json:"violation_count"`
	WarningCount              int                 `json:"warning_count"`
	Violations                []ViolationResponse `json:"violations"`
}

type CheckRecordResponse struct {
	SolutionPath              string    `json:"solution_path"`
	InstancePath              string    `json:"instance_path"`
	Area                      string    `json:"area"`
	OK                        bool      `json:"ok"`
	PlanDepartureTimeFailures int       `json:"plan_departure_time_failures"`
	Violations                int       `json:"violations"`
	Warnings                  int       `json:"warnings"`
	Cost                      float64   `json:"cost"`
	CheckedAt                 time.Time `json:"checked_at"`
}

type ListCheckRecordsResponse struct {
	RunID   string                `json:"run_id"`
	Results []CheckRecordResponse `json:"results"`
}
