package services

import (
	"darp-checker/internal/domain"
	"errors"
	"fmt"
	"math"
)

// Outcome of checking a whole solution.
type SolutionResult struct {
	OK         bool
	Failures   Failures
	Violations []Violation
	Cost       float64
}

// Check every plan of a solution, request coverage and the reported total cost.
//
// A solution marked infeasible is accepted without scrutiny.
func (c *SolutionChecker) CheckSolution(inst *domain.Instance, sol *domain.Solution) (SolutionResult, error) {
	acc := NewAccumulator()

	if !sol.Feasible {
		c.logger.Info().Msg("solution is marked infeasible, skipping checks")
		return SolutionResult{OK: true, Failures: acc.Failures}, nil
	}

	result := func(ok bool, cost float64) SolutionResult {
		return SolutionResult{OK: ok, Failures: acc.Failures, Violations: acc.Violations, Cost: cost}
	}

	ok := true
	total := 0.0
	usedVehicles := make(map[int]struct{})
	served := make(map[int]int)

	for i := range sol.Plans {
		pr, err := c.CheckPlan(&sol.Plans[i], i+1, inst, usedVehicles, acc)
		if err != nil {
			return result(false, total), fmt.Errorf("check solution: %w", err)
		}
		ok = ok && pr.OK
		total += pr.Cost
		for idx := range pr.Served {
			served[idx]++
		}
	}

	coverage := func(request int, format string, args ...any) error {
		ok = false
		return c.record(acc, Violation{Kind: KindCoverage, Request: request, Message: fmt.Sprintf(format, args...)})
	}

	for _, r := range inst.Requests {
		times, isServed := served[r.Index]
		isDropped := sol.IsDropped(r.Index)

		var err error
		switch {
		case !isServed && !isDropped:
			err = coverage(r.Index, "request %d is neither served nor dropped", r.Index)
		case isServed && isDropped:
			err = coverage(r.Index, "request %d is both served and dropped", r.Index)
		case times > 1:
			err = coverage(r.Index, "request %d is served %d times", r.Index, times)
		}
		if err != nil {
			return result(false, total), fmt.Errorf("check solution: %w", err)
		}
	}

	if sol.Cost != nil && math.Abs(total-*sol.Cost) > domain.CostTolerance {
		ok = false
		err := c.record(acc, Violation{
			Kind:    KindSolutionCost,
			Request: -1,
			Message: fmt.Sprintf("reported solution cost %.2f differs from computed cost %.2f", *sol.Cost, total),
		})
		if err != nil {
			return result(false, total), fmt.Errorf("check solution: %w", err)
		}
	}

	if ok {
		c.logger.Info().Float64("cost", total).Int("plans", len(sol.Plans)).Msg("solution OK")
	} else {
		c.logger.Warn().Float64("cost", total).Int("violations", len(acc.Violations)).Msg("solution NOT OK")
	}

	return result(ok, total), nil
}

// Report whether err means a solution references requests or vehicles its
// instance does not have.
func IsStructural(err error) bool {
	return errors.Is(err, domain.ErrUnknownRequest) || errors.Is(err, domain.ErrUnknownVehicle)
}

// Record a solution that could not be bound to its instance as a failed check
// with a single structural violation. The error is only set when the budget is exhausted.
func (c *SolutionChecker) RejectSolution(cause error) (SolutionResult, error) {
	acc := NewAccumulator()
	err := c.record(acc, Violation{Kind: KindStructural, Request: -1, Message: cause.Error()})
	res := SolutionResult{OK: false, Failures: acc.Failures, Violations: acc.Violations}
	if err != nil {
		return res, fmt.Errorf("check solution: %w", err)
	}
	return res, nil
}
