package handlers

import (
	"bytes"
	"darp-checker/internal/api/dto"
	"darp-checker/internal/ports"
	"darp-checker/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Request bodies larger than this are rejected.
const maxBodyBytes = 32 << 20

// CheckHandler checks a posted solution against an instance stored below InstanceRoot.
type CheckHandler struct {
	Instances    ports.InstanceSource
	Solutions    ports.SolutionDecoder
	InstanceRoot string
	MaxErrors    int
}

func (h *CheckHandler) Check(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	logger := zerolog.Ctx(r.Context())

	var req dto.CheckRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Solution) == 0 {
		writeError(w, r, http.StatusBadRequest, "solution is required")
		return
	}
	instancePath, err := h.resolveInstance(req.InstancePath)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	maxErrors := h.MaxErrors
	if req.MaxErrors != nil {
		maxErrors = *req.MaxErrors
	}

	inst, err := h.Instances.LoadInstance(r.Context(), instancePath, nil)
	if err != nil {
		logger.Warn().Err(err).Str("instance", instancePath).Msg("load instance failed")
		writeError(w, r, http.StatusUnprocessableEntity, "cannot load instance")
		return
	}
	checker := services.NewSolutionChecker(services.NewErrorBudget(maxErrors)).WithLogger(*logger)

	var res services.SolutionResult
	sol, err := h.Solutions.DecodeSolution(bytes.NewReader(req.Solution), inst)
	switch {
	case services.IsStructural(err):
		res, err = checker.RejectSolution(err)
	case err != nil:
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	default:
		res, err = checker.CheckSolution(inst, sol)
	}
	aborted := errors.Is(err, services.ErrErrorBudgetExceeded)
	if err != nil && !aborted {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, checkResponse(res, aborted))
}

// Resolve p below InstanceRoot. Paths escaping the root are rejected.
func (h *CheckHandler) resolveInstance(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", errors.New("instance_path is required")
	}
	if filepath.IsAbs(p) {
		return "", errors.New("instance_path must be relative")
	}

	root := h.InstanceRoot
	if root == "" {
		root = "."
	}
	full := filepath.Join(root, p)
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.New("instance_path must stay inside the instance root")
	}
	return full, nil
}

func checkResponse(res services.SolutionResult, aborted bool) dto.CheckResponse {
	failures, warnings := (&services.Accumulator{Violations: res.Violations}).Counts()

	out := dto.CheckResponse{
		OK:                        res.OK && !aborted,
		Aborted:                   aborted,
		Cost:                      res.Cost,
		PlanDepartureTimeFailures: res.Failures[services.FailurePlanDepartureTime],
		ViolationCount:            failures,
		WarningCount:              warnings,
		Violations:                make([]dto.ViolationResponse, 0, len(res.Violations)),
	}
	for _, v := range res.Violations {
		vr := dto.ViolationResponse{
			Kind:    string(v.Kind),
			Plan:    v.Plan,
			Action:  v.Action,
			Warning: v.Warning,
			Message: v.Message,
		}
		if v.Request >= 0 {
			req := v.Request
			vr.Request = &req
		}
		out.Violations = append(out.Violations, vr)
	}
	return out
}
