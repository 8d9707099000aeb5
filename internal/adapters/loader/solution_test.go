package loader

import (
	"context"
	"darp-checker/internal/adapters/traveltime"
	"darp-checker/internal/domain"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInstance(t *testing.T, virtual bool) *domain.Instance {
	t.Helper()

	base := domain.UnixSeconds(0)
	reqs := []*domain.Request{
		domain.NewRequest(4, domain.ActionSpec{ID: 0, MinTime: base, MaxTime: base}, domain.ActionSpec{ID: 1, MinTime: base, MaxTime: base}, 0),
		domain.NewRequest(9, domain.ActionSpec{ID: 2, MinTime: base, MaxTime: base}, domain.ActionSpec{ID: 3, MinTime: base, MaxTime: base}, 0),
	}
	vehicles := []*domain.Vehicle{
		{Index: 0, InitialPosition: &domain.Node{Idx: 0}, Capacity: 2},
		{Index: 1, InitialPosition: &domain.Node{Idx: 0}, Capacity: 2},
	}
	inst, err := domain.NewInstance(reqs, vehicles, traveltime.NewFixedProvider(nil), domain.InstanceConfig{VirtualVehicles: virtual})
	require.NoError(t, err)
	return inst
}

const solutionJSON = `{
  "cost": 700,
  "plans": [
    {
      "vehicle": {"index": 1},
      "cost": 700,
      "departure_time": 1000,
      "arrival_time": 1700,
      "actions": [
        {"action": {"type": "pickup", "request_index": 4}, "arrival_time": 1300, "departure_time": 1310},
        {"action": {"type": "drop_off", "request_index": 4}, "departure_time": 1700}
      ]
    }
  ],
  "dropped_requests": [{"index": 9}]
}`

func TestDecodeSolutionBindsInstanceActions(t *testing.T) {
	inst := testInstance(t, false)

	sol, err := DecodeSolution(strings.NewReader(solutionJSON), inst)
	require.NoError(t, err)

	assert.True(t, sol.Feasible)
	require.NotNil(t, sol.Cost)
	assert.Equal(t, 700.0, *sol.Cost)
	assert.True(t, sol.IsDropped(9))
	assert.False(t, sol.IsDropped(4))

	require.Len(t, sol.Plans, 1)
	plan := sol.Plans[0]
	assert.Same(t, inst.Vehicles[1], plan.Vehicle)
	assert.Equal(t, domain.UnixSeconds(1000), plan.DepartureTime)

	require.Len(t, plan.Actions, 2)
	assert.Same(t, inst.RequestMap[4].Pickup, plan.Actions[0].Action)
	assert.Same(t, inst.RequestMap[4].DropOff, plan.Actions[1].Action)
	require.NotNil(t, plan.Actions[0].ArrivalTime)
	assert.Equal(t, domain.UnixSeconds(1300), *plan.Actions[0].ArrivalTime)
	assert.Nil(t, plan.Actions[1].ArrivalTime)
	assert.Equal(t, domain.UnixSeconds(1310), plan.Actions[0].DepartureTime)
}

func TestDecodeSolutionVirtualVehicles(t *testing.T) {
	inst := testInstance(t, true)

	sol, err := DecodeSolution(strings.NewReader(strings.Replace(solutionJSON, `"index": 1}`, `"index": 57}`, 1)), inst)
	require.NoError(t, err)
	assert.Same(t, inst.Vehicles[0], sol.Plans[0].Vehicle)
}

func TestDecodeSolutionInfeasible(t *testing.T) {
	sol, err := DecodeSolution(strings.NewReader(`{"feasible": false, "plans": [{"vehicle": {"index": 99}}]}`), testInstance(t, false))
	require.NoError(t, err)
	assert.False(t, sol.Feasible)
	assert.Empty(t, sol.Plans)
}

func TestDecodeSolutionDroppedByID(t *testing.T) {
	sol, err := DecodeSolution(strings.NewReader(`{"plans": [], "dropped_requests": [{"id": 4}, {"index": 9}]}`), testInstance(t, false))
	require.NoError(t, err)
	assert.True(t, sol.IsDropped(4))
	assert.True(t, sol.IsDropped(9))
	assert.Nil(t, sol.Cost)
}

func TestDecodeSolutionUnknownReferences(t *testing.T) {
	inst := testInstance(t, false)

	_, err := DecodeSolution(strings.NewReader(strings.Replace(solutionJSON, `"request_index": 4}, "arrival_time"`, `"request_index": 5}, "arrival_time"`, 1)), inst)
	assert.ErrorIs(t, err, ErrUnknownRequest)

	_, err = DecodeSolution(strings.NewReader(strings.Replace(solutionJSON, `"index": 1}`, `"index": 7}`, 1)), inst)
	assert.ErrorIs(t, err, ErrUnknownVehicle)

	_, err = DecodeSolution(strings.NewReader(strings.Replace(solutionJSON, `"pickup"`, `"teleport"`, 1)), inst)
	assert.Error(t, err)
}

func TestLoadSolutionFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml-solution.json")
	writeFile(t, path, solutionJSON)

	sol, err := New(nil).LoadSolution(context.Background(), path, testInstance(t, false))
	require.NoError(t, err)
	assert.Len(t, sol.Plans, 1)

	_, err = New(nil).LoadSolution(context.Background(), filepath.Join(t.TempDir(), "missing.json"), testInstance(t, false))
	assert.Error(t, err)
}
