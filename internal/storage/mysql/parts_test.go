package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelshop/internal/status"
	"modelshop/internal/storage"
)

func TestPlanPartUpdates(t *testing.T) {
	p1 := partKey{controlNumber: 7, partNumber: "P1"}
	p2 := partKey{controlNumber: 7, partNumber: "P2"}
	other := partKey{controlNumber: 8, partNumber: "P1"}

	parts := []partRow{
		{key: p1, status: status.PartNotStarted},
		{key: p2, status: status.PartNotStarted},
		{key: other, status: status.PartNotStarted},
	}
	assignments := []assignmentRow{
		{controlNumber: 7, partNumbers: []string{"P1", "P2"}, status: status.Completed},
		{controlNumber: 7, partNumbers: []string{"P1"}, status: status.Ongoing},
	}

	updates := planPartUpdates(parts, assignments)

	assert.ElementsMatch(t, []partUpdate{
		{key: p1, status: status.PartOngoing},
		{key: p2, status: status.PartCompleted},
	}, updates)
}

func TestPlanPartUpdates_Idempotent(t *testing.T) {
	parts := []partRow{
		{key: partKey{controlNumber: 1, partNumber: "A"}, status: status.PartPartiallyCompleted},
	}
	assignments := []assignmentRow{
		{controlNumber: 1, partNumbers: []string{"A"}, status: status.Completed},
		{controlNumber: 1, partNumbers: []string{"A"}, status: status.Pending},
	}

	assert.Empty(t, planPartUpdates(parts, assignments))
}

func TestPlanPartUpdates_SkipsFinishedAndCountsDuplicatesOnce(t *testing.T) {
	parts := []partRow{
		{key: partKey{controlNumber: 1, partNumber: "A"}, status: status.PartFinished},
		{key: partKey{controlNumber: 1, partNumber: "B"}, status: status.PartNotStarted},
	}
	assignments := []assignmentRow{
		{controlNumber: 1, partNumbers: []string{"A", "B", "B"}, status: status.Completed},
	}

	updates := planPartUpdates(parts, assignments)
	require.Len(t, updates, 1)
	assert.Equal(t, "B", updates[0].key.partNumber)
	assert.Equal(t, status.PartCompleted, updates[0].status)
}

func TestRecomputeAndFinish(t *testing.T) {
	s := requireDB(t)
	ctx := context.Background()

	f := seedWorkOrder(t, s, []string{"P1", "P2"}, 2)
	first := assign(t, s, f, []string{"P1", "P2"}, f.names[:1])[0]
	assign(t, s, f, []string{"P1"}, f.names[1:])

	_, err := s.ApplyTaskTransition(ctx, first, storage.TaskScope{}, planned(status.Accept, ""))
	require.NoError(t, err)
	_, err = s.ApplyTaskTransition(ctx, first, storage.TaskScope{}, planned(status.Complete, ""))
	require.NoError(t, err)

	cn := f.controlNumber
	changed, err := s.RecomputePartStatuses(ctx, &cn)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	changed, err = s.RecomputePartStatuses(ctx, &cn)
	require.NoError(t, err)
	assert.Zero(t, changed)

	var p1, p2 string
	require.NoError(t, testDB.QueryRow(`SELECT status FROM part_master WHERE control_number = ? AND part_number = 'P1'`, cn).Scan(&p1))
	require.NoError(t, testDB.QueryRow(`SELECT status FROM part_master WHERE control_number = ? AND part_number = 'P2'`, cn).Scan(&p2))
	assert.Equal(t, "partially completed", p1)
	assert.Equal(t, "completed", p2)

	active, err := s.ActiveControlNumbers(ctx)
	require.NoError(t, err)
	assert.Contains(t, active, cn)

	n, err := s.FinishControlNumber(ctx, cn)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	active, err = s.ActiveControlNumbers(ctx)
	require.NoError(t, err)
	assert.NotContains(t, active, cn)

	n, err = s.FinishControlNumber(ctx, cn)
	require.NoError(t, err)
	assert.Zero(t, n)

	finished, err := s.TasksByStatus(ctx, storage.TaskFilter{Finished: true})
	require.NoError(t, err)
	var found bool
	for _, task := range finished {
		if task.ID == first {
			found = true
			assert.Equal(t, "finished", *task.Status)
		}
	}
	assert.True(t, found)
}

func TestSaveParts_UnknownControlNumber(t *testing.T) {
	s := requireDB(t)

	err := s.SaveParts(context.Background(), -42, []storage.NewPart{{PartNumber: "X", Description: "x", Quantity: 1}}, "test")
	assert.ErrorIs(t, err, storage.ErrInvalidReference)
}
