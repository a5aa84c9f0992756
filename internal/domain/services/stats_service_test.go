package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campmanager-service/internal/domain/models"
)

func TestDashboardOverdueRespectsChecklist(t *testing.T) {
	f := newFixture(t)
	stats := NewStatsService(f.db, f.cfg, f.beds, nil)
	exitCamp := mkCamp(t, f.db, "Sonapur Exit Camp", "EXIT-01", models.CampTypeExit)
	beds := mkBeds(t, f.db, exitCamp.ID, 2)

	// ten days in, checklist untouched: overdue by the SLA clock
	late := mkTechnician(t, f.db, "ramesh", exitCamp.ID)
	startExitProcess(t, f.db, late, exitCamp.ID, beds[0].ID, time.Now().AddDate(0, 0, -10))

	// ten days in but everything signed off: waiting on the decision, never
	// overdue
	waiting := mkTechnician(t, f.db, "suresh", exitCamp.ID)
	startExitProcess(t, f.db, waiting, exitCamp.ID, beds[1].ID, time.Now().AddDate(0, 0, -10))
	_, err := f.exits.UpdateChecklist(adminActor, waiting.Ref(), fullChecklist())
	require.NoError(t, err)

	dashboard, err := stats.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), dashboard.ExitInProcess)
	assert.Equal(t, int64(1), dashboard.ExitOverdue)
	assert.Equal(t, int64(2), dashboard.BedsByStatus[models.BedStatusOccupied])
}

func TestDashboardTransferCounters(t *testing.T) {
	f := newFixture(t)
	stats := NewStatsService(f.db, f.cfg, f.beds, nil)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	target := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)
	beds := mkBeds(t, f.db, target.ID, 1)

	request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)

	dashboard, err := stats.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), dashboard.PendingAllocation)
	assert.Zero(t, dashboard.AwaitingDispatch)

	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{{Person: tech.Ref(), BedID: beds[0].ID}})
	require.NoError(t, err)
	_, err = f.transfers.ApproveForDispatch(adminActor, request.ID)
	require.NoError(t, err)

	dashboard, err = stats.GetDashboardStats()
	require.NoError(t, err)
	assert.Zero(t, dashboard.PendingAllocation)
	assert.Equal(t, int64(1), dashboard.AwaitingDispatch)
}
