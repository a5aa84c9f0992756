package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func exitStartedAt(daysAgo int, now time.Time) *ExitFormalities {
	start := now.AddDate(0, 0, -daysAgo)
	return &ExitFormalities{ExitStartDate: &start}
}

func TestDaysInProcess(t *testing.T) {
	now := time.Now()

	assert.Equal(t, 0, (&ExitFormalities{}).DaysInProcess(now), "not started means zero days")
	assert.Equal(t, 0, exitStartedAt(0, now).DaysInProcess(now))
	assert.Equal(t, 3, exitStartedAt(3, now).DaysInProcess(now))

	// a start date in the future clamps to zero
	future := now.Add(48 * time.Hour)
	assert.Equal(t, 0, (&ExitFormalities{ExitStartDate: &future}).DaysInProcess(now))
}

func TestDeriveProcessStatusSLABoundary(t *testing.T) {
	now := time.Now()

	// exactly at the SLA is still in process; overdue starts on day eight
	assert.Equal(t, ExitProcessInProcess, exitStartedAt(7, now).DeriveProcessStatus(now))
	assert.Equal(t, ExitProcessOverdue, exitStartedAt(8, now).DeriveProcessStatus(now))
}

func TestDeriveProcessStatusCompleteChecklistNeverOverdue(t *testing.T) {
	now := time.Now()
	exit := exitStartedAt(30, now)
	exit.ToolboxReturned = true
	exit.IDCardReturned = true
	exit.PenaltyCleared = true
	exit.TicketConfirmed = true
	exit.SettlementCleared = true
	exit.MedicalCompleted = true
	exit.ExitVisaStamped = true
	exit.HandoverDone = true
	exit.BelongingsCollected = true

	assert.True(t, exit.ChecklistComplete())
	assert.Equal(t, ExitProcessInProcess, exit.DeriveProcessStatus(now))
}

func TestDeriveProcessStatusNeverDowngradesCompleted(t *testing.T) {
	now := time.Now()
	exit := exitStartedAt(30, now)
	exit.ExitProcessStatus = ExitProcessCompleted

	assert.Equal(t, ExitProcessCompleted, exit.DeriveProcessStatus(now))
}

func TestChecklistCompleteRequiresAllFlags(t *testing.T) {
	exit := &ExitFormalities{
		ToolboxReturned:   true,
		IDCardReturned:    true,
		PenaltyCleared:    true,
		TicketConfirmed:   true,
		SettlementCleared: true,
		MedicalCompleted:  true,
		ExitVisaStamped:   true,
		HandoverDone:      true,
		// BelongingsCollected still false
	}
	assert.False(t, exit.ChecklistComplete())

	exit.BelongingsCollected = true
	assert.True(t, exit.ChecklistComplete())
}
