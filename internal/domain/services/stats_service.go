package services

import (
	"time"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
	"campmanager-service/pkg/logger"
)

// InterfaceStatsService defines the dashboard read model
type InterfaceStatsService interface {
	GetDashboardStats() (*DashboardStats, error)
}

// DashboardStats is the counter set the presentation layer alerts on
type DashboardStats struct {
	PendingAllocation int64                          `json:"pending_allocation"`
	AwaitingDispatch  int64                          `json:"awaiting_dispatch"`
	InTransit         int64                          `json:"in_transit"`
	ExitInProcess     int64                          `json:"exit_in_process"`
	ExitOverdue       int64                          `json:"exit_overdue"`
	BedsByStatus      map[models.BedStatus]int64     `json:"beds_by_status"`
	GeneratedAt       time.Time                      `json:"generated_at"`
}

const statsCacheKey = "stats:dashboard"
const statsCacheTTL = 30 * time.Second

// StatsService derives the dashboard counters from the entity tables. The
// counters are cached briefly in Redis; the cache is read-through and a
// cache failure falls back to the database.
type StatsService struct {
	DB     *gorm.DB
	Config *config.Config
	Beds   InterfaceBedService
	Cache  InterfaceRedisService // optional
}

// NewStatsService creates a new stats service
func NewStatsService(db *gorm.DB, cfg *config.Config, beds InterfaceBedService, cache InterfaceRedisService) InterfaceStatsService {
	return &StatsService{
		DB:     db,
		Config: cfg,
		Beds:   beds,
		Cache:  cache,
	}
}

// GetDashboardStats returns the counter set, from cache when fresh.
//
// The overdue counter is derived lazily here: a person counts as overdue
// either because a checklist write already marked them, or because the SLA
// clock has run past the limit since the last write.
func (s *StatsService) GetDashboardStats() (*DashboardStats, error) {
	if s.Cache != nil {
		var cached DashboardStats
		if err := s.Cache.Get(statsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats := &DashboardStats{GeneratedAt: time.Now()}

	counts := []struct {
		status models.TransferStatus
		dest   *int64
	}{
		{models.TransferStatusPendingAllocation, &stats.PendingAllocation},
		{models.TransferStatusBedsAllocated, &stats.AwaitingDispatch},
		{models.TransferStatusDispatched, &stats.InTransit},
	}
	for _, c := range counts {
		if err := s.DB.Model(&models.TransferRequest{}).Where("status = ?", c.status).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	// approved_for_dispatch also awaits dispatch
	var approved int64
	if err := s.DB.Model(&models.TransferRequest{}).Where("status = ?", models.TransferStatusApproved).Count(&approved).Error; err != nil {
		return nil, err
	}
	stats.AwaitingDispatch += approved

	inProcess, overdue, err := s.exitCounters()
	if err != nil {
		return nil, err
	}
	stats.ExitInProcess = inProcess
	stats.ExitOverdue = overdue

	beds, err := s.Beds.CountByStatus(0)
	if err != nil {
		return nil, err
	}
	stats.BedsByStatus = beds

	if s.Cache != nil {
		if err := s.Cache.Set(statsCacheKey, stats, statsCacheTTL); err != nil {
			logger.Warning("stats cache write failed: %v", err)
		}
	}
	return stats, nil
}

// checklistIncomplete mirrors ExitFormalities.ChecklistComplete in SQL so
// the overdue counter derives the same way a checklist write would.
const checklistIncomplete = "NOT (toolbox_returned AND id_card_returned AND penalty_cleared" +
	" AND ticket_confirmed AND settlement_cleared AND medical_completed" +
	" AND exit_visa_stamped AND handover_done AND belongings_collected)"

func (s *StatsService) exitCounters() (inProcess, overdue int64, err error) {
	now := time.Now()
	deadline := now.AddDate(0, 0, -models.ExitProcessSLADays)

	for _, model := range []interface{}{&models.Technician{}, &models.ExternalPersonnel{}} {
		var n int64
		if err = s.DB.Model(model).
			Where("exit_start_date IS NOT NULL AND exit_process_status IN ?", []models.ExitProcessStatus{models.ExitProcessInProcess, models.ExitProcessOverdue}).
			Count(&n).Error; err != nil {
			return 0, 0, err
		}
		inProcess += n

		// Overdue by stored status, or by the SLA clock since the last
		// write; a complete checklist is never overdue.
		var o int64
		if err = s.DB.Model(model).
			Where("exit_start_date IS NOT NULL AND exit_process_status = ?", models.ExitProcessOverdue).
			Or("exit_start_date IS NOT NULL AND exit_process_status = ? AND exit_start_date < ? AND "+checklistIncomplete,
				models.ExitProcessInProcess, deadline).
			Count(&o).Error; err != nil {
			return 0, 0, err
		}
		overdue += o
	}
	return inProcess, overdue, nil
}
