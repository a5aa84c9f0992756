package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
)

var testDBSeq atomic.Int64

var (
	adminActor   = Actor{Username: "admin", Role: models.RoleSystemAdmin}
	welfareActor = Actor{Username: "welfare1", Role: models.RoleWelfareOfficer}
	viewerActor  = Actor{Username: "viewer1", Role: models.RoleViewer}
)

// newTestDB opens an in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// a plain ":memory:" DSN gives every pooled connection its own empty
	// database; a named shared-cache DSN keeps the schema visible to the
	// extra connections the services open during transactions
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Admin{},
		&models.Camp{},
		&models.Bed{},
		&models.Technician{},
		&models.ExternalPersonnel{},
		&models.TransferRequest{},
		&models.TransferRequestMember{},
		&models.DisciplinaryActionType{},
		&models.DisciplinaryAction{},
		&models.OperationLog{},
	))
	return db
}

// fixture wires the engine services over one test database
type fixture struct {
	db           *gorm.DB
	cfg          *config.Config
	camps        InterfaceCampService
	beds         InterfaceBedService
	transfers    InterfaceTransferService
	disciplinary InterfaceDisciplinaryService
	exits        InterfaceExitService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{}
	camps := NewCampService(db, cfg)
	transfers := NewTransferService(db, cfg, camps, nil)
	return &fixture{
		db:           db,
		cfg:          cfg,
		camps:        camps,
		beds:         NewBedService(db, cfg),
		transfers:    transfers,
		disciplinary: NewDisciplinaryService(db, cfg, camps, transfers),
		exits:        NewExitService(db, cfg, camps, nil),
	}
}

func mkCamp(t *testing.T, db *gorm.DB, name, code string, campType models.CampType) *models.Camp {
	t.Helper()
	camp := &models.Camp{Name: name, Code: code, Type: campType, Capacity: 100, Status: "active"}
	require.NoError(t, db.Create(camp).Error)
	return camp
}

func mkTechnician(t *testing.T, db *gorm.DB, name string, campID uint) *models.Technician {
	t.Helper()
	tech := &models.Technician{
		Name:       name,
		EmployeeNo: "EMP-" + name,
		Status:     models.PersonStatusActive,
		CampID:     &campID,
	}
	require.NoError(t, db.Create(tech).Error)
	return tech
}

func mkExternal(t *testing.T, db *gorm.DB, name string, campID uint) *models.ExternalPersonnel {
	t.Helper()
	person := &models.ExternalPersonnel{
		Name:   name,
		PassNo: "GP-" + name,
		Status: models.PersonStatusActive,
		CampID: &campID,
	}
	require.NoError(t, db.Create(person).Error)
	return person
}

func mkBeds(t *testing.T, db *gorm.DB, campID uint, n int) []models.Bed {
	t.Helper()
	beds := make([]models.Bed, 0, n)
	for i := 1; i <= n; i++ {
		bed := models.Bed{
			CampID:     campID,
			RoomNumber: "R-01",
			BedNumber:  fmt.Sprintf("B-%02d", i),
			Status:     models.BedStatusAvailable,
		}
		require.NoError(t, db.Create(&bed).Error)
		beds = append(beds, bed)
	}
	return beds
}

// assignBed marks a person as occupying a bed, as a completed earlier
// transfer would have left them
func assignBed(t *testing.T, db *gorm.DB, ref models.PersonRef, bedID uint) {
	t.Helper()
	require.NoError(t, db.Model(&models.Bed{}).Where("id = ?", bedID).Updates(map[string]interface{}{
		"status":        models.BedStatusOccupied,
		"occupant_type": ref.Type,
		"occupant_id":   ref.ID,
	}).Error)
	switch ref.Type {
	case models.PersonTypeTechnician:
		require.NoError(t, db.Model(&models.Technician{}).Where("id = ?", ref.ID).Update("bed_id", bedID).Error)
	case models.PersonTypeExternal:
		require.NoError(t, db.Model(&models.ExternalPersonnel{}).Where("id = ?", ref.ID).Update("bed_id", bedID).Error)
	}
}

func reloadBed(t *testing.T, db *gorm.DB, id uint) *models.Bed {
	t.Helper()
	var bed models.Bed
	require.NoError(t, db.First(&bed, id).Error)
	return &bed
}

func reloadTechnician(t *testing.T, db *gorm.DB, id uint) *models.Technician {
	t.Helper()
	var tech models.Technician
	require.NoError(t, db.First(&tech, id).Error)
	return &tech
}

// startExitProcess puts a technician straight into the exit process at the
// given camp, as a completed transfer arrival would
func startExitProcess(t *testing.T, db *gorm.DB, tech *models.Technician, campID, bedID uint, startedAt time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Bed{}).Where("id = ?", bedID).Updates(map[string]interface{}{
		"status":        models.BedStatusOccupied,
		"occupant_type": models.PersonTypeTechnician,
		"occupant_id":   tech.ID,
	}).Error)
	require.NoError(t, db.Model(tech).Updates(map[string]interface{}{
		"camp_id":             campID,
		"bed_id":              bedID,
		"status":              models.PersonStatusPendingExit,
		"exit_start_date":     startedAt,
		"exit_process_status": models.ExitProcessInProcess,
	}).Error)
}
