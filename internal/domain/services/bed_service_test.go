package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campmanager-service/internal/domain/models"
)

func TestSeedBeds(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)

	beds, err := f.beds.SeedBeds(camp.ID, "R-12", 3)
	require.NoError(t, err)
	require.Len(t, beds, 3)
	assert.Equal(t, "R-12-01", beds[0].BedNumber)
	assert.Equal(t, "R-12-03", beds[2].BedNumber)
	for _, bed := range beds {
		assert.Equal(t, models.BedStatusAvailable, bed.Status)
	}

	var validationErr *ValidationError
	_, err = f.beds.SeedBeds(camp.ID, "R-12", 0)
	require.True(t, errors.As(err, &validationErr))
}

func TestCreateBedRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)

	require.NoError(t, f.beds.CreateBed(&models.Bed{CampID: camp.ID, RoomNumber: "R-01", BedNumber: "B-01"}))

	var validationErr *ValidationError
	err := f.beds.CreateBed(&models.Bed{CampID: camp.ID, RoomNumber: "R-01", BedNumber: "B-01"})
	require.True(t, errors.As(err, &validationErr))
}

func TestDeleteBedOnlyWhenAvailable(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	beds := mkBeds(t, f.db, camp.ID, 2)

	require.NoError(t, f.db.Model(&models.Bed{}).Where("id = ?", beds[0].ID).
		Update("status", models.BedStatusReserved).Error)

	var validationErr *ValidationError
	err := f.beds.DeleteBed(beds[0].ID)
	require.True(t, errors.As(err, &validationErr))

	require.NoError(t, f.beds.DeleteBed(beds[1].ID))
}

func TestCountByStatus(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	other := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	beds := mkBeds(t, f.db, camp.ID, 3)
	mkBeds(t, f.db, other.ID, 1)

	require.NoError(t, f.db.Model(&models.Bed{}).Where("id = ?", beds[0].ID).
		Update("status", models.BedStatusReserved).Error)
	require.NoError(t, f.db.Model(&models.Bed{}).Where("id = ?", beds[1].ID).
		Update("status", models.BedStatusOccupied).Error)

	counts, err := f.beds.CountByStatus(camp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.BedStatusAvailable])
	assert.Equal(t, int64(1), counts[models.BedStatusReserved])
	assert.Equal(t, int64(1), counts[models.BedStatusOccupied])

	all, err := f.beds.CountByStatus(0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), all[models.BedStatusAvailable])
}
