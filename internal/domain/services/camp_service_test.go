package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
)

func TestResolveExitCampExplicitConfigWins(t *testing.T) {
	db := newTestDB(t)
	tagged := mkCamp(t, db, "Tagged Exit Camp", "EXIT-01", models.CampTypeExit)
	configured := mkCamp(t, db, "Overflow Camp", "OV-01", models.CampTypeRegular)

	camps := NewCampService(db, &config.Config{ExitCampID: configured.ID})
	camp, err := camps.ResolveExitCamp()
	require.NoError(t, err)
	assert.Equal(t, configured.ID, camp.ID, "the configured id beats the type tag")
	assert.NotEqual(t, tagged.ID, camp.ID)
}

func TestResolveExitCampConfiguredButMissing(t *testing.T) {
	db := newTestDB(t)
	mkCamp(t, db, "Tagged Exit Camp", "EXIT-01", models.CampTypeExit)

	// A dangling configured id is an error, not a fallback: silently using a
	// different camp would route exits to the wrong place.
	camps := NewCampService(db, &config.Config{ExitCampID: 9999})
	_, err := camps.ResolveExitCamp()
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
}

func TestResolveExitCampByTypeTag(t *testing.T) {
	db := newTestDB(t)
	mkCamp(t, db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	tagged := mkCamp(t, db, "Exit Processing Camp", "EP-01", models.CampTypeExit)

	camps := NewCampService(db, &config.Config{})
	camp, err := camps.ResolveExitCamp()
	require.NoError(t, err)
	assert.Equal(t, tagged.ID, camp.ID)
}

func TestResolveExitCampLegacyNameMatch(t *testing.T) {
	db := newTestDB(t)
	mkCamp(t, db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	legacy := mkCamp(t, db, "Sonapur Exit Camp", "SNP-09", models.CampTypeRegular)

	camps := NewCampService(db, &config.Config{})
	camp, err := camps.ResolveExitCamp()
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, camp.ID, "records predating the type column resolve by name")
}

func TestResolveExitCampNoneConfigured(t *testing.T) {
	db := newTestDB(t)
	mkCamp(t, db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)

	camps := NewCampService(db, &config.Config{})
	_, err := camps.ResolveExitCamp()
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr))
}

func TestCreateCampRejectsDuplicateCode(t *testing.T) {
	db := newTestDB(t)
	mkCamp(t, db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)

	camps := NewCampService(db, &config.Config{})
	err := camps.CreateCamp(&models.Camp{Name: "Another Camp", Code: "JA-01"})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
}

func TestDeleteCampBlockedByBeds(t *testing.T) {
	db := newTestDB(t)
	camp := mkCamp(t, db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	mkBeds(t, db, camp.ID, 1)

	camps := NewCampService(db, &config.Config{})
	err := camps.DeleteCamp(camp.ID)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
}
