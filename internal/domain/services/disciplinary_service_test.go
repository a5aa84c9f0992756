package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
)

func mkActionType(t *testing.T, db *gorm.DB, name, legacy string) *models.DisciplinaryActionType {
	t.Helper()
	actionType := &models.DisciplinaryActionType{Name: name, LegacyCode: legacy}
	require.NoError(t, db.Create(actionType).Error)
	return actionType
}

func countActions(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.DisciplinaryAction{}).Count(&n).Error)
	return n
}

func countTransfers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.TransferRequest{}).Count(&n).Error)
	return n
}

func TestRecordTerminationRequiresChoiceAndReason(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	mkCamp(t, f.db, "Sonapur Exit Camp", "EXIT-01", models.CampTypeExit)
	tech := mkTechnician(t, f.db, "ramesh", camp.ID)
	termination := mkActionType(t, f.db, "termination", "TERM")

	var validationErr *ValidationError

	_, err := f.disciplinary.RecordAction(adminActor, &models.DisciplinaryAction{
		PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
		ActionTypeID:      termination.ID,
		TerminationReason: "gross misconduct",
	})
	require.True(t, errors.As(err, &validationErr), "termination without exit process choice must fail")

	_, err = f.disciplinary.RecordAction(adminActor, &models.DisciplinaryAction{
		PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
		ActionTypeID:      termination.ID,
		ExitProcessChoice: models.ExitChoiceCampTransfer,
	})
	require.True(t, errors.As(err, &validationErr), "termination without reason must fail")

	assert.Zero(t, countActions(t, f.db), "failed terminations must not be saved")
}

func TestTerminationWithCampTransferRaisesExitRequest(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	exitCamp := mkCamp(t, f.db, "Sonapur Exit Camp", "EXIT-01", models.CampTypeExit)
	tech := mkTechnician(t, f.db, "ramesh", camp.ID)
	termination := mkActionType(t, f.db, "termination", "TERM")

	action, err := f.disciplinary.RecordAction(adminActor, &models.DisciplinaryAction{
		PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
		ActionTypeID:      termination.ID,
		TerminationReason: "gross misconduct",
		ExitProcessChoice: models.ExitChoiceCampTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, adminActor.Username, action.RecordedBy)
	assert.False(t, action.FollowUpRequired)

	var request models.TransferRequest
	require.NoError(t, f.db.Preload("Members").First(&request).Error)
	assert.Equal(t, models.TransferStatusPendingAllocation, request.Status)
	assert.Equal(t, camp.ID, request.SourceCampID)
	assert.Equal(t, exitCamp.ID, request.TargetCampID)
	assert.Equal(t, models.ReasonExitCase, request.Reason)
	require.Len(t, request.Members, 1)
	assert.Equal(t, tech.Ref(), request.Members[0].Ref())

	// the person stays put until the transfer is executed
	unmoved := reloadTechnician(t, f.db, tech.ID)
	assert.Equal(t, camp.ID, *unmoved.CampID)
	assert.Equal(t, models.PersonStatusActive, unmoved.Status)
}

func TestExitTriggerIsIdempotent(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	mkCamp(t, f.db, "Sonapur Exit Camp", "EXIT-01", models.CampTypeExit)
	tech := mkTechnician(t, f.db, "ramesh", camp.ID)
	termination := mkActionType(t, f.db, "termination", "TERM")

	record := func() {
		_, err := f.disciplinary.RecordAction(adminActor, &models.DisciplinaryAction{
			PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
			ActionTypeID:      termination.ID,
			TerminationReason: "gross misconduct",
			ExitProcessChoice: models.ExitChoiceCampTransfer,
		})
		require.NoError(t, err)
	}

	record()
	record()

	// the second evaluation sees the pending exit request and does nothing
	assert.Equal(t, int64(2), countActions(t, f.db))
	assert.Equal(t, int64(1), countTransfers(t, f.db))
}

func TestExitTriggerNoopAtExitCamp(t *testing.T) {
	f := newFixture(t)
	exitCamp := mkCamp(t, f.db, "Sonapur Exit Camp", "EXIT-01", models.CampTypeExit)
	tech := mkTechnician(t, f.db, "ramesh", exitCamp.ID)
	termination := mkActionType(t, f.db, "termination", "TERM")

	_, err := f.disciplinary.RecordAction(adminActor, &models.DisciplinaryAction{
		PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
		ActionTypeID:      termination.ID,
		TerminationReason: "gross misconduct",
		ExitProcessChoice: models.ExitChoiceCampTransfer,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), countActions(t, f.db), "the action itself still records")
	assert.Zero(t, countTransfers(t, f.db), "no transfer for a person already at the exit camp")
}

func TestTerminationWithDirectDeport(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	exitCamp := mkCamp(t, f.db, "Sonapur Exit Camp", "EXIT-01", models.CampTypeExit)
	tech := mkTechnician(t, f.db, "ramesh", camp.ID)
	beds := mkBeds(t, f.db, camp.ID, 1)
	assignBed(t, f.db, tech.Ref(), beds[0].ID)
	termination := mkActionType(t, f.db, "termination", "TERM")

	_, err := f.disciplinary.RecordAction(adminActor, &models.DisciplinaryAction{
		PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
		ActionTypeID:      termination.ID,
		TerminationReason: "absconded",
		ExitProcessChoice: models.ExitChoiceDirectDeport,
	})
	require.NoError(t, err)

	moved := reloadTechnician(t, f.db, tech.ID)
	require.NotNil(t, moved.CampID)
	assert.Equal(t, exitCamp.ID, *moved.CampID)
	assert.Nil(t, moved.BedID, "direct deport reserves no bed")

	// the bed they held at the old camp went back to available
	vacated := reloadBed(t, f.db, beds[0].ID)
	assert.Equal(t, models.BedStatusAvailable, vacated.Status)
	assert.Nil(t, vacated.Occupant())
	assert.Equal(t, models.PersonStatusPendingExit, moved.Status)
	require.NotNil(t, moved.Exit.ExitStartDate)
	assert.Equal(t, models.ExitProcessInProcess, moved.Exit.ExitProcessStatus)

	assert.Zero(t, countTransfers(t, f.db), "direct deport bypasses transfer bookkeeping")
}

func TestTerminationFailsWithoutExitCamp(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", camp.ID)
	termination := mkActionType(t, f.db, "termination", "TERM")

	_, err := f.disciplinary.RecordAction(adminActor, &models.DisciplinaryAction{
		PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
		ActionTypeID:      termination.ID,
		TerminationReason: "gross misconduct",
		ExitProcessChoice: models.ExitChoiceCampTransfer,
	})
	var configErr *ConfigError
	require.True(t, errors.As(err, &configErr), "no resolvable exit camp must surface as a config error")

	assert.Zero(t, countActions(t, f.db), "a blocked termination is not saved")
}

func TestResignationFollowUp(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	exitCamp := mkCamp(t, f.db, "Sonapur Exit Camp", "EXIT-01", models.CampTypeExit)
	tech := mkTechnician(t, f.db, "ramesh", camp.ID)
	resignation := mkActionType(t, f.db, "resignation", "RESG")

	// Resignation without a choice saves immediately and waits for the
	// follow-up decision.
	action, err := f.disciplinary.RecordAction(adminActor, &models.DisciplinaryAction{
		PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
		ActionTypeID: resignation.ID,
		Description:  "30 days notice served",
	})
	require.NoError(t, err)
	assert.True(t, action.FollowUpRequired)
	assert.Zero(t, countTransfers(t, f.db))

	require.NoError(t, f.disciplinary.TriggerExitProcess(adminActor, action.ID, models.ExitChoiceCampTransfer))

	var request models.TransferRequest
	require.NoError(t, f.db.First(&request).Error)
	assert.Equal(t, exitCamp.ID, request.TargetCampID)

	followedUp, err := f.disciplinary.GetActionByID(action.ID)
	require.NoError(t, err)
	assert.False(t, followedUp.FollowUpRequired)
	assert.Equal(t, models.ExitChoiceCampTransfer, followedUp.ExitProcessChoice)
}

func TestWarningDoesNotTriggerExit(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	mkCamp(t, f.db, "Sonapur Exit Camp", "EXIT-01", models.CampTypeExit)
	tech := mkTechnician(t, f.db, "ramesh", camp.ID)
	warning := mkActionType(t, f.db, "warning", "WARN")

	action, err := f.disciplinary.RecordAction(welfareActor, &models.DisciplinaryAction{
		PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
		ActionTypeID: warning.ID,
		Description:  "missed curfew",
	})
	require.NoError(t, err)
	assert.Zero(t, countTransfers(t, f.db))

	// a warning cannot start the exit process even explicitly
	var validationErr *ValidationError
	err = f.disciplinary.TriggerExitProcess(adminActor, action.ID, models.ExitChoiceCampTransfer)
	require.True(t, errors.As(err, &validationErr))
}

func TestRecordActionPermission(t *testing.T) {
	f := newFixture(t)
	camp := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", camp.ID)
	warning := mkActionType(t, f.db, "warning", "WARN")

	var permissionErr *PermissionError
	_, err := f.disciplinary.RecordAction(viewerActor, &models.DisciplinaryAction{
		PersonType: tech.Ref().Type, PersonID: tech.Ref().ID,
		ActionTypeID: warning.ID,
	})
	require.True(t, errors.As(err, &permissionErr))
}
