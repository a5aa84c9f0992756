package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campmanager-service/internal/domain/models"
)

func TestCreateTransferRequestValidation(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	target := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)

	var validationErr *ValidationError

	_, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
	})
	require.True(t, errors.As(err, &validationErr), "empty person list must fail")

	_, err = f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: source.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.True(t, errors.As(err, &validationErr), "same source and target must fail")

	_, err = f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref(), tech.Ref()},
	})
	require.True(t, errors.As(err, &validationErr), "duplicate person must fail")

	other := mkTechnician(t, f.db, "noor", target.ID)
	_, err = f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{other.Ref()},
	})
	require.True(t, errors.As(err, &validationErr), "person outside the source camp must fail")

	var permissionErr *PermissionError
	_, err = f.transfers.CreateTransferRequest(viewerActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.True(t, errors.As(err, &permissionErr), "viewers may not create transfers")
}

func TestTransferLifecycleHappyPath(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	target := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)
	external := mkExternal(t, f.db, "noor", source.ID)
	beds := mkBeds(t, f.db, target.ID, 2)
	sourceBeds := mkBeds(t, f.db, source.ID, 2)
	assignBed(t, f.db, tech.Ref(), sourceBeds[0].ID)
	assignBed(t, f.db, external.Ref(), sourceBeds[1].ID)

	request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref(), external.Ref()},
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusPendingAllocation, request.Status)
	assert.NotEmpty(t, request.Reference)
	assert.Len(t, request.Members, 2)

	request, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{
		{Person: tech.Ref(), BedID: beds[0].ID},
		{Person: external.Ref(), BedID: beds[1].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusBedsAllocated, request.Status)
	for _, member := range request.Members {
		require.NotNil(t, member.AllocatedBedID)
	}
	bed := reloadBed(t, f.db, beds[0].ID)
	assert.Equal(t, models.BedStatusReserved, bed.Status)
	require.NotNil(t, bed.ReservedFor())
	assert.Equal(t, tech.Ref(), *bed.ReservedFor())

	request, err = f.transfers.ApproveForDispatch(adminActor, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusApproved, request.Status)
	assert.Equal(t, adminActor.Username, request.ApprovedBy)

	request, err = f.transfers.DispatchTechnicians(adminActor, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusDispatched, request.Status)

	moved := reloadTechnician(t, f.db, tech.ID)
	require.NotNil(t, moved.CampID)
	assert.Equal(t, target.ID, *moved.CampID)
	require.NotNil(t, moved.BedID)
	assert.Equal(t, beds[0].ID, *moved.BedID)
	assert.Equal(t, models.PersonStatusPendingArrival, moved.Status)
	// target beds stay reserved until arrival
	assert.Equal(t, models.BedStatusReserved, reloadBed(t, f.db, beds[0].ID).Status)
	// the beds vacated at the source camp are free again
	for _, sourceBed := range sourceBeds {
		vacated := reloadBed(t, f.db, sourceBed.ID)
		assert.Equal(t, models.BedStatusAvailable, vacated.Status)
		assert.Nil(t, vacated.Occupant())
	}

	request, err = f.transfers.ConfirmArrival(adminActor, request.ID, tech.Ref())
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusPartiallyArrived, request.Status)
	bed = reloadBed(t, f.db, beds[0].ID)
	assert.Equal(t, models.BedStatusOccupied, bed.Status)
	require.NotNil(t, bed.Occupant())
	assert.Equal(t, tech.Ref(), *bed.Occupant())
	assert.Equal(t, models.PersonStatusActive, reloadTechnician(t, f.db, tech.ID).Status)

	request, err = f.transfers.ConfirmArrival(adminActor, request.ID, external.Ref())
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusCompleted, request.Status)
	assert.NotNil(t, request.CompletedDate)

	// a second confirmation for the same person is stale
	var transitionErr *InvalidTransitionError
	_, err = f.transfers.ConfirmArrival(adminActor, request.ID, tech.Ref())
	require.True(t, errors.As(err, &transitionErr))
}

func TestAllocateBedsValidation(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	target := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)
	external := mkExternal(t, f.db, "noor", source.ID)
	targetBeds := mkBeds(t, f.db, target.ID, 2)
	sourceBeds := mkBeds(t, f.db, source.ID, 1)

	request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref(), external.Ref()},
	})
	require.NoError(t, err)

	var validationErr *ValidationError

	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{
		{Person: tech.Ref(), BedID: targetBeds[0].ID},
	})
	require.True(t, errors.As(err, &validationErr), "every member needs a bed")

	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{
		{Person: tech.Ref(), BedID: targetBeds[0].ID},
		{Person: external.Ref(), BedID: targetBeds[0].ID},
	})
	require.True(t, errors.As(err, &validationErr), "beds must be distinct")

	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{
		{Person: tech.Ref(), BedID: targetBeds[0].ID},
		{Person: external.Ref(), BedID: sourceBeds[0].ID},
	})
	require.True(t, errors.As(err, &validationErr), "beds must be in the target camp")

	// failed attempts must leave no reservation behind
	assert.Equal(t, models.BedStatusAvailable, reloadBed(t, f.db, targetBeds[0].ID).Status)

	// a reserved bed cannot be allocated again
	require.NoError(t, f.db.Model(&models.Bed{}).Where("id = ?", targetBeds[1].ID).
		Update("status", models.BedStatusOccupied).Error)
	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{
		{Person: tech.Ref(), BedID: targetBeds[0].ID},
		{Person: external.Ref(), BedID: targetBeds[1].ID},
	})
	require.True(t, errors.As(err, &validationErr), "occupied beds are not allocatable")
}

func TestDuplicateGuardBlocksSecondAllocation(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	targetA := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	targetB := mkCamp(t, f.db, "Jebel Ali Camp 3", "JA-03", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)
	bedsA := mkBeds(t, f.db, targetA.ID, 1)
	bedsB := mkBeds(t, f.db, targetB.ID, 1)

	requestA, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: targetA.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)

	// Raising a second request for the same person is allowed; the claim
	// only starts at allocation.
	requestB, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: targetB.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)

	_, err = f.transfers.AllocateBeds(adminActor, requestA.ID, []BedAllocation{{Person: tech.Ref(), BedID: bedsA[0].ID}})
	require.NoError(t, err)

	_, err = f.transfers.AllocateBeds(adminActor, requestB.ID, []BedAllocation{{Person: tech.Ref(), BedID: bedsB[0].ID}})
	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, requestA.ID, conflictErr.Conflicts[0].RequestID)
	assert.Equal(t, targetA.ID, conflictErr.Conflicts[0].TargetCampID)

	// the failed allocation reserved nothing
	assert.Equal(t, models.BedStatusAvailable, reloadBed(t, f.db, bedsB[0].ID).Status)

	// releasing request A's claim frees the person for request B
	_, err = f.transfers.RejectAllocation(adminActor, requestA.ID, "allocation withdrawn")
	require.NoError(t, err)
	_, err = f.transfers.AllocateBeds(adminActor, requestB.ID, []BedAllocation{{Person: tech.Ref(), BedID: bedsB[0].ID}})
	require.NoError(t, err)
}

func TestDuplicateGuardRerunsAtDispatch(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	targetA := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	targetB := mkCamp(t, f.db, "Jebel Ali Camp 3", "JA-03", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)
	bedsA := mkBeds(t, f.db, targetA.ID, 1)
	bedsB := mkBeds(t, f.db, targetB.ID, 1)

	requestA, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: targetA.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)
	_, err = f.transfers.AllocateBeds(adminActor, requestA.ID, []BedAllocation{{Person: tech.Ref(), BedID: bedsA[0].ID}})
	require.NoError(t, err)
	_, err = f.transfers.ApproveForDispatch(adminActor, requestA.ID)
	require.NoError(t, err)

	// Simulate a race: another request claimed the same person between
	// approval and dispatch, written directly since the guard would refuse
	// it through the service.
	requestB := &models.TransferRequest{
		Reference:    "TR-RACE",
		SourceCampID: source.ID,
		TargetCampID: targetB.ID,
		Reason:       models.ReasonProjectTransfer,
		Status:       models.TransferStatusBedsAllocated,
	}
	require.NoError(t, f.db.Create(requestB).Error)
	require.NoError(t, f.db.Create(&models.TransferRequestMember{
		RequestID:      requestB.ID,
		PersonType:     tech.Ref().Type,
		PersonID:       tech.Ref().ID,
		AllocatedBedID: &bedsB[0].ID,
	}).Error)

	_, err = f.transfers.DispatchTechnicians(adminActor, requestA.ID)
	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	assert.Equal(t, requestB.ID, conflictErr.Conflicts[0].RequestID)

	// dispatch rolled back: the person never moved
	unmoved := reloadTechnician(t, f.db, tech.ID)
	require.NotNil(t, unmoved.CampID)
	assert.Equal(t, source.ID, *unmoved.CampID)
	assert.Equal(t, models.PersonStatusActive, unmoved.Status)
}

func TestRejectAllocationReleasesBeds(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	target := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)
	beds := mkBeds(t, f.db, target.ID, 1)

	request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)
	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{{Person: tech.Ref(), BedID: beds[0].ID}})
	require.NoError(t, err)

	var validationErr *ValidationError
	_, err = f.transfers.RejectAllocation(adminActor, request.ID, "")
	require.True(t, errors.As(err, &validationErr), "rejection reason is mandatory")

	request, err = f.transfers.RejectAllocation(adminActor, request.ID, "rooms flooded")
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusRejected, request.Status)
	assert.Equal(t, "rooms flooded", request.RejectionReason)

	bed := reloadBed(t, f.db, beds[0].ID)
	assert.Equal(t, models.BedStatusAvailable, bed.Status)
	assert.Nil(t, bed.ReservedFor())
}

func TestCancelRequest(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	target := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)
	beds := mkBeds(t, f.db, target.ID, 1)

	request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)
	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{{Person: tech.Ref(), BedID: beds[0].ID}})
	require.NoError(t, err)
	_, err = f.transfers.ApproveForDispatch(adminActor, request.ID)
	require.NoError(t, err)

	request, err = f.transfers.CancelRequest(adminActor, request.ID, "project cancelled")
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusCancelled, request.Status)
	assert.Equal(t, models.BedStatusAvailable, reloadBed(t, f.db, beds[0].ID).Status)

	// dispatched requests are past the point of cancellation
	var transitionErr *InvalidTransitionError
	_, err = f.transfers.CancelRequest(adminActor, request.ID, "again")
	require.True(t, errors.As(err, &transitionErr))
}

func TestDispatchIsNotRepeatable(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	target := mkCamp(t, f.db, "Jebel Ali Camp 2", "JA-02", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)
	beds := mkBeds(t, f.db, target.ID, 1)

	request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)
	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{{Person: tech.Ref(), BedID: beds[0].ID}})
	require.NoError(t, err)
	_, err = f.transfers.ApproveForDispatch(adminActor, request.ID)
	require.NoError(t, err)
	_, err = f.transfers.DispatchTechnicians(adminActor, request.ID)
	require.NoError(t, err)

	var transitionErr *InvalidTransitionError
	_, err = f.transfers.DispatchTechnicians(adminActor, request.ID)
	require.True(t, errors.As(err, &transitionErr), "a dispatched request cannot dispatch again")
}

func TestOnboardingTransferSkipsApproval(t *testing.T) {
	f := newFixture(t)
	induction := mkCamp(t, f.db, "Induction Camp", "IND-01", models.CampTypeInduction)
	regular := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", induction.ID)
	beds := mkBeds(t, f.db, regular.ID, 1)

	request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: induction.ID, TargetCampID: regular.ID, Reason: models.ReasonOnboardingTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)
	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{{Person: tech.Ref(), BedID: beds[0].ID}})
	require.NoError(t, err)

	// dispatch straight from beds_allocated, no approval step
	request, err = f.transfers.DispatchTechnicians(adminActor, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusDispatched, request.Status)
}

func TestNonOnboardingTransferStillNeedsApproval(t *testing.T) {
	f := newFixture(t)
	induction := mkCamp(t, f.db, "Induction Camp", "IND-01", models.CampTypeInduction)
	regular := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	tech := mkTechnician(t, f.db, "ramesh", induction.ID)
	beds := mkBeds(t, f.db, regular.ID, 1)

	request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: induction.ID, TargetCampID: regular.ID, Reason: models.ReasonProjectTransfer,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)
	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{{Person: tech.Ref(), BedID: beds[0].ID}})
	require.NoError(t, err)

	var transitionErr *InvalidTransitionError
	_, err = f.transfers.DispatchTechnicians(adminActor, request.ID)
	require.True(t, errors.As(err, &transitionErr), "only onboarding transfers skip approval")
}

func TestArrivalExitDetectionFollowsConfiguredCamp(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	legacy := mkCamp(t, f.db, "Sonapur Exit Camp", "SNP-09", models.CampTypeRegular)
	configured := mkCamp(t, f.db, "Al Quoz Camp", "AQ-01", models.CampTypeRegular)
	f.cfg.ExitCampID = configured.ID

	runToArrival := func(tech *models.Technician, target *models.Camp) {
		t.Helper()
		bed := mkBeds(t, f.db, target.ID, 1)[0]
		request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
			SourceCampID: source.ID, TargetCampID: target.ID, Reason: models.ReasonProjectTransfer,
			Persons: []models.PersonRef{tech.Ref()},
		})
		require.NoError(t, err)
		_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{{Person: tech.Ref(), BedID: bed.ID}})
		require.NoError(t, err)
		_, err = f.transfers.ApproveForDispatch(adminActor, request.ID)
		require.NoError(t, err)
		_, err = f.transfers.DispatchTechnicians(adminActor, request.ID)
		require.NoError(t, err)
		_, err = f.transfers.ConfirmArrival(adminActor, request.ID, tech.Ref())
		require.NoError(t, err)
	}

	// With an explicit exit camp configured, a legacy-named camp is just a
	// regular destination: the exit tracker would refuse to manage a record
	// opened there.
	atLegacy := mkTechnician(t, f.db, "ramesh", source.ID)
	runToArrival(atLegacy, legacy)
	arrived := reloadTechnician(t, f.db, atLegacy.ID)
	assert.Equal(t, models.PersonStatusActive, arrived.Status)
	assert.Nil(t, arrived.Exit.ExitStartDate)

	// Arrival at the configured camp opens the exit record.
	atConfigured := mkTechnician(t, f.db, "suresh", source.ID)
	runToArrival(atConfigured, configured)
	arrived = reloadTechnician(t, f.db, atConfigured.ID)
	assert.Equal(t, models.PersonStatusPendingExit, arrived.Status)
	require.NotNil(t, arrived.Exit.ExitStartDate)
}

func TestArrivalAtExitCampStartsExitProcess(t *testing.T) {
	f := newFixture(t)
	source := mkCamp(t, f.db, "Jebel Ali Camp 1", "JA-01", models.CampTypeRegular)
	exitCamp := mkCamp(t, f.db, "Sonapur Exit Camp", "EXIT-01", models.CampTypeExit)
	tech := mkTechnician(t, f.db, "ramesh", source.ID)
	beds := mkBeds(t, f.db, exitCamp.ID, 1)

	request, err := f.transfers.CreateTransferRequest(adminActor, CreateTransferInput{
		SourceCampID: source.ID, TargetCampID: exitCamp.ID, Reason: models.ReasonExitCase,
		Persons: []models.PersonRef{tech.Ref()},
	})
	require.NoError(t, err)
	_, err = f.transfers.AllocateBeds(adminActor, request.ID, []BedAllocation{{Person: tech.Ref(), BedID: beds[0].ID}})
	require.NoError(t, err)
	_, err = f.transfers.ApproveForDispatch(adminActor, request.ID)
	require.NoError(t, err)
	_, err = f.transfers.DispatchTechnicians(adminActor, request.ID)
	require.NoError(t, err)

	request, err = f.transfers.ConfirmArrival(adminActor, request.ID, tech.Ref())
	require.NoError(t, err)
	assert.Equal(t, models.TransferStatusCompleted, request.Status)

	arrived := reloadTechnician(t, f.db, tech.ID)
	assert.Equal(t, models.PersonStatusPendingExit, arrived.Status)
	require.NotNil(t, arrived.Exit.ExitStartDate)
	assert.Equal(t, models.ExitProcessInProcess, arrived.Exit.ExitProcessStatus)
}
