package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campmanager-service/internal/domain/models"
)

func techRef(id uint) models.PersonRef {
	return models.PersonRef{Type: models.PersonTypeTechnician, ID: id}
}

func activeRequest(id uint, status models.TransferStatus, target uint, persons ...models.PersonRef) models.TransferRequest {
	req := models.TransferRequest{
		ID:           id,
		Reference:    "TR-TEST",
		TargetCampID: target,
		Status:       status,
	}
	for _, p := range persons {
		req.Members = append(req.Members, models.TransferRequestMember{
			RequestID:  id,
			PersonType: p.Type,
			PersonID:   p.ID,
		})
	}
	return req
}

func TestDuplicateGuardNoActiveRequests(t *testing.T) {
	err := CheckDuplicateAllocation(nil, 0, []models.PersonRef{techRef(1)})
	assert.NoError(t, err)
}

func TestDuplicateGuardReportsAllConflicts(t *testing.T) {
	active := []models.TransferRequest{
		activeRequest(10, models.TransferStatusBedsAllocated, 2, techRef(1)),
		activeRequest(11, models.TransferStatusDispatched, 3, techRef(2)),
	}

	err := CheckDuplicateAllocation(active, 0, []models.PersonRef{techRef(1), techRef(2), techRef(3)})
	require.Error(t, err)

	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	require.Len(t, conflictErr.Conflicts, 2)

	byPerson := map[models.PersonRef]AllocationConflict{}
	for _, c := range conflictErr.Conflicts {
		byPerson[c.Person] = c
	}
	assert.Equal(t, uint(10), byPerson[techRef(1)].RequestID)
	assert.Equal(t, uint(2), byPerson[techRef(1)].TargetCampID)
	assert.Equal(t, uint(11), byPerson[techRef(2)].RequestID)
}

func TestDuplicateGuardExcludesOwnRequest(t *testing.T) {
	active := []models.TransferRequest{
		activeRequest(10, models.TransferStatusBedsAllocated, 2, techRef(1)),
	}

	// Re-checking request 10's own persons must not conflict with itself.
	assert.NoError(t, CheckDuplicateAllocation(active, 10, []models.PersonRef{techRef(1)}))
}

func TestDuplicateGuardIgnoresInactiveStatuses(t *testing.T) {
	active := []models.TransferRequest{
		activeRequest(10, models.TransferStatusPendingAllocation, 2, techRef(1)),
		activeRequest(11, models.TransferStatusCompleted, 2, techRef(1)),
		activeRequest(12, models.TransferStatusRejected, 2, techRef(1)),
		activeRequest(13, models.TransferStatusCancelled, 2, techRef(1)),
	}

	// A request holds no claim before allocation or after a terminal state.
	assert.NoError(t, CheckDuplicateAllocation(active, 0, []models.PersonRef{techRef(1)}))
}

func TestDuplicateGuardDistinguishesPersonTypes(t *testing.T) {
	active := []models.TransferRequest{
		activeRequest(10, models.TransferStatusBedsAllocated, 2, techRef(7)),
	}

	// An external worker with the same numeric id is a different person.
	external := models.PersonRef{Type: models.PersonTypeExternal, ID: 7}
	assert.NoError(t, CheckDuplicateAllocation(active, 0, []models.PersonRef{external}))
}
