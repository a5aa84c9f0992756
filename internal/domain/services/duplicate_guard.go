package services

import (
	"campmanager-service/internal/domain/models"
)

// CheckDuplicateAllocation is the duplicate-allocation guard: given the
// active transfer requests, it fails if any candidate person is already a
// member of another active request. excludeRequestID is the request under
// consideration (0 for none).
//
// The guard is pure; callers decide which requests to feed it. It must run
// at allocation time and again at dispatch time, because approval can be
// asynchronous and a second request may have been allocated in between.
// On conflict it reports every conflicting person, not just the first.
func CheckDuplicateAllocation(active []models.TransferRequest, excludeRequestID uint, persons []models.PersonRef) error {
	if len(persons) == 0 {
		return nil
	}

	candidates := make(map[models.PersonRef]bool, len(persons))
	for _, p := range persons {
		candidates[p] = true
	}

	var conflicts []AllocationConflict
	for i := range active {
		req := &active[i]
		if req.ID == excludeRequestID || !req.Status.IsActive() {
			continue
		}
		for j := range req.Members {
			ref := req.Members[j].Ref()
			if !candidates[ref] {
				continue
			}
			conflict := AllocationConflict{
				Person:       ref,
				RequestID:    req.ID,
				Reference:    req.Reference,
				TargetCampID: req.TargetCampID,
			}
			if req.TargetCamp != nil {
				conflict.TargetCampName = req.TargetCamp.Name
			}
			conflicts = append(conflicts, conflict)
		}
	}

	if len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}
