package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
	"campmanager-service/utils"
)

// InterfaceTransferService defines the transfer request state machine
type InterfaceTransferService interface {
	GetAllTransferRequests(status models.TransferStatus, campID uint, page, pageSize int) ([]models.TransferRequest, int64, error)
	GetTransferRequestByID(id uint) (*models.TransferRequest, error)
	CreateTransferRequest(actor Actor, input CreateTransferInput) (*models.TransferRequest, error)
	AllocateBeds(actor Actor, requestID uint, allocations []BedAllocation) (*models.TransferRequest, error)
	ApproveForDispatch(actor Actor, requestID uint) (*models.TransferRequest, error)
	RejectAllocation(actor Actor, requestID uint, reason string) (*models.TransferRequest, error)
	CancelRequest(actor Actor, requestID uint, reason string) (*models.TransferRequest, error)
	DispatchTechnicians(actor Actor, requestID uint) (*models.TransferRequest, error)
	ConfirmArrival(actor Actor, requestID uint, person models.PersonRef) (*models.TransferRequest, error)
}

// CreateTransferInput carries the fields needed to raise a request
type CreateTransferInput struct {
	SourceCampID uint
	TargetCampID uint
	Reason       models.MovementReason
	Persons      []models.PersonRef
	Remarks      string
}

// BedAllocation assigns one bed to one person of a request
type BedAllocation struct {
	Person models.PersonRef `json:"person"`
	BedID  uint             `json:"bed_id"`
}

// TransferService drives transfer requests through their lifecycle. Every
// transition runs as a single database transaction: the per-person and
// per-bed updates of a transition commit or roll back as one unit.
type TransferService struct {
	DB     *gorm.DB
	Config *config.Config
	Camps  InterfaceCampService
	Events InterfaceEventService // optional, best-effort
}

// NewTransferService creates a new transfer service
func NewTransferService(db *gorm.DB, cfg *config.Config, camps InterfaceCampService, events InterfaceEventService) InterfaceTransferService {
	return &TransferService{
		DB:     db,
		Config: cfg,
		Camps:  camps,
		Events: events,
	}
}

// 1. GetAllTransferRequests lists requests, filterable by status and camp
func (s *TransferService) GetAllTransferRequests(status models.TransferStatus, campID uint, page, pageSize int) ([]models.TransferRequest, int64, error) {
	var requests []models.TransferRequest
	var total int64

	query := s.DB.Model(&models.TransferRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if campID != 0 {
		query = query.Where("source_camp_id = ? OR target_camp_id = ?", campID, campID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("Members").Preload("SourceCamp").Preload("TargetCamp").
		Limit(pageSize).Offset(offset).Order("id DESC").Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// 2. GetTransferRequestByID fetches a request with its members
func (s *TransferService) GetTransferRequestByID(id uint) (*models.TransferRequest, error) {
	return loadRequestTx(s.DB, id)
}

// 3. CreateTransferRequest raises a new request in pending_allocation
func (s *TransferService) CreateTransferRequest(actor Actor, input CreateTransferInput) (*models.TransferRequest, error) {
	if err := actor.requirePermission(actor.CanCreateTransfer(), "create transfer requests"); err != nil {
		return nil, err
	}
	if len(input.Persons) == 0 {
		return nil, NewValidationError("persons", "a transfer request needs at least one person")
	}
	if input.SourceCampID == input.TargetCampID {
		return nil, NewValidationError("target_camp_id", "source and target camp must differ")
	}
	seen := make(map[models.PersonRef]bool, len(input.Persons))
	for _, ref := range input.Persons {
		if seen[ref] {
			return nil, NewValidationError("persons", "duplicate person "+ref.String())
		}
		seen[ref] = true
	}

	now := time.Now()
	request := &models.TransferRequest{
		Reference:    utils.NewTransferReference(now),
		SourceCampID: input.SourceCampID,
		TargetCampID: input.TargetCampID,
		RequestDate:  now,
		Reason:       input.Reason,
		Status:       models.TransferStatusPendingAllocation,
		RequestedBy:  actor.Username,
		Remarks:      input.Remarks,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Source and target must exist; persons must exist and live in the
		// source camp.
		for _, campID := range []uint{input.SourceCampID, input.TargetCampID} {
			var count int64
			if err := tx.Model(&models.Camp{}).Where("id = ?", campID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return &NotFoundError{Entity: "camp", ID: fmt.Sprint(campID)}
			}
		}
		for _, ref := range input.Persons {
			occ, err := getOccupantTx(tx, ref)
			if err != nil {
				return err
			}
			if occ.CampID == nil || *occ.CampID != input.SourceCampID {
				return NewValidationError("persons", occ.Ref.String()+" is not resident in the source camp")
			}
		}

		if err := tx.Create(request).Error; err != nil {
			return err
		}
		for _, ref := range input.Persons {
			member := models.TransferRequestMember{
				RequestID:  request.ID,
				PersonType: ref.Type,
				PersonID:   ref.ID,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return logOperationTx(tx, actor, "transfer_create", "transfer_request", request.ID, fmt.Sprintf("%d person(s), camp %d -> %d", len(input.Persons), input.SourceCampID, input.TargetCampID))
	})
	if err != nil {
		return nil, err
	}

	s.publish("transfer.created", request.ID)
	return s.GetTransferRequestByID(request.ID)
}

// 4. AllocateBeds moves pending_allocation -> beds_allocated, reserving one
// distinct available target-camp bed per person. The duplicate-allocation
// guard runs here, and again at dispatch.
func (s *TransferService) AllocateBeds(actor Actor, requestID uint, allocations []BedAllocation) (*models.TransferRequest, error) {
	if err := actor.requirePermission(actor.CanCreateTransfer(), "allocate beds"); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequestTx(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.TransferStatusPendingAllocation {
			return &InvalidTransitionError{Entity: "transfer request", From: string(request.Status), Attempted: "allocate beds"}
		}

		// Every member gets exactly one bed, every bed is distinct.
		byPerson := make(map[models.PersonRef]uint, len(allocations))
		usedBeds := make(map[uint]bool, len(allocations))
		for _, alloc := range allocations {
			if _, dup := byPerson[alloc.Person]; dup {
				return NewValidationError("allocations", "person "+alloc.Person.String()+" allocated twice")
			}
			if usedBeds[alloc.BedID] {
				return NewValidationError("allocations", fmt.Sprintf("bed %d allocated twice", alloc.BedID))
			}
			byPerson[alloc.Person] = alloc.BedID
			usedBeds[alloc.BedID] = true
		}
		for i := range request.Members {
			if _, ok := byPerson[request.Members[i].Ref()]; !ok {
				return NewValidationError("allocations", "no bed allocated for "+request.Members[i].Ref().String())
			}
		}
		if len(allocations) != len(request.Members) {
			return NewValidationError("allocations", "allocation does not match request members")
		}

		// Guard: no member may be claimed by another active request.
		active, err := loadActiveRequestsTx(tx)
		if err != nil {
			return err
		}
		if err := CheckDuplicateAllocation(active, request.ID, request.PersonRefs()); err != nil {
			return err
		}

		// Reserve the beds; each must be available and in the target camp.
		for i := range request.Members {
			member := &request.Members[i]
			bedID := byPerson[member.Ref()]

			var bed models.Bed
			if err := tx.First(&bed, bedID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &NotFoundError{Entity: "bed", ID: fmt.Sprint(bedID)}
				}
				return err
			}
			if bed.CampID != request.TargetCampID {
				return NewValidationError("allocations", fmt.Sprintf("bed %d is not in the target camp", bedID))
			}
			if err := reserveBedTx(tx, bedID, member.Ref()); err != nil {
				return err
			}
			if err := tx.Model(member).Update("allocated_bed_id", bedID).Error; err != nil {
				return &PartialApplyError{Stage: "member bed assignment", Cause: err}
			}
		}

		if err := tx.Model(request).Update("status", models.TransferStatusBedsAllocated).Error; err != nil {
			return &PartialApplyError{Stage: "request status update", Cause: err}
		}
		return logOperationTx(tx, actor, "transfer_allocate", "transfer_request", request.ID, fmt.Sprintf("%d bed(s) reserved", len(allocations)))
	})
	if err != nil {
		return nil, err
	}

	s.publish("transfer.beds_allocated", requestID)
	return s.GetTransferRequestByID(requestID)
}

// 5. ApproveForDispatch moves beds_allocated -> approved_for_dispatch
func (s *TransferService) ApproveForDispatch(actor Actor, requestID uint) (*models.TransferRequest, error) {
	if err := actor.requirePermission(actor.CanApproveTransfer(), "approve transfer requests"); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequestTx(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.TransferStatusBedsAllocated {
			return &InvalidTransitionError{Entity: "transfer request", From: string(request.Status), Attempted: "approve for dispatch"}
		}

		now := time.Now()
		if err := tx.Model(request).Updates(map[string]interface{}{
			"status":        models.TransferStatusApproved,
			"approved_by":   actor.Username,
			"approved_date": now,
		}).Error; err != nil {
			return err
		}
		return logOperationTx(tx, actor, "transfer_approve", "transfer_request", request.ID, "")
	})
	if err != nil {
		return nil, err
	}

	s.publish("transfer.approved", requestID)
	return s.GetTransferRequestByID(requestID)
}

// 6. RejectAllocation moves beds_allocated -> allocation_rejected and
// releases every reserved bed as a compensating action
func (s *TransferService) RejectAllocation(actor Actor, requestID uint, reason string) (*models.TransferRequest, error) {
	if err := actor.requirePermission(actor.CanApproveTransfer(), "reject transfer requests"); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, NewValidationError("rejection_reason", "a rejection reason is required")
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequestTx(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.TransferStatusBedsAllocated {
			return &InvalidTransitionError{Entity: "transfer request", From: string(request.Status), Attempted: "reject allocation"}
		}

		for i := range request.Members {
			if bedID := request.Members[i].AllocatedBedID; bedID != nil {
				if err := releaseBedTx(tx, *bedID); err != nil {
					return &PartialApplyError{Stage: "bed release", Cause: err}
				}
			}
		}

		now := time.Now()
		if err := tx.Model(request).Updates(map[string]interface{}{
			"status":           models.TransferStatusRejected,
			"rejection_reason": reason,
			"rejected_by":      actor.Username,
			"rejected_date":    now,
		}).Error; err != nil {
			return &PartialApplyError{Stage: "request status update", Cause: err}
		}
		return logOperationTx(tx, actor, "transfer_reject", "transfer_request", request.ID, reason)
	})
	if err != nil {
		return nil, err
	}

	s.publish("transfer.rejected", requestID)
	return s.GetTransferRequestByID(requestID)
}

// 7. CancelRequest is the administrative override: any pre-dispatch state
// -> cancelled, releasing any reserved beds
func (s *TransferService) CancelRequest(actor Actor, requestID uint, reason string) (*models.TransferRequest, error) {
	if err := actor.requirePermission(actor.CanApproveTransfer(), "cancel transfer requests"); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequestTx(tx, requestID)
		if err != nil {
			return err
		}
		switch request.Status {
		case models.TransferStatusPendingAllocation, models.TransferStatusBedsAllocated, models.TransferStatusApproved:
			// cancellable
		default:
			return &InvalidTransitionError{Entity: "transfer request", From: string(request.Status), Attempted: "cancel"}
		}

		for i := range request.Members {
			if bedID := request.Members[i].AllocatedBedID; bedID != nil {
				if err := releaseBedTx(tx, *bedID); err != nil {
					return &PartialApplyError{Stage: "bed release", Cause: err}
				}
			}
		}

		if err := tx.Model(request).Updates(map[string]interface{}{
			"status":  models.TransferStatusCancelled,
			"remarks": reason,
		}).Error; err != nil {
			return &PartialApplyError{Stage: "request status update", Cause: err}
		}
		return logOperationTx(tx, actor, "transfer_cancel", "transfer_request", request.ID, reason)
	})
	if err != nil {
		return nil, err
	}

	s.publish("transfer.cancelled", requestID)
	return s.GetTransferRequestByID(requestID)
}

// 8. DispatchTechnicians moves an approved request (or a beds_allocated
// request covered by the pre-approval rule) to technicians_dispatched.
//
// The duplicate-allocation guard re-runs here, immediately before the
// mutating writes: approval can be asynchronous and another request may
// have claimed the same persons since allocation. Each person moves to the
// target camp with status pending_arrival and their allocated bed; target
// beds stay reserved until arrival is confirmed, while the source-camp bed
// each person occupied is released back to available.
func (s *TransferService) DispatchTechnicians(actor Actor, requestID uint) (*models.TransferRequest, error) {
	if err := actor.requirePermission(actor.CanDispatchTransfer(), "dispatch transfers"); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequestTx(tx, requestID)
		if err != nil {
			return err
		}

		switch request.Status {
		case models.TransferStatusApproved:
			// normal path
		case models.TransferStatusBedsAllocated:
			skip, err := s.approvalSkipped(tx, request)
			if err != nil {
				return err
			}
			if !skip {
				return &InvalidTransitionError{Entity: "transfer request", From: string(request.Status), Attempted: "dispatch"}
			}
		default:
			return &InvalidTransitionError{Entity: "transfer request", From: string(request.Status), Attempted: "dispatch"}
		}

		// Guard runs last, immediately before the writes.
		active, err := loadActiveRequestsTx(tx)
		if err != nil {
			return err
		}
		if err := CheckDuplicateAllocation(active, request.ID, request.PersonRefs()); err != nil {
			return err
		}

		for i := range request.Members {
			member := &request.Members[i]
			if member.AllocatedBedID == nil {
				return NewValidationError("allocations", "member "+member.Ref().String()+" has no allocated bed")
			}
			occupant, err := getOccupantTx(tx, member.Ref())
			if err != nil {
				return err
			}
			if occupant.BedID != nil {
				if err := releaseBedTx(tx, *occupant.BedID); err != nil {
					return &PartialApplyError{Stage: "source bed release", Cause: err}
				}
			}
			updates := map[string]interface{}{
				"camp_id": request.TargetCampID,
				"bed_id":  *member.AllocatedBedID,
				"status":  models.PersonStatusPendingArrival,
			}
			if err := updateOccupantTx(tx, member.Ref(), updates); err != nil {
				return &PartialApplyError{Stage: "person dispatch update", Cause: err}
			}
		}

		now := time.Now()
		if err := tx.Model(request).Updates(map[string]interface{}{
			"status":        models.TransferStatusDispatched,
			"dispatched_by": actor.Username,
			"dispatch_date": now,
		}).Error; err != nil {
			return &PartialApplyError{Stage: "request status update", Cause: err}
		}
		return logOperationTx(tx, actor, "transfer_dispatch", "transfer_request", request.ID, fmt.Sprintf("%d person(s) dispatched", len(request.Members)))
	})
	if err != nil {
		return nil, err
	}

	s.publish("transfer.dispatched", requestID)
	return s.GetTransferRequestByID(requestID)
}

// 9. ConfirmArrival records one person's arrival at the target camp. Their
// bed flips reserved -> occupied; a person arriving at the exit camp enters
// the exit formalities process. Once every member has arrived the request
// completes.
func (s *TransferService) ConfirmArrival(actor Actor, requestID uint, person models.PersonRef) (*models.TransferRequest, error) {
	if err := actor.requirePermission(actor.CanDispatchTransfer(), "confirm arrivals"); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		request, err := loadRequestTx(tx, requestID)
		if err != nil {
			return err
		}
		if request.Status != models.TransferStatusDispatched && request.Status != models.TransferStatusPartiallyArrived {
			return &InvalidTransitionError{Entity: "transfer request", From: string(request.Status), Attempted: "confirm arrival"}
		}

		member := request.MemberFor(person)
		if member == nil {
			return NewValidationError("person", person.String()+" is not part of this request")
		}
		if member.Arrived {
			return &InvalidTransitionError{Entity: "transfer member", From: "arrived", Attempted: "confirm arrival"}
		}
		if member.AllocatedBedID == nil {
			return NewValidationError("person", person.String()+" has no allocated bed")
		}

		if err := occupyBedTx(tx, *member.AllocatedBedID, person); err != nil {
			return err
		}

		now := time.Now()
		personUpdates := map[string]interface{}{
			"status": models.PersonStatusActive,
		}
		// Arrival at the exit camp opens the exit formalities record. The
		// camp is matched through the same resolution the exit tracker uses,
		// so a record is only ever opened where the tracker will manage it.
		exitTarget, err := s.isExitTarget(request.TargetCampID)
		if err != nil {
			return err
		}
		if exitTarget {
			personUpdates["status"] = models.PersonStatusPendingExit
			personUpdates["exit_start_date"] = now
			personUpdates["exit_process_status"] = models.ExitProcessInProcess
		}
		if err := updateOccupantTx(tx, person, personUpdates); err != nil {
			return &PartialApplyError{Stage: "person arrival update", Cause: err}
		}

		if err := tx.Model(member).Updates(map[string]interface{}{
			"arrived":      true,
			"arrival_date": now,
		}).Error; err != nil {
			return &PartialApplyError{Stage: "member arrival update", Cause: err}
		}

		// Reload members to decide between partially_arrived and completed.
		refreshed, err := loadRequestTx(tx, requestID)
		if err != nil {
			return err
		}
		requestUpdates := map[string]interface{}{"status": models.TransferStatusPartiallyArrived}
		if refreshed.AllArrived() {
			requestUpdates["status"] = models.TransferStatusCompleted
			requestUpdates["completed_date"] = now
		}
		if err := tx.Model(request).Updates(requestUpdates).Error; err != nil {
			return &PartialApplyError{Stage: "request status update", Cause: err}
		}
		return logOperationTx(tx, actor, "transfer_arrival", "transfer_request", request.ID, person.String())
	})
	if err != nil {
		return nil, err
	}

	s.publish("transfer.arrival", requestID)
	return s.GetTransferRequestByID(requestID)
}

// approvalSkipped implements the pre-approval rule: onboarding transfers
// out of an induction camp into a regular or exit camp need no separate
// approval step.
func (s *TransferService) approvalSkipped(tx *gorm.DB, request *models.TransferRequest) (bool, error) {
	if request.Reason != models.ReasonOnboardingTransfer {
		return false, nil
	}
	var source, target models.Camp
	if err := tx.First(&source, request.SourceCampID).Error; err != nil {
		return false, err
	}
	if err := tx.First(&target, request.TargetCampID).Error; err != nil {
		return false, err
	}
	if source.Type != models.CampTypeInduction {
		return false, nil
	}
	return target.Type == models.CampTypeRegular || target.Type == models.CampTypeExit, nil
}

// isExitTarget reports whether the camp is the designated exit camp, using
// the same resolution precedence as the exit tracker. A system without a
// resolvable exit camp treats every arrival as a regular arrival.
func (s *TransferService) isExitTarget(campID uint) (bool, error) {
	exitCamp, err := s.Camps.ResolveExitCamp()
	if err != nil {
		var configErr *ConfigError
		if errors.As(err, &configErr) {
			return false, nil
		}
		return false, err
	}
	return exitCamp.ID == campID, nil
}

// publish emits a lifecycle event; event delivery is best-effort and never
// fails a transition.
func (s *TransferService) publish(event string, requestID uint) {
	if s.Events != nil {
		s.Events.PublishTransferEvent(event, requestID)
	}
}

// loadRequestTx fetches a request with members and camps.
func loadRequestTx(tx *gorm.DB, id uint) (*models.TransferRequest, error) {
	var request models.TransferRequest
	if err := tx.Preload("Members").Preload("SourceCamp").Preload("TargetCamp").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "transfer request", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	return &request, nil
}

// loadActiveRequestsTx fetches all requests the guard must scan.
func loadActiveRequestsTx(tx *gorm.DB) ([]models.TransferRequest, error) {
	var active []models.TransferRequest
	if err := tx.Preload("Members").Preload("TargetCamp").
		Where("status IN ?", models.ActiveTransferStatuses).Find(&active).Error; err != nil {
		return nil, err
	}
	return active, nil
}

// logOperationTx writes the audit row for a transition inside its unit of
// work.
func logOperationTx(tx *gorm.DB, actor Actor, operation, entityType string, entityID uint, details string) error {
	return tx.Create(&models.OperationLog{
		OperationType: operation,
		EntityType:    entityType,
		EntityID:      entityID,
		Actor:         actor.Username,
		Details:       details,
		Timestamp:     time.Now(),
		Success:       true,
	}).Error
}
