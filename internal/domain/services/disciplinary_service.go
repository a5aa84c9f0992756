package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
	"campmanager-service/pkg/logger"
)

// InterfaceDisciplinaryService defines disciplinary case management plus the
// exit trigger rule
type InterfaceDisciplinaryService interface {
	GetAllActionTypes() ([]models.DisciplinaryActionType, error)
	CreateActionType(actionType *models.DisciplinaryActionType) error
	GetActionsByPerson(ref models.PersonRef) ([]models.DisciplinaryAction, error)
	GetActionByID(id uint) (*models.DisciplinaryAction, error)
	RecordAction(actor Actor, action *models.DisciplinaryAction) (*models.DisciplinaryAction, error)
	TriggerExitProcess(actor Actor, actionID uint, choice models.ExitProcessChoice) error
}

// DisciplinaryService records disciplinary actions and evaluates the exit
// trigger: a termination or resignation for a person outside the exit camp
// starts the exit process, either through a transfer request or through the
// direct-deport shortcut.
type DisciplinaryService struct {
	DB        *gorm.DB
	Config    *config.Config
	Camps     InterfaceCampService
	Transfers InterfaceTransferService
}

// NewDisciplinaryService creates a new disciplinary service
func NewDisciplinaryService(db *gorm.DB, cfg *config.Config, camps InterfaceCampService, transfers InterfaceTransferService) InterfaceDisciplinaryService {
	return &DisciplinaryService{
		DB:        db,
		Config:    cfg,
		Camps:     camps,
		Transfers: transfers,
	}
}

// 1. GetAllActionTypes lists the seeded action types
func (s *DisciplinaryService) GetAllActionTypes() ([]models.DisciplinaryActionType, error) {
	var types []models.DisciplinaryActionType
	if err := s.DB.Order("name").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// 2. CreateActionType registers a new action type
func (s *DisciplinaryService) CreateActionType(actionType *models.DisciplinaryActionType) error {
	var count int64
	if err := s.DB.Model(&models.DisciplinaryActionType{}).Where("name = ?", actionType.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("name", "action type already exists")
	}
	return s.DB.Create(actionType).Error
}

// 3. GetActionsByPerson lists all actions recorded against a person
func (s *DisciplinaryService) GetActionsByPerson(ref models.PersonRef) ([]models.DisciplinaryAction, error) {
	var actions []models.DisciplinaryAction
	if err := s.DB.Preload("ActionType").
		Where("person_type = ? AND person_id = ?", ref.Type, ref.ID).
		Order("action_date DESC").Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}

// 4. GetActionByID fetches a single action with its type
func (s *DisciplinaryService) GetActionByID(id uint) (*models.DisciplinaryAction, error) {
	var action models.DisciplinaryAction
	if err := s.DB.Preload("ActionType").First(&action, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "disciplinary action", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	return &action, nil
}

// 5. RecordAction saves a disciplinary action and evaluates the exit
// trigger.
//
// For a termination the exit process choice is mandatory and the trigger is
// evaluated before the record is saved, because a failing trigger (no exit
// camp, conflicting transfer) must block the save. For a resignation the
// record saves immediately and the choice is offered as a follow-up action
// (FollowUpRequired is set).
func (s *DisciplinaryService) RecordAction(actor Actor, action *models.DisciplinaryAction) (*models.DisciplinaryAction, error) {
	if err := actor.requirePermission(actor.CanRecordDisciplinary(), "record disciplinary actions"); err != nil {
		return nil, err
	}

	var actionType models.DisciplinaryActionType
	if err := s.DB.First(&actionType, action.ActionTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "disciplinary action type", ID: fmt.Sprint(action.ActionTypeID)}
		}
		return nil, err
	}

	occupant, err := getOccupantTx(s.DB, action.Ref())
	if err != nil {
		return nil, err
	}

	if action.ActionDate.IsZero() {
		action.ActionDate = time.Now()
	}
	action.RecordedBy = actor.Username

	category := actionType.Category()
	switch category {
	case models.CategoryTermination:
		if action.ExitProcessChoice == models.ExitChoiceNone {
			return nil, NewValidationError("exit_process_choice", "a termination requires an exit process choice")
		}
		if action.TerminationReason == "" {
			return nil, NewValidationError("termination_reason", "a termination requires a reason")
		}
		// Evaluate the trigger first: a termination must not be saved if the
		// exit process cannot start.
		if err := s.evaluateTrigger(actor, occupant, action.ExitProcessChoice); err != nil {
			return nil, err
		}
		if err := s.DB.Create(action).Error; err != nil {
			return nil, err
		}
	case models.CategoryResignation:
		// Non-blocking: save first, offer the exit process as a follow-up.
		action.FollowUpRequired = true
		if err := s.DB.Create(action).Error; err != nil {
			return nil, err
		}
		if action.ExitProcessChoice != models.ExitChoiceNone {
			if err := s.evaluateTrigger(actor, occupant, action.ExitProcessChoice); err != nil {
				// The record stands; the exit process can be retriggered.
				logger.Warning("exit trigger for resignation action %d failed: %v", action.ID, err)
				return action, err
			}
			action.FollowUpRequired = false
			if err := s.DB.Model(action).Update("follow_up_required", false).Error; err != nil {
				return nil, err
			}
		}
	default:
		if err := s.DB.Create(action).Error; err != nil {
			return nil, err
		}
	}

	return s.GetActionByID(action.ID)
}

// 6. TriggerExitProcess runs the exit trigger for an already recorded
// action (the resignation follow-up path)
func (s *DisciplinaryService) TriggerExitProcess(actor Actor, actionID uint, choice models.ExitProcessChoice) error {
	if err := actor.requirePermission(actor.CanRecordDisciplinary(), "trigger the exit process"); err != nil {
		return err
	}

	action, err := s.GetActionByID(actionID)
	if err != nil {
		return err
	}
	if action.ActionType == nil || action.ActionType.Category() == models.CategoryOther {
		return NewValidationError("action_type", "only terminations and resignations start the exit process")
	}

	occupant, err := getOccupantTx(s.DB, action.Ref())
	if err != nil {
		return err
	}

	if err := s.evaluateTrigger(actor, occupant, choice); err != nil {
		return err
	}

	return s.DB.Model(&models.DisciplinaryAction{}).Where("id = ?", actionID).
		Updates(map[string]interface{}{
			"exit_process_choice": choice,
			"follow_up_required":  false,
		}).Error
}

// evaluateTrigger applies the exit trigger rule for one person.
//
// The rule is idempotent: if the person already resides at the exit camp,
// or an active transfer request already targets the exit camp for them,
// nothing happens. Otherwise the chosen exit process starts.
func (s *DisciplinaryService) evaluateTrigger(actor Actor, occupant *models.Occupant, choice models.ExitProcessChoice) error {
	exitCamp, err := s.Camps.ResolveExitCamp()
	if err != nil {
		return err
	}

	// Already at the exit camp: nothing to do.
	if occupant.CampID != nil && *occupant.CampID == exitCamp.ID {
		return nil
	}

	// An active request already taking this person to the exit camp makes
	// the trigger a no-op, so repeated evaluations never duplicate
	// transfers.
	pending, err := s.hasActiveExitTransfer(occupant.Ref, exitCamp.ID)
	if err != nil {
		return err
	}
	if pending {
		return nil
	}

	switch choice {
	case models.ExitChoiceCampTransfer:
		if occupant.CampID == nil {
			return NewValidationError("person", "person has no current camp to transfer from")
		}
		_, err := s.Transfers.CreateTransferRequest(actor, CreateTransferInput{
			SourceCampID: *occupant.CampID,
			TargetCampID: exitCamp.ID,
			Reason:       models.ReasonExitCase,
			Persons:      []models.PersonRef{occupant.Ref},
			Remarks:      "exit case raised from disciplinary action",
		})
		return err
	case models.ExitChoiceDirectDeport:
		// Shortcut: move the person to the exit camp in one atomic unit,
		// without transfer bookkeeping and without reserving a bed. The bed
		// they occupied at their old camp is released.
		now := time.Now()
		return s.DB.Transaction(func(tx *gorm.DB) error {
			if occupant.BedID != nil {
				if err := releaseBedTx(tx, *occupant.BedID); err != nil {
					return err
				}
			}
			if err := updateOccupantTx(tx, occupant.Ref, map[string]interface{}{
				"camp_id":             exitCamp.ID,
				"bed_id":              nil,
				"status":              models.PersonStatusPendingExit,
				"exit_start_date":     now,
				"exit_process_status": models.ExitProcessInProcess,
			}); err != nil {
				return err
			}
			return logOperationTx(tx, actor, "exit_direct_deport", string(occupant.Ref.Type), occupant.Ref.ID, "moved to exit camp without transfer request")
		})
	default:
		return NewValidationError("exit_process_choice", "unknown exit process choice "+string(choice))
	}
}

// hasActiveExitTransfer reports whether an unfinished transfer request
// already takes the person to the exit camp. pending_allocation counts
// here: the request exists even though it holds no bed claim yet.
func (s *DisciplinaryService) hasActiveExitTransfer(ref models.PersonRef, exitCampID uint) (bool, error) {
	statuses := append([]models.TransferStatus{models.TransferStatusPendingAllocation}, models.ActiveTransferStatuses...)
	var count int64
	err := s.DB.Model(&models.TransferRequestMember{}).
		Joins("JOIN transfer_requests ON transfer_requests.id = transfer_request_members.request_id").
		Where("transfer_request_members.person_type = ? AND transfer_request_members.person_id = ?", ref.Type, ref.ID).
		Where("transfer_requests.target_camp_id = ?", exitCampID).
		Where("transfer_requests.status IN ?", statuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
