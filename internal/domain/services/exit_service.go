package services

import (
	"time"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
)

// InterfaceExitService defines the exit formalities tracker
type InterfaceExitService interface {
	ListInProcess() ([]ExitRecord, error)
	GetFormalities(ref models.PersonRef) (*ExitRecord, error)
	UpdateChecklist(actor Actor, ref models.PersonRef, update ChecklistUpdate) (*ExitRecord, error)
	SetDeportDecision(actor Actor, ref models.PersonRef, decision DeportDecision) (*ExitRecord, error)
	AssignVehicle(actor Actor, ref models.PersonRef, assignment VehicleAssignment) (*ExitRecord, error)
	ConfirmDeparture(actor Actor, ref models.PersonRef) (*ExitRecord, error)
	CompleteFormalities(actor Actor, ref models.PersonRef) (*ExitRecord, error)
}

// ChecklistUpdate carries partial checklist flag changes; nil leaves a flag
// untouched
type ChecklistUpdate struct {
	ToolboxReturned     *bool `json:"toolbox_returned,omitempty"`
	IDCardReturned      *bool `json:"id_card_returned,omitempty"`
	PenaltyCleared      *bool `json:"penalty_cleared,omitempty"`
	TicketConfirmed     *bool `json:"ticket_confirmed,omitempty"`
	SettlementCleared   *bool `json:"settlement_cleared,omitempty"`
	MedicalCompleted    *bool `json:"medical_completed,omitempty"`
	ExitVisaStamped     *bool `json:"exit_visa_stamped,omitempty"`
	HandoverDone        *bool `json:"handover_done,omitempty"`
	BelongingsCollected *bool `json:"belongings_collected,omitempty"`
}

// DeportDecision carries the deport/stay decision and, when deporting, the
// flight details
type DeportDecision struct {
	DeportFromUAE    bool       `json:"deport_from_uae"`
	FlightNumber     string     `json:"flight_number,omitempty"`
	FlightTime       *time.Time `json:"flight_time,omitempty"`
	ExpectedExitDate *time.Time `json:"expected_exit_date,omitempty"`
}

// VehicleAssignment carries the airport-drop logistics
type VehicleAssignment struct {
	VehicleNumber       string     `json:"vehicle_number"`
	DriverName          string     `json:"driver_name"`
	ScheduledPickupTime *time.Time `json:"scheduled_pickup_time,omitempty"`
}

// ExitRecord is the read model for one person's exit process
type ExitRecord struct {
	Person        models.PersonRef       `json:"person"`
	Name          string                 `json:"name"`
	CampID        *uint                  `json:"camp_id,omitempty"`
	BedID         *uint                  `json:"bed_id,omitempty"`
	Status        models.PersonStatus    `json:"status"`
	DaysInProcess int                    `json:"days_in_process"`
	Formalities   models.ExitFormalities `json:"formalities"`
}

// ExitService tracks the mandatory exit formalities of persons resident at
// the exit camp: the nine-item checklist with its SLA clock, the deport or
// stay decision gate, and the deportation logistics through to country
// exit. Overdue state is derived lazily on reads and checklist writes, not
// by a timer.
type ExitService struct {
	DB     *gorm.DB
	Config *config.Config
	Camps  InterfaceCampService
	Events InterfaceEventService // optional, best-effort
}

// NewExitService creates a new exit formalities service
func NewExitService(db *gorm.DB, cfg *config.Config, camps InterfaceCampService, events InterfaceEventService) InterfaceExitService {
	return &ExitService{
		DB:     db,
		Config: cfg,
		Camps:  camps,
		Events: events,
	}
}

// 1. ListInProcess lists everyone at the exit camp still in process
func (s *ExitService) ListInProcess() ([]ExitRecord, error) {
	exitCamp, err := s.Camps.ResolveExitCamp()
	if err != nil {
		return nil, err
	}

	occupants, err := NewOccupantService(s.DB, s.Config).ListExitInProcess(exitCamp.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	records := make([]ExitRecord, 0, len(occupants))
	for i := range occupants {
		records = append(records, toExitRecord(&occupants[i], now))
	}
	return records, nil
}

// 2. GetFormalities returns the exit record for one person
func (s *ExitService) GetFormalities(ref models.PersonRef) (*ExitRecord, error) {
	occupant, err := getOccupantTx(s.DB, ref)
	if err != nil {
		return nil, err
	}
	if occupant.Exit.ExitStartDate == nil {
		return nil, NewValidationError("person", "person is not in the exit process")
	}
	record := toExitRecord(occupant, time.Now())
	return &record, nil
}

// 3. UpdateChecklist applies checklist flag changes. The overdue/in_process
// status is recomputed as a side effect of every checklist write: past the
// SLA with an incomplete checklist means overdue, and a flag flip that
// completes the checklist clears an earlier overdue back to in_process.
func (s *ExitService) UpdateChecklist(actor Actor, ref models.PersonRef, update ChecklistUpdate) (*ExitRecord, error) {
	if err := actor.requirePermission(actor.CanManageExit(), "update exit checklists"); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		occupant, err := s.loadInProcess(tx, ref)
		if err != nil {
			return err
		}

		applyChecklistUpdate(&occupant.Exit, update)

		updates := checklistColumns(&occupant.Exit)
		updates["exit_process_status"] = occupant.Exit.DeriveProcessStatus(time.Now())
		if err := updateOccupantTx(tx, ref, updates); err != nil {
			return err
		}
		return logOperationTx(tx, actor, "exit_checklist_update", string(ref.Type), ref.ID, "")
	})
	if err != nil {
		return nil, err
	}

	return s.GetFormalities(ref)
}

// 4. SetDeportDecision records the deport/stay decision. The decision gate
// opens only once all nine checklist items are complete; until the terminal
// completion action the decision may be changed again, re-opening or
// closing the deport branch's required fields.
func (s *ExitService) SetDeportDecision(actor Actor, ref models.PersonRef, decision DeportDecision) (*ExitRecord, error) {
	if err := actor.requirePermission(actor.CanManageExit(), "set the deport decision"); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		occupant, err := s.loadInProcess(tx, ref)
		if err != nil {
			return err
		}
		if !occupant.Exit.ChecklistComplete() {
			return NewValidationError("checklist", "all checklist items must be complete before the deport decision")
		}

		updates := map[string]interface{}{
			"deport_from_uae": decision.DeportFromUAE,
		}
		if decision.DeportFromUAE {
			updates["flight_number"] = decision.FlightNumber
			updates["flight_time"] = decision.FlightTime
			updates["expected_exit_date"] = decision.ExpectedExitDate
		}
		if err := updateOccupantTx(tx, ref, updates); err != nil {
			return err
		}
		return logOperationTx(tx, actor, "exit_deport_decision", string(ref.Type), ref.ID, boolWord(decision.DeportFromUAE, "deport", "stay"))
	})
	if err != nil {
		return nil, err
	}

	s.publish("exit.decision", ref)
	return s.GetFormalities(ref)
}

// 5. AssignVehicle schedules the airport drop for a deporting person
func (s *ExitService) AssignVehicle(actor Actor, ref models.PersonRef, assignment VehicleAssignment) (*ExitRecord, error) {
	if err := actor.requirePermission(actor.CanManageExit(), "assign exit vehicles"); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		occupant, err := s.loadInProcess(tx, ref)
		if err != nil {
			return err
		}
		if occupant.Exit.DeportFromUAE == nil {
			return NewValidationError("deport_from_uae", "deport decision not set")
		}
		if !*occupant.Exit.DeportFromUAE {
			return NewValidationError("deport_from_uae", "person is staying; no vehicle is needed")
		}
		if assignment.VehicleNumber == "" || assignment.DriverName == "" {
			return NewValidationError("vehicle", "vehicle number and driver name are required")
		}
		if occupant.Exit.DropStatus != models.DropStatusNotScheduled && occupant.Exit.DropStatus != models.DropStatusCancelled {
			return &InvalidTransitionError{Entity: "airport drop", From: string(occupant.Exit.DropStatus), Attempted: "schedule"}
		}

		if err := updateOccupantTx(tx, ref, map[string]interface{}{
			"vehicle_number":        assignment.VehicleNumber,
			"driver_name":           assignment.DriverName,
			"scheduled_pickup_time": assignment.ScheduledPickupTime,
			"drop_status":           models.DropStatusScheduled,
		}); err != nil {
			return err
		}
		return logOperationTx(tx, actor, "exit_vehicle_assign", string(ref.Type), ref.ID, assignment.VehicleNumber)
	})
	if err != nil {
		return nil, err
	}

	s.publish("exit.vehicle_assigned", ref)
	return s.GetFormalities(ref)
}

// 6. ConfirmDeparture closes the deport branch: the person is dropped at
// the airport and leaves the country. Person status, formalities status,
// bed release and camp clearing commit as one compensating unit.
func (s *ExitService) ConfirmDeparture(actor Actor, ref models.PersonRef) (*ExitRecord, error) {
	if err := actor.requirePermission(actor.CanManageExit(), "confirm departures"); err != nil {
		return nil, err
	}

	var record *ExitRecord
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		occupant, err := s.loadInProcess(tx, ref)
		if err != nil {
			return err
		}
		if occupant.Exit.DeportFromUAE == nil {
			return NewValidationError("deport_from_uae", "deport decision not set")
		}
		if !*occupant.Exit.DeportFromUAE {
			return NewValidationError("deport_from_uae", "person is staying; use complete formalities instead")
		}
		if occupant.Exit.DropStatus != models.DropStatusScheduled {
			return NewValidationError("drop_status", "airport drop is not scheduled")
		}

		now := time.Now()
		if err := s.finalizeExit(tx, occupant, map[string]interface{}{
			"status":              models.PersonStatusExitedCountry,
			"drop_status":         models.DropStatusDroppedAtAirport,
			"actual_exit_date":    now,
			"exit_process_status": models.ExitProcessCompleted,
		}); err != nil {
			return err
		}
		return logOperationTx(tx, actor, "exit_confirm_departure", string(ref.Type), ref.ID, "")
	})
	if err != nil {
		return nil, err
	}

	s.publish("exit.departed", ref)
	record, err = s.finishedRecord(ref)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// 7. CompleteFormalities closes the stay branch: formalities done, the
// person remains in the country and leaves the camp system
func (s *ExitService) CompleteFormalities(actor Actor, ref models.PersonRef) (*ExitRecord, error) {
	if err := actor.requirePermission(actor.CanManageExit(), "complete exit formalities"); err != nil {
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		occupant, err := s.loadInProcess(tx, ref)
		if err != nil {
			return err
		}
		if !occupant.Exit.ChecklistComplete() {
			return NewValidationError("checklist", "all checklist items must be complete")
		}
		if occupant.Exit.DeportFromUAE == nil {
			return NewValidationError("deport_from_uae", "deport decision not set")
		}
		if *occupant.Exit.DeportFromUAE {
			return NewValidationError("deport_from_uae", "person is being deported; use confirm departure instead")
		}

		now := time.Now()
		if err := s.finalizeExit(tx, occupant, map[string]interface{}{
			"status":              models.PersonStatusDeparted,
			"actual_exit_date":    now,
			"exit_process_status": models.ExitProcessCompleted,
		}); err != nil {
			return err
		}
		return logOperationTx(tx, actor, "exit_complete_formalities", string(ref.Type), ref.ID, "")
	})
	if err != nil {
		return nil, err
	}

	s.publish("exit.completed", ref)
	return s.finishedRecord(ref)
}

// finalizeExit applies the terminal updates shared by both branches:
// status changes plus clearing the person's camp and bed and releasing the
// bed back to available.
func (s *ExitService) finalizeExit(tx *gorm.DB, occupant *models.Occupant, updates map[string]interface{}) error {
	updates["camp_id"] = nil
	updates["bed_id"] = nil
	if err := updateOccupantTx(tx, occupant.Ref, updates); err != nil {
		return &PartialApplyError{Stage: "person exit update", Cause: err}
	}
	if occupant.BedID != nil {
		if err := releaseBedTx(tx, *occupant.BedID); err != nil {
			return &PartialApplyError{Stage: "bed release", Cause: err}
		}
	}
	return nil
}

// loadInProcess fetches a person who is inside the exit process: resident
// at the exit camp, start date set, not yet completed.
func (s *ExitService) loadInProcess(tx *gorm.DB, ref models.PersonRef) (*models.Occupant, error) {
	occupant, err := getOccupantTx(tx, ref)
	if err != nil {
		return nil, err
	}
	exitCamp, err := s.Camps.ResolveExitCamp()
	if err != nil {
		return nil, err
	}
	if occupant.CampID == nil || *occupant.CampID != exitCamp.ID {
		return nil, NewValidationError("person", "person is not resident at the exit camp")
	}
	if occupant.Exit.ExitStartDate == nil {
		return nil, NewValidationError("person", "exit process has not started for this person")
	}
	if occupant.Exit.ExitProcessStatus == models.ExitProcessCompleted {
		return nil, &InvalidTransitionError{Entity: "exit formalities", From: string(models.ExitProcessCompleted), Attempted: "update"}
	}
	return occupant, nil
}

// finishedRecord returns the read model after a terminal action, bypassing
// the in-process requirement of GetFormalities's callers.
func (s *ExitService) finishedRecord(ref models.PersonRef) (*ExitRecord, error) {
	occupant, err := getOccupantTx(s.DB, ref)
	if err != nil {
		return nil, err
	}
	record := toExitRecord(occupant, time.Now())
	return &record, nil
}

func (s *ExitService) publish(event string, ref models.PersonRef) {
	if s.Events != nil {
		s.Events.PublishExitEvent(event, ref)
	}
}

func toExitRecord(occupant *models.Occupant, now time.Time) ExitRecord {
	return ExitRecord{
		Person:        occupant.Ref,
		Name:          occupant.Name,
		CampID:        occupant.CampID,
		BedID:         occupant.BedID,
		Status:        occupant.Status,
		DaysInProcess: occupant.Exit.DaysInProcess(now),
		Formalities:   occupant.Exit,
	}
}

func applyChecklistUpdate(exit *models.ExitFormalities, update ChecklistUpdate) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&exit.ToolboxReturned, update.ToolboxReturned)
	set(&exit.IDCardReturned, update.IDCardReturned)
	set(&exit.PenaltyCleared, update.PenaltyCleared)
	set(&exit.TicketConfirmed, update.TicketConfirmed)
	set(&exit.SettlementCleared, update.SettlementCleared)
	set(&exit.MedicalCompleted, update.MedicalCompleted)
	set(&exit.ExitVisaStamped, update.ExitVisaStamped)
	set(&exit.HandoverDone, update.HandoverDone)
	set(&exit.BelongingsCollected, update.BelongingsCollected)
}

func checklistColumns(exit *models.ExitFormalities) map[string]interface{} {
	return map[string]interface{}{
		"toolbox_returned":     exit.ToolboxReturned,
		"id_card_returned":     exit.IDCardReturned,
		"penalty_cleared":      exit.PenaltyCleared,
		"ticket_confirmed":     exit.TicketConfirmed,
		"settlement_cleared":   exit.SettlementCleared,
		"medical_completed":    exit.MedicalCompleted,
		"exit_visa_stamped":    exit.ExitVisaStamped,
		"handover_done":        exit.HandoverDone,
		"belongings_collected": exit.BelongingsCollected,
	}
}

func boolWord(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
