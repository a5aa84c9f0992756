package models

import (
	"fmt"
	"time"
)

// PersonType distinguishes the two kinds of tracked occupants. Technicians
// and external personnel live in separate tables but share one capability
// set as far as the transfer and exit engine is concerned.
type PersonType string

const (
	PersonTypeTechnician PersonType = "technician"
	PersonTypeExternal   PersonType = "external"
)

// PersonStatus represents the lifecycle status of a tracked person
type PersonStatus string

const (
	PersonStatusActive         PersonStatus = "active"
	PersonStatusPendingArrival PersonStatus = "pending_arrival"
	PersonStatusPendingExit    PersonStatus = "pending_exit"
	PersonStatusExitedCountry  PersonStatus = "exited_country"
	PersonStatusDeparted       PersonStatus = "departed"
	PersonStatusTerminated     PersonStatus = "terminated"
	PersonStatusOnLeave        PersonStatus = "on_leave"
)

// PersonRef identifies a person across both occupant tables.
type PersonRef struct {
	Type PersonType `json:"type"`
	ID   uint       `json:"id"`
}

func (r PersonRef) String() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

// Occupant is the normalized read/write view of a person used by the
// transfer and exit engine. It is loaded from either the technicians or
// the external_personnel table and written back to the same.
type Occupant struct {
	Ref    PersonRef       `json:"ref"`
	Name   string          `json:"name"`
	CampID *uint           `json:"camp_id"`
	BedID  *uint           `json:"bed_id"`
	Status PersonStatus    `json:"status"`
	Exit   ExitFormalities `json:"exit"`
}

// DropStatus tracks the airport-drop logistics of a deportation
type DropStatus string

const (
	DropStatusNotScheduled     DropStatus = "not_scheduled"
	DropStatusScheduled        DropStatus = "scheduled"
	DropStatusDriverDispatched DropStatus = "driver_dispatched"
	DropStatusDroppedAtAirport DropStatus = "dropped_at_airport"
	DropStatusCancelled        DropStatus = "cancelled"
)

// ExitProcessStatus tracks the overall exit-formalities progress
type ExitProcessStatus string

const (
	ExitProcessInProcess ExitProcessStatus = "in_process"
	ExitProcessOverdue   ExitProcessStatus = "overdue"
	ExitProcessCompleted ExitProcessStatus = "formalities_completed"
)

// ExitProcessSLADays is the number of whole days a person may spend at the
// exit camp before the process is flagged overdue.
const ExitProcessSLADays = 7

// ExitFormalities holds the exit-process columns embedded in both occupant
// tables. The record is live while the person resides at the exit camp with
// a start date set.
type ExitFormalities struct {
	ExitStartDate *time.Time `json:"exit_start_date,omitempty"`

	// Checklist flags, settable in any order
	ToolboxReturned     bool `gorm:"default:false" json:"toolbox_returned"`
	IDCardReturned      bool `gorm:"column:id_card_returned;default:false" json:"id_card_returned"`
	PenaltyCleared      bool `gorm:"default:false" json:"penalty_cleared"`
	TicketConfirmed     bool `gorm:"default:false" json:"ticket_confirmed"`
	SettlementCleared   bool `gorm:"default:false" json:"settlement_cleared"`
	MedicalCompleted    bool `gorm:"default:false" json:"medical_completed"`
	ExitVisaStamped     bool `gorm:"default:false" json:"exit_visa_stamped"`
	HandoverDone        bool `gorm:"default:false" json:"handover_done"`
	BelongingsCollected bool `gorm:"default:false" json:"belongings_collected"`

	// Deport / stay decision; nil until the operator decides
	DeportFromUAE *bool `gorm:"column:deport_from_uae" json:"deport_from_uae,omitempty"`

	// Flight details (deport branch)
	FlightNumber     string     `gorm:"type:varchar(20)" json:"flight_number,omitempty"`
	FlightTime       *time.Time `json:"flight_time,omitempty"`
	ExpectedExitDate *time.Time `json:"expected_exit_date,omitempty"`

	// Airport drop logistics (deport branch)
	VehicleNumber       string     `gorm:"type:varchar(30)" json:"vehicle_number,omitempty"`
	DriverName          string     `gorm:"type:varchar(50)" json:"driver_name,omitempty"`
	ScheduledPickupTime *time.Time `json:"scheduled_pickup_time,omitempty"`
	DropStatus          DropStatus `gorm:"type:varchar(30);default:'not_scheduled'" json:"drop_status"`

	ExitProcessStatus ExitProcessStatus `gorm:"type:varchar(30)" json:"exit_process_status,omitempty"`
	ActualExitDate    *time.Time        `json:"actual_exit_date,omitempty"`
}

// ChecklistComplete reports whether all nine checklist flags are set.
func (e *ExitFormalities) ChecklistComplete() bool {
	return e.ToolboxReturned && e.IDCardReturned && e.PenaltyCleared &&
		e.TicketConfirmed && e.SettlementCleared && e.MedicalCompleted &&
		e.ExitVisaStamped && e.HandoverDone && e.BelongingsCollected
}

// DaysInProcess returns the whole days elapsed since the exit start date,
// or 0 if the process has not started.
func (e *ExitFormalities) DaysInProcess(now time.Time) int {
	if e.ExitStartDate == nil {
		return 0
	}
	days := int(now.Sub(*e.ExitStartDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// DeriveProcessStatus recomputes the in_process/overdue status from the SLA
// clock and the checklist. Called on every checklist write; a completed
// process is never downgraded.
func (e *ExitFormalities) DeriveProcessStatus(now time.Time) ExitProcessStatus {
	if e.ExitProcessStatus == ExitProcessCompleted {
		return ExitProcessCompleted
	}
	if !e.ChecklistComplete() && e.DaysInProcess(now) > ExitProcessSLADays {
		return ExitProcessOverdue
	}
	return ExitProcessInProcess
}
