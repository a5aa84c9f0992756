package models

import "time"

// TransferStatus represents the state of a transfer request
type TransferStatus string

const (
	TransferStatusPendingAllocation TransferStatus = "pending_allocation"
	TransferStatusBedsAllocated     TransferStatus = "beds_allocated"
	TransferStatusApproved          TransferStatus = "approved_for_dispatch"
	TransferStatusDispatched        TransferStatus = "technicians_dispatched"
	TransferStatusPartiallyArrived  TransferStatus = "partially_arrived"
	TransferStatusCompleted         TransferStatus = "completed"
	TransferStatusRejected          TransferStatus = "allocation_rejected"
	TransferStatusCancelled         TransferStatus = "cancelled"
)

// ActiveTransferStatuses are the states in which a request holds a claim on
// its persons (and possibly beds). The duplicate-allocation guard scans
// requests in these states.
var ActiveTransferStatuses = []TransferStatus{
	TransferStatusBedsAllocated,
	TransferStatusApproved,
	TransferStatusDispatched,
	TransferStatusPartiallyArrived,
}

// IsActive reports whether the status holds a claim on persons or beds.
func (s TransferStatus) IsActive() bool {
	for _, a := range ActiveTransferStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the request can no longer transition.
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusRejected || s == TransferStatusCancelled
}

// MovementReason classifies why a transfer request was raised
type MovementReason string

const (
	ReasonProjectTransfer    MovementReason = "project_transfer"
	ReasonOnboardingTransfer MovementReason = "onboarding_transfer"
	ReasonExitCase           MovementReason = "exit_case"
	ReasonDisciplinary       MovementReason = "disciplinary"
	ReasonOther              MovementReason = "other"
)

// TransferRequest represents a planned relocation of one or more persons
// from a source camp to a target camp. Terminal requests are kept as
// history and never deleted.
type TransferRequest struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Reference    string         `gorm:"type:varchar(40);unique;not null" json:"reference"`
	SourceCampID uint           `gorm:"not null;index" json:"source_camp_id"`
	TargetCampID uint           `gorm:"not null;index" json:"target_camp_id"`
	RequestDate  time.Time      `json:"request_date"`
	Reason       MovementReason `gorm:"type:varchar(30);not null" json:"reason_for_movement"`
	Status       TransferStatus `gorm:"type:varchar(30);default:'pending_allocation';index" json:"status"`

	RequestedBy string `gorm:"type:varchar(50)" json:"requested_by"`
	Remarks     string `gorm:"type:varchar(255)" json:"remarks"`

	ApprovedBy   string     `gorm:"type:varchar(50)" json:"approved_by,omitempty"`
	ApprovedDate *time.Time `json:"approved_date,omitempty"`

	RejectionReason string     `gorm:"type:varchar(255)" json:"rejection_reason,omitempty"`
	RejectedBy      string     `gorm:"type:varchar(50)" json:"rejected_by,omitempty"`
	RejectedDate    *time.Time `json:"rejected_date,omitempty"`

	DispatchedBy  string     `gorm:"type:varchar(50)" json:"dispatched_by,omitempty"`
	DispatchDate  *time.Time `json:"dispatch_date,omitempty"`
	CompletedDate *time.Time `json:"completed_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	SourceCamp *Camp                   `gorm:"foreignKey:SourceCampID" json:"source_camp,omitempty"`
	TargetCamp *Camp                   `gorm:"foreignKey:TargetCampID" json:"target_camp,omitempty"`
	Members    []TransferRequestMember `gorm:"foreignKey:RequestID" json:"members,omitempty"`
}

// TransferRequestMember is one person included in a transfer request,
// together with the bed allocated for them at the target camp once the
// request reaches beds_allocated.
type TransferRequestMember struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	RequestID      uint       `gorm:"not null;index" json:"request_id"`
	PersonType     PersonType `gorm:"type:varchar(20);not null" json:"person_type"`
	PersonID       uint       `gorm:"not null;index" json:"person_id"`
	AllocatedBedID *uint      `json:"allocated_bed_id,omitempty"`
	Arrived        bool       `gorm:"default:false" json:"arrived"`
	ArrivalDate    *time.Time `json:"arrival_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ref returns the member's person reference.
func (m *TransferRequestMember) Ref() PersonRef {
	return PersonRef{Type: m.PersonType, ID: m.PersonID}
}

// PersonRefs returns the person references of all members.
func (r *TransferRequest) PersonRefs() []PersonRef {
	refs := make([]PersonRef, 0, len(r.Members))
	for i := range r.Members {
		refs = append(refs, r.Members[i].Ref())
	}
	return refs
}

// MemberFor returns the member row for the given person, or nil.
func (r *TransferRequest) MemberFor(ref PersonRef) *TransferRequestMember {
	for i := range r.Members {
		if r.Members[i].PersonType == ref.Type && r.Members[i].PersonID == ref.ID {
			return &r.Members[i]
		}
	}
	return nil
}

// AllArrived reports whether every member has confirmed arrival.
func (r *TransferRequest) AllArrived() bool {
	for i := range r.Members {
		if !r.Members[i].Arrived {
			return false
		}
	}
	return len(r.Members) > 0
}
