package models

import (
	"strings"
	"time"
)

// DisciplinaryCategory is the tagged category a disciplinary action type
// resolves to. The engine keys its behavior on this enum; the string and
// legacy-code matching happens exactly once, when the type row is loaded.
type DisciplinaryCategory string

const (
	CategoryTermination DisciplinaryCategory = "termination"
	CategoryResignation DisciplinaryCategory = "resignation"
	CategoryOther       DisciplinaryCategory = "other"
)

// DisciplinaryActionType is a named, seedable action type (warning,
// termination, resignation, ...). LegacyCode carries identifiers from
// records created before type names were normalized.
type DisciplinaryActionType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);unique;not null" json:"name"`
	LegacyCode  string    `gorm:"type:varchar(30)" json:"legacy_code,omitempty"`
	Description string    `gorm:"type:varchar(255)" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category resolves the type into its tagged category, matching the
// normalized name first and the legacy code as fallback, both
// case-insensitively.
func (t *DisciplinaryActionType) Category() DisciplinaryCategory {
	for _, s := range []string{t.Name, t.LegacyCode} {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "termination":
			return CategoryTermination
		case "resignation":
			return CategoryResignation
		}
	}
	return CategoryOther
}

// ExitProcessChoice is the operator's choice of exit process for a
// termination or resignation
type ExitProcessChoice string

const (
	ExitChoiceNone         ExitProcessChoice = ""
	ExitChoiceCampTransfer ExitProcessChoice = "camp_transfer"
	ExitChoiceDirectDeport ExitProcessChoice = "direct_deport"
)

// DisciplinaryAction records a disciplinary case against a person. The
// transfer engine treats it as read-only input to the exit trigger.
type DisciplinaryAction struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	PersonType        PersonType        `gorm:"type:varchar(20);not null" json:"person_type"`
	PersonID          uint              `gorm:"not null;index" json:"person_id"`
	ActionTypeID      uint              `gorm:"not null" json:"action_type_id"`
	ActionDate        time.Time         `json:"action_date"`
	Description       string            `gorm:"type:varchar(500)" json:"description"`
	TerminationReason string            `gorm:"type:varchar(255)" json:"termination_reason,omitempty"`
	ExitProcessChoice ExitProcessChoice `gorm:"type:varchar(30)" json:"exit_process_choice,omitempty"`
	FollowUpRequired  bool              `gorm:"default:false" json:"follow_up_required"`
	RecordedBy        string            `gorm:"type:varchar(50)" json:"recorded_by"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`

	// Relations
	ActionType *DisciplinaryActionType `gorm:"foreignKey:ActionTypeID" json:"action_type,omitempty"`
}

// Ref returns the person reference the action is recorded against.
func (a *DisciplinaryAction) Ref() PersonRef {
	return PersonRef{Type: a.PersonType, ID: a.PersonID}
}
