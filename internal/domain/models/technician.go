package models

import "time"

// Technician represents a directly employed worker
type Technician struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:varchar(100);not null" json:"name"`
	EmployeeNo string       `gorm:"type:varchar(30);unique;not null" json:"employee_no"`
	Trade      string       `gorm:"type:varchar(50)" json:"trade"`
	Phone      string       `gorm:"type:varchar(20)" json:"phone"`
	Status     PersonStatus `gorm:"type:varchar(30);default:'active';index" json:"status"`
	CampID     *uint        `gorm:"index" json:"camp_id,omitempty"`
	BedID      *uint        `json:"bed_id,omitempty"`

	Exit ExitFormalities `gorm:"embedded" json:"exit"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Camp *Camp `gorm:"foreignKey:CampID" json:"camp,omitempty"`
	Bed  *Bed  `gorm:"foreignKey:BedID" json:"bed,omitempty"`
}

// Ref returns the engine person reference for the technician.
func (t *Technician) Ref() PersonRef {
	return PersonRef{Type: PersonTypeTechnician, ID: t.ID}
}

// AsOccupant converts the row into the engine's normalized occupant view.
func (t *Technician) AsOccupant() *Occupant {
	return &Occupant{
		Ref:    t.Ref(),
		Name:   t.Name,
		CampID: t.CampID,
		BedID:  t.BedID,
		Status: t.Status,
		Exit:   t.Exit,
	}
}
