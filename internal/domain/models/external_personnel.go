package models

import "time"

// ExternalPersonnel represents a contractor-supplied worker housed in the
// camps but employed by an outside agency
type ExternalPersonnel struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"type:varchar(100);not null" json:"name"`
	AgencyName string       `gorm:"type:varchar(100)" json:"agency_name"`
	PassNo     string       `gorm:"type:varchar(30);unique;not null" json:"pass_no"`
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

// TableName overrides the default pluralization.
func (ExternalPersonnel) TableName() string {
	return "external_personnel"
}

// Ref returns the engine person reference for the external worker.
func (p *ExternalPersonnel) Ref() PersonRef {
	return PersonRef{Type: PersonTypeExternal, ID: p.ID}
}

// AsOccupant converts the row into the engine's normalized occupant view.
func (p *ExternalPersonnel) AsOccupant() *Occupant {
	return &Occupant{
		Ref:    p.Ref(),
		Name:   p.Name,
		CampID: p.CampID,
		BedID:  p.BedID,
		Status: p.Status,
		Exit:   p.Exit,
	}
}
