package models

import "time"

// BedStatus represents the availability state of a bed
type BedStatus string

const (
	BedStatusAvailable BedStatus = "available"
	BedStatusReserved  BedStatus = "reserved"
	BedStatusOccupied  BedStatus = "occupied"
)

// Bed represents a single sleeping bed inside a camp. Exactly one of the
// following holds at any time: available with neither reference set,
// reserved with ReservedFor set, occupied with Occupant set.
type Bed struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CampID     uint      `gorm:"not null;index" json:"camp_id"`
	RoomNumber string    `gorm:"type:varchar(20);not null" json:"room_number"`
	BedNumber  string    `gorm:"type:varchar(20);not null" json:"bed_number"`
	Status     BedStatus `gorm:"type:varchar(20);default:'available';index" json:"status"`

	// Person reference for the reserved / occupied states
	ReservedForType *PersonType `gorm:"type:varchar(20)" json:"reserved_for_type,omitempty"`
	ReservedForID   *uint       `json:"reserved_for_id,omitempty"`
	OccupantType    *PersonType `gorm:"type:varchar(20)" json:"occupant_type,omitempty"`
	OccupantID      *uint       `json:"occupant_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Camp *Camp `gorm:"foreignKey:CampID" json:"camp,omitempty"`
}

// ReservedFor returns the person the bed is reserved for, if any.
func (b *Bed) ReservedFor() *PersonRef {
	if b.ReservedForType == nil || b.ReservedForID == nil {
		return nil
	}
	return &PersonRef{Type: *b.ReservedForType, ID: *b.ReservedForID}
}

// Occupant returns the person currently occupying the bed, if any.
func (b *Bed) Occupant() *PersonRef {
	if b.OccupantType == nil || b.OccupantID == nil {
		return nil
	}
	return &PersonRef{Type: *b.OccupantType, ID: *b.OccupantID}
}
