package models

import (
	"strings"
	"time"
)

// CampType classifies a camp by its role in the workforce lifecycle
type CampType string

const (
	CampTypeInduction CampType = "induction" // new arrivals before first posting
	CampTypeRegular   CampType = "regular"
	CampTypeExit      CampType = "exit" // exit formalities are processed here
)

// Camp represents an accommodation camp
type Camp struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Code      string    `gorm:"type:varchar(30);unique;not null" json:"code"`
	Type      CampType  `gorm:"type:varchar(20);default:'regular'" json:"type"`
	Location  string    `gorm:"type:varchar(100)" json:"location"`
	Capacity  int       `json:"capacity"`
	Status    string    `gorm:"type:varchar(20);default:'active'" json:"status"` // active, inactive
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Beds []Bed `gorm:"foreignKey:CampID" json:"beds,omitempty"`
}

// IsExitCamp reports whether the camp is tagged as the exit camp, or matches
// the legacy naming convention used before camps carried a type tag.
func (c *Camp) IsExitCamp() bool {
	if c.Type == CampTypeExit {
		return true
	}
	return matchesLegacyExitName(c.Name) || matchesLegacyExitName(c.Code)
}

// matchesLegacyExitName matches camps created before the type column existed.
// Those records are identified only by their name containing both "sonapur"
// and "exit".
func matchesLegacyExitName(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "sonapur") && strings.Contains(lower, "exit")
}
