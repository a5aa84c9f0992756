package models

import (
	"time"
)

// OperationLog records an engine transition for audit purposes
type OperationLog struct {
	BaseModel
	OperationType string    `gorm:"type:varchar(100);not null" json:"operation_type"` // e.g. transfer_dispatch, exit_confirm_departure
	EntityType    string    `gorm:"type:varchar(50)" json:"entity_type"`              // transfer_request, technician, external
	EntityID      uint      `json:"entity_id"`
	Actor         string    `gorm:"type:varchar(50)" json:"actor"` // username, empty for system actions
	Details       string    `gorm:"type:text" json:"details"`
	Timestamp     time.Time `json:"timestamp"`
	Success       bool      `gorm:"default:true" json:"success"`
	IPAddress     string    `gorm:"type:varchar(45)" json:"ip_address"`
}
