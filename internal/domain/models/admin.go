package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminRole controls which engine transitions an account may perform
type AdminRole string

const (
	RoleSystemAdmin    AdminRole = "system_admin"
	RoleCampManager    AdminRole = "camp_manager"
	RoleWelfareOfficer AdminRole = "welfare_officer"
	RoleViewer         AdminRole = "viewer"
)

// Admin represents a back-office user account
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(50);unique;not null" json:"username"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"` // Password not exposed in JSON
	Email     string    `gorm:"type:varchar(100);unique" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Role      AdminRole `gorm:"type:varchar(30);default:'viewer'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeSave is a GORM hook hashing the password when a plaintext value is
// being written. Bcrypt hashes are 60 bytes, so shorter values are treated
// as plaintext.
func (a *Admin) BeforeSave(tx *gorm.DB) error {
	if a.Password != "" && len(a.Password) < 60 {
		hashed, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		a.Password = string(hashed)
	}
	return nil
}

// CheckPassword compares a candidate password against the stored hash.
func (a *Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil
}
