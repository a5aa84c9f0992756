package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
)

// InterfaceAdminService defines the admin account service interface
type InterfaceAdminService interface {
	GetAllAdmins(page, pageSize int) ([]models.Admin, int64, error)
	GetAdminByID(id uint) (*models.Admin, error)
	GetAdminByUsername(username string) (*models.Admin, error)
	CreateAdmin(admin *models.Admin) error
	UpdateAdmin(id uint, updates map[string]interface{}) (*models.Admin, error)
	DeleteAdmin(id uint) error
	Authenticate(username, password string) (*models.Admin, error)
}

// AdminService provides back-office account management
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAdminService creates a new admin service
func NewAdminService(db *gorm.DB, cfg *config.Config) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
	}
}

// 1. GetAllAdmins lists admins with pagination
func (s *AdminService) GetAllAdmins(page, pageSize int) ([]models.Admin, int64, error) {
	var admins []models.Admin
	var total int64

	if err := s.DB.Model(&models.Admin{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Limit(pageSize).Offset(offset).Find(&admins).Error; err != nil {
		return nil, 0, err
	}

	return admins, total, nil
}

// 2. GetAdminByID fetches an admin by id
func (s *AdminService) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "admin", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	return &admin, nil
}

// 3. GetAdminByUsername fetches an admin by username
func (s *AdminService) GetAdminByUsername(username string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "admin", ID: username}
		}
		return nil, err
	}
	return &admin, nil
}

// 4. CreateAdmin registers a new admin account
func (s *AdminService) CreateAdmin(admin *models.Admin) error {
	var count int64
	if err := s.DB.Model(&models.Admin{}).Where("username = ?", admin.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("username", "username already exists")
	}
	if admin.Role == "" {
		admin.Role = models.RoleViewer
	}
	return s.DB.Create(admin).Error
}

// 5. UpdateAdmin updates account fields
func (s *AdminService) UpdateAdmin(id uint, updates map[string]interface{}) (*models.Admin, error) {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(admin).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetAdminByID(id)
}

// 6. DeleteAdmin removes an account
func (s *AdminService) DeleteAdmin(id uint) error {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(admin).Error
}

// 7. Authenticate verifies a username/password pair
func (s *AdminService) Authenticate(username, password string) (*models.Admin, error) {
	admin, err := s.GetAdminByUsername(username)
	if err != nil {
		return nil, err
	}
	if !admin.CheckPassword(password) {
		return nil, NewValidationError("password", "incorrect password")
	}
	return admin, nil
}
