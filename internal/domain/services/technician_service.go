package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
)

// InterfaceTechnicianService defines the technician service interface
type InterfaceTechnicianService interface {
	GetAllTechnicians(campID uint, status models.PersonStatus, page, pageSize int) ([]models.Technician, int64, error)
	GetTechnicianByID(id uint) (*models.Technician, error)
	CreateTechnician(technician *models.Technician) error
	UpdateTechnician(id uint, updates map[string]interface{}) (*models.Technician, error)
	DeleteTechnician(id uint) error
}

// TechnicianService provides technician record management. Camp and bed
// placement are owned by the transfer and exit engine; this service only
// manages the master data.
type TechnicianService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewTechnicianService creates a new technician service
func NewTechnicianService(db *gorm.DB, cfg *config.Config) InterfaceTechnicianService {
	return &TechnicianService{
		DB:     db,
		Config: cfg,
	}
}

// 1. GetAllTechnicians lists technicians, filterable by camp and status
func (s *TechnicianService) GetAllTechnicians(campID uint, status models.PersonStatus, page, pageSize int) ([]models.Technician, int64, error) {
	var technicians []models.Technician
	var total int64

	query := s.DB.Model(&models.Technician{})
	if campID != 0 {
		query = query.Where("camp_id = ?", campID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Preload("Camp").Limit(pageSize).Offset(offset).Order("name").Find(&technicians).Error; err != nil {
		return nil, 0, err
	}

	return technicians, total, nil
}

// 2. GetTechnicianByID fetches a technician by id
func (s *TechnicianService) GetTechnicianByID(id uint) (*models.Technician, error) {
	var technician models.Technician
	if err := s.DB.Preload("Camp").Preload("Bed").First(&technician, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "technician", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	return &technician, nil
}

// 3. CreateTechnician registers a new technician
func (s *TechnicianService) CreateTechnician(technician *models.Technician) error {
	var count int64
	if err := s.DB.Model(&models.Technician{}).Where("employee_no = ?", technician.EmployeeNo).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("employee_no", "employee number already exists")
	}
	if technician.Status == "" {
		technician.Status = models.PersonStatusActive
	}
	return s.DB.Create(technician).Error
}

// 4. UpdateTechnician updates master data fields. Camp, bed and lifecycle
// status are engine-owned and rejected here.
func (s *TechnicianService) UpdateTechnician(id uint, updates map[string]interface{}) (*models.Technician, error) {
	technician, err := s.GetTechnicianByID(id)
	if err != nil {
		return nil, err
	}
	for _, field := range []string{"camp_id", "bed_id", "status"} {
		if _, ok := updates[field]; ok {
			return nil, NewValidationError(field, "field is owned by the transfer engine")
		}
	}
	if err := s.DB.Model(technician).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetTechnicianByID(id)
}

// 5. DeleteTechnician removes a technician with no bed assignment
func (s *TechnicianService) DeleteTechnician(id uint) error {
	technician, err := s.GetTechnicianByID(id)
	if err != nil {
		return err
	}
	if technician.BedID != nil {
		return NewValidationError("technician", "technician still has a bed assigned")
	}
	return s.DB.Delete(technician).Error
}
