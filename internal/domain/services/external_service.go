package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
)

// InterfaceExternalService defines the external personnel service interface
type InterfaceExternalService interface {
	GetAllExternals(campID uint, status models.PersonStatus, page, pageSize int) ([]models.ExternalPersonnel, int64, error)
	GetExternalByID(id uint) (*models.ExternalPersonnel, error)
	CreateExternal(person *models.ExternalPersonnel) error
	UpdateExternal(id uint, updates map[string]interface{}) (*models.ExternalPersonnel, error)
	DeleteExternal(id uint) error
}

// ExternalService provides external personnel record management
type ExternalService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewExternalService creates a new external personnel service
func NewExternalService(db *gorm.DB, cfg *config.Config) InterfaceExternalService {
	return &ExternalService{
		DB:     db,
		Config: cfg,
	}
}

// 1. GetAllExternals lists external personnel, filterable by camp and status
func (s *ExternalService) GetAllExternals(campID uint, status models.PersonStatus, page, pageSize int) ([]models.ExternalPersonnel, int64, error) {
	var externals []models.ExternalPersonnel
	var total int64

	query := s.DB.Model(&models.ExternalPersonnel{})
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
	if err := query.Preload("Camp").Limit(pageSize).Offset(offset).Order("name").Find(&externals).Error; err != nil {
		return nil, 0, err
	}

	return externals, total, nil
}

// 2. GetExternalByID fetches an external worker by id
func (s *ExternalService) GetExternalByID(id uint) (*models.ExternalPersonnel, error) {
	var person models.ExternalPersonnel
	if err := s.DB.Preload("Camp").Preload("Bed").First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "external personnel", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	return &person, nil
}

// 3. CreateExternal registers a new external worker
func (s *ExternalService) CreateExternal(person *models.ExternalPersonnel) error {
	var count int64
	if err := s.DB.Model(&models.ExternalPersonnel{}).Where("pass_no = ?", person.PassNo).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("pass_no", "pass number already exists")
	}
	if person.Status == "" {
		person.Status = models.PersonStatusActive
	}
	return s.DB.Create(person).Error
}

// 4. UpdateExternal updates master data fields; engine-owned fields are
// rejected
func (s *ExternalService) UpdateExternal(id uint, updates map[string]interface{}) (*models.ExternalPersonnel, error) {
	person, err := s.GetExternalByID(id)
	if err != nil {
		return nil, err
	}
	for _, field := range []string{"camp_id", "bed_id", "status"} {
		if _, ok := updates[field]; ok {
			return nil, NewValidationError(field, "field is owned by the transfer engine")
		}
	}
	if err := s.DB.Model(person).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetExternalByID(id)
}

// 5. DeleteExternal removes an external worker with no bed assignment
func (s *ExternalService) DeleteExternal(id uint) error {
	person, err := s.GetExternalByID(id)
	if err != nil {
		return err
	}
	if person.BedID != nil {
		return NewValidationError("external", "person still has a bed assigned")
	}
	return s.DB.Delete(person).Error
}
