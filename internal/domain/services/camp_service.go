package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
)

// InterfaceCampService defines the camp service interface
type InterfaceCampService interface {
	GetAllCamps(page, pageSize int) ([]models.Camp, int64, error)
	GetCampByID(id uint) (*models.Camp, error)
	CreateCamp(camp *models.Camp) error
	UpdateCamp(id uint, updates map[string]interface{}) (*models.Camp, error)
	DeleteCamp(id uint) error
	ResolveExitCamp() (*models.Camp, error)
}

// CampService provides camp management
type CampService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewCampService creates a new camp service
func NewCampService(db *gorm.DB, cfg *config.Config) InterfaceCampService {
	return &CampService{
		DB:     db,
		Config: cfg,
	}
}

// 1. GetAllCamps lists camps with pagination
func (s *CampService) GetAllCamps(page, pageSize int) ([]models.Camp, int64, error) {
	var camps []models.Camp
	var total int64

	if err := s.DB.Model(&models.Camp{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Limit(pageSize).Offset(offset).Order("name").Find(&camps).Error; err != nil {
		return nil, 0, err
	}

	return camps, total, nil
}

// 2. GetCampByID fetches a camp by id
func (s *CampService) GetCampByID(id uint) (*models.Camp, error) {
	var camp models.Camp
	if err := s.DB.First(&camp, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "camp", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	return &camp, nil
}

// 3. CreateCamp registers a new camp
func (s *CampService) CreateCamp(camp *models.Camp) error {
	var count int64
	if err := s.DB.Model(&models.Camp{}).Where("code = ?", camp.Code).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("code", "camp code already exists")
	}
	if camp.Type == "" {
		camp.Type = models.CampTypeRegular
	}
	if camp.Status == "" {
		camp.Status = "active"
	}
	return s.DB.Create(camp).Error
}

// 4. UpdateCamp updates camp fields
func (s *CampService) UpdateCamp(id uint, updates map[string]interface{}) (*models.Camp, error) {
	camp, err := s.GetCampByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.Model(camp).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetCampByID(id)
}

// 5. DeleteCamp removes a camp with no occupants or beds
func (s *CampService) DeleteCamp(id uint) error {
	camp, err := s.GetCampByID(id)
	if err != nil {
		return err
	}

	var bedCount int64
	if err := s.DB.Model(&models.Bed{}).Where("camp_id = ?", id).Count(&bedCount).Error; err != nil {
		return err
	}
	if bedCount > 0 {
		return NewValidationError("camp", "camp still has beds registered")
	}

	return s.DB.Delete(camp).Error
}

// 6. ResolveExitCamp returns the designated exit camp.
//
// Resolution order: the explicit EXIT_CAMP_ID configuration reference, then
// a camp carrying the exit type tag, then the legacy name match kept for
// data predating the type column. A system without a resolvable exit camp
// is a configuration error; callers must not swallow it.
func (s *CampService) ResolveExitCamp() (*models.Camp, error) {
	if s.Config != nil && s.Config.ExitCampID != 0 {
		var camp models.Camp
		err := s.DB.First(&camp, s.Config.ExitCampID).Error
		if err == nil {
			return &camp, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, &ConfigError{Reason: fmt.Sprintf("configured exit camp %d does not exist", s.Config.ExitCampID)}
	}

	var camp models.Camp
	err := s.DB.Where("type = ?", models.CampTypeExit).First(&camp).Error
	if err == nil {
		return &camp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Legacy fallback: match on name/code substrings.
	var camps []models.Camp
	if err := s.DB.Find(&camps).Error; err != nil {
		return nil, err
	}
	for i := range camps {
		if camps[i].IsExitCamp() {
			return &camps[i], nil
		}
	}

	return nil, &ConfigError{Reason: "no exit camp configured: set EXIT_CAMP_ID or tag a camp with type 'exit'"}
}
