package services

import (
	"errors"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
)

// InterfaceOccupantService defines the occupant registry interface
type InterfaceOccupantService interface {
	GetOccupant(ref models.PersonRef) (*models.Occupant, error)
	ListByCamp(campID uint) ([]models.Occupant, error)
	ListExitInProcess(exitCampID uint) ([]models.Occupant, error)
}

// OccupantService is the normalized read/write view over technicians and
// external personnel. The engine addresses persons only through PersonRef;
// this service dispatches to the right table.
type OccupantService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewOccupantService creates a new occupant registry
func NewOccupantService(db *gorm.DB, cfg *config.Config) InterfaceOccupantService {
	return &OccupantService{
		DB:     db,
		Config: cfg,
	}
}

// 1. GetOccupant loads a person from either table
func (s *OccupantService) GetOccupant(ref models.PersonRef) (*models.Occupant, error) {
	return getOccupantTx(s.DB, ref)
}

// 2. ListByCamp lists all occupants currently assigned to a camp
func (s *OccupantService) ListByCamp(campID uint) ([]models.Occupant, error) {
	var occupants []models.Occupant

	var techs []models.Technician
	if err := s.DB.Where("camp_id = ?", campID).Find(&techs).Error; err != nil {
		return nil, err
	}
	for i := range techs {
		occupants = append(occupants, *techs[i].AsOccupant())
	}

	var externals []models.ExternalPersonnel
	if err := s.DB.Where("camp_id = ?", campID).Find(&externals).Error; err != nil {
		return nil, err
	}
	for i := range externals {
		occupants = append(occupants, *externals[i].AsOccupant())
	}

	return occupants, nil
}

// 3. ListExitInProcess lists persons at the exit camp whose formalities are
// not yet completed
func (s *OccupantService) ListExitInProcess(exitCampID uint) ([]models.Occupant, error) {
	var occupants []models.Occupant

	cond := "camp_id = ? AND exit_start_date IS NOT NULL AND (exit_process_status IS NULL OR exit_process_status != ?)"

	var techs []models.Technician
	if err := s.DB.Where(cond, exitCampID, models.ExitProcessCompleted).Find(&techs).Error; err != nil {
		return nil, err
	}
	for i := range techs {
		occupants = append(occupants, *techs[i].AsOccupant())
	}

	var externals []models.ExternalPersonnel
	if err := s.DB.Where(cond, exitCampID, models.ExitProcessCompleted).Find(&externals).Error; err != nil {
		return nil, err
	}
	for i := range externals {
		occupants = append(occupants, *externals[i].AsOccupant())
	}

	return occupants, nil
}

// getOccupantTx loads a person inside a transaction (or plain handle).
func getOccupantTx(tx *gorm.DB, ref models.PersonRef) (*models.Occupant, error) {
	switch ref.Type {
	case models.PersonTypeTechnician:
		var t models.Technician
		if err := tx.First(&t, ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "technician", ID: ref.String()}
			}
			return nil, err
		}
		return t.AsOccupant(), nil
	case models.PersonTypeExternal:
		var p models.ExternalPersonnel
		if err := tx.First(&p, ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "external personnel", ID: ref.String()}
			}
			return nil, err
		}
		return p.AsOccupant(), nil
	default:
		return nil, NewValidationError("person_type", "unknown person type "+string(ref.Type))
	}
}

// updateOccupantTx applies column updates to the person's backing table.
// The caller owns the transaction; updates for all persons of a transition
// commit or roll back as one unit.
func updateOccupantTx(tx *gorm.DB, ref models.PersonRef, updates map[string]interface{}) error {
	var result *gorm.DB
	switch ref.Type {
	case models.PersonTypeTechnician:
		result = tx.Model(&models.Technician{}).Where("id = ?", ref.ID).Updates(updates)
	case models.PersonTypeExternal:
		result = tx.Model(&models.ExternalPersonnel{}).Where("id = ?", ref.ID).Updates(updates)
	default:
		return NewValidationError("person_type", "unknown person type "+string(ref.Type))
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: string(ref.Type), ID: ref.String()}
	}
	return nil
}
