package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"campmanager-service/internal/domain/models"
	"campmanager-service/internal/infrastructure/config"
)

// InterfaceBedService defines the bed ledger service interface
type InterfaceBedService interface {
	GetAllBeds(campID uint, status models.BedStatus, page, pageSize int) ([]models.Bed, int64, error)
	GetBedByID(id uint) (*models.Bed, error)
	CreateBed(bed *models.Bed) error
	SeedBeds(campID uint, roomNumber string, count int) ([]models.Bed, error)
	DeleteBed(id uint) error
	CountByStatus(campID uint) (map[models.BedStatus]int64, error)
}

// BedService owns the availability state of individual beds
type BedService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewBedService creates a new bed service
func NewBedService(db *gorm.DB, cfg *config.Config) InterfaceBedService {
	return &BedService{
		DB:     db,
		Config: cfg,
	}
}

// 1. GetAllBeds lists beds, optionally filtered by camp and status
func (s *BedService) GetAllBeds(campID uint, status models.BedStatus, page, pageSize int) ([]models.Bed, int64, error) {
	var beds []models.Bed
	var total int64

	query := s.DB.Model(&models.Bed{})
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
	if err := query.Preload("Camp").Limit(pageSize).Offset(offset).Order("camp_id, room_number, bed_number").Find(&beds).Error; err != nil {
		return nil, 0, err
	}

	return beds, total, nil
}

// 2. GetBedByID fetches a bed by id
func (s *BedService) GetBedByID(id uint) (*models.Bed, error) {
	var bed models.Bed
	if err := s.DB.Preload("Camp").First(&bed, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "bed", ID: fmt.Sprint(id)}
		}
		return nil, err
	}
	return &bed, nil
}

// 3. CreateBed registers a single bed
func (s *BedService) CreateBed(bed *models.Bed) error {
	var count int64
	if err := s.DB.Model(&models.Bed{}).
		Where("camp_id = ? AND room_number = ? AND bed_number = ?", bed.CampID, bed.RoomNumber, bed.BedNumber).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return NewValidationError("bed_number", "bed already exists in this room")
	}
	if bed.Status == "" {
		bed.Status = models.BedStatusAvailable
	}
	return s.DB.Create(bed).Error
}

// 4. SeedBeds creates a numbered run of available beds in one room
func (s *BedService) SeedBeds(campID uint, roomNumber string, count int) ([]models.Bed, error) {
	if count <= 0 {
		return nil, NewValidationError("count", "must be positive")
	}

	beds := make([]models.Bed, 0, count)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for i := 1; i <= count; i++ {
			bed := models.Bed{
				CampID:     campID,
				RoomNumber: roomNumber,
				BedNumber:  fmt.Sprintf("%s-%02d", roomNumber, i),
				Status:     models.BedStatusAvailable,
			}
			if err := tx.Create(&bed).Error; err != nil {
				return err
			}
			beds = append(beds, bed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return beds, nil
}

// 5. DeleteBed removes a bed that is not reserved or occupied
func (s *BedService) DeleteBed(id uint) error {
	bed, err := s.GetBedByID(id)
	if err != nil {
		return err
	}
	if bed.Status != models.BedStatusAvailable {
		return NewValidationError("status", "only available beds can be deleted")
	}
	return s.DB.Delete(bed).Error
}

// 6. CountByStatus returns the bed counts per status for a camp (0 = all)
func (s *BedService) CountByStatus(campID uint) (map[models.BedStatus]int64, error) {
	type row struct {
		Status models.BedStatus
		N      int64
	}
	var rows []row
	query := s.DB.Model(&models.Bed{}).Select("status, count(*) as n").Group("status")
	if campID != 0 {
		query = query.Where("camp_id = ?", campID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := map[models.BedStatus]int64{
		models.BedStatusAvailable: 0,
		models.BedStatusReserved:  0,
		models.BedStatusOccupied:  0,
	}
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}

// Transaction-scoped ledger transitions. These are the only paths that move
// a bed between states; the transfer and exit services call them inside
// their own units of work.

// reserveBedTx moves an available bed to reserved for the given person.
func reserveBedTx(tx *gorm.DB, bedID uint, ref models.PersonRef) error {
	var bed models.Bed
	if err := tx.First(&bed, bedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "bed", ID: fmt.Sprint(bedID)}
		}
		return err
	}
	if bed.Status != models.BedStatusAvailable {
		return NewValidationError("bed", fmt.Sprintf("bed %d is %s, not available", bedID, bed.Status))
	}
	return tx.Model(&bed).Updates(map[string]interface{}{
		"status":            models.BedStatusReserved,
		"reserved_for_type": ref.Type,
		"reserved_for_id":   ref.ID,
		"occupant_type":     nil,
		"occupant_id":       nil,
	}).Error
}

// releaseBedTx returns a bed to available regardless of its current holder.
// Compensating action for rejection, cancellation and exit completion.
func releaseBedTx(tx *gorm.DB, bedID uint) error {
	return tx.Model(&models.Bed{}).Where("id = ?", bedID).Updates(map[string]interface{}{
		"status":            models.BedStatusAvailable,
		"reserved_for_type": nil,
		"reserved_for_id":   nil,
		"occupant_type":     nil,
		"occupant_id":       nil,
	}).Error
}

// occupyBedTx confirms a reserved bed as occupied by the person it was
// reserved for.
func occupyBedTx(tx *gorm.DB, bedID uint, ref models.PersonRef) error {
	var bed models.Bed
	if err := tx.First(&bed, bedID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "bed", ID: fmt.Sprint(bedID)}
		}
		return err
	}
	if bed.Status != models.BedStatusReserved {
		return NewValidationError("bed", fmt.Sprintf("bed %d is %s, not reserved", bedID, bed.Status))
	}
	if held := bed.ReservedFor(); held == nil || *held != ref {
		return NewValidationError("bed", fmt.Sprintf("bed %d is reserved for someone else", bedID))
	}
	return tx.Model(&bed).Updates(map[string]interface{}{
		"status":            models.BedStatusOccupied,
		"reserved_for_type": nil,
		"reserved_for_id":   nil,
		"occupant_type":     ref.Type,
		"occupant_id":       ref.ID,
	}).Error
}
