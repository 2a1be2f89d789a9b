package services

import (
	"context"

	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"gorm.io/gorm"
)

// InsuranceService provides methods to interact with the insurance table
type InsuranceService interface {
	// ListAll retrieves every insurance record in insertion order
	ListAll(ctx context.Context) ([]models.InsuranceRecord, error)
	// Create stores a new policy with no claim status
	Create(ctx context.Context, name, address, imei, comments string) (*models.InsuranceRecord, error)
	// SetStatus updates status and comments on every record with the given imei
	// and returns the number of rows affected
	SetStatus(ctx context.Context, imei string, status models.ClaimStatus, comments string) (int64, error)
}

// insuranceService is the implementation of the InsuranceService interface
type insuranceService struct {
	db *gorm.DB
}

// NewInsuranceService creates a new instance of InsuranceService
func NewInsuranceService(db *gorm.DB) InsuranceService {
	return &insuranceService{db: db}
}

func (s *insuranceService) ListAll(ctx context.Context) ([]models.InsuranceRecord, error) {
	records := []models.InsuranceRecord{}
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *insuranceService) Create(ctx context.Context, name, address, imei, comments string) (*models.InsuranceRecord, error) {
	record := &models.InsuranceRecord{
		Name:     name,
		Address:  address,
		IMEI:     imei,
		Comments: comments,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (s *insuranceService) SetStatus(ctx context.Context, imei string, status models.ClaimStatus, comments string) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.InsuranceRecord{}).
		Where("imei = ?", imei).
		Updates(map[string]any{"status": string(status), "comments": comments})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
