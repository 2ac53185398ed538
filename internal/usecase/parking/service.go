package parking

import (
	"context"
	"fmt"
	"strings"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/repository"
)

// CreateParkingRequest - запрос на создание парковки
type CreateParkingRequest struct {
	Address     string `json:"address"`
	CountPlaces int    `json:"count_places"`
	Opened      bool   `json:"opened"`
}

// Service содержит бизнес-логику работы с парковками
type Service struct {
	parkingRepo repository.ParkingRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр ParkingService
func NewService(parkingRepo repository.ParkingRepository, logger logger.Logger) *Service {
	return &Service{
		parkingRepo: parkingRepo,
		logger:      logger,
	}
}

// CreateParking создает новую парковку
// Емкость фиксируется при создании, все места изначально свободны
func (s *Service) CreateParking(ctx context.Context, req *CreateParkingRequest) (*domain.Parking, error) {
	parking := &domain.Parking{
		Address:              strings.TrimSpace(req.Address),
		Opened:               req.Opened,
		CountPlaces:          req.CountPlaces,
		CountAvailablePlaces: req.CountPlaces,
	}

	if err := parking.Validate(); err != nil {
		return nil, err
	}

	if err := s.parkingRepo.Create(ctx, parking); err != nil {
		return nil, fmt.Errorf("failed to create parking: %w", err)
	}

	s.logger.Info("Parking created", map[string]interface{}{
		"parking_id":   parking.ID,
		"count_places": parking.CountPlaces,
		"opened":       parking.Opened,
	})

	return parking, nil
}

// GetParkingByID возвращает парковку по ID
func (s *Service) GetParkingByID(ctx context.Context, id int64) (*domain.Parking, error) {
	return s.parkingRepo.GetByID(ctx, id)
}

// ListParkings возвращает все парковки
func (s *Service) ListParkings(ctx context.Context) ([]*domain.Parking, error) {
	return s.parkingRepo.List(ctx)
}
