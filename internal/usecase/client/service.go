package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/repository"
)

// CreateClientRequest - запрос на создание клиента
type CreateClientRequest struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	CarNumber  string `json:"car_number"`
	CreditCard string `json:"credit_card,omitempty"`
}

// Service содержит бизнес-логику работы с клиентами
type Service struct {
	clientRepo repository.ClientRepository
	logger     logger.Logger
}

// NewService создает новый экземпляр ClientService
func NewService(clientRepo repository.ClientRepository, logger logger.Logger) *Service {
	return &Service{
		clientRepo: clientRepo,
		logger:     logger,
	}
}

// CreateClient создает нового клиента
// Имя и фамилия обязательны, номер автомобиля проверяется на формат
func (s *Service) CreateClient(ctx context.Context, req *CreateClientRequest) (*domain.Client, error) {
	client := &domain.Client{
		Name:       strings.TrimSpace(req.Name),
		Surname:    strings.TrimSpace(req.Surname),
		CarNumber:  strings.TrimSpace(req.CarNumber),
		CreditCard: strings.TrimSpace(req.CreditCard),
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.logger.Info("Client created", map[string]interface{}{
		"client_id":  client.ID,
		"car_number": client.CarNumber,
	})

	return client, nil
}

// GetClientByID возвращает клиента по ID
func (s *Service) GetClientByID(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

// ListClients возвращает всех клиентов
func (s *Service) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return s.clientRepo.List(ctx)
}
