package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/repository"
)

// EnterRequest - запрос на въезд
type EnterRequest struct {
	ClientID  int64 `json:"client_id"`
	ParkingID int64 `json:"parking_id"`
}

// ExitRequest - запрос на выезд
// CreditCard опциональна: непустое значение сохраняется клиенту прямо в
// этом вызове, что позволяет указать карту и завершить выезд одним запросом
type ExitRequest struct {
	ClientID   int64  `json:"client_id"`
	ParkingID  int64  `json:"parking_id"`
	CreditCard string `json:"credit_card,omitempty"`
}

// ExitResponse - результат выезда
// Либо RequireCreditCard=true с данными для повторного запроса (это не
// ошибка, сессия остается открытой), либо сумма списания и сообщение
type ExitResponse struct {
	RequireCreditCard bool   `json:"require_credit_card,omitempty"`
	ClientName        string `json:"client_name,omitempty"`
	CarNumber         string `json:"car_number,omitempty"`
	ClientID          int64  `json:"client_id"`
	ParkingID         int64  `json:"parking_id"`
	Minutes           int64  `json:"minutes,omitempty"`
	Amount            int64  `json:"amount,omitempty"`
	Message           string `json:"message,omitempty"`
}

// CandidatesResponse - кандидаты для формы въезда
type CandidatesResponse struct {
	Clients  []*domain.Client  `json:"clients"`
	Parkings []*domain.Parking `json:"parkings"`
}

// StatsResponse - сводка для главной страницы дашборда
type StatsResponse struct {
	ParkingsCount       int64 `json:"parkings_count"`
	ActiveSessionsCount int64 `json:"active_sessions_count"`
}

// Service управляет жизненным циклом парковочных сессий:
// въезд, выезд с расчетом платы, списки для дашборда
type Service struct {
	clientRepo    repository.ClientRepository
	parkingRepo   repository.ParkingRepository
	sessionRepo   repository.SessionRepository
	logger        logger.Logger
	ratePerMinute int64

	// Часы инжектируются, чтобы тесты управляли временем
	now func() time.Time
}

// NewService создает новый экземпляр SessionService
func NewService(
	clientRepo repository.ClientRepository,
	parkingRepo repository.ParkingRepository,
	sessionRepo repository.SessionRepository,
	ratePerMinute int64,
	logger logger.Logger,
) *Service {
	return &Service{
		clientRepo:    clientRepo,
		parkingRepo:   parkingRepo,
		sessionRepo:   sessionRepo,
		logger:        logger,
		ratePerMinute: ratePerMinute,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Enter - въезд клиента на парковку
// Предусловия проверяются по порядку, срабатывает первое нарушенное:
// 1. У клиента уже есть открытая сессия где угодно -> ErrAlreadyParked
// 2. Клиент не существует -> ErrClientNotFound
// 3. Парковка не существует -> ErrParkingNotFound
// 4. Парковка закрыта -> ErrParkingClosed
// 5. Нет свободных мест -> ErrNoAvailableSpace
// При успехе создается сессия, счетчик мест уменьшается атомарно с ней.
func (s *Service) Enter(ctx context.Context, req *EnterRequest) (*domain.ParkingSession, error) {
	_, err := s.sessionRepo.FindOpenByClient(ctx, req.ClientID)
	if err == nil {
		return nil, domain.ErrAlreadyParked
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to check open session: %w", err)
	}

	if _, err := s.clientRepo.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	parking, err := s.parkingRepo.GetByID(ctx, req.ParkingID)
	if err != nil {
		if errors.Is(err, domain.ErrParkingNotFound) {
			return nil, domain.ErrParkingNotFound
		}
		return nil, fmt.Errorf("failed to get parking: %w", err)
	}

	if !parking.Opened {
		return nil, domain.ErrParkingClosed
	}
	if !parking.HasAvailablePlaces() {
		return nil, domain.ErrNoAvailableSpace
	}

	session := &domain.ParkingSession{
		ClientID:  req.ClientID,
		ParkingID: req.ParkingID,
		TimeIn:    s.now(),
	}

	// Места могли закончиться между проверкой и записью - Open вернет
	// ErrNoAvailableSpace, и для вызывающего это неотличимо от проверки выше
	if err := s.sessionRepo.Open(ctx, session); err != nil {
		if errors.Is(err, domain.ErrNoAvailableSpace) {
			return nil, domain.ErrNoAvailableSpace
		}
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	s.logger.Info("Client entered parking", map[string]interface{}{
		"session_id": session.ID,
		"client_id":  session.ClientID,
		"parking_id": session.ParkingID,
	})

	return session, nil
}

// Exit - выезд клиента с парковки
// Непустая карта из запроса сохраняется клиенту до проверки наличия карты -
// так клиент регистрирует оплату и завершает выезд одним вызовом. Если карты
// нет ни в базе, ни в запросе, сессия НЕ закрывается: возвращается
// RequireCreditCard с данными для повторного запроса.
func (s *Service) Exit(ctx context.Context, req *ExitRequest) (*ExitResponse, error) {
	session, err := s.sessionRepo.FindOpenByClientAndParking(ctx, req.ClientID, req.ParkingID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find open session: %w", err)
	}

	if req.CreditCard != "" {
		if err := s.clientRepo.UpdateCreditCard(ctx, req.ClientID, req.CreditCard); err != nil {
			return nil, fmt.Errorf("failed to update credit card: %w", err)
		}
		session.Client.CreditCard = req.CreditCard
	}

	if !session.Client.HasCreditCard() {
		s.logger.Info("Exit requires credit card", map[string]interface{}{
			"client_id":  req.ClientID,
			"parking_id": req.ParkingID,
		})
		return &ExitResponse{
			RequireCreditCard: true,
			ClientName:        session.Client.Name,
			CarNumber:         session.Client.CarNumber,
			ClientID:          session.ClientID,
			ParkingID:         session.ParkingID,
		}, nil
	}

	timeOut := s.now()
	if err := s.sessionRepo.Close(ctx, session.ID, timeOut); err != nil {
		if errors.Is(err, domain.ErrSessionClosed) {
			// Конкурентный выезд успел закрыть сессию первым
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	minutes := domain.BilledMinutes(session.TimeIn, timeOut)
	amount := minutes * s.ratePerMinute

	s.logger.Info("Client left parking", map[string]interface{}{
		"session_id": session.ID,
		"client_id":  session.ClientID,
		"parking_id": session.ParkingID,
		"minutes":    minutes,
		"amount":     amount,
	})

	return &ExitResponse{
		ClientID:  session.ClientID,
		ParkingID: session.ParkingID,
		Minutes:   minutes,
		Amount:    amount,
		Message:   fmt.Sprintf("Автомобиль покинул парковку. Снята плата - %d руб.", amount),
	}, nil
}

// ListActive возвращает открытые сессии с клиентами и парковками
func (s *Service) ListActive(ctx context.Context) ([]*domain.ParkingSession, error) {
	sessions, err := s.sessionRepo.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	return sessions, nil
}

// EntryCandidates возвращает клиентов без открытой сессии и открытые
// парковки со свободными местами - данные для формы въезда
func (s *Service) EntryCandidates(ctx context.Context) (*CandidatesResponse, error) {
	clients, err := s.clientRepo.ListWithoutOpenSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry candidate clients: %w", err)
	}

	parkings, err := s.parkingRepo.ListOpenWithCapacity(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entry candidate parkings: %w", err)
	}

	return &CandidatesResponse{Clients: clients, Parkings: parkings}, nil
}

// Stats возвращает сводку для главной страницы
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	parkingsCount, err := s.parkingRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count parkings: %w", err)
	}

	activeCount, err := s.sessionRepo.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open sessions: %w", err)
	}

	return &StatsResponse{
		ParkingsCount:       parkingsCount,
		ActiveSessionsCount: activeCount,
	}, nil
}
