package repository

import (
	"context"
	"time"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
)

// ClientRepository определяет методы для работы с клиентами
type ClientRepository interface {
	// Create создает нового клиента
	Create(ctx context.Context, client *domain.Client) error

	// GetByID возвращает клиента по ID
	GetByID(ctx context.Context, id int64) (*domain.Client, error)

	// List возвращает всех клиентов
	List(ctx context.Context) ([]*domain.Client, error)

	// ListWithoutOpenSession возвращает клиентов без открытой сессии
	// (кандидаты на въезд)
	ListWithoutOpenSession(ctx context.Context) ([]*domain.Client, error)

	// UpdateCreditCard сохраняет токен кредитной карты клиента
	UpdateCreditCard(ctx context.Context, clientID int64, creditCard string) error
}

// ParkingRepository определяет методы для работы с парковками
type ParkingRepository interface {
	// Create создает новую парковку
	Create(ctx context.Context, parking *domain.Parking) error

	// GetByID возвращает парковку по ID
	GetByID(ctx context.Context, id int64) (*domain.Parking, error)

	// List возвращает все парковки
	List(ctx context.Context) ([]*domain.Parking, error)

	// ListOpenWithCapacity возвращает открытые парковки со свободными местами
	// (кандидаты на въезд)
	ListOpenWithCapacity(ctx context.Context) ([]*domain.Parking, error)

	// Count возвращает общее число парковок
	Count(ctx context.Context) (int64, error)
}

// SessionRepository определяет методы для работы с парковочными сессиями
//
// Open и Close - единственные операции, меняющие счетчик свободных мест.
// Каждая из них выполняется одной транзакцией: вставка/закрытие сессии и
// изменение счетчика либо фиксируются вместе, либо не фиксируются вообще.
// Это единственная граница конкурентности системы - два одновременных
// въезда не могут уйти в минус по местам, два одновременных выезда одной
// сессии не могут дважды увеличить счетчик.
type SessionRepository interface {
	// FindOpenByClient возвращает открытую сессию клиента на любой парковке
	FindOpenByClient(ctx context.Context, clientID int64) (*domain.ParkingSession, error)

	// FindOpenByClientAndParking возвращает открытую сессию клиента на
	// конкретной парковке; поле Client заполнено
	FindOpenByClientAndParking(ctx context.Context, clientID, parkingID int64) (*domain.ParkingSession, error)

	// ListOpen возвращает все открытые сессии; поля Client и Parking заполнены
	ListOpen(ctx context.Context) ([]*domain.ParkingSession, error)

	// CountOpen возвращает число открытых сессий
	CountOpen(ctx context.Context) (int64, error)

	// Open атомарно создает сессию и уменьшает счетчик свободных мест.
	// Если мест уже нет - domain.ErrNoAvailableSpace, сессия не создается.
	Open(ctx context.Context, session *domain.ParkingSession) error

	// Close атомарно проставляет сессии время выезда и увеличивает счетчик
	// свободных мест. Если сессия уже закрыта - domain.ErrSessionClosed,
	// счетчик не меняется.
	Close(ctx context.Context, sessionID int64, timeOut time.Time) error
}
