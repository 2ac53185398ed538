// Package memory - реализация репозиториев в памяти.
// Хранит все сущности в map под одним мьютексом и воспроизводит те же
// guard-ы, что и postgres-реализация. Используется в тестах жизненного
// цикла сессий, где поднимать БД незачем.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
)

// Store - общее хранилище трех репозиториев
type Store struct {
	mu sync.Mutex

	clients  map[int64]*domain.Client
	parkings map[int64]*domain.Parking
	sessions map[int64]*domain.ParkingSession

	nextClientID  int64
	nextParkingID int64
	nextSessionID int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		clients:       make(map[int64]*domain.Client),
		parkings:      make(map[int64]*domain.Parking),
		sessions:      make(map[int64]*domain.ParkingSession),
		nextClientID:  1,
		nextParkingID: 1,
		nextSessionID: 1,
	}
}

// Clients возвращает ClientRepository поверх хранилища
func (s *Store) Clients() *ClientRepository { return &ClientRepository{store: s} }

// Parkings возвращает ParkingRepository поверх хранилища
func (s *Store) Parkings() *ParkingRepository { return &ParkingRepository{store: s} }

// Sessions возвращает SessionRepository поверх хранилища
func (s *Store) Sessions() *SessionRepository { return &SessionRepository{store: s} }

// ClientRepository - реализация repository.ClientRepository в памяти
type ClientRepository struct {
	store *Store
}

func (r *ClientRepository) Create(_ context.Context, client *domain.Client) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	client.ID = s.nextClientID
	s.nextClientID++

	stored := *client
	s.clients[client.ID] = &stored

	return nil
}

func (r *ClientRepository) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}

	copied := *client
	return &copied, nil
}

func (r *ClientRepository) List(_ context.Context) ([]*domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	clients := make([]*domain.Client, 0, len(s.clients))
	for _, client := range s.clients {
		copied := *client
		clients = append(clients, &copied)
	}
	sortClients(clients)

	return clients, nil
}

func (r *ClientRepository) ListWithoutOpenSession(_ context.Context) ([]*domain.Client, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	parked := make(map[int64]bool)
	for _, session := range s.sessions {
		if session.TimeOut == nil {
			parked[session.ClientID] = true
		}
	}

	var clients []*domain.Client
	for _, client := range s.clients {
		if !parked[client.ID] {
			copied := *client
			clients = append(clients, &copied)
		}
	}
	sortClients(clients)

	return clients, nil
}

func (r *ClientRepository) UpdateCreditCard(_ context.Context, clientID int64, creditCard string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[clientID]
	if !ok {
		return domain.ErrClientNotFound
	}
	client.CreditCard = creditCard

	return nil
}

// ParkingRepository - реализация repository.ParkingRepository в памяти
type ParkingRepository struct {
	store *Store
}

func (r *ParkingRepository) Create(_ context.Context, parking *domain.Parking) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	parking.ID = s.nextParkingID
	s.nextParkingID++

	stored := *parking
	s.parkings[parking.ID] = &stored

	return nil
}

func (r *ParkingRepository) GetByID(_ context.Context, id int64) (*domain.Parking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	parking, ok := s.parkings[id]
	if !ok {
		return nil, domain.ErrParkingNotFound
	}

	copied := *parking
	return &copied, nil
}

func (r *ParkingRepository) List(_ context.Context) ([]*domain.Parking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	parkings := make([]*domain.Parking, 0, len(s.parkings))
	for _, parking := range s.parkings {
		copied := *parking
		parkings = append(parkings, &copied)
	}
	sortParkings(parkings)

	return parkings, nil
}

func (r *ParkingRepository) ListOpenWithCapacity(_ context.Context) ([]*domain.Parking, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var parkings []*domain.Parking
	for _, parking := range s.parkings {
		if parking.AcceptsEntry() {
			copied := *parking
			parkings = append(parkings, &copied)
		}
	}
	sortParkings(parkings)

	return parkings, nil
}

func (r *ParkingRepository) Count(_ context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.parkings)), nil
}

// SessionRepository - реализация repository.SessionRepository в памяти
type SessionRepository struct {
	store *Store
}

func (r *SessionRepository) FindOpenByClient(_ context.Context, clientID int64) (*domain.ParkingSession, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.ClientID == clientID && session.TimeOut == nil {
			copied := *session
			return &copied, nil
		}
	}

	return nil, domain.ErrSessionNotFound
}

func (r *SessionRepository) FindOpenByClientAndParking(_ context.Context, clientID, parkingID int64) (*domain.ParkingSession, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.ClientID == clientID && session.ParkingID == parkingID && session.TimeOut == nil {
			copied := *session
			if client, ok := s.clients[session.ClientID]; ok {
				clientCopy := *client
				copied.Client = &clientCopy
			}
			return &copied, nil
		}
	}

	return nil, domain.ErrSessionNotFound
}

func (r *SessionRepository) ListOpen(_ context.Context) ([]*domain.ParkingSession, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var sessions []*domain.ParkingSession
	for _, session := range s.sessions {
		if session.TimeOut != nil {
			continue
		}
		copied := *session
		if client, ok := s.clients[session.ClientID]; ok {
			clientCopy := *client
			copied.Client = &clientCopy
		}
		if parking, ok := s.parkings[session.ParkingID]; ok {
			parkingCopy := *parking
			copied.Parking = &parkingCopy
		}
		sessions = append(sessions, &copied)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].TimeIn.Before(sessions[j].TimeIn) })

	return sessions, nil
}

func (r *SessionRepository) CountOpen(_ context.Context) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, session := range s.sessions {
		if session.TimeOut == nil {
			count++
		}
	}

	return count, nil
}

func (r *SessionRepository) Open(_ context.Context, session *domain.ParkingSession) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	parking, ok := s.parkings[session.ParkingID]
	if !ok {
		return domain.ErrParkingNotFound
	}
	if parking.CountAvailablePlaces <= 0 {
		return domain.ErrNoAvailableSpace
	}

	parking.CountAvailablePlaces--

	session.ID = s.nextSessionID
	s.nextSessionID++

	stored := *session
	stored.Client = nil
	stored.Parking = nil
	s.sessions[session.ID] = &stored

	return nil
}

func (r *SessionRepository) Close(_ context.Context, sessionID int64, timeOut time.Time) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.TimeOut != nil {
		return domain.ErrSessionClosed
	}

	parking, ok := s.parkings[session.ParkingID]
	if !ok || parking.CountAvailablePlaces >= parking.CountPlaces {
		return domain.ErrInternal
	}

	out := timeOut
	session.TimeOut = &out
	parking.CountAvailablePlaces++

	return nil
}

func sortClients(clients []*domain.Client) {
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
}

func sortParkings(parkings []*domain.Parking) {
	sort.Slice(parkings, func(i, j int) bool { return parkings[i].ID < parkings[j].ID })
}
