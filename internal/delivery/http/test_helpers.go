package http

import (
	"testing"
	"time"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
)

// CreateTestClient создает тестового клиента
func CreateTestClient(id int64, creditCard string) *domain.Client {
	return &domain.Client{
		ID:         id,
		Name:       "Иван",
		Surname:    "Иванов",
		CarNumber:  "А123ВС77",
		CreditCard: creditCard,
	}
}

// CreateTestParking создает тестовую парковку
func CreateTestParking(id int64, places, available int) *domain.Parking {
	return &domain.Parking{
		ID:                   id,
		Address:              "ул. Ленина, 1",
		Opened:               true,
		CountPlaces:          places,
		CountAvailablePlaces: available,
	}
}

// CreateTestSession создает тестовую открытую сессию
func CreateTestSession(id, clientID, parkingID int64) *domain.ParkingSession {
	return &domain.ParkingSession{
		ID:        id,
		ClientID:  clientID,
		ParkingID: parkingID,
		TimeIn:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// AssertSuccess проверяет успешный ответ API
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError проверяет ошибочный ответ API
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
