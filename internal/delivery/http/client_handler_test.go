package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/usecase/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockClientService - мок для client service
type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) CreateClient(ctx context.Context, req *client.CreateClientRequest) (*domain.Client, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) GetClientByID(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Client), args.Error(1)
}

// TestClientHandler_CreateClient тестирует регистрацию клиента
func TestClientHandler_CreateClient(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		mockSetup      func(*MockClientService)
		expectedStatus int
		checkResponse  func(*testing.T, map[string]interface{})
	}{
		{
			name:        "успешное создание",
			requestBody: client.CreateClientRequest{Name: "Иван", Surname: "Иванов", CarNumber: "А123ВС77"},
			mockSetup: func(m *MockClientService) {
				m.On("CreateClient", mock.Anything, mock.AnythingOfType("*client.CreateClientRequest")).
					Return(CreateTestClient(1, ""), nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertSuccess(t, resp)
				if data, ok := resp["data"].(map[string]interface{}); ok {
					assert.Equal(t, float64(1), data["id"])
					assert.Equal(t, "А123ВС77", data["car_number"])
				}
			},
		},
		{
			name:        "без имени",
			requestBody: client.CreateClientRequest{Surname: "Иванов", CarNumber: "А123ВС77"},
			mockSetup: func(m *MockClientService) {
				m.On("CreateClient", mock.Anything, mock.AnythingOfType("*client.CreateClientRequest")).
					Return(nil, domain.ErrInvalidClientData)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Equal(t, "Имя и фамилия обязательны для заполнения", resp["error"])
			},
		},
		{
			name:        "неверный формат номера",
			requestBody: client.CreateClientRequest{Name: "Иван", Surname: "Иванов", CarNumber: "A1BC12"},
			mockSetup: func(m *MockClientService) {
				m.On("CreateClient", mock.Anything, mock.AnythingOfType("*client.CreateClientRequest")).
					Return(nil, domain.ErrInvalidCarNumber)
			},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
				assert.Equal(t, "Неверный формат номера автомобиля", resp["error"])
			},
		},
		{
			name:           "невалидный JSON",
			requestBody:    "invalid",
			mockSetup:      func(m *MockClientService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp map[string]interface{}) {
				AssertError(t, resp)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockClientService)
			tt.mockSetup(mockService)

			handler := NewClientHandler(mockService, logger.NewNoop())

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/clients", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateClient(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			tt.checkResponse(t, response)

			mockService.AssertExpectations(t)
		})
	}
}

// TestClientHandler_GetClientByID тестирует получение клиента
func TestClientHandler_GetClientByID(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		mockSetup      func(*MockClientService)
		expectedStatus int
	}{
		{
			name: "клиент найден",
			path: "/api/v1/clients/1",
			mockSetup: func(m *MockClientService) {
				m.On("GetClientByID", mock.Anything, int64(1)).
					Return(CreateTestClient(1, "tok_4242"), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "клиент не найден",
			path: "/api/v1/clients/999",
			mockSetup: func(m *MockClientService) {
				m.On("GetClientByID", mock.Anything, int64(999)).
					Return(nil, domain.ErrClientNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "нечисловой ID",
			path:           "/api/v1/clients/abc",
			mockSetup:      func(m *MockClientService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockClientService)
			tt.mockSetup(mockService)

			handler := NewClientHandler(mockService, logger.NewNoop())

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			handler.GetClientByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

// TestClientHandler_ListClients тестирует список клиентов
func TestClientHandler_ListClients(t *testing.T) {
	mockService := new(MockClientService)
	mockService.On("ListClients", mock.Anything).Return([]*domain.Client{
		CreateTestClient(1, ""),
		CreateTestClient(2, "tok_4242"),
	}, nil)

	handler := NewClientHandler(mockService, logger.NewNoop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/clients", nil)
	w := httptest.NewRecorder()

	handler.ListClients(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	AssertSuccess(t, response)

	data, ok := response["data"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, data, 2)

	mockService.AssertExpectations(t)
}
