package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/usecase/client"
)

// ClientService определяет интерфейс для сервиса клиентов
type ClientService interface {
	CreateClient(ctx context.Context, req *client.CreateClientRequest) (*domain.Client, error)
	GetClientByID(ctx context.Context, id int64) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)
}

// ClientHandler обрабатывает запросы связанные с клиентами
type ClientHandler struct {
	clientService ClientService
	logger        logger.Logger
}

// NewClientHandler создает новый handler
func NewClientHandler(clientService ClientService, logger logger.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// CreateClient создает нового клиента
// POST /api/v1/clients
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req client.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Неверные данные запроса")
		return
	}

	c, err := h.clientService.CreateClient(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidClientData):
			respondError(w, http.StatusBadRequest, "Имя и фамилия обязательны для заполнения")
		case errors.Is(err, domain.ErrInvalidCarNumber):
			respondError(w, http.StatusBadRequest, "Неверный формат номера автомобиля")
		default:
			h.logger.Error("Failed to create client", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Ошибка при создании клиента")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    c,
	})
}

// ListClients возвращает всех клиентов
// GET /api/v1/clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.ListClients(r.Context())
	if err != nil {
		h.logger.Error("Failed to list clients", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Ошибка при получении списка клиентов")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    clients,
	})
}

// GetClientByID возвращает клиента по ID
// GET /api/v1/clients/{id}
func (h *ClientHandler) GetClientByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Неверный ID клиента")
		return
	}

	c, err := h.clientService.GetClientByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			respondError(w, http.StatusNotFound, "Клиент не найден")
			return
		}
		h.logger.Error("Failed to get client", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Ошибка при получении клиента")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    c,
	})
}
