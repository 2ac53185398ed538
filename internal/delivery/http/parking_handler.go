package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/usecase/parking"
)

// ParkingService определяет интерфейс для сервиса парковок
type ParkingService interface {
	CreateParking(ctx context.Context, req *parking.CreateParkingRequest) (*domain.Parking, error)
	GetParkingByID(ctx context.Context, id int64) (*domain.Parking, error)
	ListParkings(ctx context.Context) ([]*domain.Parking, error)
}

// ParkingHandler обрабатывает запросы связанные с парковками
type ParkingHandler struct {
	parkingService ParkingService
	logger         logger.Logger
}

// NewParkingHandler создает новый handler
func NewParkingHandler(parkingService ParkingService, logger logger.Logger) *ParkingHandler {
	return &ParkingHandler{
		parkingService: parkingService,
		logger:         logger,
	}
}

// CreateParking создает новую парковку
// POST /api/v1/parkings
func (h *ParkingHandler) CreateParking(w http.ResponseWriter, r *http.Request) {
	var req parking.CreateParkingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Неверные данные запроса")
		return
	}

	p, err := h.parkingService.CreateParking(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParkingData) {
			respondError(w, http.StatusBadRequest, "Адрес обязателен, количество мест должно быть положительным числом")
			return
		}
		h.logger.Error("Failed to create parking", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Ошибка при создании парковки")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    p,
	})
}

// ListParkings возвращает все парковки
// GET /api/v1/parkings
func (h *ParkingHandler) ListParkings(w http.ResponseWriter, r *http.Request) {
	parkings, err := h.parkingService.ListParkings(r.Context())
	if err != nil {
		h.logger.Error("Failed to list parkings", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Ошибка при получении списка парковок")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    parkings,
	})
}

// GetParkingByID возвращает парковку по ID
// GET /api/v1/parkings/{id}
func (h *ParkingHandler) GetParkingByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Неверный ID парковки")
		return
	}

	p, err := h.parkingService.GetParkingByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrParkingNotFound) {
			respondError(w, http.StatusNotFound, "Парковка не найдена")
			return
		}
		h.logger.Error("Failed to get parking", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Ошибка при получении парковки")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    p,
	})
}
