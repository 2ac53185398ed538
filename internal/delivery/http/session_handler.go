package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evi1sylar/skillbox30hw/internal/domain"
	"github.com/evi1sylar/skillbox30hw/internal/pkg/logger"
	"github.com/evi1sylar/skillbox30hw/internal/usecase/session"
)

// SessionService определяет интерфейс для менеджера парковочных сессий
type SessionService interface {
	Enter(ctx context.Context, req *session.EnterRequest) (*domain.ParkingSession, error)
	Exit(ctx context.Context, req *session.ExitRequest) (*session.ExitResponse, error)
	ListActive(ctx context.Context) ([]*domain.ParkingSession, error)
	EntryCandidates(ctx context.Context) (*session.CandidatesResponse, error)
	Stats(ctx context.Context) (*session.StatsResponse, error)
}

// SessionHandler обрабатывает въезды, выезды и списки сессий
type SessionHandler struct {
	sessionService SessionService
	logger         logger.Logger
}

// NewSessionHandler создает новый handler
func NewSessionHandler(sessionService SessionService, logger logger.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// Enter - въезд клиента на парковку
// POST /api/v1/sessions/enter
func (h *SessionHandler) Enter(w http.ResponseWriter, r *http.Request) {
	var req session.EnterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Неверные данные запроса")
		return
	}

	s, err := h.sessionService.Enter(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyParked):
			respondError(w, http.StatusConflict, "Этот клиент уже находится на парковке")
		case errors.Is(err, domain.ErrParkingClosed):
			respondError(w, http.StatusConflict, "Парковка закрыта")
		case errors.Is(err, domain.ErrNoAvailableSpace):
			respondError(w, http.StatusConflict, "Нет свободных мест")
		case errors.Is(err, domain.ErrClientNotFound):
			respondError(w, http.StatusNotFound, "Клиент не найден")
		case errors.Is(err, domain.ErrParkingNotFound):
			respondError(w, http.StatusNotFound, "Парковка не найдена")
		default:
			h.logger.Error("Failed to enter parking", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Ошибка при въезде на парковку")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    s,
	})
}

// Exit - выезд клиента с парковки
// DELETE /api/v1/sessions/exit
// Ответ с require_credit_card=true - не ошибка: сессия остается открытой,
// вызывающий запрашивает карту у клиента и повторяет запрос
func (h *SessionHandler) Exit(w http.ResponseWriter, r *http.Request) {
	var req session.ExitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Неверные данные запроса")
		return
	}

	resp, err := h.sessionService.Exit(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "Активная сессия не найдена")
			return
		}
		h.logger.Error("Failed to exit parking", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Ошибка при выезде с парковки")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    resp,
	})
}

// ListActive возвращает все открытые сессии
// GET /api/v1/sessions/active
func (h *SessionHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.sessionService.ListActive(r.Context())
	if err != nil {
		h.logger.Error("Failed to list active sessions", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Ошибка при получении активных сессий")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    sessions,
	})
}

// EntryCandidates возвращает данные для формы въезда
// GET /api/v1/sessions/candidates
func (h *SessionHandler) EntryCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.sessionService.EntryCandidates(r.Context())
	if err != nil {
		h.logger.Error("Failed to get entry candidates", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Ошибка при получении кандидатов на въезд")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    candidates,
	})
}

// Stats возвращает сводку для главной страницы
// GET /api/v1/stats
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.sessionService.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to get stats", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Ошибка при получении статистики")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    stats,
	})
}
