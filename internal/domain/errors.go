package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// Client errors
var (
	ErrClientNotFound    = errors.New("client not found")
	ErrInvalidClientData = errors.New("invalid client data")
	ErrInvalidCarNumber  = errors.New("invalid car number")
)

// Parking errors
var (
	ErrParkingNotFound    = errors.New("parking not found")
	ErrInvalidParkingData = errors.New("invalid parking data")
)

// Session errors
// Нарушения правил жизненного цикла - ожидаемые исходы, а не сбои:
// обработчик отдает их клиенту с понятным сообщением, никогда не 500.
var (
	ErrSessionNotFound  = errors.New("active parking session not found")
	ErrAlreadyParked    = errors.New("client is already parked")
	ErrParkingClosed    = errors.New("parking is closed")
	ErrNoAvailableSpace = errors.New("no available space")
	ErrSessionClosed    = errors.New("parking session already closed")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrBadRequest = errors.New("bad request")
)
