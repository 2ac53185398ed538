package domain

import "strings"

// Parking - парковка
// CountPlaces фиксируется при создании. CountAvailablePlaces меняет только
// менеджер сессий: -1 при въезде, +1 при выезде. Инвариант:
// 0 <= CountAvailablePlaces <= CountPlaces, и он всегда равен
// CountPlaces минус число открытых сессий этой парковки.
type Parking struct {
	ID                   int64  `json:"id"`
	Address              string `json:"address"`
	Opened               bool   `json:"opened"` // Закрытая парковка не принимает новые въезды
	CountPlaces          int    `json:"count_places"`
	CountAvailablePlaces int    `json:"count_available_places"`
}

// HasAvailablePlaces проверяет, есть ли свободные места
func (p *Parking) HasAvailablePlaces() bool {
	return p.CountAvailablePlaces > 0
}

// AcceptsEntry проверяет, может ли парковка принять новый въезд
func (p *Parking) AcceptsEntry() bool {
	return p.Opened && p.HasAvailablePlaces()
}

// Validate проверяет корректность данных парковки
func (p *Parking) Validate() error {
	if strings.TrimSpace(p.Address) == "" {
		return ErrInvalidParkingData
	}
	if p.CountPlaces <= 0 {
		return ErrInvalidParkingData
	}
	if p.CountAvailablePlaces < 0 || p.CountAvailablePlaces > p.CountPlaces {
		return ErrInvalidParkingData
	}
	return nil
}
