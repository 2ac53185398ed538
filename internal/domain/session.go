package domain

import "time"

// ParkingSession - факт нахождения автомобиля клиента на парковке
// Создается въездом, закрывается выездом (TimeOut проставляется один раз).
// Сессии никогда не удаляются и не открываются повторно.
// У клиента в любой момент не больше одной открытой сессии во всей системе.
type ParkingSession struct {
	ID        int64      `json:"id"`
	ClientID  int64      `json:"client_id"`
	ParkingID int64      `json:"parking_id"`
	TimeIn    time.Time  `json:"time_in"`
	TimeOut   *time.Time `json:"time_out,omitempty"` // nil = сессия открыта

	// Связанные данные (не хранятся в таблице сессий, заполняются join-ом)
	Client  *Client  `json:"client,omitempty"`
	Parking *Parking `json:"parking,omitempty"`
}

// IsOpen проверяет, открыта ли сессия (автомобиль еще на парковке)
func (s *ParkingSession) IsOpen() bool {
	return s.TimeOut == nil
}

// Duration возвращает длительность сессии на момент t
// Для закрытой сессии t игнорируется и используется TimeOut
func (s *ParkingSession) Duration(t time.Time) time.Duration {
	if s.TimeOut != nil {
		return s.TimeOut.Sub(s.TimeIn)
	}
	return t.Sub(s.TimeIn)
}
