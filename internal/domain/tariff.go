package domain

import "time"

// Тарификация поминутная: оплачиваются только полные минуты,
// неполная минута не тарифицируется.

// BilledMinutes возвращает число оплачиваемых минут между въездом и выездом.
// Если часы успели уйти назад и выезд оказался раньше въезда,
// результат ограничивается нулем - отрицательная плата недопустима.
func BilledMinutes(timeIn, timeOut time.Time) int64 {
	minutes := int64(timeOut.Sub(timeIn) / time.Minute)
	if minutes < 0 {
		return 0
	}
	return minutes
}

// CalcFee считает плату за стоянку по поминутному тарифу
func CalcFee(timeIn, timeOut time.Time, ratePerMinute int64) int64 {
	return BilledMinutes(timeIn, timeOut) * ratePerMinute
}
