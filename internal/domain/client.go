package domain

import (
	"regexp"
	"strings"
)

// Формат госномера: буква, 3 цифры, 2 буквы, код региона из 2-3 цифр.
// Допустимы только 12 букв, существующие и в кириллице, и в латинице
// (А/A, В/B и т.д.) - обе раскладки принимаются.
var carNumberPattern = regexp.MustCompile(`^[АВЕКМНОРСТУХABEKMHOPCTYX]\d{3}[АВЕКМНОРСТУХABEKMHOPCTYX]{2}\d{2,3}$`)

// Client - клиент парковки
// Кредитная карта опциональна: клиент может зарегистрироваться без нее
// и указать карту позже, при первом выезде с парковки
type Client struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	CreditCard string `json:"credit_card,omitempty"` // Токен карты, пустая строка = карта не указана
	CarNumber  string `json:"car_number"`
}

// ValidateCarNumber проверяет номер автомобиля на соответствие формату.
// Регистр не учитывается. Никогда не паникует - на любой мусор возвращает false.
func ValidateCarNumber(carNumber string) bool {
	return carNumberPattern.MatchString(strings.ToUpper(carNumber))
}

// HasCreditCard проверяет, указан ли у клиента токен кредитной карты
func (c *Client) HasCreditCard() bool {
	return c.CreditCard != ""
}

// Validate проверяет корректность данных клиента
func (c *Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Surname) == "" {
		return ErrInvalidClientData
	}
	if !ValidateCarNumber(c.CarNumber) {
		return ErrInvalidCarNumber
	}
	return nil
}
