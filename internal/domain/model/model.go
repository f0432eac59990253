// Пакет model — доменные модели Residence UI.
// Все сущности приходят из remote API и не изменяются на стороне клиента,
// кроме как через явные операции (создание долга, отметка оплаты,
// создание объявления).
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime/types"
)

// Типы долгов, принимаемые API.
const (
	DebtTypeMonthlyFee  = "monthly_fee"
	DebtTypeMaintenance = "maintenance"
	DebtTypeHeating     = "heating"
	DebtTypeOther       = "other"
)

// DebtTypes — допустимые типы долгов в порядке отображения в форме.
var DebtTypes = []string{DebtTypeMonthlyFee, DebtTypeMaintenance, DebtTypeHeating, DebtTypeOther}

// User — аутентифицированный пользователь.
// Неизменяем в течение сессии; роль определяет доступные разделы.
type User struct {
	// Username — имя пользователя (apartment01, admin, ...)
	Username string `json:"username"`
	// Role — роль: admin или resident
	Role string `json:"role"`
	// ApartmentNumber — номер квартиры (пусто для администратора)
	ApartmentNumber string `json:"apartment_number,omitempty"`
}

// Apartment — квартира или коммерческое помещение.
type Apartment struct {
	// ID — идентификатор квартиры
	ID string `json:"id"`
	// ApartmentNumber — отображаемый номер (A-01, S-02, ...)
	ApartmentNumber string `json:"apartment_number"`
	// UnitType — тип помещения (apartment, shop)
	UnitType string `json:"unit_type"`
}

// Debt — долг квартиры.
// Переход IsPaid false → true однонаправленный, выполняется только
// через операцию оплаты; прочие поля после создания не редактируются.
type Debt struct {
	// ID — идентификатор долга
	ID string `json:"id"`
	// ApartmentID — идентификатор квартиры-должника
	ApartmentID string `json:"apartment_id"`
	// ApartmentNumber — отображаемый номер квартиры
	ApartmentNumber string `json:"apartment_number"`
	// Amount — сумма долга
	Amount float64 `json:"amount"`
	// Description — назначение платежа
	Description string `json:"description"`
	// DueDate — срок оплаты
	DueDate types.Date `json:"due_date"`
	// DebtType — тип долга (monthly_fee, maintenance, heating, other)
	DebtType string `json:"debt_type"`
	// IsPaid — оплачен ли долг
	IsPaid bool `json:"is_paid"`
	// PaymentDate — дата оплаты (nil пока не оплачен)
	PaymentDate *Timestamp `json:"payment_date,omitempty"`
}

// DebtCreate — тело запроса на создание долга.
type DebtCreate struct {
	ApartmentID string     `json:"apartment_id"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	DueDate     types.Date `json:"due_date"`
	DebtType    string     `json:"debt_type"`
}

// Announcement — объявление администрации.
// После создания только для чтения; порядок — как вернул сервер.
type Announcement struct {
	// ID — идентификатор объявления
	ID string `json:"id"`
	// Title — заголовок
	Title string `json:"title"`
	// Content — текст объявления
	Content string `json:"content"`
	// IsUrgent — срочное объявление (выделяется в списке)
	IsUrgent bool `json:"is_urgent"`
	// CreatedDate — время создания на сервере
	CreatedDate Timestamp `json:"created_date"`
}

// AnnouncementCreate — тело запроса на создание объявления.
type AnnouncementCreate struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsUrgent bool   `json:"is_urgent"`
}

// Timestamp — время в ответах API.
// API отдаёт ISO 8601 как с таймзоной, так и без неё,
// поэтому стандартного time.Time-парсинга недостаточно.
type Timestamp struct {
	time.Time
}

// timestampLayouts — форматы времени, встречающиеся в ответах API.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON разбирает строку времени, перебирая известные форматы.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("model: не удалось разобрать время %q", s)
}

// MarshalJSON сериализует время в RFC3339.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + ts.Time.Format(time.RFC3339) + `"`), nil
}
