package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"RFC3339", `"2025-03-01T12:30:00Z"`, time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)},
		{"без таймзоны", `"2025-03-01T12:30:00"`, time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)},
		{"микросекунды без таймзоны", `"2025-03-01T12:30:00.123456"`, time.Date(2025, 3, 1, 12, 30, 0, 123456000, time.UTC)},
		{"только дата", `"2025-03-01"`, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.in, err)
			}
			if !ts.Time.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, ожидается %v", tt.in, ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampUnmarshalNull(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte("null"), &ts); err != nil {
		t.Fatalf("Unmarshal(null): %v", err)
	}
	if !ts.Time.IsZero() {
		t.Errorf("Unmarshal(null): ожидается нулевое время, получено %v", ts.Time)
	}
}

func TestTimestampUnmarshalInvalid(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("Ожидалась ошибка для нераспознаваемого времени")
	}
}

func TestDebtUnmarshal(t *testing.T) {
	raw := `{
		"id": "d-1",
		"apartment_id": "a-1",
		"apartment_number": "A-01",
		"amount": 150.0,
		"description": "March fee",
		"due_date": "2025-04-01",
		"debt_type": "monthly_fee",
		"is_paid": false,
		"payment_date": null
	}`

	var d Debt
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("Unmarshal долга: %v", err)
	}

	if d.ID != "d-1" {
		t.Errorf("ID = %q, ожидается d-1", d.ID)
	}
	if d.Amount != 150.0 {
		t.Errorf("Amount = %v, ожидается 150.0", d.Amount)
	}
	if d.DueDate.Format("2006-01-02") != "2025-04-01" {
		t.Errorf("DueDate = %v, ожидается 2025-04-01", d.DueDate)
	}
	if d.IsPaid {
		t.Error("IsPaid = true, ожидается false")
	}
	if d.PaymentDate != nil {
		t.Errorf("PaymentDate = %v, ожидается nil", d.PaymentDate)
	}
}
