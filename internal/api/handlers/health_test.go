package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeChecker — заглушка ReadinessChecker.
type fakeChecker struct {
	status  string
	message string
}

func (f *fakeChecker) CheckReady() (string, string) {
	return f.status, f.message
}

// TestHealthLive проверяет liveness probe.
func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(nil)

	w := httptest.NewRecorder()
	h.HealthLive(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Код ответа = %d, ожидается 200", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Ошибка парсинга ответа: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["service"] != "residence-ui" {
		t.Errorf("service = %v, want residence-ui", resp["service"])
	}
}

// TestHealthReady проверяет readiness probe при доступном и недоступном remote API.
func TestHealthReady(t *testing.T) {
	tests := []struct {
		name       string
		checker    ReadinessChecker
		wantStatus string
		wantCode   int
	}{
		{"API доступен", &fakeChecker{status: "ok"}, "ok", http.StatusOK},
		{"API недоступен", &fakeChecker{status: "fail", message: "connection refused"}, "fail", http.StatusServiceUnavailable},
		{"checker не инициализирован", nil, "fail", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.checker)

			w := httptest.NewRecorder()
			h.HealthReady(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

			if w.Code != tt.wantCode {
				t.Errorf("Код ответа = %d, want %d", w.Code, tt.wantCode)
			}

			var resp map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Ошибка парсинга ответа: %v", err)
			}
			if resp["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %v", resp["status"], tt.wantStatus)
			}
		})
	}
}
