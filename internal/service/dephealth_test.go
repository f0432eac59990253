package service

import (
	"strings"
	"testing"
)

func TestReadyFromHealth(t *testing.T) {
	tests := []struct {
		name       string
		health     map[string]bool
		wantStatus string
		wantInMsg  string
	}{
		{"все зависимости ok", map[string]bool{"residence-api": true}, "ok", ""},
		{"зависимость упала", map[string]bool{"residence-api": false}, "fail", "residence-api"},
		{"нет результатов", nil, "fail", "нет результатов"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := readyFromHealth(tt.health)
			if status != tt.wantStatus {
				t.Errorf("status = %q, ожидается %q", status, tt.wantStatus)
			}
			if tt.wantInMsg != "" && !strings.Contains(msg, tt.wantInMsg) {
				t.Errorf("message = %q, должно содержать %q", msg, tt.wantInMsg)
			}
		})
	}
}

func TestReadyFromHealth_SeveralFailed(t *testing.T) {
	status, msg := readyFromHealth(map[string]bool{
		"residence-api": false,
		"auxiliary":     false,
		"healthy":       true,
	})
	if status != "fail" {
		t.Fatalf("status = %q, ожидается fail", status)
	}
	// Имена упавших зависимостей перечислены детерминированно
	if !strings.Contains(msg, "auxiliary, residence-api") {
		t.Errorf("message = %q, ожидается отсортированный список упавших", msg)
	}
}
