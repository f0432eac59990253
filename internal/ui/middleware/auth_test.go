package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bigkaa/residence-ui/internal/domain/model"
	"github.com/bigkaa/residence-ui/internal/ui/auth"
)

func newTestAuth(t *testing.T) (*UIAuth, *auth.SessionManager) {
	t.Helper()
	sm, err := auth.NewSessionManager("test-key", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUIAuth(sm, logger), sm
}

// TestUIAuth_NoSession проверяет redirect на /login при отсутствии cookie.
func TestUIAuth_NoSession(t *testing.T) {
	ua, _ := newTestAuth(t)

	called := false
	handler := ua.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/debts", nil))

	if called {
		t.Error("Обработчик не должен вызываться без сессии")
	}
	if w.Code != http.StatusFound {
		t.Errorf("Код ответа = %d, ожидается 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, ожидается /login", loc)
	}
}

// TestUIAuth_CorruptCookie проверяет очистку повреждённого cookie и redirect.
func TestUIAuth_CorruptCookie(t *testing.T) {
	ua, _ := newTestAuth(t)

	handler := ua.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Обработчик не должен вызываться с повреждённой сессией")
	}))

	req := httptest.NewRequest(http.MethodGet, "/debts", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "garbage"})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Код ответа = %d, ожидается 302", w.Code)
	}

	// Повреждённый cookie должен быть очищен
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.MaxAge == -1 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("Повреждённый session cookie должен быть удалён")
	}
}

// TestUIAuth_ValidSession проверяет проброс сессии в контекст.
func TestUIAuth_ValidSession(t *testing.T) {
	ua, sm := newTestAuth(t)

	data := &auth.SessionData{
		AccessToken: "token-123",
		User:        model.User{Username: "admin", Role: "admin"},
	}

	// Получаем валидный cookie
	setRec := httptest.NewRecorder()
	if err := sm.SetSessionCookie(setRec, data); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	var got *auth.SessionData
	handler := ua.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/debts", nil)
	req.AddCookie(setRec.Result().Cookies()[0])
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Код ответа = %d, ожидается 200", w.Code)
	}
	if got == nil {
		t.Fatal("Сессия не попала в контекст")
	}
	if got.AccessToken != "token-123" || got.User.Username != "admin" {
		t.Errorf("Сессия из контекста = %+v", got)
	}
}

// TestUIAuth_UnknownRole проверяет, что сессия с неизвестной ролью
// очищается и пользователь отправляется на вход заново.
func TestUIAuth_UnknownRole(t *testing.T) {
	ua, sm := newTestAuth(t)

	data := &auth.SessionData{
		AccessToken: "token-123",
		User:        model.User{Username: "intruder", Role: "superuser"},
	}

	setRec := httptest.NewRecorder()
	if err := sm.SetSessionCookie(setRec, data); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	handler := ua.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Обработчик не должен вызываться с неизвестной ролью")
	}))

	req := httptest.NewRequest(http.MethodGet, "/debts", nil)
	req.AddCookie(setRec.Result().Cookies()[0])
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Errorf("код %d, Location %q; ожидается 302 → /login", w.Code, w.Header().Get("Location"))
	}

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName && c.MaxAge == -1 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("Session cookie с неизвестной ролью должен быть удалён")
	}
}

// TestSessionFromContext_Missing проверяет nil при отсутствии сессии в контексте.
func TestSessionFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := SessionFromContext(req.Context()); got != nil {
		t.Errorf("Ожидалось nil, получено: %+v", got)
	}
}
