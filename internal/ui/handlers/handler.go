// Пакет handlers — HTTP-обработчики Residence UI.
// handler.go — общий Handler и вспомогательные функции: защита страниц
// по ролям, принудительный logout при 401 от remote API.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bigkaa/residence-ui/internal/apiclient"
	"github.com/bigkaa/residence-ui/internal/domain/access"
	"github.com/bigkaa/residence-ui/internal/domain/model"
	"github.com/bigkaa/residence-ui/internal/service"
	"github.com/bigkaa/residence-ui/internal/ui/auth"
	uimiddleware "github.com/bigkaa/residence-ui/internal/ui/middleware"
	"github.com/bigkaa/residence-ui/internal/ui/pages"
)

// API — операции remote API, нужные обработчикам.
// Реализуется apiclient.Client; в тестах — заглушкой.
type API interface {
	Login(ctx context.Context, creds apiclient.Credentials) (*apiclient.LoginResponse, error)
	CreateDebt(ctx context.Context, token string, req model.DebtCreate) (*model.Debt, error)
	PayDebt(ctx context.Context, token, debtID string) error
	CreateAnnouncement(ctx context.Context, token string, req model.AnnouncementCreate) (*model.Announcement, error)
	SendDebtReminders(ctx context.Context, token string) (int, error)
}

// Handler — HTTP-обработчики страниц и мутаций Residence UI.
type Handler struct {
	api      API
	state    *service.StateService
	sessions *auth.SessionManager
	logger   *slog.Logger
}

// New создаёт Handler.
func New(api API, state *service.StateService, sessions *auth.SessionManager, logger *slog.Logger) *Handler {
	return &Handler{
		api:      api,
		state:    state,
		sessions: sessions,
		logger:   logger.With(slog.String("component", "ui_handlers")),
	}
}

// requireView извлекает сессию и проверяет доступ роли к странице.
// Без сессии — redirect на /login; без доступа — redirect на главную.
// Возвращает (nil, false), если запрос уже обработан редиректом.
func (h *Handler) requireView(w http.ResponseWriter, r *http.Request, view access.View) (*auth.SessionData, bool) {
	session := uimiddleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return nil, false
	}

	if !access.CanAccess(session.User.Role, view) {
		h.logger.Warn("Доступ к странице запрещён",
			slog.String("username", session.User.Username),
			slog.String("role", session.User.Role),
			slog.String("view", string(view)),
		)
		http.Redirect(w, r, "/", http.StatusFound)
		return nil, false
	}

	return session, true
}

// handleGatewayError обрабатывает ошибку remote API.
// 401 означает истёкшую или отозванную сессию: cookie очищается,
// состояние пользователя удаляется, запрос перенаправляется на /login.
// Возвращает true, если запрос обработан (вызывающий должен выйти).
func (h *Handler) handleGatewayError(w http.ResponseWriter, r *http.Request, session *auth.SessionData, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, apiclient.ErrUnauthorized) {
		h.logger.Info("Сессия недействительна, принудительный logout",
			slog.String("username", session.User.Username),
		)
		h.forceLogout(w, r, session.User.Username)
		return true
	}

	return false
}

// forceLogout сбрасывает сессию: очищает cookie, удаляет состояние
// пользователя и перенаправляет на страницу входа.
func (h *Handler) forceLogout(w http.ResponseWriter, r *http.Request, username string) {
	h.sessions.ClearSessionCookie(w)
	h.state.Drop(username)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// base собирает общие данные страницы и забирает одноразовое уведомление.
func (h *Handler) base(w http.ResponseWriter, r *http.Request, session *auth.SessionData, active access.View) pages.Base {
	return pages.Base{
		User:   &session.User,
		Active: active,
		Flash:  auth.PopFlash(w, r),
	}
}

// render выполняет компонент страницы, логируя ошибку рендеринга.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, c pages.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("Ошибка рендеринга страницы",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// redirectBack перенаправляет на предыдущую страницу (Referer) или fallback.
func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	referer := r.Header.Get("Referer")
	if referer == "" {
		referer = fallback
	}
	http.Redirect(w, r, referer, http.StatusSeeOther)
}
