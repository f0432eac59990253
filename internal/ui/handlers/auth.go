// auth.go — вход и выход пользователя.
// Вход выполняется через remote API: логин/пароль обмениваются на
// access token, который вместе с записью пользователя сохраняется
// в зашифрованном session cookie.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bigkaa/residence-ui/internal/apiclient"
	"github.com/bigkaa/residence-ui/internal/ui/auth"
	"github.com/bigkaa/residence-ui/internal/ui/i18n"
	"github.com/bigkaa/residence-ui/internal/ui/pages"
)

// HandleLoginPage — GET /login
// Отображает форму входа. Уже вошедший пользователь перенаправляется
// на главную.
func (h *Handler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if session, err := h.sessions.GetSessionFromRequest(r); err == nil && session != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	h.render(w, r, pages.Login(pages.LoginData{}))
}

// HandleLogin — POST /login
// Обменивает логин/пароль на токен через remote API.
// При неудаче форма отображается повторно с сохранённым именем
// пользователя и локализованным сообщением об ошибке.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	resp, err := h.api.Login(r.Context(), apiclient.Credentials{
		Username: username,
		Password: password,
		Language: i18n.LangFromContext(r.Context()),
	})
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			h.logger.Info("Неудачная попытка входа",
				slog.String("username", username),
			)
		} else {
			h.logger.Error("Ошибка входа через remote API",
				slog.String("username", username),
				slog.String("error", err.Error()),
			)
		}
		// Любая ошибка входа показывается одинаково, пароль не сохраняется
		h.render(w, r, pages.Login(pages.LoginData{
			Username: username,
			Error:    "loginFailed",
		}))
		return
	}

	sessionData := &auth.SessionData{
		AccessToken: resp.AccessToken,
		User:        resp.User,
	}
	if err := h.sessions.SetSessionCookie(w, sessionData); err != nil {
		h.logger.Error("Ошибка установки session cookie",
			slog.String("error", err.Error()),
		)
		http.Error(w, "Ошибка создания сессии", http.StatusInternalServerError)
		return
	}

	// Первоначальная загрузка данных. Ошибки загрузчиков не мешают входу:
	// недогруженные списки дозагрузятся при следующем запросе.
	if err := h.state.InitialLoad(r.Context(), resp.AccessToken, &resp.User); err != nil {
		h.logger.Warn("Первоначальная загрузка получила 401 сразу после входа",
			slog.String("username", resp.User.Username),
			slog.String("error", err.Error()),
		)
	}

	h.logger.Info("Пользователь вошёл",
		slog.String("username", resp.User.Username),
		slog.String("role", resp.User.Role),
	)

	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleLogout — POST /logout
// Очищает session cookie, удаляет состояние пользователя и
// перенаправляет на страницу входа.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if session, err := h.sessions.GetSessionFromRequest(r); err == nil && session != nil {
		h.state.Drop(session.User.Username)
		h.logger.Info("Пользователь вышел",
			slog.String("username", session.User.Username),
		)
	}

	h.sessions.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}
