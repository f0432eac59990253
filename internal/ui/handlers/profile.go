// profile.go — страница профиля резидента.
// Запись пользователя неизменяема в течение сессии и берётся из
// session cookie, запрос к remote API не выполняется.
package handlers

import (
	"net/http"

	"github.com/bigkaa/residence-ui/internal/domain/access"
	"github.com/bigkaa/residence-ui/internal/ui/pages"
)

// HandleProfile обрабатывает GET /profile.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewProfile)
	if !ok {
		return
	}

	data := pages.ProfileData{
		Base: h.base(w, r, session, access.ViewProfile),
	}
	h.render(w, r, pages.Profile(data))
}
