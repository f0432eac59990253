// apartments.go — список квартир (только администратор).
package handlers

import (
	"net/http"

	"github.com/bigkaa/residence-ui/internal/domain/access"
	"github.com/bigkaa/residence-ui/internal/ui/pages"
)

// HandleApartments обрабатывает GET /apartments.
func (h *Handler) HandleApartments(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewApartments)
	if !ok {
		return
	}

	if err := h.state.EnsureLoaded(r.Context(), session.AccessToken, &session.User); err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
	}

	data := pages.ApartmentsData{
		Base:       h.base(w, r, session, access.ViewApartments),
		Apartments: h.state.State(session.User.Username).Apartments(),
	}
	h.render(w, r, pages.Apartments(data))
}
