// dashboard.go — главная страница.
// Для администратора — карточки статистики и быстрые действия,
// для резидента — сводка по собственным долгам. Обе версии показывают
// последние объявления.
package handlers

import (
	"net/http"

	"github.com/bigkaa/residence-ui/internal/domain/access"
	"github.com/bigkaa/residence-ui/internal/ui/pages"
)

// Количество объявлений на главной странице.
const dashboardAnnouncements = 5

// HandleDashboard обрабатывает GET / — отображает главную страницу.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewDashboard)
	if !ok {
		return
	}

	// Bootstrap существующей сессии: дозагружаем списки при необходимости
	if err := h.state.EnsureLoaded(r.Context(), session.AccessToken, &session.User); err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
	}

	st := h.state.State(session.User.Username)

	announcements := st.Announcements()
	if len(announcements) > dashboardAnnouncements {
		announcements = announcements[:dashboardAnnouncements]
	}

	data := pages.DashboardData{
		Base:          h.base(w, r, session, access.ViewDashboard),
		Summary:       st.DebtSummary(),
		Announcements: announcements,
	}
	if session.User.Role == access.RoleAdmin {
		data.ApartmentCount = len(st.Apartments())
	}

	h.render(w, r, pages.Dashboard(data))
}
