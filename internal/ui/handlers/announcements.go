// announcements.go — список объявлений и создание объявления.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bigkaa/residence-ui/internal/domain/access"
	"github.com/bigkaa/residence-ui/internal/domain/model"
	"github.com/bigkaa/residence-ui/internal/ui/auth"
	"github.com/bigkaa/residence-ui/internal/ui/pages"
)

// HandleAnnouncements обрабатывает GET /announcements.
func (h *Handler) HandleAnnouncements(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewAnnouncements)
	if !ok {
		return
	}

	if err := h.state.EnsureLoaded(r.Context(), session.AccessToken, &session.User); err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
	}

	data := pages.AnnouncementsData{
		Base:          h.base(w, r, session, access.ViewAnnouncements),
		Announcements: h.state.State(session.User.Username).Announcements(),
	}
	h.render(w, r, pages.Announcements(data))
}

// HandleCreateAnnouncementForm обрабатывает GET /announcements/new.
func (h *Handler) HandleCreateAnnouncementForm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewCreateAnnouncement)
	if !ok {
		return
	}

	data := pages.CreateAnnouncementData{
		Base: h.base(w, r, session, access.ViewCreateAnnouncement),
	}
	h.render(w, r, pages.CreateAnnouncement(data))
}

// HandleCreateAnnouncement обрабатывает POST /announcements — создание объявления.
// При ошибке форма отображается повторно с сохранёнными значениями.
func (h *Handler) HandleCreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewCreateAnnouncement)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	form := pages.AnnouncementForm{
		Title:    r.PostFormValue("title"),
		Content:  r.PostFormValue("content"),
		IsUrgent: r.PostFormValue("is_urgent") == "true",
	}

	// Валидация обязательных полей
	if form.Title == "" || form.Content == "" {
		h.renderAnnouncementForm(w, r, session, form, "fillAllFields")
		return
	}

	req := model.AnnouncementCreate{
		Title:    form.Title,
		Content:  form.Content,
		IsUrgent: form.IsUrgent,
	}

	ann, err := h.api.CreateAnnouncement(r.Context(), session.AccessToken, req)
	if err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
		h.logger.Error("Ошибка создания объявления",
			slog.String("username", session.User.Username),
			slog.String("error", err.Error()),
		)
		h.renderAnnouncementForm(w, r, session, form, "error")
		return
	}

	h.logger.Info("Объявление создано",
		slog.String("announcement_id", ann.ID),
		slog.Bool("is_urgent", ann.IsUrgent),
	)

	if err := h.state.LoadAnnouncements(r.Context(), session.AccessToken, session.User.Username); err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
	}

	auth.SetFlash(w, auth.Flash{Key: "announcementCreated", Kind: auth.FlashSuccess})
	http.Redirect(w, r, "/announcements", http.StatusSeeOther)
}

// renderAnnouncementForm повторно отображает форму создания объявления с ошибкой.
func (h *Handler) renderAnnouncementForm(w http.ResponseWriter, r *http.Request, session *auth.SessionData, form pages.AnnouncementForm, errKey string) {
	data := pages.CreateAnnouncementData{
		Base:  h.base(w, r, session, access.ViewCreateAnnouncement),
		Form:  form,
		Error: errKey,
	}
	h.render(w, r, pages.CreateAnnouncement(data))
}
