// reminders.go — рассылка WhatsApp-напоминаний должникам.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bigkaa/residence-ui/internal/domain/access"
	"github.com/bigkaa/residence-ui/internal/ui/auth"
)

// HandleSendReminders обрабатывает POST /reminders.
// Remote API рассылает напоминания всем должникам и возвращает
// количество отправленных сообщений, которое показывается в уведомлении.
func (h *Handler) HandleSendReminders(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewDashboard)
	if !ok {
		return
	}
	// Рассылка — только администратор
	if session.User.Role != access.RoleAdmin {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	count, err := h.api.SendDebtReminders(r.Context(), session.AccessToken)
	if err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
		h.logger.Error("Ошибка рассылки напоминаний",
			slog.String("error", err.Error()),
		)
		auth.SetFlash(w, auth.Flash{Key: "error", Kind: auth.FlashError})
		redirectBack(w, r, "/")
		return
	}

	h.logger.Info("Напоминания разосланы", slog.Int("sent_count", count))

	auth.SetFlash(w, auth.Flash{
		Key:  "remindersSent",
		Kind: auth.FlashSuccess,
		Args: []string{strconv.Itoa(count)},
	})
	redirectBack(w, r, "/")
}
