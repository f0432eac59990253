// debts.go — список долгов, создание долга и отметка об оплате.
// Мутации выполняются через remote API; после успеха список долгов
// перечитывается целиком и пользователь перенаправляется с
// одноразовым уведомлением.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime/types"

	"github.com/bigkaa/residence-ui/internal/domain/access"
	"github.com/bigkaa/residence-ui/internal/domain/model"
	"github.com/bigkaa/residence-ui/internal/ui/auth"
	"github.com/bigkaa/residence-ui/internal/ui/pages"
)

// HandleDebts обрабатывает GET /debts.
func (h *Handler) HandleDebts(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewDebts)
	if !ok {
		return
	}

	if err := h.state.EnsureLoaded(r.Context(), session.AccessToken, &session.User); err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
	}

	data := pages.DebtsData{
		Base:  h.base(w, r, session, access.ViewDebts),
		Debts: h.state.State(session.User.Username).Debts(),
	}
	h.render(w, r, pages.Debts(data))
}

// HandleCreateDebtForm обрабатывает GET /debts/new — форма создания долга.
func (h *Handler) HandleCreateDebtForm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewCreateDebt)
	if !ok {
		return
	}

	// Список квартир нужен для выбора должника
	st := h.state.State(session.User.Username)
	if len(st.Apartments()) == 0 {
		if err := h.state.LoadApartments(r.Context(), session.AccessToken, session.User.Username); err != nil {
			if h.handleGatewayError(w, r, session, err) {
				return
			}
		}
	}

	data := pages.CreateDebtData{
		Base:       h.base(w, r, session, access.ViewCreateDebt),
		Apartments: st.Apartments(),
	}
	h.render(w, r, pages.CreateDebt(data))
}

// HandleCreateDebt обрабатывает POST /debts — создание долга.
// При ошибке валидации или remote API форма отображается повторно
// с сохранёнными значениями.
func (h *Handler) HandleCreateDebt(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewCreateDebt)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Некорректная форма", http.StatusBadRequest)
		return
	}

	form := pages.DebtForm{
		ApartmentID: r.PostFormValue("apartment_id"),
		Amount:      r.PostFormValue("amount"),
		Description: r.PostFormValue("description"),
		DueDate:     r.PostFormValue("due_date"),
		DebtType:    r.PostFormValue("debt_type"),
	}
	if form.DebtType == "" {
		form.DebtType = model.DebtTypeMonthlyFee
	}

	// Валидация обязательных полей
	if form.ApartmentID == "" || form.Amount == "" || form.Description == "" || form.DueDate == "" {
		h.renderDebtForm(w, r, session, form, "fillAllFields")
		return
	}

	amount, err := strconv.ParseFloat(form.Amount, 64)
	if err != nil || amount <= 0 {
		h.renderDebtForm(w, r, session, form, "fillAllFields")
		return
	}

	dueDate, err := time.Parse("2006-01-02", form.DueDate)
	if err != nil {
		h.renderDebtForm(w, r, session, form, "fillAllFields")
		return
	}

	req := model.DebtCreate{
		ApartmentID: form.ApartmentID,
		Amount:      amount,
		Description: form.Description,
		DueDate:     types.Date{Time: dueDate},
		DebtType:    form.DebtType,
	}

	debt, err := h.api.CreateDebt(r.Context(), session.AccessToken, req)
	if err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
		h.logger.Error("Ошибка создания долга",
			slog.String("username", session.User.Username),
			slog.String("error", err.Error()),
		)
		h.renderDebtForm(w, r, session, form, "error")
		return
	}

	h.logger.Info("Долг создан",
		slog.String("debt_id", debt.ID),
		slog.String("apartment_id", debt.ApartmentID),
	)

	// Перечитываем список. 401 на перечитывании — та же недействительная
	// сессия, что и на любом другом вызове; прочие ошибки не мешают
	// редиректу — список дозагрузится при следующем запросе
	if err := h.state.LoadDebts(r.Context(), session.AccessToken, session.User.Username); err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
	}

	auth.SetFlash(w, auth.Flash{Key: "debtCreated", Kind: auth.FlashSuccess})
	http.Redirect(w, r, "/debts", http.StatusSeeOther)
}

// renderDebtForm повторно отображает форму создания долга с ошибкой.
func (h *Handler) renderDebtForm(w http.ResponseWriter, r *http.Request, session *auth.SessionData, form pages.DebtForm, errKey string) {
	data := pages.CreateDebtData{
		Base:       h.base(w, r, session, access.ViewCreateDebt),
		Apartments: h.state.State(session.User.Username).Apartments(),
		Form:       form,
		Error:      errKey,
	}
	h.render(w, r, pages.CreateDebt(data))
}

// HandlePayDebt обрабатывает POST /debts/{debtID}/pay — отметка об оплате.
func (h *Handler) HandlePayDebt(w http.ResponseWriter, r *http.Request) {
	session, ok := h.requireView(w, r, access.ViewDebts)
	if !ok {
		return
	}
	// Отметка об оплате — только администратор
	if session.User.Role != access.RoleAdmin {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	debtID := chi.URLParam(r, "debtID")
	if debtID == "" {
		http.Error(w, "Отсутствует id долга", http.StatusBadRequest)
		return
	}

	if err := h.api.PayDebt(r.Context(), session.AccessToken, debtID); err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
		h.logger.Error("Ошибка отметки об оплате",
			slog.String("debt_id", debtID),
			slog.String("error", err.Error()),
		)
		auth.SetFlash(w, auth.Flash{Key: "error", Kind: auth.FlashError})
		http.Redirect(w, r, "/debts", http.StatusSeeOther)
		return
	}

	h.logger.Info("Долг отмечен как оплаченный", slog.String("debt_id", debtID))

	if err := h.state.LoadDebts(r.Context(), session.AccessToken, session.User.Username); err != nil {
		if h.handleGatewayError(w, r, session, err) {
			return
		}
	}

	auth.SetFlash(w, auth.Flash{Key: "debtPaid", Kind: auth.FlashSuccess})
	http.Redirect(w, r, "/debts", http.StatusSeeOther)
}
