// Пакет pages — серверный рендеринг страниц Residence UI.
// Каждая страница — компонент-конструктор, возвращающий Component
// с методом Render(ctx, w). Шаблоны встроены через go:embed и
// парсятся один раз при старте: layout + содержимое страницы.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/bigkaa/residence-ui/internal/domain/access"
	"github.com/bigkaa/residence-ui/internal/domain/model"
	"github.com/bigkaa/residence-ui/internal/service"
	"github.com/bigkaa/residence-ui/internal/ui/auth"
	"github.com/bigkaa/residence-ui/internal/ui/i18n"
)

//go:embed templates/*.html
var templateFS embed.FS

// mustParse парсит layout + шаблон страницы. Паника при ошибке —
// шаблоны встроены, ошибка парсинга означает дефект сборки.
func mustParse(page string) *template.Template {
	return template.Must(template.ParseFS(templateFS,
		"templates/layout.html",
		"templates/"+page,
	))
}

// Скомпилированные шаблоны страниц.
var (
	loginTmpl              = mustParse("login.html")
	dashboardTmpl          = mustParse("dashboard.html")
	apartmentsTmpl         = mustParse("apartments.html")
	debtsTmpl              = mustParse("debts.html")
	createDebtTmpl         = mustParse("create_debt.html")
	announcementsTmpl      = mustParse("announcements.html")
	createAnnouncementTmpl = mustParse("create_announcement.html")
	profileTmpl            = mustParse("profile.html")
)

// langSetter — внутренний интерфейс: Render прописывает язык из контекста
// в Base перед выполнением шаблона.
type langSetter interface {
	setLang(lang string)
}

// Component — готовая к рендерингу страница.
type Component struct {
	tmpl *template.Template
	data langSetter
}

// Render выполняет шаблон страницы, беря язык из контекста запроса.
func (c Component) Render(ctx context.Context, w io.Writer) error {
	c.data.setLang(i18n.LangFromContext(ctx))
	if err := c.tmpl.ExecuteTemplate(w, "layout.html", c.data); err != nil {
		return fmt.Errorf("pages: ошибка рендеринга: %w", err)
	}
	return nil
}

// NavItem — пункт навигации.
type NavItem struct {
	View  access.View
	Path  string
	Label string // ключ перевода
}

// навигационные маршруты в порядке отображения
var navItems = []NavItem{
	{access.ViewDashboard, "/", "dashboard"},
	{access.ViewApartments, "/apartments", "apartments"},
	{access.ViewDebts, "/debts", "debts"},
	{access.ViewAnnouncements, "/announcements", "announcements"},
	{access.ViewProfile, "/profile", "profile"},
}

// Base — общие данные всех страниц: язык, пользователь, активный
// пункт навигации и одноразовое уведомление.
type Base struct {
	Lang   string
	User   *model.User
	Active access.View
	Flash  *auth.Flash
}

func (b *Base) setLang(lang string) {
	b.Lang = lang
}

// T возвращает перевод по ключу для языка страницы.
func (b *Base) T(key string) string {
	bundle := i18n.GetBundle()
	if bundle == nil {
		return key
	}
	return bundle.Translate(b.Lang, key)
}

// Nav возвращает пункты навигации, доступные роли пользователя.
func (b *Base) Nav() []NavItem {
	if b.User == nil {
		return nil
	}
	var items []NavItem
	for _, item := range navItems {
		if access.CanAccess(b.User.Role, item.View) {
			items = append(items, item)
		}
	}
	return items
}

// FlashText возвращает локализованный текст уведомления.
func (b *Base) FlashText() string {
	if b.Flash == nil {
		return ""
	}
	bundle := i18n.GetBundle()
	if bundle == nil {
		return b.Flash.Key
	}
	if len(b.Flash.Args) == 0 {
		return bundle.Translate(b.Lang, b.Flash.Key)
	}
	args := make([]any, len(b.Flash.Args))
	for i, a := range b.Flash.Args {
		args[i] = a
	}
	return bundle.Translatef(b.Lang, b.Flash.Key, args...)
}

// --- Страницы ---

// LoginData — данные страницы входа.
type LoginData struct {
	Base
	// Username — введённое имя (сохраняется при неудачном входе).
	Username string
	// Error — ключ перевода сообщения об ошибке (пусто если нет).
	Error string
}

// Login — страница входа.
func Login(data LoginData) Component {
	return Component{tmpl: loginTmpl, data: &data}
}

// DashboardData — данные главной страницы.
type DashboardData struct {
	Base
	// Summary — агрегаты по неоплаченным долгам.
	Summary service.DebtSummary
	// ApartmentCount — количество квартир (только для администратора).
	ApartmentCount int
	// Announcements — последние объявления.
	Announcements []model.Announcement
}

// Dashboard — главная страница.
func Dashboard(data DashboardData) Component {
	return Component{tmpl: dashboardTmpl, data: &data}
}

// ApartmentsData — данные страницы списка квартир.
type ApartmentsData struct {
	Base
	Apartments []model.Apartment
}

// Apartments — страница списка квартир (только администратор).
func Apartments(data ApartmentsData) Component {
	return Component{tmpl: apartmentsTmpl, data: &data}
}

// DebtsData — данные страницы списка долгов.
type DebtsData struct {
	Base
	Debts []model.Debt
}

// Debts — страница списка долгов.
func Debts(data DebtsData) Component {
	return Component{tmpl: debtsTmpl, data: &data}
}

// DebtForm — значения формы создания долга (сохраняются при ошибке).
type DebtForm struct {
	ApartmentID string
	Amount      string
	Description string
	DueDate     string
	DebtType    string
}

// CreateDebtData — данные формы создания долга.
type CreateDebtData struct {
	Base
	Apartments []model.Apartment
	DebtTypes  []string
	Form       DebtForm
	// Error — ключ перевода сообщения об ошибке (пусто если нет).
	Error string
}

// CreateDebt — форма создания долга (только администратор).
func CreateDebt(data CreateDebtData) Component {
	if data.DebtTypes == nil {
		data.DebtTypes = model.DebtTypes
	}
	return Component{tmpl: createDebtTmpl, data: &data}
}

// AnnouncementsData — данные страницы объявлений.
type AnnouncementsData struct {
	Base
	Announcements []model.Announcement
}

// Announcements — страница списка объявлений.
func Announcements(data AnnouncementsData) Component {
	return Component{tmpl: announcementsTmpl, data: &data}
}

// AnnouncementForm — значения формы создания объявления.
type AnnouncementForm struct {
	Title    string
	Content  string
	IsUrgent bool
}

// CreateAnnouncementData — данные формы создания объявления.
type CreateAnnouncementData struct {
	Base
	Form AnnouncementForm
	// Error — ключ перевода сообщения об ошибке (пусто если нет).
	Error string
}

// CreateAnnouncement — форма создания объявления (только администратор).
func CreateAnnouncement(data CreateAnnouncementData) Component {
	return Component{tmpl: createAnnouncementTmpl, data: &data}
}

// ProfileData — данные страницы профиля.
type ProfileData struct {
	Base
}

// Profile — страница профиля (только резидент).
func Profile(data ProfileData) Component {
	return Component{tmpl: profileTmpl, data: &data}
}
