// Пакет access — роли пользователей и права доступа к разделам UI.
// Правило доступа определено в одном месте (CanAccess) и используется
// и при отрисовке навигации, и при входе в раздел: скрытая ссылка
// не считается защитой.
package access

// Роли пользователей.
const (
	RoleAdmin    = "admin"
	RoleResident = "resident"
)

// View — именованный раздел UI.
type View string

// Закрытый набор разделов.
const (
	ViewDashboard          View = "dashboard"
	ViewApartments         View = "apartments"
	ViewDebts              View = "debts"
	ViewAnnouncements      View = "announcements"
	ViewProfile            View = "profile"
	ViewCreateDebt         View = "create-debt"
	ViewCreateAnnouncement View = "create-announcement"
)

// DefaultView — раздел по умолчанию после входа и при отказе в доступе.
const DefaultView = ViewDashboard

// viewRoles — какие роли имеют доступ к какому разделу.
var viewRoles = map[View]map[string]bool{
	ViewDashboard:          {RoleAdmin: true, RoleResident: true},
	ViewApartments:         {RoleAdmin: true},
	ViewDebts:              {RoleAdmin: true, RoleResident: true},
	ViewAnnouncements:      {RoleAdmin: true, RoleResident: true},
	ViewProfile:            {RoleResident: true},
	ViewCreateDebt:         {RoleAdmin: true},
	ViewCreateAnnouncement: {RoleAdmin: true},
}

// CanAccess сообщает, доступен ли раздел view пользователю с ролью role.
// Неизвестная роль или неизвестный раздел — доступ запрещён.
func CanAccess(role string, view View) bool {
	roles, ok := viewRoles[view]
	if !ok {
		return false
	}
	return roles[role]
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleResident
}
