package access

import "testing"

func TestCanAccess(t *testing.T) {
	tests := []struct {
		role string
		view View
		want bool
	}{
		// admin
		{RoleAdmin, ViewDashboard, true},
		{RoleAdmin, ViewApartments, true},
		{RoleAdmin, ViewDebts, true},
		{RoleAdmin, ViewAnnouncements, true},
		{RoleAdmin, ViewCreateDebt, true},
		{RoleAdmin, ViewCreateAnnouncement, true},
		{RoleAdmin, ViewProfile, false},
		// resident
		{RoleResident, ViewDashboard, true},
		{RoleResident, ViewDebts, true},
		{RoleResident, ViewAnnouncements, true},
		{RoleResident, ViewProfile, true},
		{RoleResident, ViewApartments, false},
		{RoleResident, ViewCreateDebt, false},
		{RoleResident, ViewCreateAnnouncement, false},
		// неизвестные роль и раздел
		{"superuser", ViewDashboard, false},
		{"", ViewDebts, false},
		{RoleAdmin, View("settings"), false},
	}

	for _, tt := range tests {
		if got := CanAccess(tt.role, tt.view); got != tt.want {
			t.Errorf("CanAccess(%q, %q) = %v, ожидается %v", tt.role, tt.view, got, tt.want)
		}
	}
}

func TestIsValidRole(t *testing.T) {
	if !IsValidRole(RoleAdmin) || !IsValidRole(RoleResident) {
		t.Error("admin и resident должны быть допустимыми ролями")
	}
	if IsValidRole("root") || IsValidRole("") {
		t.Error("Неизвестные роли не должны быть допустимыми")
	}
}
