package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/bigkaa/residence-ui/internal/apiclient"
	"github.com/bigkaa/residence-ui/internal/domain/model"
)

// fakeGateway — управляемая заглушка remote API для тестов загрузчиков.
type fakeGateway struct {
	apartments    []model.Apartment
	debts         []model.Debt
	announcements []model.Announcement

	apartmentsErr    error
	debtsErr         error
	announcementsErr error

	apartmentCalls    atomic.Int32
	debtCalls         atomic.Int32
	announcementCalls atomic.Int32
}

func (f *fakeGateway) ListApartments(ctx context.Context, token string) ([]model.Apartment, error) {
	f.apartmentCalls.Add(1)
	if f.apartmentsErr != nil {
		return nil, f.apartmentsErr
	}
	return f.apartments, nil
}

func (f *fakeGateway) ListDebts(ctx context.Context, token string) ([]model.Debt, error) {
	f.debtCalls.Add(1)
	if f.debtsErr != nil {
		return nil, f.debtsErr
	}
	return f.debts, nil
}

func (f *fakeGateway) ListAnnouncements(ctx context.Context, token string) ([]model.Announcement, error) {
	f.announcementCalls.Add(1)
	if f.announcementsErr != nil {
		return nil, f.announcementsErr
	}
	return f.announcements, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func adminUser() *model.User {
	return &model.User{Username: "admin", Role: "admin"}
}

func residentUser() *model.User {
	return &model.User{Username: "apartment01", Role: "resident", ApartmentNumber: "A-01"}
}

func TestInitialLoad_AdminLoadsAllCollections(t *testing.T) {
	gw := &fakeGateway{
		apartments:    []model.Apartment{{ID: "a-1", ApartmentNumber: "A-01"}},
		debts:         []model.Debt{{ID: "d-1", Amount: 150}},
		announcements: []model.Announcement{{ID: "n-1", Title: "Duyuru"}},
	}
	svc := NewStateService(gw, testLogger())

	if err := svc.InitialLoad(context.Background(), "token", adminUser()); err != nil {
		t.Fatalf("InitialLoad: %v", err)
	}

	st := svc.State("admin")
	if len(st.Apartments()) != 1 {
		t.Errorf("Apartments = %d, ожидается 1", len(st.Apartments()))
	}
	if len(st.Debts()) != 1 {
		t.Errorf("Debts = %d, ожидается 1", len(st.Debts()))
	}
	if len(st.Announcements()) != 1 {
		t.Errorf("Announcements = %d, ожидается 1", len(st.Announcements()))
	}
}

func TestInitialLoad_ResidentSkipsApartments(t *testing.T) {
	gw := &fakeGateway{
		debts:         []model.Debt{{ID: "d-1"}},
		announcements: []model.Announcement{{ID: "n-1"}},
	}
	svc := NewStateService(gw, testLogger())

	if err := svc.InitialLoad(context.Background(), "token", residentUser()); err != nil {
		t.Fatalf("InitialLoad: %v", err)
	}

	if got := gw.apartmentCalls.Load(); got != 0 {
		t.Errorf("Загрузчик квартир вызван %d раз(а) для резидента, ожидается 0", got)
	}
	if gw.debtCalls.Load() != 1 || gw.announcementCalls.Load() != 1 {
		t.Error("Долги и объявления должны быть загружены по одному разу")
	}
}

func TestInitialLoad_PartialFailureDoesNotCancelOthers(t *testing.T) {
	// Два загрузчика падают — третий всё равно должен завершиться.
	gw := &fakeGateway{
		apartments:       []model.Apartment{{ID: "a-1"}},
		debtsErr:         fmt.Errorf("debts: %w", errServer()),
		announcementsErr: fmt.Errorf("announcements: %w", errServer()),
	}
	svc := NewStateService(gw, testLogger())

	if err := svc.InitialLoad(context.Background(), "token", adminUser()); err != nil {
		t.Fatalf("InitialLoad не должен падать из-за частичных ошибок: %v", err)
	}

	st := svc.State("admin")
	if len(st.Apartments()) != 1 {
		t.Errorf("Квартиры должны загрузиться несмотря на ошибки остальных: %d", len(st.Apartments()))
	}
	if gw.apartmentCalls.Load() != 1 {
		t.Errorf("Загрузчик квартир вызван %d раз(а), ожидается 1", gw.apartmentCalls.Load())
	}
}

func TestInitialLoad_UnauthorizedPropagates(t *testing.T) {
	gw := &fakeGateway{
		debtsErr: fmt.Errorf("GET /api/debts: %w", apiclient.ErrUnauthorized),
	}
	svc := NewStateService(gw, testLogger())

	err := svc.InitialLoad(context.Background(), "token", residentUser())
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		t.Errorf("Ожидался ErrUnauthorized, получено: %v", err)
	}
}

func TestLoadDebts_ReplacesWholesale(t *testing.T) {
	gw := &fakeGateway{debts: []model.Debt{{ID: "d-1"}, {ID: "d-2"}}}
	svc := NewStateService(gw, testLogger())

	if err := svc.LoadDebts(context.Background(), "token", "admin"); err != nil {
		t.Fatalf("LoadDebts: %v", err)
	}

	gw.debts = []model.Debt{{ID: "d-3"}}
	if err := svc.LoadDebts(context.Background(), "token", "admin"); err != nil {
		t.Fatalf("LoadDebts (повторно): %v", err)
	}

	debts := svc.State("admin").Debts()
	if len(debts) != 1 || debts[0].ID != "d-3" {
		t.Errorf("Debts = %+v, список должен быть заменён целиком", debts)
	}
}

func TestLoadDebts_FailureKeepsPriorList(t *testing.T) {
	gw := &fakeGateway{debts: []model.Debt{{ID: "d-1"}}}
	svc := NewStateService(gw, testLogger())

	if err := svc.LoadDebts(context.Background(), "token", "admin"); err != nil {
		t.Fatalf("LoadDebts: %v", err)
	}

	gw.debtsErr = errServer()
	if err := svc.LoadDebts(context.Background(), "token", "admin"); err == nil {
		t.Fatal("Ожидалась ошибка загрузчика")
	}

	debts := svc.State("admin").Debts()
	if len(debts) != 1 || debts[0].ID != "d-1" {
		t.Errorf("Debts = %+v, при ошибке прежний список должен сохраниться", debts)
	}
}

func TestEnsureLoaded_RetriesAfterPartialFailure(t *testing.T) {
	gw := &fakeGateway{
		debtsErr:      errServer(),
		announcements: []model.Announcement{{ID: "n-1"}},
	}
	svc := NewStateService(gw, testLogger())
	user := residentUser()

	if err := svc.EnsureLoaded(context.Background(), "token", user); err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}

	// Ошибка устранена — повторный bootstrap должен дозагрузить долги.
	gw.debtsErr = nil
	gw.debts = []model.Debt{{ID: "d-1"}}
	if err := svc.EnsureLoaded(context.Background(), "token", user); err != nil {
		t.Fatalf("EnsureLoaded (повторно): %v", err)
	}

	if len(svc.State(user.Username).Debts()) != 1 {
		t.Error("Долги должны дозагрузиться при повторном bootstrap")
	}

	// Полностью загруженное состояние больше не дёргает API.
	calls := gw.debtCalls.Load()
	if err := svc.EnsureLoaded(context.Background(), "token", user); err != nil {
		t.Fatalf("EnsureLoaded (третий раз): %v", err)
	}
	if gw.debtCalls.Load() != calls {
		t.Error("Загруженное состояние не должно вызывать загрузчики повторно")
	}
}

func TestDrop(t *testing.T) {
	gw := &fakeGateway{debts: []model.Debt{{ID: "d-1"}}}
	svc := NewStateService(gw, testLogger())

	if err := svc.LoadDebts(context.Background(), "token", "admin"); err != nil {
		t.Fatalf("LoadDebts: %v", err)
	}
	svc.Drop("admin")

	if len(svc.State("admin").Debts()) != 0 {
		t.Error("После Drop состояние должно быть пустым")
	}
}

func TestDebtSummary(t *testing.T) {
	gw := &fakeGateway{debts: []model.Debt{
		{ID: "d-1", Amount: 150, IsPaid: false},
		{ID: "d-2", Amount: 75.5, IsPaid: false},
		{ID: "d-3", Amount: 300, IsPaid: true},
	}}
	svc := NewStateService(gw, testLogger())

	if err := svc.LoadDebts(context.Background(), "token", "admin"); err != nil {
		t.Fatalf("LoadDebts: %v", err)
	}

	summary := svc.State("admin").DebtSummary()
	if summary.UnpaidCount != 2 {
		t.Errorf("UnpaidCount = %d, ожидается 2", summary.UnpaidCount)
	}
	if summary.UnpaidTotal != 225.5 {
		t.Errorf("UnpaidTotal = %v, ожидается 225.5", summary.UnpaidTotal)
	}
}

// errServer — произвольная серверная ошибка (не 401).
func errServer() error {
	return &apiclient.StatusError{StatusCode: 500, Body: "internal error"}
}
