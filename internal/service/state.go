// Пакет service — прикладной слой Residence UI.
// state.go — состояние приложения для каждого вошедшего пользователя:
// списки квартир, долгов и объявлений, загружаемые из remote API.
// Списки заменяются целиком: после мутации клиент перечитывает коллекцию
// с сервера вместо инкрементальных или оптимистичных обновлений.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/bigkaa/residence-ui/internal/apiclient"
	"github.com/bigkaa/residence-ui/internal/domain/access"
	"github.com/bigkaa/residence-ui/internal/domain/model"
)

// Gateway — операции remote API, нужные загрузчикам.
type Gateway interface {
	ListApartments(ctx context.Context, token string) ([]model.Apartment, error)
	ListDebts(ctx context.Context, token string) ([]model.Debt, error)
	ListAnnouncements(ctx context.Context, token string) ([]model.Announcement, error)
}

// DebtSummary — агрегаты по долгам для карточек Dashboard.
type DebtSummary struct {
	// UnpaidCount — количество неоплаченных долгов
	UnpaidCount int
	// UnpaidTotal — суммарная задолженность
	UnpaidTotal float64
}

// AppState — состояние одного пользователя.
// Списки защищены мьютексом: запросы одного пользователя могут
// обрабатываться параллельно.
type AppState struct {
	mu            sync.RWMutex
	loaded        bool
	apartments    []model.Apartment
	debts         []model.Debt
	announcements []model.Announcement
}

// Apartments возвращает копию списка квартир.
func (st *AppState) Apartments() []model.Apartment {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]model.Apartment(nil), st.apartments...)
}

// Debts возвращает копию списка долгов.
func (st *AppState) Debts() []model.Debt {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]model.Debt(nil), st.debts...)
}

// Announcements возвращает копию списка объявлений.
// Порядок — как вернул сервер, клиент не пересортировывает.
func (st *AppState) Announcements() []model.Announcement {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]model.Announcement(nil), st.announcements...)
}

// DebtSummary считает агрегаты по неоплаченным долгам.
func (st *AppState) DebtSummary() DebtSummary {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var summary DebtSummary
	for _, d := range st.debts {
		if !d.IsPaid {
			summary.UnpaidCount++
			summary.UnpaidTotal += d.Amount
		}
	}
	return summary
}

// StateService — владелец состояний пользователей и загрузчиков.
type StateService struct {
	gateway Gateway
	logger  *slog.Logger

	mu     sync.Mutex
	states map[string]*AppState
}

// NewStateService создаёт сервис состояния.
func NewStateService(gateway Gateway, logger *slog.Logger) *StateService {
	return &StateService{
		gateway: gateway,
		logger:  logger.With(slog.String("component", "state")),
		states:  make(map[string]*AppState),
	}
}

// State возвращает состояние пользователя, создавая пустое при первом обращении.
func (s *StateService) State(username string) *AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[username]
	if !ok {
		st = &AppState{}
		s.states[username] = st
	}
	return st
}

// Drop удаляет состояние пользователя (logout, недействительная сессия).
func (s *StateService) Drop(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, username)
}

// EnsureLoaded выполняет первоначальную загрузку, если она ещё не удалась
// полностью. Вызывается при bootstrap существующей сессии: неудавшаяся
// часть загрузки повторится при следующем запросе.
// Возвращает ошибку только если какой-то загрузчик получил 401.
func (s *StateService) EnsureLoaded(ctx context.Context, token string, user *model.User) error {
	st := s.State(user.Username)

	st.mu.RLock()
	loaded := st.loaded
	st.mu.RUnlock()
	if loaded {
		return nil
	}

	return s.InitialLoad(ctx, token, user)
}

// InitialLoad загружает долги и объявления, а для администратора ещё и
// квартиры — параллельно. Ждёт завершения всех загрузчиков; падение
// одного не отменяет остальные и не считается ошибкой входа.
// Возвращает ошибку только если какой-то загрузчик получил 401.
func (s *StateService) InitialLoad(ctx context.Context, token string, user *model.User) error {
	loaders := []func(context.Context, string, string) error{
		s.LoadDebts,
		s.LoadAnnouncements,
	}
	if user.Role == access.RoleAdmin {
		loaders = append(loaders, s.LoadApartments)
	}

	errs := make([]error, len(loaders))
	var wg sync.WaitGroup
	for i, load := range loaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = load(ctx, token, user.Username)
		}()
	}
	wg.Wait()

	allOK := true
	for _, err := range errs {
		if err == nil {
			continue
		}
		allOK = false
		if errors.Is(err, apiclient.ErrUnauthorized) {
			return err
		}
	}

	if allOK {
		st := s.State(user.Username)
		st.mu.Lock()
		st.loaded = true
		st.mu.Unlock()
	}
	return nil
}

// LoadApartments перечитывает список квартир.
// При ошибке прежний список остаётся без изменений.
func (s *StateService) LoadApartments(ctx context.Context, token, username string) error {
	apartments, err := s.gateway.ListApartments(ctx, token)
	if err != nil {
		s.logger.Warn("Не удалось загрузить квартиры",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return err
	}

	st := s.State(username)
	st.mu.Lock()
	st.apartments = apartments
	st.mu.Unlock()
	return nil
}

// LoadDebts перечитывает список долгов.
// При ошибке прежний список остаётся без изменений.
func (s *StateService) LoadDebts(ctx context.Context, token, username string) error {
	debts, err := s.gateway.ListDebts(ctx, token)
	if err != nil {
		s.logger.Warn("Не удалось загрузить долги",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return err
	}

	st := s.State(username)
	st.mu.Lock()
	st.debts = debts
	st.mu.Unlock()
	return nil
}

// LoadAnnouncements перечитывает список объявлений.
// При ошибке прежний список остаётся без изменений.
func (s *StateService) LoadAnnouncements(ctx context.Context, token, username string) error {
	announcements, err := s.gateway.ListAnnouncements(ctx, token)
	if err != nil {
		s.logger.Warn("Не удалось загрузить объявления",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return err
	}

	st := s.State(username)
	st.mu.Lock()
	st.announcements = announcements
	st.mu.Unlock()
	return nil
}
