// Пакет server — HTTP-сервер Residence UI с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	apihandlers "github.com/bigkaa/residence-ui/internal/api/handlers"
	apimiddleware "github.com/bigkaa/residence-ui/internal/api/middleware"
	"github.com/bigkaa/residence-ui/internal/config"
	uihandlers "github.com/bigkaa/residence-ui/internal/ui/handlers"
	"github.com/bigkaa/residence-ui/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/residence-ui/internal/ui/middleware"
	"github.com/bigkaa/residence-ui/internal/ui/static"
)

// Server — HTTP-сервер Residence UI.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	ui *uihandlers.Handler,
	health *apihandlers.HealthHandler,
	uiAuth *uimiddleware.UIAuth,
) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(apimiddleware.MetricsMiddleware())
	router.Use(apimiddleware.RequestLogger(logger))
	router.Use(i18n.Middleware())

	// Служебные endpoints — без аутентификации,
	// проверяются Kubernetes и Prometheus напрямую
	router.Get("/health/live", health.HealthLive)
	router.Get("/health/ready", health.HealthReady)
	router.Get("/metrics", health.GetMetrics)

	// Статика
	router.Handle("/static/*",
		http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	// Публичные маршруты
	router.Get("/login", ui.HandleLoginPage)
	router.Post("/login", ui.HandleLogin)
	router.Post("/logout", ui.HandleLogout)
	router.Post("/set-language", uihandlers.HandleSetLanguage)

	// Защищённые маршруты — требуют валидной сессии
	router.Group(func(r chi.Router) {
		r.Use(uiAuth.Middleware())

		r.Get("/", ui.HandleDashboard)
		r.Get("/apartments", ui.HandleApartments)
		r.Get("/debts", ui.HandleDebts)
		r.Get("/debts/new", ui.HandleCreateDebtForm)
		r.Post("/debts", ui.HandleCreateDebt)
		r.Post("/debts/{debtID}/pay", ui.HandlePayDebt)
		r.Post("/reminders", ui.HandleSendReminders)
		r.Get("/announcements", ui.HandleAnnouncements)
		r.Get("/announcements/new", ui.HandleCreateAnnouncementForm)
		r.Post("/announcements", ui.HandleCreateAnnouncement)
		r.Get("/profile", ui.HandleProfile)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Handler возвращает корневой http.Handler (для тестов).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
