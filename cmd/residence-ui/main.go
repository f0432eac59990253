// Точка входа Residence UI — веб-клиент системы управления резиденцией.
// Загружает конфигурацию, создаёт клиент remote API, сервис состояния,
// менеджер сессий и i18n, запускает мониторинг зависимостей
// (topologymetrics) и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	apihandlers "github.com/bigkaa/residence-ui/internal/api/handlers"
	"github.com/bigkaa/residence-ui/internal/apiclient"
	"github.com/bigkaa/residence-ui/internal/config"
	"github.com/bigkaa/residence-ui/internal/server"
	"github.com/bigkaa/residence-ui/internal/service"
	"github.com/bigkaa/residence-ui/internal/ui/auth"
	uihandlers "github.com/bigkaa/residence-ui/internal/ui/handlers"
	"github.com/bigkaa/residence-ui/internal/ui/i18n"
	uimiddleware "github.com/bigkaa/residence-ui/internal/ui/middleware"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Residence UI запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("api_base_url", cfg.APIBaseURL),
	)

	// Предупреждения о дефолтных значениях topologymetrics
	if os.Getenv("RW_DEPHEALTH_GROUP") == "" {
		logger.Warn("RW_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. i18n — загрузка каталогов переводов
	bundle := i18n.Init(logger)
	if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
		logger.Error("Ошибка загрузки i18n каталогов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Клиент remote API (шлюз запросов)
	apiClient, err := apiclient.New(cfg.APIBaseURL, cfg.APICACertPath, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента remote API", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Сервис состояния — списки квартир, долгов и объявлений
	stateSvc := service.NewStateService(apiClient, logger)

	// 6. Session Manager — шифрование/дешифрование UI-сессий (AES-256-GCM)
	secureCookie := strings.HasPrefix(cfg.APIBaseURL, "https")
	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, secureCookie)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("RW_SESSION_SECRET не задан, UI-сессии не сохраняются между рестартами")
	}

	// 7. topologymetrics — мониторинг remote API
	ctx := context.Background()
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"residence-ui",
		cfg.DephealthGroup,
		cfg.APIBaseURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	dephealthStarted := false
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			dephealthStarted = true
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 8. Handlers и middleware.
	// Readiness probe читает результаты фоновых проверок topologymetrics;
	// если мониторинг не запустился — прямой запрос к remote API
	var apiChecker apihandlers.ReadinessChecker = apiClient
	if dephealthStarted {
		apiChecker = dephealthSvc
	}
	uiHandler := uihandlers.New(apiClient, stateSvc, sessionMgr, logger)
	uiAuth := uimiddleware.NewUIAuth(sessionMgr, logger)
	healthHandler := apihandlers.NewHealthHandler(apiChecker)

	// 9. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, uiHandler, healthHandler, uiAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Residence UI остановлен")
}
