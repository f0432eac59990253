// dephealth.go — интеграция с topologymetrics SDK.
// Residence UI мониторит единственную зависимость — remote API
// управления резиденцией (HTTP checker к health endpoint).
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker для remote API
)

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - serviceID — имя вершины графа текущего приложения ("residence-ui")
//   - group — имя группы в метриках (RW_DEPHEALTH_GROUP)
//   - apiBaseURL — базовый URL remote API
//   - checkInterval — интервал проверки (RW_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	serviceID string,
	group string,
	apiBaseURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		// Remote API — HTTP checker к /api/health
		dephealth.HTTP("residence-api",
			dephealth.FromURL(apiBaseURL),
			dephealth.WithHTTPHealthPath("/api/health"),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
	}

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен (remote API)")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}

// CheckReady возвращает статус готовности по результатам фоновых
// проверок зависимостей. Реализует интерфейс readiness probe.
func (ds *DephealthService) CheckReady() (string, string) {
	return readyFromHealth(ds.Health())
}

// readyFromHealth сворачивает состояние зависимостей в статус probe:
// все зависимости ok — "ok", иначе "fail" с перечислением упавших.
func readyFromHealth(health map[string]bool) (string, string) {
	if len(health) == 0 {
		return "fail", "нет результатов проверки зависимостей"
	}

	var failed []string
	for name, ok := range health {
		if !ok {
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		return "fail", "недоступны зависимости: " + strings.Join(failed, ", ")
	}
	return "ok", ""
}
