// Пакет apiclient — HTTP-клиент remote API управления резиденцией.
// Единственная точка исходящих запросов: подставляет Bearer-токен,
// превращает 401 в ErrUnauthorized (сигнал принудительного logout),
// остальные ошибки отдаёт вызывающему без изменений.
// Поддерживает TLS с кастомным CA (RW_API_CA_CERT_PATH).
// Повторов и собственных таймаутов на запрос нет — одна попытка на вызов.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bigkaa/residence-ui/internal/domain/model"
)

// ErrUnauthorized — remote API отверг токен (401).
// После этой ошибки сессия считается недействительной.
var ErrUnauthorized = errors.New("apiclient: запрос не авторизован")

// StatusError — неуспешный HTTP-статус remote API (кроме 401).
type StatusError struct {
	// StatusCode — HTTP-статус ответа
	StatusCode int
	// Body — тело ответа (для логов и диагностики)
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apiclient: API вернул статус %d: %s", e.StatusCode, e.Body)
}

// Credentials — данные формы входа.
// Язык передаётся вместе с учётными данными: сервер использует его
// для локализации исходящих сообщений (напоминания WhatsApp).
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Language string `json:"language"`
}

// LoginResponse — ответ POST /api/auth/login.
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	User        model.User `json:"user"`
}

// ReminderResponse — ответ POST /api/whatsapp/send-debt-reminders.
type ReminderResponse struct {
	SentCount int `json:"sent_count"`
}

// Client — HTTP-клиент remote API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент remote API.
// baseURL — origin API без trailing slash (например, http://localhost:8001).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
func New(baseURL, caCertPath string, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата API: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат API добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "api_client")),
	}, nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	caCertPool.AppendCertsFromPEM(caCert)

	return &tls.Config{
		RootCAs: caCertPool,
	}, nil
}

// Login обменивает учётные данные на токен и запись пользователя.
// POST /api/auth/login — единственный вызов, передающий пароль.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListApartments запрашивает список квартир. GET /api/apartments (admin only).
func (c *Client) ListApartments(ctx context.Context, token string) ([]model.Apartment, error) {
	var apartments []model.Apartment
	if err := c.do(ctx, http.MethodGet, "/api/apartments", token, nil, &apartments); err != nil {
		return nil, err
	}
	return apartments, nil
}

// ListDebts запрашивает список долгов. GET /api/debts.
// Для резидента сервер возвращает только долги его квартиры.
func (c *Client) ListDebts(ctx context.Context, token string) ([]model.Debt, error) {
	var debts []model.Debt
	if err := c.do(ctx, http.MethodGet, "/api/debts", token, nil, &debts); err != nil {
		return nil, err
	}
	return debts, nil
}

// CreateDebt создаёт долг. POST /api/debts (admin only).
func (c *Client) CreateDebt(ctx context.Context, token string, req model.DebtCreate) (*model.Debt, error) {
	var debt model.Debt
	if err := c.do(ctx, http.MethodPost, "/api/debts", token, req, &debt); err != nil {
		return nil, err
	}
	return &debt, nil
}

// PayDebt отмечает долг оплаченным. POST /api/debts/{id}/pay (admin only).
// Операция необратима со стороны клиента.
func (c *Client) PayDebt(ctx context.Context, token, debtID string) error {
	return c.do(ctx, http.MethodPost, "/api/debts/"+debtID+"/pay", token, nil, nil)
}

// ListAnnouncements запрашивает список объявлений. GET /api/announcements.
func (c *Client) ListAnnouncements(ctx context.Context, token string) ([]model.Announcement, error) {
	var announcements []model.Announcement
	if err := c.do(ctx, http.MethodGet, "/api/announcements", token, nil, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// CreateAnnouncement создаёт объявление. POST /api/announcements (admin only).
func (c *Client) CreateAnnouncement(ctx context.Context, token string, req model.AnnouncementCreate) (*model.Announcement, error) {
	var announcement model.Announcement
	if err := c.do(ctx, http.MethodPost, "/api/announcements", token, req, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// SendDebtReminders запускает рассылку напоминаний о долгах.
// POST /api/whatsapp/send-debt-reminders (admin only).
// Возвращает количество отправленных сообщений.
func (c *Client) SendDebtReminders(ctx context.Context, token string) (int, error) {
	var resp ReminderResponse
	if err := c.do(ctx, http.MethodPost, "/api/whatsapp/send-debt-reminders", token, nil, &resp); err != nil {
		return 0, err
	}
	return resp.SentCount, nil
}

// CheckReady проверяет доступность remote API (GET /api/health).
// Реализует handlers.ReadinessChecker.
func (c *Client) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.do(ctx, http.MethodGet, "/api/health", "", nil, nil); err != nil {
		return "fail", err.Error()
	}
	return "ok", ""
}

// do выполняет запрос к remote API.
// token != "" — добавляется заголовок Authorization: Bearer.
// body != nil — сериализуется в JSON; out != nil — десериализуется ответ.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация тела запроса %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn("API отверг токен",
			slog.String("method", method),
			slog.String("path", path),
		)
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("декодирование ответа %s %s: %w", method, path, err)
		}
	}

	return nil
}
