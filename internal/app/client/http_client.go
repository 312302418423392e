package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"freshcart/internal/app/client/config"
	"freshcart/internal/domain/cart"
	"freshcart/internal/domain/catalog"
)

// ErrSessionExpired сервер отверг токен сессии. Не сетевой сбой:
// повторные попытки не помогут, пользователю нужно войти заново.
var ErrSessionExpired = errors.New("сессия истекла")

// HTTPClient клиент API сервера
type HTTPClient struct {
	client  *http.Client
	log     *slog.Logger
	baseURL string

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		log:     log,
		baseURL: cfg.BaseURL(),
	}
}

// SetToken устанавливает токен сессии для последующих запросов
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken сбрасывает токен сессии
func (c *HTTPClient) ClearToken() {
	c.SetToken("")
}

func (c *HTTPClient) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token := c.getToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return nil, ErrSessionExpired
	}

	return resp, nil
}

// decode читает тело ответа в out и проверяет код состояния
func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("сервер вернул %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка разбора ответа: %w", err)
	}

	return nil
}

// HealthCheck проверяет доступность сервера
func (c *HTTPClient) HealthCheck(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/health", nil)
	if err != nil {
		return err
	}
	return decode(resp, nil)
}

type authRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Token  string `json:"token,omitempty"`
}

// Register регистрирует нового пользователя и возвращает токен сессии
func (c *HTTPClient) Register(ctx context.Context, login, password string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/user/register", authRequest{Login: login, Password: password})
	if err != nil {
		return "", err
	}

	var out authResponse
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	if out.Status != "Ok" {
		return "", fmt.Errorf("регистрация отклонена: %s", out.Error)
	}

	return out.Token, nil
}

// Login выполняет вход и возвращает токен сессии
func (c *HTTPClient) Login(ctx context.Context, login, password string) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/user/login", authRequest{Login: login, Password: password})
	if err != nil {
		return "", err
	}

	var out authResponse
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	if out.Status != "Ok" {
		return "", fmt.Errorf("вход отклонен: %s", out.Error)
	}

	return out.Token, nil
}

// Logout отзывает сессию на сервере
func (c *HTTPClient) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/user/logout", nil)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			// сессии и так нет
			return nil
		}
		return err
	}
	return decode(resp, nil)
}

// SyncCart отправляет полный снимок корзины и возвращает вердикт сервера
func (c *HTTPClient) SyncCart(ctx context.Context, req cart.SyncRequest) (*cart.SyncResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/cart/sync", req)
	if err != nil {
		return nil, err
	}

	var out cart.SyncResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Checkout оформляет заказ из серверной копии корзины
func (c *HTTPClient) Checkout(ctx context.Context) (*cart.CheckoutResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/cart/checkout", nil)
	if err != nil {
		return nil, err
	}

	var out cart.CheckoutResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// ListProducts возвращает каталог товаров с вариантами
func (c *HTTPClient) ListProducts(ctx context.Context) ([]catalog.ProductWithVariants, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/products", nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Products []catalog.ProductWithVariants `json:"products"`
	}
	if err := decode(resp, &out); err != nil {
		return nil, err
	}

	return out.Products, nil
}
