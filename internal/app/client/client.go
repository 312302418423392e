package client

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"freshcart/internal/app/client/config"
	"freshcart/internal/domain/cart"
	"freshcart/internal/domain/catalog"
)

// App собирает движок корзины воедино: хранилище состояния, долговременный
// снимок, оркестратор синхронизации, резолвер конфликтов и клиент API.
type App struct {
	config   *config.Config
	log      *slog.Logger
	api      *HTTPClient
	storage  Storage
	store    *Store
	syncer   *Syncer
	notifier Notifier

	mu            sync.RWMutex
	authenticated bool
}

func New(cfg *config.Config, log *slog.Logger) *App {
	app := &App{
		config:   cfg,
		log:      log,
		notifier: NewConsoleNotifier(),
	}

	app.api = NewHTTPClient(cfg, log)

	storage, err := NewSQLiteStorage(cfg.DataPath)
	if err != nil {
		log.Warn("локальная база недоступна, корзина не переживет перезапуск", "error", err)
		app.storage = NewMemoryStorage()
	} else {
		app.storage = storage
	}

	app.store = NewStore(app.storage, log)
	resolver := NewResolver(app.store, app.notifier, log)

	syncCfg := SyncConfig{
		Debounce:   time.Duration(cfg.SyncDebounceMS) * time.Millisecond,
		MaxRetries: cfg.SyncMaxRetries,
		BaseDelay:  time.Duration(cfg.SyncBaseDelayMS) * time.Millisecond,
		MaxDelay:   time.Duration(cfg.SyncMaxDelayMS) * time.Millisecond,
	}
	app.syncer = NewSyncer(app.store, app.api, app, resolver, NewScheduler(), log, syncCfg)
	app.syncer.OnSessionExpired(app.handleSessionExpired)
	app.store.SetSyncRequester(app.syncer)

	app.store.LoadFromStorage()
	app.loadToken()

	return app
}

// Store доступ к состоянию корзины
func (a *App) Store() *Store {
	return a.store
}

// Syncer доступ к оркестратору синхронизации
func (a *App) Syncer() *Syncer {
	return a.syncer
}

// IsAuthenticated есть ли сохраненная сессия
func (a *App) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authenticated
}

// RefreshOnline опрашивает сервер и обновляет флаг сети оркестратора
func (a *App) RefreshOnline(ctx context.Context) bool {
	err := a.api.HealthCheck(ctx)
	online := err == nil
	a.syncer.SetOnline(online)
	return online
}

// Register регистрирует пользователя и сразу входит
func (a *App) Register(ctx context.Context, login, password string) error {
	token, err := a.api.Register(ctx, login, password)
	if err != nil {
		return err
	}
	return a.adoptToken(token)
}

// Login выполняет вход. Локальная корзина не сбрасывается: следующая
// синхронизация отправит ее на сервер.
func (a *App) Login(ctx context.Context, login, password string) error {
	token, err := a.api.Login(ctx, login, password)
	if err != nil {
		return err
	}
	if err := a.adoptToken(token); err != nil {
		return err
	}

	go a.syncer.ForceSync()
	return nil
}

// Logout отзывает сессию и забывает токен
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		a.log.Warn("не удалось отозвать сессию на сервере", "error", err)
	}
	a.dropToken()
	return nil
}

// Sync запускает немедленную синхронизацию и ждет завершения раунда
// вместе с повторами не дольше, чем живет ctx
func (a *App) Sync(ctx context.Context) (cart.SyncStatus, error) {
	a.syncer.ForceSync()

	for {
		st := a.store.State()
		if st.SyncStatus != cart.SyncSyncing && st.SyncStatus != cart.SyncRetrying {
			return st.SyncStatus, nil
		}

		select {
		case <-ctx.Done():
			return st.SyncStatus, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Checkout оформляет заказ: сначала добивается успешной синхронизации,
// затем просит сервер оформить его авторитетную копию корзины. При успехе
// локальная корзина очищается без следа в очереди действий.
func (a *App) Checkout(ctx context.Context) (*cart.CheckoutResponse, error) {
	st := a.store.State()
	if len(st.Items) == 0 {
		return nil, cart.ErrEmptyCart
	}

	status, err := a.Sync(ctx)
	if err != nil {
		return nil, err
	}
	if status != cart.SyncIdle {
		return nil, fmt.Errorf("корзина не синхронизирована, оформление невозможно (статус %s)", status)
	}

	resp, err := a.api.Checkout(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Status != "Ok" {
		return nil, fmt.Errorf("оформление отклонено: %s", resp.Error)
	}

	a.store.Update(func(s *cart.CartState) bool {
		s.Items = nil
		s.SyncQueue = nil
		return true
	})

	return resp, nil
}

// Products возвращает каталог с сервера
func (a *App) Products(ctx context.Context) ([]catalog.ProductWithVariants, error) {
	return a.api.ListProducts(ctx)
}

// Close останавливает таймеры и закрывает локальную базу
func (a *App) Close() error {
	a.syncer.Stop()
	return a.storage.Close()
}

func (a *App) adoptToken(token string) error {
	a.api.SetToken(token)

	a.mu.Lock()
	a.authenticated = true
	a.mu.Unlock()

	if err := os.WriteFile(a.config.TokenPath, []byte(token), 0o600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return nil
}

func (a *App) dropToken() {
	a.api.ClearToken()

	a.mu.Lock()
	a.authenticated = false
	a.mu.Unlock()

	if err := os.Remove(a.config.TokenPath); err != nil && !os.IsNotExist(err) {
		a.log.Warn("не удалось удалить файл токена", "error", err)
	}
}

func (a *App) loadToken() {
	data, err := os.ReadFile(a.config.TokenPath)
	if err != nil {
		return
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return
	}

	a.api.SetToken(token)
	a.mu.Lock()
	a.authenticated = true
	a.mu.Unlock()
}

// handleSessionExpired вызывается оркестратором при отвергнутом токене
func (a *App) handleSessionExpired() {
	a.dropToken()
	a.notifier.Notify(LevelWarn, "сессия истекла, войдите снова: freshcart auth login")
}
