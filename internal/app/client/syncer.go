package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"freshcart/internal/domain/cart"
)

// SessionChecker сообщает, есть ли у клиента аутентифицированная сессия
type SessionChecker interface {
	IsAuthenticated() bool
}

// SyncAPI сетевой вызов синхронизации корзины
type SyncAPI interface {
	SyncCart(ctx context.Context, req cart.SyncRequest) (*cart.SyncResponse, error)
}

// SyncConfig настройки оркестратора синхронизации
type SyncConfig struct {
	Debounce   time.Duration // 0 — окно затишья отключено, мутации синхронизируются сразу
	MaxRetries int           // потолок подряд неудачных попыток
	BaseDelay  time.Duration // задержка первого повтора
	MaxDelay   time.Duration // верхняя граница экспоненциальной задержки
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Debounce:   0,
		MaxRetries: 5,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// Syncer оркестратор синхронизации: следит за доступностью сети, гарантирует
// не больше одного обмена в полете и повторяет неудачные попытки с
// экспоненциальной задержкой. Неизменное правило: локальная мутация никогда
// не ждет сети.
type Syncer struct {
	store     *Store
	api       SyncAPI
	session   SessionChecker
	resolver  *Resolver
	scheduler Scheduler
	log       *slog.Logger
	config    SyncConfig

	mu               sync.Mutex
	online           bool
	inFlight         bool
	debounce         Timer
	retry            Timer
	lastAttempt      time.Time
	onSessionExpired func()
}

func NewSyncer(store *Store, api SyncAPI, session SessionChecker, resolver *Resolver, scheduler Scheduler, log *slog.Logger, config SyncConfig) *Syncer {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 5
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = time.Second
	}
	if config.MaxDelay < config.BaseDelay {
		config.MaxDelay = 30 * time.Second
	}

	return &Syncer{
		store:     store,
		api:       api,
		session:   session,
		resolver:  resolver,
		scheduler: scheduler,
		log:       log,
		config:    config,
		online:    true,
	}
}

// OnSessionExpired регистрирует обработчик истекшей сессии
func (s *Syncer) OnSessionExpired(fn func()) {
	s.mu.Lock()
	s.onSessionExpired = fn
	s.mu.Unlock()
}

// SetOnline обновляет флаг доступности сети. Сам по себе переход в online
// обмен не запускает: его запустит следующая мутация или явный ForceSync.
func (s *Syncer) SetOnline(online bool) {
	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
}

// Online текущее значение флага сети
func (s *Syncer) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// RequestSync реакция на мутацию корзины. При включенном окне затишья
// переносит срабатывание, иначе запускает обмен немедленно в фоне.
func (s *Syncer) RequestSync() {
	if s.config.Debounce > 0 {
		s.ScheduleSync()
		return
	}
	go s.performSync()
}

// ScheduleSync взводит таймер затишья заново: серия быстрых мутаций
// склеивается в один обмен после паузы
func (s *Syncer) ScheduleSync() {
	if s.config.Debounce <= 0 {
		return
	}

	s.mu.Lock()
	if s.debounce != nil {
		s.debounce.Stop()
	}
	s.debounce = s.scheduler.AfterFunc(s.config.Debounce, func() {
		s.mu.Lock()
		s.debounce = nil
		s.mu.Unlock()
		s.performSync()
	})
	s.mu.Unlock()
}

// ForceSync немедленный обмен в обход окна затишья. Если обмен уже в полете,
// вызов отбрасывается, второй в очередь не встает.
func (s *Syncer) ForceSync() bool {
	s.mu.Lock()
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	s.mu.Unlock()

	return s.performSync()
}

// Stop отменяет взведенные таймеры. Вызывается при завершении приложения.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if s.debounce != nil {
		s.debounce.Stop()
		s.debounce = nil
	}
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
	s.mu.Unlock()
}

// performSync один раунд обмена. Возвращает true только при подтвержденном
// сервером успехе.
func (s *Syncer) performSync() bool {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return false
	}
	s.inFlight = true
	online := s.online
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	req, sent, queued := s.store.Snapshot()
	if len(req.Items) == 0 && queued == 0 {
		return false
	}
	if !online {
		s.log.Debug("сеть недоступна, синхронизация отложена")
		return false
	}
	if s.session == nil || !s.session.IsAuthenticated() {
		// неаутентифицированная корзина живет только локально
		return false
	}

	s.store.SetSyncStatus(cart.SyncSyncing)
	s.mu.Lock()
	s.lastAttempt = time.Now()
	s.mu.Unlock()

	resp, err := s.api.SyncCart(context.Background(), req)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			// не сетевой сбой: повторы бессмысленны, раунд бросается
			s.store.SetSyncStatus(cart.SyncIdle)
			s.log.Warn("сессия истекла, синхронизация прервана")

			s.mu.Lock()
			expired := s.onSessionExpired
			s.mu.Unlock()
			if expired != nil {
				expired()
			}
			return false
		}

		s.scheduleRetry(err)
		return false
	}

	if !resp.Success {
		s.scheduleRetry(errors.New("сервер отверг снимок корзины"))
		return false
	}

	s.store.ConfirmSync()

	if resp.UpdatedItems != nil {
		s.resolver.Apply(resp.UpdatedItems, sent)
	}

	return true
}

// scheduleRetry планирует следующий повтор с экспоненциальной задержкой.
// Достигнув потолка попыток, переводит корзину в статус error: дальше движок
// сам не пробует, нужен новый повод — мутация или явный ForceSync.
func (s *Syncer) scheduleRetry(cause error) {
	attempt := s.store.IncrementRetry()

	if attempt >= s.config.MaxRetries {
		s.store.SetSyncStatus(cart.SyncError)
		s.log.Error("синхронизация остановлена: попытки исчерпаны",
			"attempts", attempt,
			"error", cause,
		)
		return
	}

	delay := s.config.BaseDelay << (attempt - 1)
	if delay > s.config.MaxDelay {
		delay = s.config.MaxDelay
	}

	s.store.SetSyncStatus(cart.SyncRetrying)
	s.log.Warn("ошибка синхронизации, будет повтор",
		"attempt", attempt,
		"delay", delay.String(),
		"error", cause,
	)

	s.mu.Lock()
	s.retry = s.scheduler.AfterFunc(delay, func() {
		s.performSync()
	})
	s.mu.Unlock()
}
