package client

import (
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"freshcart/internal/domain/cart"
)

// SyncRequester уведомляется после каждой мутации корзины
type SyncRequester interface {
	RequestSync()
}

// Store хранилище состояния корзины. Все мутации применяются синхронно под
// замком: вызывающая сторона сразу видит новое состояние, сетевой обмен
// запускается уже после. Пересчет итогов и отметка времени происходят в одном
// критическом участке с самой мутацией, поэтому снаружи не наблюдается
// состояние с устаревшим Total.
type Store struct {
	mu      sync.Mutex
	state   *cart.CartState
	storage Storage
	syncer  SyncRequester
	log     *slog.Logger
	now     func() time.Time
}

func NewStore(storage Storage, log *slog.Logger) *Store {
	return &Store{
		state:   cart.NewCartState(),
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// SetSyncRequester связывает хранилище с оркестратором синхронизации.
// Вызывается один раз при сборке приложения.
func (s *Store) SetSyncRequester(r SyncRequester) {
	s.syncer = r
}

// AddItemParams параметры добавления позиции в корзину
type AddItemParams struct {
	ProductID string
	VariantID string
	Name      string
	Unit      cart.Unit
	Price     int64
	Quantity  int
	Thumbnail string
	MaxStock  int
}

// AddItem добавляет позицию в корзину. Если пара товар+вариант уже есть,
// количества складываются, дубликат строки не создается.
func (s *Store) AddItem(p AddItemParams) {
	if p.Quantity <= 0 {
		return
	}

	id := cart.ItemID(p.ProductID, p.VariantID)

	s.apply(cart.ActionAdd, map[string]any{"item_id": id, "quantity": p.Quantity}, func(st *cart.CartState) bool {
		if idx, ok := st.FindItem(id); ok {
			st.Items[idx].Quantity += p.Quantity
			return true
		}

		st.Items = append(st.Items, cart.CartItem{
			ID:        id,
			ProductID: p.ProductID,
			VariantID: p.VariantID,
			Name:      p.Name,
			Unit:      p.Unit,
			Price:     p.Price,
			Quantity:  p.Quantity,
			Thumbnail: p.Thumbnail,
			MaxStock:  p.MaxStock,
		})
		return true
	})
}

// RemoveItem убирает позицию целиком. Повторный вызов для отсутствующей
// позиции — no-op: ни очередь, ни отметка времени не меняются.
func (s *Store) RemoveItem(itemID string) {
	s.apply(cart.ActionRemove, map[string]any{"item_id": itemID}, func(st *cart.CartState) bool {
		idx, ok := st.FindItem(itemID)
		if !ok {
			return false
		}
		st.Items = append(st.Items[:idx], st.Items[idx+1:]...)
		return true
	})
}

// UpdateItem устанавливает количество позиции в абсолютное значение.
// Ноль и меньше равносильны удалению.
func (s *Store) UpdateItem(itemID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(itemID)
		return
	}

	s.apply(cart.ActionUpdate, map[string]any{"item_id": itemID, "quantity": quantity}, func(st *cart.CartState) bool {
		idx, ok := st.FindItem(itemID)
		if !ok {
			return false
		}
		st.Items[idx].Quantity = quantity
		return true
	})
}

// ClearCart опустошает корзину
func (s *Store) ClearCart() {
	s.apply(cart.ActionClear, nil, func(st *cart.CartState) bool {
		if len(st.Items) == 0 && len(st.SyncQueue) == 0 {
			return false
		}
		st.Items = nil
		return true
	})
}

// apply общий конвейер мутации: изменение, пересчет, отметка времени,
// запись действия в очередь, снимок на диск — все под одним замком.
// Запрос синхронизации уходит уже после освобождения замка.
func (s *Store) apply(action cart.ActionType, payload any, fn func(*cart.CartState) bool) {
	s.mu.Lock()
	if !fn(s.state) {
		s.mu.Unlock()
		return
	}

	s.state.Recompute()
	s.touchLocked()
	s.enqueueLocked(action, payload)
	s.persistLocked()
	s.mu.Unlock()

	if s.syncer != nil {
		s.syncer.RequestSync()
	}
}

// touchLocked обновляет LastUpdated монотонно: отметка никогда не уходит назад,
// даже если системные часы перевели
func (s *Store) touchLocked() {
	now := s.now()
	if now.Before(s.state.LastUpdated) {
		now = s.state.LastUpdated
	}
	s.state.LastUpdated = now
}

func (s *Store) enqueueLocked(action cart.ActionType, payload any) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err == nil {
			raw = data
		}
	}

	s.state.SyncQueue = append(s.state.SyncQueue, cart.SyncAction{
		Type:      action,
		Timestamp: s.state.LastUpdated,
		Payload:   raw,
	})
}

func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	if err := s.storage.SaveCart(s.state); err != nil {
		s.log.Warn("не удалось сохранить снимок корзины", "error", err)
	}
}

// LoadFromStorage восстанавливает корзину из снимка. Свежий процесс не имеет
// обмена в полете, поэтому статус и счетчик попыток сбрасываются.
func (s *Store) LoadFromStorage() {
	if s.storage == nil {
		return
	}

	saved, err := s.storage.LoadCart()
	if err != nil || saved == nil {
		return
	}

	s.mu.Lock()
	s.state = saved
	s.state.SyncStatus = cart.SyncIdle
	s.state.RetryCount = 0
	s.state.Recompute()
	s.mu.Unlock()
}

// State возвращает копию текущего состояния
func (s *Store) State() cart.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state.Clone()
}

// Update применяет fn к состоянию под замком: путь для резолвера конфликтов.
// При изменении (fn вернула true) пересчитывает итоги, обновляет отметку
// времени и сохраняет снимок. Очередь действий не трогает и новую
// синхронизацию не запрашивает.
func (s *Store) Update(fn func(*cart.CartState) bool) {
	s.mu.Lock()
	if fn(s.state) {
		s.state.Recompute()
		s.touchLocked()
		s.persistLocked()
	}
	s.mu.Unlock()
}

// SetSyncStatus меняет статус синхронизации, не трогая содержимое корзины
func (s *Store) SetSyncStatus(status cart.SyncStatus) {
	s.mu.Lock()
	s.state.SyncStatus = status
	s.persistLocked()
	s.mu.Unlock()
}

// IncrementRetry увеличивает счетчик подряд неудачных попыток и возвращает
// новое значение
func (s *Store) IncrementRetry() int {
	s.mu.Lock()
	s.state.RetryCount++
	n := s.state.RetryCount
	s.persistLocked()
	s.mu.Unlock()
	return n
}

// ConfirmSync фиксирует успешный обмен: очередь очищается целиком, счетчик
// попыток обнуляется, статус возвращается в idle
func (s *Store) ConfirmSync() {
	s.mu.Lock()
	s.state.SyncQueue = nil
	s.state.RetryCount = 0
	s.state.SyncStatus = cart.SyncIdle
	s.persistLocked()
	s.mu.Unlock()
}

// Snapshot собирает полезную нагрузку для сетевого обмена и множество
// идентификаторов, вошедших в нее. Второе нужно резолверу: позиции,
// добавленные пока обмен шел, сервер не видел, и его ответ их не отменяет.
func (s *Store) Snapshot() (cart.SyncRequest, map[string]struct{}, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]cart.CartItem, len(s.state.Items))
	copy(items, s.state.Items)

	sent := make(map[string]struct{}, len(items))
	for _, it := range items {
		sent[it.ID] = struct{}{}
	}

	req := cart.SyncRequest{
		Items:       items,
		Total:       s.state.Total,
		ItemCount:   s.state.ItemCount,
		LastUpdated: s.state.LastUpdated,
	}

	return req, sent, len(s.state.SyncQueue)
}
