package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshcart/internal/domain/cart"
)

type fakeTimer struct {
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler собирает отложенные задачи, срабатывание — только вручную
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{delay: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) fireLast() {
	s.mu.Lock()
	t := s.timers[len(s.timers)-1]
	s.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true // таймер одноразовый
	t.f()
}

func (s *fakeScheduler) delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, 0, len(s.timers))
	for _, t := range s.timers {
		out = append(out, t.delay)
	}
	return out
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type syncResult struct {
	resp *cart.SyncResponse
	err  error
}

// fakeAPI отдает заготовленные результаты по очереди, последний повторяется
type fakeAPI struct {
	mu       sync.Mutex
	results  []syncResult
	requests []cart.SyncRequest
	gate     chan struct{}
}

func (a *fakeAPI) SyncCart(_ context.Context, req cart.SyncRequest) (*cart.SyncResponse, error) {
	if a.gate != nil {
		<-a.gate
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.requests = append(a.requests, req)

	res := syncResult{resp: &cart.SyncResponse{Success: true}}
	if len(a.results) > 0 {
		res = a.results[0]
		if len(a.results) > 1 {
			a.results = a.results[1:]
		}
	}
	return res.resp, res.err
}

func (a *fakeAPI) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

type fakeSession struct {
	ok bool
}

func (s *fakeSession) IsAuthenticated() bool { return s.ok }

func newTestSyncer(api *fakeAPI, session *fakeSession, cfg SyncConfig) (*Syncer, *Store, *fakeScheduler) {
	log := testLogger()
	store := NewStore(NewMemoryStorage(), log)
	resolver := NewResolver(store, NopNotifier{}, log)
	sched := &fakeScheduler{}
	syncer := NewSyncer(store, api, session, resolver, sched, log, cfg)
	return syncer, store, sched
}

func TestSyncer_SuccessClearsQueue(t *testing.T) {
	api := &fakeAPI{}
	syncer, store, _ := newTestSyncer(api, &fakeSession{ok: true}, DefaultSyncConfig())

	store.AddItem(milkParams(2))

	require.True(t, syncer.ForceSync())

	st := store.State()
	assert.Equal(t, cart.SyncIdle, st.SyncStatus)
	assert.Empty(t, st.SyncQueue)
	assert.Equal(t, 0, st.RetryCount)

	require.Equal(t, 1, api.calls())
	sentReq := api.requests[0]
	assert.Equal(t, int64(12000), sentReq.Total)
}

func TestSyncer_SkipsEmptyCart(t *testing.T) {
	api := &fakeAPI{}
	syncer, _, _ := newTestSyncer(api, &fakeSession{ok: true}, DefaultSyncConfig())

	assert.False(t, syncer.ForceSync())
	assert.Equal(t, 0, api.calls())
}

func TestSyncer_OfflineSkipsAndQueueGrows(t *testing.T) {
	api := &fakeAPI{}
	syncer, store, _ := newTestSyncer(api, &fakeSession{ok: true}, DefaultSyncConfig())
	syncer.SetOnline(false)

	store.AddItem(milkParams(1))
	store.AddItem(milkParams(1))

	assert.False(t, syncer.ForceSync())
	assert.Equal(t, 0, api.calls())

	st := store.State()
	assert.Len(t, st.SyncQueue, 2)
	assert.Equal(t, cart.SyncIdle, st.SyncStatus)

	// сеть вернулась — накопленное уходит одним обменом
	syncer.SetOnline(true)
	require.True(t, syncer.ForceSync())
	assert.Equal(t, 1, api.calls())
	assert.Empty(t, store.State().SyncQueue)
}

func TestSyncer_UnauthenticatedSkips(t *testing.T) {
	api := &fakeAPI{}
	syncer, store, _ := newTestSyncer(api, &fakeSession{ok: false}, DefaultSyncConfig())

	store.AddItem(milkParams(1))

	assert.False(t, syncer.ForceSync())
	assert.Equal(t, 0, api.calls())
}

func TestSyncer_SingleFlight(t *testing.T) {
	api := &fakeAPI{gate: make(chan struct{})}
	syncer, store, _ := newTestSyncer(api, &fakeSession{ok: true}, DefaultSyncConfig())

	store.AddItem(milkParams(1))

	done := make(chan bool, 1)
	go func() { done <- syncer.ForceSync() }()

	require.Eventually(t, func() bool {
		return store.State().SyncStatus == cart.SyncSyncing
	}, time.Second, 5*time.Millisecond)

	// второй вызов отбрасывается, второго обмена в очереди нет
	assert.False(t, syncer.ForceSync())

	close(api.gate)
	assert.True(t, <-done)
	assert.Equal(t, 1, api.calls())
}

func TestSyncer_BackoffDelays(t *testing.T) {
	boom := errors.New("сервер недоступен")
	api := &fakeAPI{results: []syncResult{{err: boom}}}
	syncer, store, sched := newTestSyncer(api, &fakeSession{ok: true}, SyncConfig{
		MaxRetries: 5,
		BaseDelay:  time.Second,
		MaxDelay:   4 * time.Second,
	})

	store.AddItem(milkParams(1))

	assert.False(t, syncer.ForceSync())
	assert.Equal(t, cart.SyncRetrying, store.State().SyncStatus)

	sched.fireLast()
	sched.fireLast()
	sched.fireLast()

	// экспонента с потолком: 1s, 2s, 4s, 4s
	assert.Equal(t, []time.Duration{
		time.Second,
		2 * time.Second,
		4 * time.Second,
		4 * time.Second,
	}, sched.delays())

	// пятая неудача исчерпывает попытки: статус error, новых таймеров нет
	sched.fireLast()
	st := store.State()
	assert.Equal(t, cart.SyncError, st.SyncStatus)
	assert.Equal(t, 5, st.RetryCount)
	assert.Equal(t, 0, sched.pending())

	// очередь не потеряна
	assert.NotEmpty(t, st.SyncQueue)
}

func TestSyncer_RecoversAfterFailures(t *testing.T) {
	boom := errors.New("временный сбой")
	api := &fakeAPI{results: []syncResult{
		{err: boom},
		{err: boom},
		{resp: &cart.SyncResponse{Success: true}},
	}}
	syncer, store, sched := newTestSyncer(api, &fakeSession{ok: true}, DefaultSyncConfig())

	store.AddItem(milkParams(1))

	assert.False(t, syncer.ForceSync())
	sched.fireLast()
	sched.fireLast()

	st := store.State()
	assert.Equal(t, cart.SyncIdle, st.SyncStatus)
	assert.Equal(t, 0, st.RetryCount)
	assert.Empty(t, st.SyncQueue)
	assert.Equal(t, 3, api.calls())
}

func TestSyncer_SessionExpiredAbandonsRound(t *testing.T) {
	api := &fakeAPI{results: []syncResult{{err: ErrSessionExpired}}}
	syncer, store, sched := newTestSyncer(api, &fakeSession{ok: true}, DefaultSyncConfig())

	expired := false
	syncer.OnSessionExpired(func() { expired = true })

	store.AddItem(milkParams(1))

	assert.False(t, syncer.ForceSync())

	st := store.State()
	assert.Equal(t, cart.SyncIdle, st.SyncStatus)
	assert.Equal(t, 0, st.RetryCount)
	assert.Equal(t, 0, sched.pending())
	assert.True(t, expired)
	// корзина и очередь не тронуты
	assert.NotEmpty(t, st.Items)
	assert.NotEmpty(t, st.SyncQueue)
}

func TestSyncer_DebounceCoalescesMutations(t *testing.T) {
	api := &fakeAPI{}
	syncer, store, sched := newTestSyncer(api, &fakeSession{ok: true}, SyncConfig{
		Debounce:   300 * time.Millisecond,
		MaxRetries: 5,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	})
	store.SetSyncRequester(syncer)

	store.AddItem(milkParams(1))
	store.AddItem(milkParams(1))
	store.UpdateItem("p1:v1", 5)

	// каждая мутация перевзводит таймер, живым остается один
	assert.Equal(t, 1, sched.pending())
	assert.Equal(t, 0, api.calls())

	sched.fireLast()

	assert.Equal(t, 1, api.calls())
	assert.Empty(t, store.State().SyncQueue)
	assert.Equal(t, 5, api.requests[0].Items[0].Quantity)
}

func TestSyncer_ForceCancelsDebounce(t *testing.T) {
	api := &fakeAPI{}
	syncer, store, sched := newTestSyncer(api, &fakeSession{ok: true}, SyncConfig{
		Debounce:   300 * time.Millisecond,
		MaxRetries: 5,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
	})
	store.SetSyncRequester(syncer)

	store.AddItem(milkParams(1))
	require.Equal(t, 1, sched.pending())

	require.True(t, syncer.ForceSync())

	assert.Equal(t, 0, sched.pending())
	assert.Equal(t, 1, api.calls())

	// отмененный таймер уже ничего не запускает
	sched.fireLast()
	assert.Equal(t, 1, api.calls())
}
