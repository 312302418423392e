package client

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"freshcart/internal/domain/cart"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func milkParams(qty int) AddItemParams {
	return AddItemParams{
		ProductID: "p1",
		VariantID: "v1",
		Name:      "Молоко",
		Unit:      cart.Unit{Kind: cart.UnitLiter, Amount: 1},
		Price:     6000,
		Quantity:  qty,
		MaxStock:  100,
	}
}

type countingRequester struct {
	calls int
}

func (r *countingRequester) RequestSync() { r.calls++ }

func TestStore_AddItem_MergesDuplicates(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())

	store.AddItem(milkParams(1))
	store.AddItem(milkParams(1))

	st := store.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, "p1:v1", st.Items[0].ID)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, int64(12000), st.Total)
	assert.Equal(t, 2, st.ItemCount)
	assert.Len(t, st.SyncQueue, 2)
}

func TestStore_TotalsAfterEveryMutation(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())

	store.AddItem(milkParams(2))
	store.AddItem(AddItemParams{
		ProductID: "p2",
		VariantID: "v1",
		Name:      "Хлеб",
		Unit:      cart.Unit{Kind: cart.UnitPiece, Amount: 1},
		Price:     4500,
		Quantity:  1,
		MaxStock:  10,
	})

	st := store.State()
	assert.Equal(t, int64(16500), st.Total)
	assert.Equal(t, 3, st.ItemCount)

	store.UpdateItem("p1:v1", 1)
	st = store.State()
	assert.Equal(t, int64(10500), st.Total)
	assert.Equal(t, 2, st.ItemCount)

	store.RemoveItem("p2:v1")
	st = store.State()
	assert.Equal(t, int64(6000), st.Total)
	assert.Equal(t, 1, st.ItemCount)
}

func TestStore_UpdateItem_ZeroRemoves(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())

	store.AddItem(milkParams(2))
	store.UpdateItem("p1:v1", 0)

	st := store.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, int64(0), st.Total)
	// в очереди add и remove
	require.Len(t, st.SyncQueue, 2)
	assert.Equal(t, cart.ActionRemove, st.SyncQueue[1].Type)
}

func TestStore_RemoveItem_Idempotent(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())

	store.AddItem(milkParams(1))
	before := store.State()

	store.RemoveItem("нет-такого")

	after := store.State()
	assert.Equal(t, before.LastUpdated, after.LastUpdated)
	assert.Len(t, after.SyncQueue, len(before.SyncQueue))
}

func TestStore_ClearCart(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())

	store.AddItem(milkParams(3))
	store.ClearCart()

	st := store.State()
	assert.Empty(t, st.Items)
	assert.Equal(t, int64(0), st.Total)
	assert.Equal(t, 0, st.ItemCount)
	assert.Equal(t, cart.ActionClear, st.SyncQueue[len(st.SyncQueue)-1].Type)
}

func TestStore_RequestSyncOnlyOnRealChange(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())
	req := &countingRequester{}
	store.SetSyncRequester(req)

	store.AddItem(milkParams(1))
	store.RemoveItem("нет-такого")
	store.UpdateItem("нет-такого", 5)

	assert.Equal(t, 1, req.calls)
}

func TestStore_LastUpdatedMonotonic(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())

	later := time.Now().Add(time.Hour)
	store.now = func() time.Time { return later }
	store.AddItem(milkParams(1))

	// часы перевели назад
	store.now = func() time.Time { return later.Add(-30 * time.Minute) }
	store.AddItem(milkParams(1))

	st := store.State()
	assert.Equal(t, later, st.LastUpdated)
}

func TestStore_PersistenceRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()

	store := NewStore(storage, testLogger())
	store.AddItem(milkParams(2))
	store.IncrementRetry()
	store.SetSyncStatus(cart.SyncRetrying)

	reloaded := NewStore(storage, testLogger())
	reloaded.LoadFromStorage()

	st := reloaded.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, 2, st.Items[0].Quantity)
	assert.Equal(t, int64(12000), st.Total)
	// свежий процесс стартует без обмена в полете
	assert.Equal(t, cart.SyncIdle, st.SyncStatus)
	assert.Equal(t, 0, st.RetryCount)
}

func TestStore_ConfirmSyncClearsQueue(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())

	store.AddItem(milkParams(1))
	store.UpdateItem("p1:v1", 3)
	store.IncrementRetry()

	store.ConfirmSync()

	st := store.State()
	assert.Empty(t, st.SyncQueue)
	assert.Equal(t, 0, st.RetryCount)
	assert.Equal(t, cart.SyncIdle, st.SyncStatus)
	// сама корзина не тронута
	require.Len(t, st.Items, 1)
	assert.Equal(t, 3, st.Items[0].Quantity)
}

func TestStore_Snapshot(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())

	store.AddItem(milkParams(2))

	req, sent, queued := store.Snapshot()
	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(12000), req.Total)
	assert.Equal(t, 2, req.ItemCount)
	assert.Contains(t, sent, "p1:v1")
	assert.Equal(t, 1, queued)
}

func TestStore_StateReturnsCopy(t *testing.T) {
	store := NewStore(NewMemoryStorage(), testLogger())
	store.AddItem(milkParams(1))

	st := store.State()
	st.Items[0].Quantity = 99

	assert.Equal(t, 1, store.State().Items[0].Quantity)
}
