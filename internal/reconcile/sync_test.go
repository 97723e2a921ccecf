package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bartek5186/amz2sheets/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCfg() Config {
	return Config{
		Lookback:        2 * time.Hour,
		ReconcileWindow: 6 * time.Hour,
	}
}

func newOrder(id string, asins ...string) Order {
	o := Order{
		ID:           id,
		Status:       "Pending",
		PurchaseDate: testNow.Add(-30 * time.Minute),
		BuyerName:    "Jan Testowy",
		ShipCity:     "Mumbai",
		ShipState:    "Maharashtra",
	}
	for _, a := range asins {
		o.Items = append(o.Items, OrderItem{Title: "Produkt " + a, Quantity: 1, ASIN: a})
	}
	return o
}

// Scenariusz bazowy: magazyn z serialami 210 i 211, fetch zwraca trzy nowe
// zamówienia (3, 1 i 2 pozycje). Wszystkie pozycje zamówienia dzielą jeden
// numer, kolejne zamówienia dostają kolejne numery.
func TestSyncNewSerialBlocks(t *testing.T) {
	purchased := testNow.Add(-24 * time.Hour)
	store := &fakeStore{rows: []sheet.Row{
		existingRow(211, "171-0000000-0000002", "B0OLD2", "Ordered", purchased),
		existingRow(210, "171-0000000-0000001", "B0OLD1", "Ordered", purchased),
	}}
	fetch := &fakeFetcher{orders: []Order{
		newOrder("171-1111111-0000001", "B0A1", "B0A2", "B0A3"),
		newOrder("171-2222222-0000001", "B0B1"),
		newOrder("171-3333333-0000001", "B0C1", "B0C2"),
	}}
	e := newTestEngine(store, fetch, testCfg())

	added, skipped, err := e.SyncNew(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, added)
	assert.Equal(t, 0, skipped)
	require.Len(t, store.rows, 8)
	assert.Equal(t, 1, store.inserts, "jedna paczka, jeden zapis")

	// nowe wiersze na górze, w kolejności fetchu
	wantSerials := []string{"212", "212", "212", "213", "214", "214"}
	wantASINs := []string{"B0A1", "B0A2", "B0A3", "B0B1", "B0C1", "B0C2"}
	for i := range wantSerials {
		assert.Equal(t, wantSerials[i], store.rows[i].Get(sheet.ColSerial), "wiersz %d", i)
		assert.Equal(t, wantASINs[i], store.rows[i].Get(sheet.ColASIN), "wiersz %d", i)
	}
	// stare wiersze nietknięte, pod spodem
	assert.Equal(t, "211", store.rows[6].Get(sheet.ColSerial))
	assert.Equal(t, "210", store.rows[7].Get(sheet.ColSerial))
}

func TestSyncNewIdempotent(t *testing.T) {
	store := &fakeStore{}
	fetch := &fakeFetcher{orders: []Order{
		newOrder("171-1111111-0000001", "B0A1", "B0A2"),
	}}
	e := newTestEngine(store, fetch, testCfg())

	added, _, err := e.SyncNew(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// drugi przebieg bez zmian w magazynie i ten sam fetch → zero nowych
	added, skipped, err := e.SyncNew(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 2, skipped)
	assert.Len(t, store.rows, 2)
}

func TestSyncNewEmptyStoreBaseline(t *testing.T) {
	store := &fakeStore{}
	fetch := &fakeFetcher{orders: []Order{newOrder("171-1111111-0000001", "B0A1")}}
	e := newTestEngine(store, fetch, testCfg())

	added, _, err := e.SyncNew(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, added)
	assert.Equal(t, "193", store.rows[0].Get(sheet.ColSerial))
}

// Upstream potrafi zwrócić to samo zamówienie dwa razy w jednym fetchu —
// deduplikacja w ramach przebiegu łapie powtórkę, numer konsumowany raz.
func TestSyncNewInRunDuplicate(t *testing.T) {
	store := &fakeStore{}
	o := newOrder("171-1111111-0000001", "B0A1")
	fetch := &fakeFetcher{orders: []Order{o, o}}
	e := newTestEngine(store, fetch, testCfg())

	added, skipped, err := e.SyncNew(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, skipped)
	require.Len(t, store.rows, 1)
	assert.Equal(t, "193", store.rows[0].Get(sheet.ColSerial))
}

// Pozycje tego samego zamówienia rozbite na dwa wpisy fetchu (paginacja
// upstreamu) dostają wspólny numer seryjny.
func TestSyncNewSplitOrderSharesSerial(t *testing.T) {
	store := &fakeStore{}
	first := newOrder("171-1111111-0000001", "B0A1")
	second := newOrder("171-1111111-0000001", "B0A2")
	between := newOrder("171-2222222-0000001", "B0B1")
	fetch := &fakeFetcher{orders: []Order{first, between, second}}
	e := newTestEngine(store, fetch, testCfg())

	added, _, err := e.SyncNew(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	serialByASIN := map[string]string{}
	for _, r := range store.rows {
		serialByASIN[r.Get(sheet.ColASIN)] = r.Get(sheet.ColSerial)
	}
	assert.Equal(t, serialByASIN["B0A1"], serialByASIN["B0A2"], "wspólny numer mimo rozbicia")
	assert.NotEqual(t, serialByASIN["B0A1"], serialByASIN["B0B1"])
}

func TestSyncNewOrderWithoutItems(t *testing.T) {
	store := &fakeStore{}
	fetch := &fakeFetcher{orders: []Order{newOrder("171-1111111-0000001")}}
	e := newTestEngine(store, fetch, testCfg())

	added, _, err := e.SyncNew(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, added)

	r := store.rows[0]
	assert.Equal(t, "No items found", r.Get(sheet.ColProductName))
	assert.Equal(t, "0", r.Get(sheet.ColQuantity))
	assert.Equal(t, "Single Item", r.Get(sheet.ColOrderSummary))
	assert.Equal(t, sheet.Placeholder, r.Get(sheet.ColASIN))
}

func TestSyncNewFetchErrorAborts(t *testing.T) {
	store := &fakeStore{}
	fetch := &fakeFetcher{fetchErr: errors.New("http 429")}
	e := newTestEngine(store, fetch, testCfg())

	_, _, err := e.SyncNew(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamFetch)
	assert.Empty(t, store.rows)
}

// Nieudany zapis paczki = nic nie jest zapisane; kolejny przebieg wyliczy
// ten sam zestaw kandydatów i dopisze go w całości.
func TestSyncNewWriteFailureIsRetriable(t *testing.T) {
	store := &fakeStore{failInsert: true}
	fetch := &fakeFetcher{orders: []Order{newOrder("171-1111111-0000001", "B0A1", "B0A2")}}
	e := newTestEngine(store, fetch, testCfg())

	_, _, err := e.SyncNew(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreAccess)
	assert.Empty(t, store.rows, "częściowy zapis niedozwolony")

	store.failInsert = false
	added, _, err := e.SyncNew(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, "193", store.rows[0].Get(sheet.ColSerial))
	assert.Equal(t, "193", store.rows[1].Get(sheet.ColSerial))
}

func TestSyncNewRateLimitPause(t *testing.T) {
	store := &fakeStore{}
	fetch := &fakeFetcher{orders: []Order{
		newOrder("171-1111111-0000001", "B0A1"),
		newOrder("171-2222222-0000001", "B0B1"),
		newOrder("171-3333333-0000001", "B0C1"),
	}}
	cfg := testCfg()
	cfg.RateBatch = 2
	cfg.RatePause = time.Millisecond
	e := newTestEngine(store, fetch, testCfg())
	e.cfg = cfg

	start := time.Now()
	added, _, err := e.SyncNew(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, added)
	assert.GreaterOrEqual(t, time.Since(start), time.Millisecond, "pauza po co drugim zamówieniu")
}
