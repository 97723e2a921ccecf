package reconcile

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bartek5186/amz2sheets/internal/sheet"
	"github.com/rs/zerolog"
)

// fakeStore trzyma wiersze w pamięci z semantyką arkusza: najnowsze na górze,
// paczka wstawiana w całości albo wcale.
type fakeStore struct {
	rows       []sheet.Row
	failInsert bool

	readCalls int
	inserts   int
	updates   int
}

func (f *fakeStore) ReadRows(ctx context.Context) ([]sheet.Row, error) {
	f.readCalls++
	out := make([]sheet.Row, len(f.rows))
	for i, r := range f.rows {
		cp := make(sheet.Row, len(r))
		copy(cp, r)
		out[i] = cp
	}
	return out, nil
}

func (f *fakeStore) InsertRows(ctx context.Context, rows []sheet.Row) error {
	if f.failInsert {
		return errors.New("insert failed")
	}
	f.inserts++
	f.rows = append(append([]sheet.Row{}, rows...), f.rows...)
	return nil
}

func (f *fakeStore) UpdateFields(ctx context.Context, rowIndex int, fields map[sheet.Column]string) error {
	if rowIndex < 0 || rowIndex >= len(f.rows) {
		return errors.New("bad row index")
	}
	for c, v := range fields {
		f.rows[rowIndex].Set(c, v)
	}
	f.updates++
	return nil
}

type fakeFetcher struct {
	orders    []Order
	fetchErr  error
	status    map[string]StatusUpdate
	statusErr map[string]error

	statusCalls int
}

func (f *fakeFetcher) RecentOrders(ctx context.Context, since time.Time) ([]Order, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.orders, nil
}

func (f *fakeFetcher) OrderStatus(ctx context.Context, orderID string) (StatusUpdate, error) {
	f.statusCalls++
	if err := f.statusErr[orderID]; err != nil {
		return StatusUpdate{}, err
	}
	u, ok := f.status[orderID]
	if !ok {
		return StatusUpdate{}, errors.New("unknown order " + orderID)
	}
	return u, nil
}

// stały "teraz" dla deterministycznych okien
var testNow = time.Date(2025, 8, 2, 12, 0, 0, 0, time.UTC)

func newTestEngine(store sheet.Store, fetch Fetcher, cfg Config) *Engine {
	e := New(zerolog.Nop(), store, fetch, cfg)
	e.now = func() time.Time { return testNow }
	return e
}

// existingRow buduje kompletny wiersz arkusza, jakby dopisany we
// wcześniejszym przebiegu.
func existingRow(serial int, orderID, asin, status string, purchased time.Time) sheet.Row {
	r := sheet.NewRow()
	r.Set(sheet.ColSerial, strconv.Itoa(serial))
	r.Set(sheet.ColPrintStatus, sheet.DefaultPrintStatus)
	r.Set(sheet.ColSKUStatus, sheet.DefaultSKUStatus)
	r.Set(sheet.ColOrderStatus, status)
	r.Set(sheet.ColProductName, "Produkt testowy")
	r.Set(sheet.ColQuantity, "1")
	r.Set(sheet.ColOrderSummary, "Item 1 of 1")
	r.Set(sheet.ColOrderID, orderID)
	r.Set(sheet.ColPurchaseDate, sheet.FormatTime(purchased))
	r.Set(sheet.ColShipDate, "Pending")
	r.Set(sheet.ColBuyerName, "Jan Testowy")
	r.Set(sheet.ColShipCity, "Mumbai")
	r.Set(sheet.ColShipState, "Maharashtra")
	r.Set(sheet.ColASIN, asin)
	return r
}
