// internal/reconcile/sync.go
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/bartek5186/amz2sheets/internal/sheet"
	"github.com/rs/zerolog"
)

type Config struct {
	Lookback        time.Duration // okno pobierania nowych zamówień
	ReconcileWindow time.Duration // węższe okno odświeżania statusów
	RateBatch       int           // pauza co tyle przetworzonych zamówień
	RatePause       time.Duration // długość pauzy
}

// Engine spina magazyn i źródło zamówień w jeden cykl read-reconcile-write.
// Jedna instancja obsługuje jeden przebieg naraz; cały stan deduplikacji
// jest wyliczany świeżo na początku przebiegu.
type Engine struct {
	log   zerolog.Logger
	store sheet.Store
	fetch Fetcher
	cfg   Config

	now func() time.Time // podmienialne w testach
}

func New(log zerolog.Logger, store sheet.Store, fetch Fetcher, cfg Config) *Engine {
	if cfg.Lookback <= 0 {
		cfg.Lookback = 2 * time.Hour
	}
	if cfg.ReconcileWindow <= 0 {
		cfg.ReconcileWindow = 6 * time.Hour
	}
	return &Engine{log: log, store: store, fetch: fetch, cfg: cfg, now: time.Now}
}

// SyncNew to jeden przebieg dopisywania nowych zamówień:
// odczyt magazynu → indeks + pierwszy wolny numer → fetch → filtr duplikatów
// → budowa wierszy → JEDEN zbiorczy zapis na górę arkusza.
// Zwraca liczbę dopisanych wierszy i liczbę pominiętych pozycji.
func (e *Engine) SyncNew(ctx context.Context) (added, skipped int, err error) {
	existing, err := e.store.ReadRows(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrStoreAccess, err)
	}
	ix := BuildIndex(e.log, existing)

	// numer seryjny liczony RAZ, potem tylko lokalny licznik — patrz Index.NextSerial
	next := ix.NextSerial()

	since := e.now().Add(-e.cfg.Lookback)
	orders, err := e.fetch.RecentOrders(ctx, since)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	e.log.Info().Int("orders", len(orders)).Time("since", since).Msg("pobrano zamówienia z okna")

	var (
		batch         []sheet.Row
		serialByOrder = map[string]int{}         // zamówienie → przydzielony numer (w tym przebiegu)
		emitted       = map[pairKey]struct{}{}   // pary już zbudowane w tym przebiegu
		processed     = 0
	)

	for _, o := range orders {
		if ix.HasOrder(o.ID) {
			skipped += max(len(o.Items), 1)
			e.log.Debug().Str("order_id", o.ID).Msg("duplikat zamówienia — pomijam")
			continue
		}

		items := o.Items
		total := len(items)
		if total == 0 {
			// zamówienie bez pozycji dostaje jeden wiersz zastępczy
			items = []OrderItem{{Title: "No items found", Quantity: 0}}
		}

		for i, item := range items {
			if item.ASIN != "" {
				k := pairKey{orderID: o.ID, asin: item.ASIN}
				if ix.HasPair(o.ID, item.ASIN) {
					skipped++
					e.log.Debug().Str("order_id", o.ID).Str("asin", item.ASIN).
						Msg("para (zamówienie, ASIN) już w arkuszu — pomijam")
					continue
				}
				if _, dup := emitted[k]; dup {
					skipped++ // upstream zwrócił to samo zamówienie dwa razy w jednym fetchu
					continue
				}
				emitted[k] = struct{}{}
			}

			serial, ok := serialByOrder[o.ID]
			if !ok {
				// pierwszy przyjęty wiersz nowego zamówienia konsumuje numer;
				// kolejne pozycje (także z dalszych stron fetchu) go reużywają
				serial = next
				serialByOrder[o.ID] = serial
				next++
			}
			batch = append(batch, BuildRow(o, item, i+1, total, serial))
		}

		processed++
		if e.cfg.RateBatch > 0 && processed%e.cfg.RateBatch == 0 {
			e.log.Info().Int("processed", processed).Dur("pause", e.cfg.RatePause).
				Msg("rate limit: pauza")
			e.pause(ctx)
		}
	}

	if len(batch) == 0 {
		e.log.Info().Int("skipped", skipped).Msg("brak nowych wierszy do dopisania")
		return 0, skipped, nil
	}

	// jedna paczka, jeden zapis — przy błędzie nic nie jest uznane za
	// zapisane, następny przebieg wyliczy ten sam zestaw kandydatów
	if err := e.store.InsertRows(ctx, batch); err != nil {
		return 0, skipped, fmt.Errorf("%w: %v", ErrStoreAccess, err)
	}

	e.log.Info().
		Int("rows_added", len(batch)).
		Int("orders_new", len(serialByOrder)).
		Int("skipped", skipped).
		Msg("sync zakończony")
	return len(batch), skipped, nil
}

// pause czeka RatePause, ale nie blokuje zamknięcia procesu.
func (e *Engine) pause(ctx context.Context) {
	if e.cfg.RatePause <= 0 {
		return
	}
	t := time.NewTimer(e.cfg.RatePause)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
