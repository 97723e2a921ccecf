// internal/reconcile/status.go
package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/bartek5186/amz2sheets/internal/sheet"
)

// ReconcileStatuses to osobny przebieg po ISTNIEJĄCYCH wierszach: dla
// zamówień kupionych w oknie rekoncyliacji dociąga bieżący status i datę
// wysyłki, i nadpisuje WYŁĄCZNIE te dwa pola — i tylko gdy się różnią.
// Pola edytowalne przez użytkownika (Print/SKU Status) nigdy nie są ruszane.
func (e *Engine) ReconcileStatuses(ctx context.Context) (updated int, err error) {
	rows, err := e.store.ReadRows(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreAccess, err)
	}
	cutoff := e.now().Add(-e.cfg.ReconcileWindow)

	// jedno dociągnięcie na zamówienie — wiersze tego samego zamówienia
	// dzielą wynik (i ewentualny błąd)
	fetched := map[string]*StatusUpdate{}

	for i, r := range rows {
		oid := strings.TrimSpace(r.Get(sheet.ColOrderID))
		if oid == "" || oid == sheet.Placeholder {
			continue
		}
		purchased, perr := sheet.ParseTime(r.Get(sheet.ColPurchaseDate))
		if perr != nil {
			e.log.Warn().Int("row", i).Str("order_id", oid).
				Str("purchase_date", r.Get(sheet.ColPurchaseDate)).
				Msg("rekoncyliacja: nieparsowalna data zakupu — pomijam wiersz")
			continue
		}
		if purchased.Before(cutoff) {
			continue // poza oknem rekoncyliacji
		}

		upd, seen := fetched[oid]
		if !seen {
			u, ferr := e.fetch.OrderStatus(ctx, oid)
			if ferr != nil {
				// błąd jednego zamówienia nie przerywa reszty przebiegu
				e.log.Warn().Err(ferr).Str("order_id", oid).
					Msg("rekoncyliacja: nie udało się dociągnąć statusu — pomijam")
				fetched[oid] = nil
				continue
			}
			u.Status = normalizeStatus(u.Status)
			upd = &u
			fetched[oid] = upd
		}
		if upd == nil {
			continue // fetch tego zamówienia już raz zawiódł
		}

		fields := map[sheet.Column]string{}
		current := strings.TrimSpace(r.Get(sheet.ColOrderStatus))
		if upd.Status != "" && upd.Status != sheet.Placeholder && upd.Status != current {
			fields[sheet.ColOrderStatus] = upd.Status
		}
		// datę wysyłki nadpisujemy tylko gdy upstream podał konkretną datę
		if !upd.ShipDate.IsZero() {
			shipText := sheet.FormatTime(upd.ShipDate)
			if shipText != strings.TrimSpace(r.Get(sheet.ColShipDate)) {
				fields[sheet.ColShipDate] = shipText
			}
		}
		if len(fields) == 0 {
			continue // stan zgodny — przebieg idempotentny
		}

		if to, changed := fields[sheet.ColOrderStatus]; changed && notableTransition(current, to) {
			e.log.Warn().Str("order_id", oid).Str("from", current).Str("to", to).
				Msg("istotna zmiana statusu zamówienia")
		} else {
			e.log.Debug().Str("order_id", oid).Interface("fields", fieldNames(fields)).
				Msg("rekoncyliacja: aktualizuję wiersz")
		}

		if uerr := e.store.UpdateFields(ctx, i, fields); uerr != nil {
			return updated, fmt.Errorf("%w: %v", ErrStoreAccess, uerr)
		}
		updated++
	}

	if updated > 0 {
		e.log.Info().Int("rows_updated", updated).Msg("rekoncyliacja statusów zakończona")
	}
	return updated, nil
}

// notableTransition wskazuje przejścia statusu warte głośnego logu:
// Pending→Ordered, Pending→Canceled, Ordered→Canceled. Reszta przechodzi
// po cichu.
func notableTransition(from, to string) bool {
	f, t := strings.ToLower(from), strings.ToLower(to)
	cancelled := t == "canceled" || t == "cancelled"
	switch f {
	case "pending":
		return t == "ordered" || t == "shipped" || cancelled
	case "ordered", "shipped":
		return cancelled
	}
	return false
}

func fieldNames(fields map[sheet.Column]string) []string {
	out := make([]string, 0, len(fields))
	for c := range fields {
		out = append(out, c.Name())
	}
	return out
}
