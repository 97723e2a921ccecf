// internal/reconcile/index.go
package reconcile

import (
	"strconv"
	"strings"

	"github.com/bartek5186/amz2sheets/internal/sheet"
	"github.com/rs/zerolog"
)

// BaseSerial to startowy numer seryjny dla GENUINNIE pustego magazynu
// (wartość biznesowa, kontynuacja ręcznie prowadzonego arkusza).
// Uwaga: to NIE jest dolny próg dla wartości wyliczonych — przycinanie
// niepustego wyniku do stałej powodowało kiedyś duplikaty numerów.
const BaseSerial = 193

type pairKey struct {
	orderID string
	asin    string
}

// Index to jednorazowy, tylko-do-odczytu indeks zawartości magazynu:
// znane zamówienia, znane pary (zamówienie, ASIN) i najwyższy numer seryjny.
// Budowany od zera na początku KAŻDEGO przebiegu — żadnego stanu między
// przebiegami.
type Index struct {
	orders    map[string]struct{}
	pairs     map[pairKey]struct{}
	maxSerial int
	hasSerial bool
	malformed int
}

// BuildIndex robi jedno przejście po wierszach magazynu. Wiersze krótsze niż
// schemat albo z nieparsowalnym numerem seryjnym są tylko ostrzeżeniem —
// nie wchodzą do wyliczeń, ale nie przerywają przebiegu.
func BuildIndex(log zerolog.Logger, rows []sheet.Row) *Index {
	ix := &Index{
		orders: make(map[string]struct{}, len(rows)),
		pairs:  make(map[pairKey]struct{}, len(rows)),
	}

	for i, r := range rows {
		if !r.Complete() {
			// wiersz spoza schematu nie wchodzi ani do deduplikacji,
			// ani do alokacji numerów — ale nie przerywa przebiegu
			ix.malformed++
			log.Warn().Int("row", i).Int("fields", len(r)).
				Msg("indeks: wiersz krótszy niż schemat — pomijam")
			continue
		}

		oid := strings.TrimSpace(r.Get(sheet.ColOrderID))
		if oid != "" && oid != sheet.Placeholder {
			ix.orders[oid] = struct{}{}
			asin := strings.TrimSpace(r.Get(sheet.ColASIN))
			if asin != "" && asin != sheet.Placeholder {
				ix.pairs[pairKey{orderID: oid, asin: asin}] = struct{}{}
			}
		}

		raw := strings.TrimSpace(r.Get(sheet.ColSerial))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			log.Warn().Int("row", i).Str("serial", raw).Msg("indeks: nienumeryczny Sr. No. — pomijam")
			continue
		}
		if !ix.hasSerial || n > ix.maxSerial {
			ix.maxSerial = n
		}
		ix.hasSerial = true
	}

	log.Debug().
		Int("orders", len(ix.orders)).
		Int("pairs", len(ix.pairs)).
		Int("max_serial", ix.maxSerial).
		Int("malformed", ix.malformed).
		Msg("indeks magazynu zbudowany")
	return ix
}

func (ix *Index) HasOrder(orderID string) bool {
	_, ok := ix.orders[orderID]
	return ok
}

func (ix *Index) HasPair(orderID, asin string) bool {
	_, ok := ix.pairs[pairKey{orderID: orderID, asin: asin}]
	return ok
}

// NextSerial wylicza pierwszy wolny numer seryjny przebiegu. Wołane RAZ na
// przebieg; dalej licznik rośnie wyłącznie w pamięci orkiestratora — magazyn
// i tak nie zmienia się aż do końcowego zapisu paczki, więc ponowny odczyt
// w trakcie przebiegu zwracałby w kółko tę samą wartość.
func (ix *Index) NextSerial() int {
	if !ix.hasSerial {
		return BaseSerial
	}
	return ix.maxSerial + 1
}
