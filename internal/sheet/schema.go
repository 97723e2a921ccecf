// internal/sheet/schema.go
package sheet

import (
	"strings"
	"time"
)

// Kolumny arkusza "Orders" — JEDYNE źródło układu wiersza.
// Każdy komponent adresuje pola po nazwie logicznej, nigdy po gołym indeksie
// (zmiana liczby kolumn rozjeżdżała wcześniej niezależne ścieżki kodu).
type Column int

const (
	ColSerial Column = iota // Sr. No. — numer seryjny wspólny dla całego zamówienia
	ColPrintStatus
	ColSKUStatus
	ColOrderStatus
	ColProductName
	ColQuantity
	ColOrderSummary // "Item 1 of 3"
	ColOrderID      // klucz deduplikacji (poziom zamówienia)
	ColPurchaseDate
	ColShipDate
	ColBuyerName
	ColShipCity
	ColShipState
	ColASIN // klucz deduplikacji (poziom pozycji)

	ColumnCount
)

var columnNames = [ColumnCount]string{
	"Sr. No.",
	"Print Status",
	"SKU Status",
	"Order Status",
	"Product Name",
	"Quantity Ordered",
	"Order Summary",
	"Order ID",
	"Purchase Date",
	"Ship Date",
	"Buyer Name",
	"Ship City",
	"Ship State",
	"ASIN",
}

func (c Column) Name() string {
	if c < 0 || c >= ColumnCount {
		return ""
	}
	return columnNames[c]
}

// Header zwraca wiersz nagłówkowy arkusza.
func Header() []string {
	out := make([]string, ColumnCount)
	copy(out, columnNames[:])
	return out
}

// Domyślne wartości pól edytowalnych przez użytkownika — silnik ustawia je
// tylko raz, przy tworzeniu wiersza, i nigdy później ich nie nadpisuje.
const (
	DefaultPrintStatus = "Not Printed"
	DefaultSKUStatus   = "Not Packed"
)

// Placeholder zastępuje brakujące wartości z upstreamu.
const Placeholder = "N/A"

// Format daty w arkuszu, np. "Jul 30, 2025 06:13 PM".
const DateFormat = "Jan 02, 2006 03:04 PM"

// Lokalny czas arkusza (IST, jak w arkuszu produkcyjnym).
var SheetZone = time.FixedZone("IST", 5*3600+30*60)

func FormatTime(t time.Time) string {
	return t.In(SheetZone).Format(DateFormat)
}

// ParseTime parsuje datę zapisaną w arkuszu. Błąd oznacza wiersz nie do
// wykorzystania w oknie rekoncyliacji (nie jest to błąd całego przebiegu).
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, strings.TrimSpace(s), SheetZone)
}

// Row to jeden wiersz danych arkusza (bez nagłówka).
// Może pochodzić z zewnątrz, więc bywa krótszy niż schemat — Get toleruje braki.
type Row []string

func NewRow() Row {
	return make(Row, ColumnCount)
}

func (r Row) Get(c Column) string {
	if int(c) < 0 || int(c) >= len(r) {
		return ""
	}
	return r[c]
}

func (r Row) Set(c Column, v string) {
	if int(c) >= 0 && int(c) < len(r) {
		r[c] = v
	}
}

// Complete mówi, czy wiersz ma komplet pól schematu. Wiersze niekompletne
// nie wchodzą do indeksu deduplikacji ani do alokacji numerów seryjnych.
func (r Row) Complete() bool {
	return len(r) == int(ColumnCount)
}
