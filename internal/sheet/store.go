// internal/sheet/store.go
package sheet

import "context"

// Store to kontrakt tabelarycznego magazynu wierszy (Google Sheets albo
// lokalne lustro w bazie). Magazyn jest jedynym źródłem prawdy — silnik nie
// trzyma żadnego stanu między przebiegami, wszystko wylicza z ReadRows.
type Store interface {
	// ReadRows zwraca wszystkie wiersze danych (bez nagłówka), w kolejności
	// arkusza: najnowsze na górze.
	ReadRows(ctx context.Context) ([]Row, error)

	// InsertRows wstawia paczkę wierszy NA GÓRĘ regionu danych, zachowując
	// ich wzajemną kolejność. Jedna paczka = jeden zapis; częściowy sukces
	// nie jest raportowany jako sukces.
	InsertRows(ctx context.Context, rows []Row) error

	// UpdateFields nadpisuje wskazane pola jednego wiersza (indeks jak w
	// wyniku ReadRows, 0 = najnowszy). Pozostałe pola zostają nietknięte.
	UpdateFields(ctx context.Context, rowIndex int, fields map[Column]string) error
}
