// internal/db/models.go
package db

import "time"

// sheet_rows — lustro regionu danych arkusza "Orders".
// Pos to pozycja wiersza w arkuszu: 0 = tuż pod nagłówkiem (najnowszy).
// Wstawienie paczki na górę przesuwa Pos wszystkich istniejących wierszy.
type SheetRow struct {
	RowID uint `gorm:"primaryKey;column:row_id"`
	Pos   int  `gorm:"index"`

	Serial       string
	PrintStatus  string
	SKUStatus    string `gorm:"column:sku_status"`
	OrderStatus  string
	ProductName  string
	Quantity     string
	OrderSummary string
	OrderID      string `gorm:"index"`
	PurchaseDate string
	ShipDate     string
	BuyerName    string
	ShipCity     string
	ShipState    string
	ASIN         string `gorm:"column:asin;index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time
}

// kv — drobny stan pomocniczy (np. znacznik ostatniego przebiegu)
type KV struct {
	K string `gorm:"primaryKey"`
	V string
}
