// internal/db/store.go
package db

import (
	"context"
	"fmt"

	"github.com/bartek5186/amz2sheets/internal/sheet"
	"gorm.io/gorm"
)

// Store implementuje sheet.Store na tabeli sheet_rows — to samo zachowanie
// co arkusz Google: najnowsze wiersze na górze, paczka wstawiana atomowo.
type Store struct {
	gdb *gorm.DB
}

func NewStore(gdb *gorm.DB) *Store {
	return &Store{gdb: gdb}
}

func (s *Store) ReadRows(ctx context.Context) ([]sheet.Row, error) {
	var recs []SheetRow
	if err := s.gdb.WithContext(ctx).Order("pos asc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("db: odczyt sheet_rows: %w", err)
	}
	rows := make([]sheet.Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, rec.toRow())
	}
	return rows, nil
}

func (s *Store) InsertRows(ctx context.Context, rows []sheet.Row) error {
	if len(rows) == 0 {
		return nil
	}
	return s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// zrób miejsce na górze
		if err := tx.Model(&SheetRow{}).
			Where("pos >= ?", 0).
			Update("pos", gorm.Expr("pos + ?", len(rows))).Error; err != nil {
			return fmt.Errorf("db: przesunięcie pozycji: %w", err)
		}
		recs := make([]SheetRow, 0, len(rows))
		for i, r := range rows {
			rec := fromRow(r)
			rec.Pos = i
			recs = append(recs, rec)
		}
		if err := tx.Create(&recs).Error; err != nil {
			return fmt.Errorf("db: insert %d wierszy: %w", len(recs), err)
		}
		return nil
	})
}

func (s *Store) UpdateFields(ctx context.Context, rowIndex int, fields map[sheet.Column]string) error {
	if len(fields) == 0 {
		return nil
	}
	updates := make(map[string]any, len(fields))
	for col, val := range fields {
		name, ok := columnField[col]
		if !ok {
			return fmt.Errorf("db: kolumna %d bez mapowania", col)
		}
		updates[name] = val
	}
	res := s.gdb.WithContext(ctx).Model(&SheetRow{}).Where("pos = ?", rowIndex).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("db: update wiersza pos=%d: %w", rowIndex, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("db: brak wiersza pos=%d", rowIndex)
	}
	return nil
}

// mapowanie kolumn schematu na kolumny tabeli
var columnField = map[sheet.Column]string{
	sheet.ColSerial:       "serial",
	sheet.ColPrintStatus:  "print_status",
	sheet.ColSKUStatus:    "sku_status",
	sheet.ColOrderStatus:  "order_status",
	sheet.ColProductName:  "product_name",
	sheet.ColQuantity:     "quantity",
	sheet.ColOrderSummary: "order_summary",
	sheet.ColOrderID:      "order_id",
	sheet.ColPurchaseDate: "purchase_date",
	sheet.ColShipDate:     "ship_date",
	sheet.ColBuyerName:    "buyer_name",
	sheet.ColShipCity:     "ship_city",
	sheet.ColShipState:    "ship_state",
	sheet.ColASIN:         "asin",
}

func (rec SheetRow) toRow() sheet.Row {
	r := sheet.NewRow()
	r.Set(sheet.ColSerial, rec.Serial)
	r.Set(sheet.ColPrintStatus, rec.PrintStatus)
	r.Set(sheet.ColSKUStatus, rec.SKUStatus)
	r.Set(sheet.ColOrderStatus, rec.OrderStatus)
	r.Set(sheet.ColProductName, rec.ProductName)
	r.Set(sheet.ColQuantity, rec.Quantity)
	r.Set(sheet.ColOrderSummary, rec.OrderSummary)
	r.Set(sheet.ColOrderID, rec.OrderID)
	r.Set(sheet.ColPurchaseDate, rec.PurchaseDate)
	r.Set(sheet.ColShipDate, rec.ShipDate)
	r.Set(sheet.ColBuyerName, rec.BuyerName)
	r.Set(sheet.ColShipCity, rec.ShipCity)
	r.Set(sheet.ColShipState, rec.ShipState)
	r.Set(sheet.ColASIN, rec.ASIN)
	return r
}

func fromRow(r sheet.Row) SheetRow {
	return SheetRow{
		Serial:       r.Get(sheet.ColSerial),
		PrintStatus:  r.Get(sheet.ColPrintStatus),
		SKUStatus:    r.Get(sheet.ColSKUStatus),
		OrderStatus:  r.Get(sheet.ColOrderStatus),
		ProductName:  r.Get(sheet.ColProductName),
		Quantity:     r.Get(sheet.ColQuantity),
		OrderSummary: r.Get(sheet.ColOrderSummary),
		OrderID:      r.Get(sheet.ColOrderID),
		PurchaseDate: r.Get(sheet.ColPurchaseDate),
		ShipDate:     r.Get(sheet.ColShipDate),
		BuyerName:    r.Get(sheet.ColBuyerName),
		ShipCity:     r.Get(sheet.ColShipCity),
		ShipState:    r.Get(sheet.ColShipState),
		ASIN:         r.Get(sheet.ColASIN),
	}
}
