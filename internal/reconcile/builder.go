// internal/reconcile/builder.go
package reconcile

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bartek5186/amz2sheets/internal/sheet"
)

// BuildRow składa jeden wiersz arkusza z zamówienia i jednej jego pozycji.
// Czysta funkcja: bez I/O, bez stanu współdzielonego — formatowanie jest
// deterministyczne. itemNo liczy się od 1, total to liczba pozycji zamówienia.
func BuildRow(o Order, item OrderItem, itemNo, total, serial int) sheet.Row {
	r := sheet.NewRow()
	r.Set(sheet.ColSerial, strconv.Itoa(serial))
	r.Set(sheet.ColPrintStatus, sheet.DefaultPrintStatus)
	r.Set(sheet.ColSKUStatus, sheet.DefaultSKUStatus)
	r.Set(sheet.ColOrderStatus, normalizeStatus(o.Status))
	r.Set(sheet.ColProductName, orPlaceholder(item.Title))
	r.Set(sheet.ColQuantity, strconv.Itoa(item.Quantity))
	r.Set(sheet.ColOrderSummary, orderSummary(itemNo, total))
	r.Set(sheet.ColOrderID, o.ID)
	r.Set(sheet.ColPurchaseDate, sheet.FormatTime(o.PurchaseDate))
	r.Set(sheet.ColShipDate, shipDateText(o.Status, o.ShipDate))
	r.Set(sheet.ColBuyerName, orPlaceholder(o.BuyerName))
	r.Set(sheet.ColShipCity, orPlaceholder(o.ShipCity))
	r.Set(sheet.ColShipState, orPlaceholder(o.ShipState))
	r.Set(sheet.ColASIN, orPlaceholder(item.ASIN))
	return r
}

func orderSummary(itemNo, total int) string {
	switch {
	case total <= 0:
		// zamówienie bez pozycji — pojedynczy wiersz zastępczy
		return "Single Item"
	case total == 1:
		return "Item 1 of 1"
	default:
		// dopisek odróżnia wiersze tej samej paczki przy pakowaniu
		return fmt.Sprintf("Item %d of %d (SAME ORDER)", itemNo, total)
	}
}

// normalizeStatus ujednolica status upstreamu do wartości arkusza:
// "Shipped" w arkuszu funkcjonuje jako "Ordered" (konwencja pakowalni).
func normalizeStatus(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return sheet.Placeholder
	}
	if strings.EqualFold(s, "Shipped") {
		return "Ordered"
	}
	return s
}

// shipDateText wyprowadza pole Ship Date: konkretna data jeśli upstream ją
// podał, inaczej placeholder zależny od statusu.
func shipDateText(status string, shipDate time.Time) string {
	if !shipDate.IsZero() {
		return sheet.FormatTime(shipDate)
	}
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "pending", "unshipped", "partiallyshipped":
		return "Pending"
	case "shipped", "ordered":
		return "Shipped (Date TBD)"
	case "delivered", "invoiceunconfirmed":
		return "Delivered (Date TBD)"
	case "canceled", "cancelled":
		return "Canceled"
	default:
		return sheet.Placeholder
	}
}

func orPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return sheet.Placeholder
	}
	return s
}
