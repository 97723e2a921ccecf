package reconcile

import (
	"testing"
	"time"

	"github.com/bartek5186/amz2sheets/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() Order {
	return Order{
		ID:           "171-1234567-7654321",
		Status:       "Pending",
		PurchaseDate: time.Date(2025, 7, 30, 18, 13, 35, 0, time.UTC),
		BuyerName:    "Jan Testowy",
		ShipCity:     "Mumbai",
		ShipState:    "Maharashtra",
	}
}

func TestBuildRowLayout(t *testing.T) {
	o := sampleOrder()
	item := OrderItem{Title: "Kabel USB-C 2m", Quantity: 2, ASIN: "B0ABCD1234"}

	r := BuildRow(o, item, 1, 1, 212)

	require.True(t, r.Complete(), "wiersz musi mieć komplet pól schematu")
	assert.Equal(t, "212", r.Get(sheet.ColSerial))
	assert.Equal(t, sheet.DefaultPrintStatus, r.Get(sheet.ColPrintStatus))
	assert.Equal(t, sheet.DefaultSKUStatus, r.Get(sheet.ColSKUStatus))
	assert.Equal(t, "Pending", r.Get(sheet.ColOrderStatus))
	assert.Equal(t, "Kabel USB-C 2m", r.Get(sheet.ColProductName))
	assert.Equal(t, "2", r.Get(sheet.ColQuantity))
	assert.Equal(t, "Item 1 of 1", r.Get(sheet.ColOrderSummary))
	assert.Equal(t, "171-1234567-7654321", r.Get(sheet.ColOrderID))
	// 18:13 UTC = 23:43 IST
	assert.Equal(t, "Jul 30, 2025 11:43 PM", r.Get(sheet.ColPurchaseDate))
	assert.Equal(t, "Pending", r.Get(sheet.ColShipDate))
	assert.Equal(t, "Jan Testowy", r.Get(sheet.ColBuyerName))
	assert.Equal(t, "Mumbai", r.Get(sheet.ColShipCity))
	assert.Equal(t, "Maharashtra", r.Get(sheet.ColShipState))
	assert.Equal(t, "B0ABCD1234", r.Get(sheet.ColASIN))
}

func TestBuildRowShippedBecomesOrdered(t *testing.T) {
	o := sampleOrder()
	o.Status = "Shipped"
	r := BuildRow(o, OrderItem{Title: "X", Quantity: 1, ASIN: "B0A"}, 1, 1, 193)
	assert.Equal(t, "Ordered", r.Get(sheet.ColOrderStatus))
	assert.Equal(t, "Shipped (Date TBD)", r.Get(sheet.ColShipDate))
}

func TestBuildRowShipDateFromUpstream(t *testing.T) {
	o := sampleOrder()
	o.Status = "Shipped"
	o.ShipDate = time.Date(2025, 8, 2, 9, 0, 0, 0, time.UTC)
	r := BuildRow(o, OrderItem{Title: "X", Quantity: 1, ASIN: "B0A"}, 1, 1, 193)
	assert.Equal(t, "Aug 02, 2025 02:30 PM", r.Get(sheet.ColShipDate))
}

func TestOrderSummaryVariants(t *testing.T) {
	assert.Equal(t, "Single Item", orderSummary(1, 0))
	assert.Equal(t, "Item 1 of 1", orderSummary(1, 1))
	assert.Equal(t, "Item 2 of 3 (SAME ORDER)", orderSummary(2, 3))
}

func TestBuildRowPlaceholders(t *testing.T) {
	o := sampleOrder()
	o.BuyerName = ""
	o.ShipCity = " "
	o.ShipState = ""
	r := BuildRow(o, OrderItem{Title: "", Quantity: 0, ASIN: ""}, 1, 0, 193)

	assert.Equal(t, sheet.Placeholder, r.Get(sheet.ColProductName))
	assert.Equal(t, sheet.Placeholder, r.Get(sheet.ColBuyerName))
	assert.Equal(t, sheet.Placeholder, r.Get(sheet.ColShipCity))
	assert.Equal(t, sheet.Placeholder, r.Get(sheet.ColShipState))
	assert.Equal(t, sheet.Placeholder, r.Get(sheet.ColASIN))
	assert.Equal(t, "0", r.Get(sheet.ColQuantity))
}

func TestShipDateTextByStatus(t *testing.T) {
	cases := map[string]string{
		"Pending":   "Pending",
		"Unshipped": "Pending",
		"Shipped":   "Shipped (Date TBD)",
		"Ordered":   "Shipped (Date TBD)",
		"Delivered": "Delivered (Date TBD)",
		"Canceled":  "Canceled",
		"Cancelled": "Canceled",
		"cokolwiek": sheet.Placeholder,
	}
	for status, want := range cases {
		assert.Equal(t, want, shipDateText(status, time.Time{}), "status %s", status)
	}
}
