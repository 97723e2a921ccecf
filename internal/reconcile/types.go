// internal/reconcile/types.go
package reconcile

import (
	"context"
	"errors"
	"time"
)

// Zamówienie z upstreamu, już znormalizowane do potrzeb silnika.
type Order struct {
	ID           string // AmazonOrderId — unikalny globalnie
	Status       string // Pending / Shipped / Canceled / ...
	PurchaseDate time.Time
	ShipDate     time.Time // zero = upstream nie podał
	BuyerName    string
	ShipCity     string
	ShipState    string
	Items        []OrderItem
}

type OrderItem struct {
	Title    string
	Quantity int
	ASIN     string
}

// StatusUpdate to wynik dociągnięcia bieżącego stanu jednego zamówienia
// (używane przez rekoncyliację statusów).
type StatusUpdate struct {
	Status   string
	ShipDate time.Time // zero = upstream nie podał
}

// Fetcher to kontrakt źródła zamówień. Nie robi retry — decyzja o ponowieniu
// należy do wywołującego (w praktyce: następny tick harmonogramu).
type Fetcher interface {
	// RecentOrders zwraca zamówienia złożone po `since`, z pozycjami,
	// w stabilnej kolejności upstreamu.
	RecentOrders(ctx context.Context, since time.Time) ([]Order, error)

	// OrderStatus dociąga bieżący status i datę wysyłki jednego zamówienia.
	OrderStatus(ctx context.Context, orderID string) (StatusUpdate, error)
}

// Taksonomia błędów przebiegu — oba przerywają przebieg bez częściowych
// zapisów; ponowienie jest bezpieczne, bo stan wylicza się od nowa z magazynu.
var (
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	ErrStoreAccess   = errors.New("store access failed")
)
