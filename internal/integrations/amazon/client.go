// internal/integrations/amazon/client.go
package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bartek5186/amz2sheets/internal/reconcile"
	"github.com/rs/zerolog"
)

const (
	lwaTokenURL     = "https://api.amazon.com/auth/o2/token"
	defaultEndpoint = "https://sellingpartnerapi-eu.amazon.com"
	marketplaceIN   = "A21TJRUUN4KGV"
)

// Client implementuje reconcile.Fetcher na SP-API (Orders v0).
// Bez retry — o ponowieniu decyduje orkiestrator (następny tick).
type Client struct {
	log  zerolog.Logger
	cfg  Config
	http *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

func newClient(log zerolog.Logger, cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.MarketplaceID == "" {
		cfg.MarketplaceID = marketplaceIN
	}
	return &Client{
		log:  log,
		cfg:  cfg,
		http: &http.Client{Timeout: 20 * time.Second},
	}
}

// accessToken wymienia refresh token na token dostępu LWA; wynik jest
// cache'owany do wygaśnięcia (z minutowym zapasem).
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp.Add(-time.Minute)) {
		return c.token, nil
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {c.cfg.RefreshToken},
		"client_id":     {c.cfg.LWAAppID},
		"client_secret": {c.cfg.LWAClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, lwaTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("lwa: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lwa: http %d (sprawdź credentials)", resp.StatusCode)
	}

	var tok lwaTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("lwa: decode: %w", err)
	}
	c.token = tok.AccessToken
	c.tokenExp = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	tok, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "amz2sheets/1.0")
	req.Header.Set("x-amz-access-token", tok)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("sp-api: rate limit (http 429)")
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr spErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if len(apiErr.Errors) > 0 {
			return fmt.Errorf("sp-api: http %d: %s (%s)", resp.StatusCode, apiErr.Errors[0].Message, apiErr.Errors[0].Code)
		}
		return fmt.Errorf("sp-api: http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// RecentOrders pobiera zamówienia złożone po `since`, strona po stronie,
// i dociąga pozycje każdego z nich.
func (c *Client) RecentOrders(ctx context.Context, since time.Time) ([]reconcile.Order, error) {
	var out []reconcile.Order

	nextToken := ""
	for {
		u, _ := url.Parse(c.cfg.Endpoint)
		u.Path = "/orders/v0/orders"
		q := u.Query()
		if nextToken != "" {
			q.Set("NextToken", nextToken)
		} else {
			q.Set("MarketplaceIds", c.cfg.MarketplaceID)
			q.Set("CreatedAfter", since.UTC().Format(time.RFC3339))
			q.Set("MaxResultsPerPage", "50")
		}
		u.RawQuery = q.Encode()

		var page spOrdersResponse
		if err := c.getJSON(ctx, u.String(), &page); err != nil {
			return nil, fmt.Errorf("orders page: %w", err)
		}

		for _, so := range page.Payload.Orders {
			items, err := c.orderItems(ctx, so.AmazonOrderID)
			if err != nil {
				return nil, fmt.Errorf("order %s items: %w", so.AmazonOrderID, err)
			}
			out = append(out, mapOrder(so, items))
		}

		nextToken = page.Payload.NextToken
		if nextToken == "" {
			break
		}
	}
	return out, nil
}

func (c *Client) orderItems(ctx context.Context, orderID string) ([]reconcile.OrderItem, error) {
	var out []reconcile.OrderItem

	nextToken := ""
	for {
		u, _ := url.Parse(c.cfg.Endpoint)
		u.Path = fmt.Sprintf("/orders/v0/orders/%s/orderItems", orderID)
		if nextToken != "" {
			q := u.Query()
			q.Set("NextToken", nextToken)
			u.RawQuery = q.Encode()
		}

		var page spOrderItemsResponse
		if err := c.getJSON(ctx, u.String(), &page); err != nil {
			return nil, err
		}
		for _, it := range page.Payload.OrderItems {
			out = append(out, reconcile.OrderItem{
				Title:    it.Title,
				Quantity: it.QuantityOrdered,
				ASIN:     it.ASIN,
			})
		}
		nextToken = page.Payload.NextToken
		if nextToken == "" {
			break
		}
	}
	return out, nil
}

// OrderStatus dociąga bieżący stan jednego zamówienia (rekoncyliacja).
// Data wysyłki tylko z pola ShipDate — szacunki (Latest/Earliest) nie
// nadpisują istniejących wartości w arkuszu.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (reconcile.StatusUpdate, error) {
	u, _ := url.Parse(c.cfg.Endpoint)
	u.Path = fmt.Sprintf("/orders/v0/orders/%s", orderID)

	var resp spOrderResponse
	if err := c.getJSON(ctx, u.String(), &resp); err != nil {
		return reconcile.StatusUpdate{}, err
	}
	return reconcile.StatusUpdate{
		Status:   resp.Payload.OrderStatus,
		ShipDate: parseSPTime(resp.Payload.ShipDate),
	}, nil
}

func mapOrder(so spOrder, items []reconcile.OrderItem) reconcile.Order {
	return reconcile.Order{
		ID:           so.AmazonOrderID,
		Status:       so.OrderStatus,
		PurchaseDate: parseSPTime(so.PurchaseDate),
		ShipDate:     firstShipDate(so),
		BuyerName:    so.BuyerInfo.BuyerName,
		ShipCity:     so.ShippingAddress.City,
		ShipState:    so.ShippingAddress.StateOrRegion,
		Items:        items,
	}
}

// firstShipDate: przy tworzeniu wiersza bierzemy pierwszą dostępną datę
// wysyłki, z szacunkami włącznie (tak wypełniał się arkusz historycznie).
func firstShipDate(so spOrder) time.Time {
	for _, s := range []string{so.ShipDate, so.LatestShipDate, so.EarliestShipDate} {
		if t := parseSPTime(s); !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

func parseSPTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
