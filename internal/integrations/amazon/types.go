// internal/integrations/amazon/types.go
package amazon

// Surowe kształty odpowiedzi SP-API (Orders v0). Tylko pola, które
// faktycznie konsumujemy.

type lwaTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type spOrdersResponse struct {
	Payload struct {
		Orders    []spOrder `json:"Orders"`
		NextToken string    `json:"NextToken"`
	} `json:"payload"`
}

type spOrderResponse struct {
	Payload spOrder `json:"payload"`
}

type spOrder struct {
	AmazonOrderID    string `json:"AmazonOrderId"`
	OrderStatus      string `json:"OrderStatus"`
	PurchaseDate     string `json:"PurchaseDate"` // 2025-07-30T18:13:35Z
	ShipDate         string `json:"ShipDate"`
	LatestShipDate   string `json:"LatestShipDate"`
	EarliestShipDate string `json:"EarliestShipDate"`
	BuyerInfo        struct {
		BuyerName string `json:"BuyerName"`
	} `json:"BuyerInfo"`
	ShippingAddress struct {
		City          string `json:"City"`
		StateOrRegion string `json:"StateOrRegion"`
	} `json:"ShippingAddress"`
}

type spOrderItemsResponse struct {
	Payload struct {
		OrderItems []spOrderItem `json:"OrderItems"`
		NextToken  string        `json:"NextToken"`
	} `json:"payload"`
}

type spOrderItem struct {
	Title           string `json:"Title"`
	ASIN            string `json:"ASIN"`
	QuantityOrdered int    `json:"QuantityOrdered"`
}

type spErrorResponse struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}
