package model

import "math"

// OrderStatus describes provider-side order lifecycle.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusAttempted OrderStatus = "attempted"
	OrderStatusPaid      OrderStatus = "paid"
)

// DefaultCurrency is used when order request omits currency.
const DefaultCurrency = "INR"

// MinorUnitsPerMajor converts request amounts to gateway amounts.
const MinorUnitsPerMajor = 100

// MaxOrderAmount is the largest major-unit amount whose minor-unit value
// fits in int64.
const MaxOrderAmount = math.MaxInt64 / MinorUnitsPerMajor

// Order mirrors order entity returned by payment gateway.
type Order struct {
	ID         string      `json:"id"`
	Entity     string      `json:"entity"`
	Amount     int64       `json:"amount"`
	AmountPaid int64       `json:"amount_paid"`
	AmountDue  int64       `json:"amount_due"`
	Currency   string      `json:"currency"`
	Receipt    string      `json:"receipt"`
	Status     OrderStatus `json:"status"`
	Attempts   int         `json:"attempts"`
	Notes      Notes       `json:"notes"`
	CreatedAt  int64       `json:"created_at"`
}

// OrderRequest describes order creation call to payment gateway.
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Notes    Notes  `json:"notes,omitempty"`
}

// CreateOrderInput holds validated checkout request.
type CreateOrderInput struct {
	Amount   int64
	Currency string
	UserID   string
}
