package dto

// CreateOrderRequest is the body of POST /payment/create-order.
// Amount is expressed in major currency units. Currency is normalised and
// checked by the order use case.
type CreateOrderRequest struct {
	Amount   int64  `json:"amount" binding:"required,gt=0,lte=92233720368547758"`
	Currency string `json:"currency"`
	UserID   string `json:"userId" binding:"required"`
}

// VerifyPaymentRequest is the client-side checkout confirmation.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
}
