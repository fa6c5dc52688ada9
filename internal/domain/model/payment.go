package model

import "time"

// PaymentStatus describes local payment record lifecycle.
type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// FailureReasonExpired marks records failed by the order expirer.
const FailureReasonExpired = "expired"

// PaymentRecord is a document in the payments collection.
type PaymentRecord struct {
	ID            string        `json:"-"`
	UserID        string        `json:"userId"`
	OrderID       string        `json:"orderId"`
	PaymentID     string        `json:"paymentId,omitempty"`
	Amount        int64         `json:"amount"`
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	FailureReason string        `json:"failureReason,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

// PaymentConfirmation carries client-side checkout confirmation.
type PaymentConfirmation struct {
	OrderID   string
	PaymentID string
	Signature string
	UserID    string
}
