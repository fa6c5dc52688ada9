package model

import "time"

// UserAccount is the subset of a users document managed by payments.
type UserAccount struct {
	ID            string     `json:"-"`
	ProStatus     bool       `json:"proStatus"`
	LastPaymentID string     `json:"lastPaymentId,omitempty"`
	UpgradedAt    *time.Time `json:"upgradedAt,omitempty"`
}

// Upgrade describes pro entitlement granted by a verified payment.
type Upgrade struct {
	UserID     string
	PaymentID  string
	OrderID    string
	Source     UpgradeSource
	UpgradedAt time.Time
}

// UpgradeSource tells which verification path granted an upgrade.
type UpgradeSource string

const (
	UpgradeSourceClient  UpgradeSource = "client"
	UpgradeSourceWebhook UpgradeSource = "webhook"
)
