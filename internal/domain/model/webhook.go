package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PaymentEntityStatusCaptured is the provider status that grants an upgrade.
const PaymentEntityStatusCaptured = "captured"

// NoteUserID is the notes key carrying the local user identifier.
const NoteUserID = "userId"

// WebhookEvent mirrors payment gateway callback envelope.
type WebhookEvent struct {
	Entity    string         `json:"entity"`
	AccountID string         `json:"account_id"`
	Event     string         `json:"event"`
	Contains  []string       `json:"contains"`
	Payload   WebhookPayload `json:"payload"`
	CreatedAt int64          `json:"created_at"`
}

// WebhookPayload holds entities attached to webhook event.
type WebhookPayload struct {
	Payment *EntityEnvelope `json:"payment"`
}

// EntityEnvelope wraps a single provider entity. Raw bytes are kept so the
// full document can be persisted without losing unknown fields.
type EntityEnvelope struct {
	Entity json.RawMessage `json:"entity"`
}

// PaymentEntity lists payment fields inspected during reconciliation.
type PaymentEntity struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	OrderID   string `json:"order_id"`
	Method    string `json:"method"`
	Notes     Notes  `json:"notes"`
	CreatedAt int64  `json:"created_at"`
}

// Notes are free-form key/value annotations. The gateway renders empty
// notes as a JSON array, so both [] and {} decode.
type Notes map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (n *Notes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = nil
		return nil
	}
	if trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			return fmt.Errorf("notes: unexpected non-empty array")
		}
		*n = Notes{}
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	result := make(Notes, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			result[k] = val
		case nil:
			result[k] = ""
		default:
			result[k] = fmt.Sprint(val)
		}
	}
	*n = result
	return nil
}

// WebhookOutcome reports what webhook processing did.
type WebhookOutcome struct {
	Event     string
	PaymentID string
	UserID    string
	Applied   bool
	Reason    string
}

const (
	WebhookReasonApplied     = "applied"
	WebhookReasonNoPayment   = "no payment entity"
	WebhookReasonNotCaptured = "payment not captured"
	WebhookReasonNoUserID    = "payment notes missing userId"
)
