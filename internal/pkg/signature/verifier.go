package signature

// Verifier checks authenticity of payment confirmations.
type Verifier interface {
	VerifyPayment(orderID, paymentID, signature string) bool
	VerifyWebhook(body []byte, signature string) bool
}

// GatewayVerifier implements both verification protocols of the payment
// gateway. Client confirmations are signed with the API key secret, webhook
// bodies with the dedicated webhook secret; the two are never interchanged.
type GatewayVerifier struct {
	payment *HMACSigner
	webhook *HMACSigner
}

// NewGatewayVerifier constructs GatewayVerifier.
func NewGatewayVerifier(keySecret, webhookSecret string) *GatewayVerifier {
	return &GatewayVerifier{
		payment: NewHMACSigner(keySecret),
		webhook: NewHMACSigner(webhookSecret),
	}
}

// PaymentMessage builds the client confirmation message "orderID|paymentID".
func PaymentMessage(orderID, paymentID string) []byte {
	return []byte(orderID + "|" + paymentID)
}

// VerifyPayment checks client confirmation signature.
func (v *GatewayVerifier) VerifyPayment(orderID, paymentID, signature string) bool {
	return v.payment.Verify(PaymentMessage(orderID, paymentID), signature)
}

// VerifyWebhook checks signature over raw webhook body bytes.
func (v *GatewayVerifier) VerifyWebhook(body []byte, signature string) bool {
	return v.webhook.Verify(body, signature)
}
