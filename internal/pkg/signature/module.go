package signature

import (
	"go.uber.org/fx"

	"github.com/polkiloo/aiblend-payments/internal/config"
)

// Module provides signature verification via fx.
var Module = fx.Provide(newVerifier)

type verifierParams struct {
	fx.In

	Config *config.Config
}

func newVerifier(p verifierParams) Verifier {
	return NewGatewayVerifier(p.Config.RazorpayKeySecret, p.Config.RazorpayWebhookSecret)
}
