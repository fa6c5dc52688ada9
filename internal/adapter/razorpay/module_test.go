package razorpay

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/aiblend-payments/internal/config"
)

func TestNewClientUsesConfig(t *testing.T) {
	cfg := &config.Config{
		RazorpayAPIURL:    "https://api.example.com",
		RazorpayKeyID:     "rzp_test",
		RazorpayKeySecret: "secret",
		GatewayTimeout:    3 * time.Second,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	client, err := newClient(clientParams{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	httpClient, ok := client.(*HTTPClient)
	if !ok {
		t.Fatalf("expected *HTTPClient, got %T", client)
	}
	if httpClient.httpClient.Timeout != 3*time.Second {
		t.Fatalf("expected timeout from config, got %v", httpClient.httpClient.Timeout)
	}
	if httpClient.keyID != "rzp_test" || httpClient.keySecret != "secret" {
		t.Fatal("expected credentials from config")
	}
}
