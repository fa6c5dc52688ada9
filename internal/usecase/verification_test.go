package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	"github.com/polkiloo/aiblend-payments/internal/pkg/signature"
	"github.com/polkiloo/aiblend-payments/internal/storage/memory"
	testhelpers "github.com/polkiloo/aiblend-payments/internal/test"
)

const (
	testKeySecret     = "s3cr3t"
	testWebhookSecret = "whsec"
	// hex(HMAC_SHA256("s3cr3t", "order_1|pay_1"))
	knownGoodSignature = "c4ba7785e595b717abd8b4847eaf30e97f23acbdbe1b8f5cbbf17d28d63b068f"
)

type verificationFixture struct {
	store     *memory.Storage
	publisher *testhelpers.PublisherStub
	uc        *VerificationUseCase
}

func newVerificationFixture() *verificationFixture {
	store := memory.New()
	publisher := &testhelpers.PublisherStub{}
	reconciler := NewReconcileUseCase(store.Users(), store.Payments(), publisher, testLogger())
	uc := NewVerificationUseCase(signature.NewGatewayVerifier(testKeySecret, testWebhookSecret), reconciler, store.Payments(), testLogger())
	return &verificationFixture{store: store, publisher: publisher, uc: uc}
}

func TestVerifyPaymentKnownGoodSignatureUpgradesUser(t *testing.T) {
	f := newVerificationFixture()

	err := f.uc.VerifyPayment(context.Background(), model.PaymentConfirmation{
		OrderID:   "order_1",
		PaymentID: "pay_1",
		Signature: knownGoodSignature,
		UserID:    "u1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user, err := f.store.Users().Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("expected user document: %v", err)
	}
	if !user.ProStatus || user.LastPaymentID != "pay_1" || user.UpgradedAt == nil {
		t.Fatalf("unexpected user %+v", user)
	}
	if len(f.publisher.Published) != 1 || f.publisher.Published[0].Source != model.UpgradeSourceClient {
		t.Fatalf("expected client upgrade event, got %+v", f.publisher.Published)
	}
}

func TestVerifyPaymentMarksRecordCaptured(t *testing.T) {
	f := newVerificationFixture()
	record, err := f.store.Payments().Create(context.Background(), model.PaymentRecord{
		UserID: "u1", OrderID: "order_1", Amount: 500, Currency: "INR", Status: model.PaymentStatusCreated, CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := f.uc.VerifyPayment(context.Background(), model.PaymentConfirmation{
		OrderID: "order_1", PaymentID: "pay_1", Signature: knownGoodSignature, UserID: "u1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, _ := f.store.Document(memory.CollectionPayments, record.ID)
	if doc["status"] != "captured" || doc["paymentId"] != "pay_1" || doc["amount"] != float64(500) {
		t.Fatalf("unexpected payment document %v", doc)
	}
}

func TestVerifyPaymentTamperedSignatureLeavesUserUnchanged(t *testing.T) {
	f := newVerificationFixture()
	if err := f.store.Put(memory.CollectionUsers, "u1", map[string]any{"proStatus": false, "name": "Asha"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before, _ := f.store.Document(memory.CollectionUsers, "u1")

	tampered := []byte(knownGoodSignature)
	tampered[0] = 'd'
	err := f.uc.VerifyPayment(context.Background(), model.PaymentConfirmation{
		OrderID: "order_1", PaymentID: "pay_1", Signature: string(tampered), UserID: "u1",
	})
	if !errors.Is(err, domainErrors.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}

	after, _ := f.store.Document(memory.CollectionUsers, "u1")
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("user changed on rejected signature: %v -> %v", before, after)
	}
	if len(f.publisher.Published) != 0 {
		t.Fatal("no event expected on rejected signature")
	}
}

func TestVerifyPaymentRejectsWebhookSecretSignature(t *testing.T) {
	f := newVerificationFixture()
	wrongSecret := signature.NewHMACSigner(testWebhookSecret).Sign(signature.PaymentMessage("order_1", "pay_1"))

	err := f.uc.VerifyPayment(context.Background(), model.PaymentConfirmation{
		OrderID: "order_1", PaymentID: "pay_1", Signature: wrongSecret, UserID: "u1",
	})
	if !errors.Is(err, domainErrors.ErrInvalidSignature) {
		t.Fatalf("expected invalid signature, got %v", err)
	}
	if _, err := f.store.Users().Get(context.Background(), "u1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected no user document, got %v", err)
	}
}

func TestVerifyPaymentRepeatedConfirmationIsIdempotent(t *testing.T) {
	f := newVerificationFixture()
	confirmation := model.PaymentConfirmation{OrderID: "order_1", PaymentID: "pay_1", Signature: knownGoodSignature, UserID: "u1"}

	if err := f.uc.VerifyPayment(context.Background(), confirmation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, _ := f.store.Document(memory.CollectionUsers, "u1")

	f.uc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if err := f.uc.VerifyPayment(context.Background(), confirmation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := f.store.Document(memory.CollectionUsers, "u1")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical state, got %v then %v", first, second)
	}
}

func TestVerifyPaymentRequiresUserID(t *testing.T) {
	f := newVerificationFixture()
	err := f.uc.VerifyPayment(context.Background(), model.PaymentConfirmation{OrderID: "order_1", PaymentID: "pay_1", Signature: knownGoodSignature})
	if !errors.Is(err, domainErrors.ErrMissingUserID) {
		t.Fatalf("expected missing user id, got %v", err)
	}
}

func signedWebhook(body string) (string, []byte) {
	raw := []byte(body)
	return signature.NewHMACSigner(testWebhookSecret).Sign(raw), raw
}

func TestHandleWebhookCapturedUpgradesUser(t *testing.T) {
	f := newVerificationFixture()
	sig, body := signedWebhook(`{"entity":"event","event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_9","entity":"payment","amount":50000,"currency":"INR","status":"captured","order_id":"order_9","method":"upi","notes":{"userId":"u9"},"created_at":1700000000}}}}`)

	outcome, err := f.uc.HandleWebhook(context.Background(), body, sig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Applied || outcome.UserID != "u9" || outcome.PaymentID != "pay_9" || outcome.Reason != model.WebhookReasonApplied {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	payment, ok := f.store.Document(memory.CollectionPayments, "pay_9")
	if !ok {
		t.Fatal("expected payment document keyed by payment id")
	}
	if payment["method"] != "upi" || payment["order_id"] != "order_9" || payment["status"] != "captured" {
		t.Fatalf("expected full payment entity to be stored, got %v", payment)
	}

	user, err := f.store.Users().Get(context.Background(), "u9")
	if err != nil || !user.ProStatus || user.LastPaymentID != "pay_9" {
		t.Fatalf("unexpected user %+v err=%v", user, err)
	}
	if len(f.publisher.Published) != 1 || f.publisher.Published[0].Source != model.UpgradeSourceWebhook {
		t.Fatalf("expected webhook event, got %+v", f.publisher.Published)
	}
}

func TestHandleWebhookNoOpCases(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		reason string
	}{
		{
			name:   "not captured",
			body:   `{"event":"payment.authorized","payload":{"payment":{"entity":{"id":"pay_1","status":"authorized","notes":{"userId":"u1"}}}}}`,
			reason: model.WebhookReasonNotCaptured,
		},
		{
			name:   "no payment entity",
			body:   `{"event":"order.paid","payload":{"order":{"entity":{"id":"order_1"}}}}`,
			reason: model.WebhookReasonNoPayment,
		},
		{
			name:   "missing user note",
			body:   `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","status":"captured","notes":[]}}}}`,
			reason: model.WebhookReasonNoUserID,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newVerificationFixture()
			sig, body := signedWebhook(tc.body)

			outcome, err := f.uc.HandleWebhook(context.Background(), body, sig)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if outcome.Applied || outcome.Reason != tc.reason {
				t.Fatalf("unexpected outcome %+v", outcome)
			}
			if docs := f.store.Documents(memory.CollectionUsers); len(docs) != 0 {
				t.Fatalf("expected no user writes, got %v", docs)
			}
			if docs := f.store.Documents(memory.CollectionPayments); len(docs) != 0 {
				t.Fatalf("expected no payment writes, got %v", docs)
			}
		})
	}
}

func TestHandleWebhookRejectsBadSignatures(t *testing.T) {
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","status":"captured","notes":{"userId":"u1"}}}}}`)
	keySigned := signature.NewHMACSigner(testKeySecret).Sign(body)
	goodSig := signature.NewHMACSigner(testWebhookSecret).Sign(body)
	reformatted := []byte(`{"event": "payment.captured","payload":{"payment":{"entity":{"id":"pay_1","status":"captured","notes":{"userId":"u1"}}}}}`)

	cases := []struct {
		name string
		body []byte
		sig  string
	}{
		{name: "empty signature", body: body, sig: ""},
		{name: "key secret used", body: body, sig: keySigned},
		{name: "body reformatted", body: reformatted, sig: goodSig},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newVerificationFixture()
			if _, err := f.uc.HandleWebhook(context.Background(), tc.body, tc.sig); !errors.Is(err, domainErrors.ErrInvalidSignature) {
				t.Fatalf("expected invalid signature, got %v", err)
			}
			if docs := f.store.Documents(memory.CollectionUsers); len(docs) != 0 {
				t.Fatalf("expected no writes, got %v", docs)
			}
		})
	}
}

func TestHandleWebhookMalformedSignedBody(t *testing.T) {
	cases := []string{
		`not json`,
		`{"payload":{"payment":{"entity":"oops"}}}`,
		`{"payload":{"payment":{"entity":{"status":"captured","notes":{"userId":"u1"}}}}}`,
	}
	for _, body := range cases {
		f := newVerificationFixture()
		sig, raw := signedWebhook(body)
		if _, err := f.uc.HandleWebhook(context.Background(), raw, sig); !errors.Is(err, domainErrors.ErrInvalidPayload) {
			t.Fatalf("expected invalid payload for %s, got %v", body, err)
		}
	}
}

func TestHandleWebhookStoreError(t *testing.T) {
	storeErr := errors.New("store down")
	payments := &testhelpers.PaymentRepositoryStub{SaveCapturedFn: func(context.Context, string, map[string]any) error { return storeErr }}
	users := &testhelpers.UserRepositoryStub{}
	reconciler := NewReconcileUseCase(users, payments, &testhelpers.PublisherStub{}, testLogger())
	uc := NewVerificationUseCase(testhelpers.VerifierStub{WebhookValid: true}, reconciler, payments, testLogger())

	body := []byte(`{"payload":{"payment":{"entity":{"id":"pay_1","status":"captured","notes":{"userId":"u1"}}}}}`)
	if _, err := uc.HandleWebhook(context.Background(), body, "any"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(users.Upgrades) != 0 {
		t.Fatal("user must not be upgraded when payment write fails")
	}
}
