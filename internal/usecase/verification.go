package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	"github.com/polkiloo/aiblend-payments/internal/domain/repository"
	"github.com/polkiloo/aiblend-payments/internal/pkg/signature"
)

// VerificationUseCase authenticates payment confirmations before any
// state is touched.
type VerificationUseCase struct {
	verifier   signature.Verifier
	reconciler *ReconcileUseCase
	payments   repository.PaymentRepository
	now        func() time.Time
	logger     *slog.Logger
}

// NewVerificationUseCase constructs VerificationUseCase.
func NewVerificationUseCase(verifier signature.Verifier, reconciler *ReconcileUseCase, payments repository.PaymentRepository, logger *slog.Logger) *VerificationUseCase {
	return &VerificationUseCase{
		verifier:   verifier,
		reconciler: reconciler,
		payments:   payments,
		now:        time.Now,
		logger:     logger,
	}
}

// VerifyPayment checks a client confirmation and upgrades the user.
func (u *VerificationUseCase) VerifyPayment(ctx context.Context, confirmation model.PaymentConfirmation) error {
	if strings.TrimSpace(confirmation.UserID) == "" {
		return domainErrors.ErrMissingUserID
	}

	if !u.verifier.VerifyPayment(confirmation.OrderID, confirmation.PaymentID, confirmation.Signature) {
		u.logger.Warn("payment signature mismatch",
			slog.String("order_id", confirmation.OrderID),
			slog.String("payment_id", confirmation.PaymentID),
		)
		return domainErrors.ErrInvalidSignature
	}

	return u.reconciler.Apply(ctx, model.Upgrade{
		UserID:     confirmation.UserID,
		PaymentID:  confirmation.PaymentID,
		OrderID:    confirmation.OrderID,
		Source:     model.UpgradeSourceClient,
		UpgradedAt: u.now().UTC(),
	})
}

// HandleWebhook checks the callback signature over the exact body bytes
// and reconciles captured payments.
func (u *VerificationUseCase) HandleWebhook(ctx context.Context, body []byte, sig string) (*model.WebhookOutcome, error) {
	if !u.verifier.VerifyWebhook(body, sig) {
		u.logger.Warn("webhook signature mismatch", slog.Int("body_size", len(body)))
		return nil, domainErrors.ErrInvalidSignature
	}

	var event model.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrInvalidPayload, err)
	}

	outcome := &model.WebhookOutcome{Event: event.Event}
	if event.Payload.Payment == nil || len(event.Payload.Payment.Entity) == 0 {
		outcome.Reason = model.WebhookReasonNoPayment
		return outcome, nil
	}

	raw := event.Payload.Payment.Entity
	var payment model.PaymentEntity
	if err := json.Unmarshal(raw, &payment); err != nil {
		return nil, fmt.Errorf("%w: payment entity: %v", domainErrors.ErrInvalidPayload, err)
	}
	outcome.PaymentID = payment.ID

	if payment.Status != model.PaymentEntityStatusCaptured {
		outcome.Reason = model.WebhookReasonNotCaptured
		return outcome, nil
	}

	userID := strings.TrimSpace(payment.Notes[model.NoteUserID])
	if userID == "" {
		u.logger.Warn("captured payment without userId note",
			slog.String("event", event.Event),
			slog.String("payment_id", payment.ID),
			slog.String("order_id", payment.OrderID),
		)
		outcome.Reason = model.WebhookReasonNoUserID
		return outcome, nil
	}
	outcome.UserID = userID

	if payment.ID == "" {
		return nil, fmt.Errorf("%w: payment entity without id", domainErrors.ErrInvalidPayload)
	}

	var document map[string]any
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("%w: payment entity: %v", domainErrors.ErrInvalidPayload, err)
	}
	if err := u.payments.SaveCaptured(ctx, payment.ID, document); err != nil {
		return nil, err
	}

	if err := u.reconciler.Apply(ctx, model.Upgrade{
		UserID:     userID,
		PaymentID:  payment.ID,
		OrderID:    payment.OrderID,
		Source:     model.UpgradeSourceWebhook,
		UpgradedAt: u.now().UTC(),
	}); err != nil {
		return nil, err
	}

	outcome.Applied = true
	outcome.Reason = model.WebhookReasonApplied
	return outcome, nil
}
