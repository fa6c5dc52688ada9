package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
	"github.com/polkiloo/aiblend-payments/internal/server/http/dto"
)

const (
	// SignatureHeader carries the webhook body signature.
	SignatureHeader = "X-Razorpay-Signature"

	maxWebhookBody = 1 << 20

	msgPaymentVerified         = "Payment verified successfully. User upgraded to Pro."
	msgInvalidSignature        = "Invalid signature"
	msgInvalidWebhookSignature = "Invalid webhook signature"
)

// PaymentHandler serves checkout and verification endpoints.
type PaymentHandler struct {
	orders       OrderFacade
	verification VerificationFacade
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(orders OrderFacade, verification VerificationFacade) *PaymentHandler {
	return &PaymentHandler{orders: orders, verification: verification}
}

// CreateOrder handles POST /payment/create-order.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), model.CreateOrderInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		UserID:   req.UserID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CreateOrderResponse{Success: true, Order: order})
}

// Verify handles client-side confirmation on POST /payment/verify.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	err := h.verification.VerifyPayment(c.Request.Context(), model.PaymentConfirmation{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		UserID:    req.UserID,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, dto.Message(false, msgInvalidSignature))
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Message(true, msgPaymentVerified))
}

// Webhook handles gateway callbacks. The body is read unparsed because the
// signature covers the exact bytes sent.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		if isBodyTooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, dto.Error(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, dto.Error("unable to read request body"))
		return
	}

	_, err = h.verification.HandleWebhook(c.Request.Context(), body, c.GetHeader(SignatureHeader))
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, dto.Message(false, msgInvalidWebhookSignature))
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
