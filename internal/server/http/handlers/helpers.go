package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/server/http/dto"
)

func isValidationError(err error) bool {
	return errors.Is(err, domainErrors.ErrInvalidAmount) ||
		errors.Is(err, domainErrors.ErrInvalidCurrency) ||
		errors.Is(err, domainErrors.ErrMissingUserID) ||
		errors.Is(err, domainErrors.ErrInvalidPayload)
}

// writeBindError answers a request whose body could not be bound.
func writeBindError(c *gin.Context, err error) {
	if isBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, dto.Error(err.Error()))
		return
	}
	c.JSON(http.StatusBadRequest, dto.Error(dto.ValidationMessage(err)))
}

func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

// writeError maps domain errors to the JSON error envelope.
func writeError(c *gin.Context, err error) {
	if isValidationError(err) {
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.Error(err.Error()))
}
