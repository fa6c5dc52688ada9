package usecase

import (
	"strings"
	"unicode"

	domainErrors "github.com/polkiloo/aiblend-payments/internal/domain/errors"
	"github.com/polkiloo/aiblend-payments/internal/domain/model"
)

// NormalizeOrderInput validates checkout input and fills the default currency.
func NormalizeOrderInput(input model.CreateOrderInput, defaultCurrency string) (model.CreateOrderInput, error) {
	if input.Amount <= 0 || input.Amount > model.MaxOrderAmount {
		return input, domainErrors.ErrInvalidAmount
	}

	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return input, domainErrors.ErrMissingUserID
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if currency == "" {
		currency = model.DefaultCurrency
	}
	if !ValidateCurrencyCode(currency) {
		return input, domainErrors.ErrInvalidCurrency
	}
	input.Currency = currency

	return input, nil
}

// ValidateCurrencyCode checks that code looks like an ISO 4217 alphabetic code.
func ValidateCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r > unicode.MaxASCII || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
