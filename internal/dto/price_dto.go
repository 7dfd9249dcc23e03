package dto

import (
	"github.com/SscSPs/currency_resolver/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertPriceRequest asks for an amount in another currency.
// An empty TargetCurrency means the currency resolved for the request.
type ConvertPriceRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	TargetCurrency string          `json:"targetCurrency" binding:"omitempty,len=3,uppercase"`
}

// ConvertPriceResponse holds both the source and the converted amounts.
type ConvertPriceResponse struct {
	Original  domain.Money `json:"original"`
	Converted domain.Money `json:"converted"`
}
