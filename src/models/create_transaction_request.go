package models

import "github.com/shopspring/decimal"

type CreateTransactionRequest struct {
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0,money"`
	Category    string          `json:"category" validate:"required"`
	Type        TransactionType `json:"type" validate:"oneof=income outcome"`
}
