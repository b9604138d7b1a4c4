package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	Income  TransactionType = "income"
	Outcome TransactionType = "outcome"
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Outcome
}

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// SignedAmount returns the amount negated for outcomes. Amount itself is never stored negative.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Outcome {
		return t.Amount.Neg()
	}
	return t.Amount
}
