package models

import "github.com/shopspring/decimal"

type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Outcome decimal.Decimal `json:"outcome"`
	Total   decimal.Decimal `json:"total"`
}

func Summarize(transactions []Transaction) Summary {
	var s Summary
	for _, t := range transactions {
		switch t.Type {
		case Income:
			s.Income = s.Income.Add(t.Amount)
		case Outcome:
			s.Outcome = s.Outcome.Add(t.Amount)
		}
	}
	s.Total = s.Income.Sub(s.Outcome)
	return s
}
