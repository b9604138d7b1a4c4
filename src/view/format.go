package view

import (
	"dtmoney-server/src/models"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders d as Brazilian reais, e.g. R$ 12.000,00.
func FormatCurrency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	fixed := d.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + cents
}

// FormatPrice renders the amount of t with its sign, e.g. -R$ 59,00 for an outcome.
func FormatPrice(t models.Transaction) string {
	return FormatCurrency(t.SignedAmount())
}

func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
