package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const CurrencyBRL = "BRL"

// Money is an amount in the smallest currency unit.
type Money struct {
	amountInCents int64
	currency      string
}

func NewMoney(amountInCents int64, currency string) Money {
	if currency == "" {
		currency = CurrencyBRL
	}
	return Money{amountInCents: amountInCents, currency: currency}
}

// MoneyFromDecimal rounds a gateway amount such as Asaas' 59.9 half-up to cents.
func MoneyFromDecimal(amount decimal.Decimal, currency string) Money {
	cents := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return NewMoney(cents, currency)
}

// ParseMoney parses "59.90" style input.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return MoneyFromDecimal(d, currency), nil
}

func (m Money) AmountInCents() int64 {
	return m.amountInCents
}

func (m Money) Currency() string {
	return m.currency
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amountInCents, -2)
}

func (m Money) IsPositive() bool {
	return m.amountInCents > 0
}

func (m Money) IsZero() bool {
	return m.amountInCents == 0
}

func (m Money) Equals(other Money) bool {
	return m.amountInCents == other.amountInCents && m.currency == other.currency
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal().StringFixed(2), m.currency)
}
