package util

import (
	"github.com/shopspring/decimal"
)

func DecimalFromString(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewUtilError(ErrCodeInvalidDecimal, "invalid decimal", err, s)
	}
	return d, nil
}

// PositiveDecimalFromString parses s and rejects zero, negative and empty values.
func PositiveDecimalFromString(s string) (decimal.Decimal, error) {
	d, err := DecimalFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, NewUtilError(ErrCodeInvalidDecimal, "decimal must be positive", nil, s)
	}
	return d, nil
}
