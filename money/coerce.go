package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ToMoney converts a value in major units (e.g. dollars) into Money with
// precision implied digits, rounding half away from zero. A blank currency
// falls back to the default currency.
//
// nil, a nil *decimal.Decimal and blank strings are absent values and yield
// a nil Money and no error.
func ToMoney(value any, currency string, precision int) (*Money, error) {
	return toMoney(nil, value, currency, precision)
}

// ToMoney is like the package level ToMoney but binds the result to c.
func (c *Context) ToMoney(value any, currency string, precision int) (*Money, error) {
	return toMoney(c, value, currency, precision)
}

func toMoney(c *Context, value any, currency string, precision int) (*Money, error) {
	if precision < 0 {
		return nil, ErrInvalidOperation.WithDetails(fmt.Sprintf("negative precision %d", precision))
	}
	d, ok, err := toDecimal(value)
	if err != nil || !ok {
		return nil, err
	}
	if currency == "" {
		if c != nil {
			currency = c.DefaultCurrency()
		} else {
			currency = DefaultContext().DefaultCurrency()
		}
	}
	m, err := tryNewMoney(c, d.Shift(int32(precision)), currency, precision)
	if err != nil {
		return nil, ErrInvalidAmount.WithDetails(value).WithCause(err)
	}
	return &m, nil
}

func toDecimal(value any) (decimal.Decimal, bool, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, false, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return decimal.Zero, false, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false, ErrInvalidAmount.WithDetails(v).WithCause(err)
		}
		return d, true, nil
	case int:
		return decimal.NewFromInt(int64(v)), true, nil
	case int32:
		return decimal.NewFromInt32(v), true, nil
	case int64:
		return decimal.NewFromInt(v), true, nil
	case float32:
		if _, _, err := fromFloat(float64(v)); err != nil {
			return decimal.Zero, false, err
		}
		return decimal.NewFromFloat32(v), true, nil
	case float64:
		return fromFloat(v)
	case decimal.Decimal:
		return v, true, nil
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, false, nil
		}
		return *v, true, nil
	}
	return decimal.Zero, false, ErrInvalidAmount.WithDetails(fmt.Sprintf("unsupported type %T", value))
}

func fromFloat(f float64) (decimal.Decimal, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false, ErrInvalidAmount.WithDetails(f)
	}
	return decimal.NewFromFloat(f), true, nil
}
