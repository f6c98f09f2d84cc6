package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Parse reads the "<amount> <currency>" form produced by
// m.String() + " " + m.Currency(), e.g. "5.70 CAD". The precision is the
// number of fractional digits written.
func Parse(s string) (Money, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Money{}, ErrInvalidAmount.WithDetails(s)
	}
	d, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Money{}, ErrInvalidAmount.WithDetails(s).WithCause(err)
	}
	precision := 0
	if i := strings.IndexByte(fields[0], '.'); i >= 0 {
		precision = len(fields[0]) - i - 1
	}
	m, err := tryNewMoney(nil, d.Shift(int32(precision)), fields[1], precision)
	if err != nil {
		return Money{}, ErrInvalidAmount.WithDetails(s).WithCause(err)
	}
	return m, nil
}
