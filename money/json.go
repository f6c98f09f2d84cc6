package money

import (
	"encoding/json"
)

type moneyJSON struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Precision *int   `json:"precision,omitempty"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	p := m.precision
	return json.Marshal(moneyJSON{
		Amount:    m.amount,
		Currency:  m.currency,
		Precision: &p,
	})
}

// UnmarshalJSON decodes {"amount":..,"currency":..,"precision":..}. A missing
// precision means DefaultPrecision.
func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return ErrInvalidAmount.WithCause(err)
	}
	precision := DefaultPrecision
	if v.Precision != nil {
		precision = *v.Precision
	}
	if precision < 0 {
		return ErrInvalidAmount.WithDetails("negative precision")
	}
	*m = Money{amount: v.Amount, currency: v.Currency, precision: precision}
	return nil
}
