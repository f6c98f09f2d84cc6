package money

import (
	"database/sql"
	"strings"
)

// Column is the persisted form of a Money attribute: an amount in minor units
// and a currency code. Embed it in a gorm model with a prefix so each Money
// attribute gets its own pair of columns:
//
//	type Invoice struct {
//		ID    uint
//		Total money.Column `gorm:"embedded;embeddedPrefix:total_"`
//	}
//
// The precision is not stored; callers supply it when reading back.
type Column struct {
	Amount   sql.NullInt64  `gorm:"column:amount"`
	Currency sql.NullString `gorm:"column:currency;size:8"`
}

// ColumnOf returns the column values for m. A nil m maps to NULLs.
func ColumnOf(m *Money) Column {
	if m == nil {
		return Column{}
	}
	return Column{
		Amount:   sql.NullInt64{Int64: m.amount, Valid: true},
		Currency: sql.NullString{String: m.currency, Valid: true},
	}
}

// Money rebuilds the attribute at precision. NULL or blank columns are an
// absent attribute and yield nil.
func (c Column) Money(precision int) *Money {
	if !c.Amount.Valid || !c.Currency.Valid || strings.TrimSpace(c.Currency.String) == "" {
		return nil
	}
	checkPrecision(precision)
	m := Money{amount: c.Amount.Int64, currency: c.Currency.String, precision: precision}
	return &m
}
