package money

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"gorm.io/gorm/schema"
)

func init() {
	schema.RegisterSerializer("money", Serializer{})
}

// Serializer stores a Money or *Money field in a single text column as
// "<amount> <currency>". Select it with the `gorm:"serializer:money"` tag.
// NULL and empty columns read back as the zero Money, or nil for *Money,
// and the zero Money is written as NULL. A currency that is blank on a
// nonzero amount or contains whitespace cannot be read back and is rejected.
type Serializer struct{}

func (Serializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue any) error {
	fieldValue := reflect.New(field.FieldType)
	var text string
	switch v := dbValue.(type) {
	case nil:
	case []byte:
		text = string(v)
	case string:
		text = v
	default:
		return ErrInvalidAmount.WithDetails(fmt.Sprintf("unsupported column type %T", dbValue))
	}

	if text != "" {
		m, err := Parse(text)
		if err != nil {
			return err
		}
		switch field.FieldType {
		case reflect.TypeOf(Money{}):
			fieldValue.Elem().Set(reflect.ValueOf(m))
		case reflect.TypeOf(&Money{}):
			fieldValue.Elem().Set(reflect.ValueOf(&m))
		default:
			return ErrInvalidOperation.WithDetails(fmt.Sprintf("money serializer on %s", field.FieldType))
		}
	}
	field.ReflectValueOf(ctx, dst).Set(fieldValue.Elem())
	return nil
}

func (Serializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue any) (any, error) {
	switch v := fieldValue.(type) {
	case Money:
		return columnText(v)
	case *Money:
		if v == nil {
			return nil, nil
		}
		return columnText(*v)
	}
	return nil, ErrInvalidOperation.WithDetails(fmt.Sprintf("money serializer on %T", fieldValue))
}

func columnText(m Money) (any, error) {
	if m.currency == "" {
		if m.amount == 0 {
			return nil, nil
		}
		return nil, ErrInvalidOperation.WithDetails(fmt.Sprintf("money serializer: %s has no currency", m.String()))
	}
	if strings.IndexFunc(m.currency, unicode.IsSpace) >= 0 {
		return nil, ErrInvalidOperation.WithDetails(fmt.Sprintf("money serializer: currency %q contains whitespace", m.currency))
	}
	return m.String() + " " + m.currency, nil
}
