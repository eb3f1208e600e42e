package document

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// amount decodes a cost written as a number or a decimal string in any of
// the document formats without going through float64 where avoidable
type amount decimal.Decimal

func (a amount) Decimal() decimal.Decimal {
	return decimal.Decimal(a)
}

// UnmarshalJSON implements json.Unmarshaler
func (a *amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*a = amount(d)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: cost must be a scalar", node.Line)
	}
	d, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*a = amount(d)
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler
func (a *amount) UnmarshalTOML(v interface{}) error {
	switch x := v.(type) {
	case int64:
		*a = amount(decimal.NewFromInt(x))
	case float64:
		*a = amount(decimal.NewFromFloat(x))
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return err
		}
		*a = amount(d)
	default:
		return fmt.Errorf("cost must be a number or decimal string, got %T", v)
	}
	return nil
}
