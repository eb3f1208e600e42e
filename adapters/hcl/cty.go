// Package hcl - cty value conversion
// Dataset attributes are literals; anything that needs an evaluation context is rejected.
package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

func literal(attr *hclsyntax.Attribute) (cty.Value, error) {
	val, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	if !val.IsKnown() || val.IsNull() {
		return cty.NilVal, fmt.Errorf("%s must be a known, non-null value", attr.Name)
	}
	return val, nil
}

// decimalAttr accepts a number or a decimal string such as "0.10"
func decimalAttr(attr *hclsyntax.Attribute) (decimal.Decimal, error) {
	val, err := literal(attr)
	if err != nil {
		return decimal.Zero, err
	}

	switch val.Type() {
	case cty.Number:
		return decimal.NewFromString(val.AsBigFloat().Text('f', -1))
	case cty.String:
		return decimal.NewFromString(val.AsString())
	default:
		return decimal.Zero, fmt.Errorf("expected number, got %s", val.Type().FriendlyName())
	}
}

// intAttr accepts whole numbers only
func intAttr(attr *hclsyntax.Attribute) (int64, error) {
	val, err := literal(attr)
	if err != nil {
		return 0, err
	}
	if val.Type() != cty.Number {
		return 0, fmt.Errorf("expected number, got %s", val.Type().FriendlyName())
	}

	var n int64
	if err := gocty.FromCtyValue(val, &n); err != nil {
		return 0, err
	}
	return n, nil
}
