package hclplan

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// stepDecoder evaluates step attributes one by one and remembers the first
// error, so decodeStep can read its fields without error plumbing on every
// line. Expressions are evaluated without a context; plan files are literal
// declarations, not templates.
type stepDecoder struct {
	attrs hcl.Attributes
	err   error
}

func (d *stepDecoder) value(name string) (cty.Value, bool) {
	if d.err != nil {
		return cty.NilVal, false
	}
	attr, ok := d.attrs[name]
	if !ok {
		return cty.NilVal, false
	}
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		d.err = diags
		return cty.NilVal, false
	}
	return v, true
}

func (d *stepDecoder) str(name string) string {
	v, ok := d.value(name)
	if !ok {
		return ""
	}
	if v.Type() != cty.String {
		d.err = fmt.Errorf("attribute %q must be a string, got %s", name, v.Type().FriendlyName())
		return ""
	}
	return v.AsString()
}

func (d *stepDecoder) num(name string) int {
	v, ok := d.value(name)
	if !ok {
		return 0
	}
	if v.Type() != cty.Number {
		d.err = fmt.Errorf("attribute %q must be a number, got %s", name, v.Type().FriendlyName())
		return 0
	}
	n, _ := v.AsBigFloat().Int64()
	return int(n)
}

func (d *stepDecoder) strList(name string) []string {
	v, ok := d.value(name)
	if !ok {
		return nil
	}
	if !v.Type().IsListType() && !v.Type().IsTupleType() {
		d.err = fmt.Errorf("attribute %q must be a list of strings, got %s", name, v.Type().FriendlyName())
		return nil
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.Type() != cty.String {
			d.err = fmt.Errorf("attribute %q must be a list of strings", name)
			return nil
		}
		out = append(out, ev.AsString())
	}
	return out
}

func (d *stepDecoder) anyList(name string) []any {
	v, ok := d.value(name)
	if !ok {
		return nil
	}
	native, err := ctyToNative(v)
	if err != nil {
		d.err = fmt.Errorf("attribute %q: %w", name, err)
		return nil
	}
	list, ok := native.([]any)
	if !ok {
		d.err = fmt.Errorf("attribute %q must be a list", name)
		return nil
	}
	return list
}

func (d *stepDecoder) anyMap(name string) map[string]any {
	v, ok := d.value(name)
	if !ok {
		return nil
	}
	native, err := ctyToNative(v)
	if err != nil {
		d.err = fmt.Errorf("attribute %q: %w", name, err)
		return nil
	}
	m, ok := native.(map[string]any)
	if !ok {
		d.err = fmt.Errorf("attribute %q must be an object", name)
		return nil
	}
	return m
}

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart. Numbers become float64, the common representation for a
// generic 'any' target.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0)
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, err
			}
			slice = append(slice, native)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			key, ev := it.Element()
			native, err := ctyToNative(ev)
			if err != nil {
				return nil, fmt.Errorf("in attribute %q: %w", key.AsString(), err)
			}
			goMap[key.AsString()] = native
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
