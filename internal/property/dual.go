package property

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DualKind tags which form a DualValue holds.
type DualKind uint8

const (
	DualNone DualKind = iota
	DualText
	DualNumeric
)

// DualValue is a field that users enter as either text or a number, such as a
// lot number ("12" or "12A") or a garage size ("3" or "3 car + RV"). The zero
// value is null.
type DualValue struct {
	Kind    DualKind
	Text    string
	Numeric float64
}

// TextValue returns a text DualValue.
func TextValue(s string) DualValue { return DualValue{Kind: DualText, Text: s} }

// NumericValue returns a numeric DualValue.
func NumericValue(n float64) DualValue { return DualValue{Kind: DualNumeric, Numeric: n} }

// ParseDual applies the normalization rule: trimmed empty input is null, input
// that parses cleanly as a finite number is numeric, anything else is text.
func ParseDual(s string) DualValue {
	s = strings.TrimSpace(s)
	if s == "" {
		return DualValue{}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
		return NumericValue(n)
	}
	return TextValue(s)
}

// IsNull reports whether no value is held.
func (d DualValue) IsNull() bool { return d.Kind == DualNone }

// String renders the value as stored in the text column.
func (d DualValue) String() string {
	switch d.Kind {
	case DualText:
		return d.Text
	case DualNumeric:
		return strconv.FormatFloat(d.Numeric, 'f', -1, 64)
	}
	return ""
}

// Value implements driver.Valuer.
func (d DualValue) Value() (driver.Value, error) {
	if d.IsNull() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *DualValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = DualValue{}
	case string:
		*d = ParseDual(v)
	case []byte:
		*d = ParseDual(string(v))
	case int64:
		*d = NumericValue(float64(v))
	case float64:
		*d = NumericValue(v)
	default:
		return fmt.Errorf("cannot scan %T into DualValue", src)
	}
	return nil
}

// MarshalJSON writes numbers as JSON numbers, text as strings and null as null.
func (d DualValue) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case DualText:
		return json.Marshal(d.Text)
	case DualNumeric:
		return []byte(d.String()), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a string, a number or null.
func (d *DualValue) UnmarshalJSON(b []byte) error {
	var raw any
	dec := json.NewDecoder(strings.NewReader(string(b)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	v, err := dualFrom(raw)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func dualFrom(raw any) (DualValue, error) {
	switch v := raw.(type) {
	case nil:
		return DualValue{}, nil
	case json.Number:
		n, err := v.Float64()
		if err != nil || math.IsInf(n, 0) {
			return DualValue{}, fmt.Errorf("must be a finite number or text")
		}
		return NumericValue(n), nil
	case float64:
		return NumericValue(v), nil
	case string:
		return ParseDual(v), nil
	}
	return DualValue{}, fmt.Errorf("must be text or a number")
}
