package property

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/lib/pq"
	"github.com/treasurevalley/lotmap/internal/category"
	"golang.org/x/text/unicode/norm"
)

// MaxTitleLength is the longest title accepted, in characters, after trimming.
const MaxTitleLength = 500

// maxWholeNumber is the largest integer column value accepted; beyond it
// float64 input no longer holds every whole number exactly.
const maxWholeNumber = 1 << 53

type numberRule struct {
	column  string
	integer bool
}

// Validated in this order; the first failure wins.
var numberColumns = []numberRule{
	{"size_sqft", true},
	{"garage_size", true},
	{"bedrooms", true},
	{"baths", false},
	{"lot_width", false},
	{"lot_depth", false},
	{"lot_price", false},
	{"house_price", false},
	{"square_footage", true},
	{"acres", false},
}

var dualColumns = []string{"lot_number", "garage_size_text"}

var textColumns = []string{
	"address",
	"house_name",
	"subdivision_phase",
	"lot",
	"block",
	"depth",
	"width",
	"building_setbacks",
	"power_box_location",
}

// NormalizeCreate validates a create request body and returns the full column
// set for a new record, with every absent optional column set to null.
func NormalizeCreate(body []byte) (Values, error) {
	out, err := normalizeCreate(body)
	if err != nil {
		return nil, err
	}
	out.fillCreateDefaults()
	return out, nil
}

// normalizeCreate validates a create body and returns only the columns it sent.
func normalizeCreate(body []byte) (Values, error) {
	in, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	return normalize(in, true)
}

func (v Values) fillCreateDefaults() {
	for _, r := range numberColumns {
		setDefault(v, r.column)
	}
	for _, c := range dualColumns {
		setDefault(v, c)
	}
	for _, c := range textColumns {
		setDefault(v, c)
	}
	setDefault(v, "lot_info")
	if !v.Has("is_deleted") {
		v["is_deleted"] = false
	}
}

// NormalizeUpdate validates a partial update body and returns only the columns
// that were present in it. Unknown keys are ignored.
func NormalizeUpdate(body []byte) (Values, error) {
	in, err := decodeObject(body)
	if err != nil {
		return nil, err
	}
	out, err := normalize(in, false)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, invalid("body", "no fields to update")
	}
	return out, nil
}

func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var in map[string]any
	if err := dec.Decode(&in); err != nil || in == nil {
		return nil, invalid("body", "must be a JSON object")
	}
	return in, nil
}

func normalize(in map[string]any, create bool) (Values, error) {
	out := make(Values)

	if raw, ok := in["title"]; ok || create {
		title, err := normalizeTitle(raw)
		if err != nil {
			return nil, err
		}
		out["title"] = title
	}

	for _, c := range []struct {
		column string
		limit  float64
		reason string
	}{
		{"lat", 90, "latitude must be between -90 and 90"},
		{"lng", 180, "longitude must be between -180 and 180"},
	} {
		raw, ok := in[c.column]
		if !ok && !create {
			continue
		}
		if raw == nil {
			return nil, invalid(c.column, "is required")
		}
		n, err := number(c.column, raw)
		if err != nil {
			return nil, err
		}
		if n < -c.limit || n > c.limit {
			return nil, invalid(c.column, c.reason)
		}
		out[c.column] = n
	}

	if raw, ok := in["category"]; ok || create {
		s, isString := raw.(string)
		if raw == nil || (isString && strings.TrimSpace(s) == "") {
			return nil, invalid("category", "is required")
		}
		if !isString {
			return nil, invalid("category", "must be a string")
		}
		c, err := category.Parse(s)
		if err != nil {
			return nil, invalid("category", err.Error())
		}
		out["category"] = c
	}

	for _, r := range numberColumns {
		raw, ok := in[r.column]
		if !ok {
			continue
		}
		if raw == nil {
			out[r.column] = nil
			continue
		}
		n, err := number(r.column, raw)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, invalid(r.column, "must not be negative")
		}
		if r.integer {
			if n != math.Trunc(n) {
				return nil, invalid(r.column, "must be a whole number")
			}
			if n > maxWholeNumber {
				return nil, invalid(r.column, "is too large")
			}
			out[r.column] = int64(n)
			continue
		}
		out[r.column] = n
	}

	if raw, ok := in["lot_info"]; ok {
		info, err := normalizeLotInfo(raw)
		if err != nil {
			return nil, err
		}
		out["lot_info"] = info
	}

	for _, c := range dualColumns {
		raw, ok := in[c]
		if !ok {
			continue
		}
		d, err := dualFrom(raw)
		if err != nil {
			return nil, invalid(c, err.Error())
		}
		if d.IsNull() {
			out[c] = nil
			continue
		}
		out[c] = d
	}

	for _, c := range textColumns {
		raw, ok := in[c]
		if !ok {
			continue
		}
		if raw == nil {
			out[c] = nil
			continue
		}
		s, isString := raw.(string)
		if !isString {
			return nil, invalid(c, "must be a string")
		}
		if t := cleanText(s); t != "" {
			out[c] = t
		} else {
			out[c] = nil
		}
	}

	if raw, ok := in["is_deleted"]; ok {
		switch v := raw.(type) {
		case nil:
			out["is_deleted"] = false
		case bool:
			out["is_deleted"] = v
		default:
			return nil, invalid("is_deleted", "must be a boolean")
		}
	}

	return out, nil
}

func normalizeTitle(raw any) (string, error) {
	if raw == nil {
		return "", invalid("title", "is required")
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalid("title", "must be a string")
	}
	title := cleanText(s)
	if title == "" {
		return "", invalid("title", "is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", invalid("title", "must be 500 characters or fewer")
	}
	return title, nil
}

// normalizeLotInfo keeps the non-blank string entries, trimmed and in order.
// An empty result is null rather than an empty list.
func normalizeLotInfo(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, invalid("lot_info", "must be an array of strings")
	}
	var out pq.StringArray
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if t := cleanText(s); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func number(column string, raw any) (float64, error) {
	var n float64
	switch v := raw.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, invalid(column, "must be a number")
		}
		n = f
	case float64:
		n = v
	default:
		return 0, invalid(column, "must be a number")
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, invalid(column, "must be a finite number")
	}
	return n, nil
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func setDefault(v Values, column string) {
	if !v.Has(column) {
		v[column] = nil
	}
}
