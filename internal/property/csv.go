package property

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// DecodeCSV reads a header row of property column names followed by one
// property per row, and returns each row as a create request body. Blank cells
// are left out, lot_info cells are split on semicolons, and unknown columns
// pass through to be ignored by NormalizeCreate.
func DecodeCSV(r io.Reader) ([][]byte, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	numeric := map[string]bool{"lat": true, "lng": true}
	for _, r := range numberColumns {
		numeric[r.column] = true
	}

	var out [][]byte
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		obj := make(map[string]any, len(rec))
		for i, cell := range rec {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			col := header[i]
			switch {
			case col == "lot_info":
				obj[col] = strings.Split(cell, ";")
			case col == "is_deleted":
				b, err := strconv.ParseBool(cell)
				if err != nil {
					return nil, fmt.Errorf("line %d: is_deleted: %q is not a boolean", line, cell)
				}
				obj[col] = b
			case numeric[col]:
				n, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
				if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
					return nil, fmt.Errorf("line %d: %s: %q is not a number", line, col, cell)
				}
				obj[col] = n
			default:
				obj[col] = cell
			}
		}

		body, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, body)
	}
	return out, nil
}
