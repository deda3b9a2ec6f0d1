package reconcile

// Apply replays the linked-field edits carried by one create or patch request over
// the stored values. Area edits are replayed before dimension edits so populated
// dimensions keep priority. When a request sets both square footage and acres
// explicitly, both are kept as given.
func Apply(current Lot, changes map[Field]*float64) Lot {
	r := New(current)

	sqft, hasSqft := changes[FieldSquareFootage]
	acres, hasAcres := changes[FieldAcres]
	switch {
	case hasSqft && hasAcres:
		r.Set(FieldSquareFootage, sqft)
		r.Set(FieldAcres, acres)
	case hasSqft:
		r.Edit(FieldSquareFootage, sqft)
	case hasAcres:
		r.Edit(FieldAcres, acres)
	}

	for _, f := range []Field{FieldLotWidth, FieldLotDepth} {
		if v, ok := changes[f]; ok {
			r.Edit(f, v)
		}
	}
	return r.Lot()
}

// Changed lists the fields whose values differ between two lots.
func Changed(before, after Lot) []Field {
	var out []Field
	if !sameFloat(before.Width, after.Width) {
		out = append(out, FieldLotWidth)
	}
	if !sameFloat(before.Depth, after.Depth) {
		out = append(out, FieldLotDepth)
	}
	if !sameInt(before.SquareFootage, after.SquareFootage) {
		out = append(out, FieldSquareFootage)
	}
	if !sameFloat(before.Acres, after.Acres) {
		out = append(out, FieldAcres)
	}
	return out
}

// Derive recomputes the area fields from whatever the lot already holds:
// dimensions first, then square footage, then acres.
func Derive(current Lot) Lot {
	r := New(current)
	switch {
	case current.HasDimensions():
		r.Edit(FieldLotWidth, current.Width)
	case current.SquareFootage != nil && *current.SquareFootage > 0:
		v := float64(*current.SquareFootage)
		r.Edit(FieldSquareFootage, &v)
	case current.Acres != nil && *current.Acres > 0:
		r.Edit(FieldAcres, current.Acres)
	}
	return r.Lot()
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameInt(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
