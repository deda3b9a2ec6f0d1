package category

// Visibility is the set of categories currently shown on the map and list.
// The zero value shows nothing; use NewVisibility for the default of all shown.
type Visibility struct {
	shown map[Category]struct{}
}

// NewVisibility returns a set with every category visible.
func NewVisibility() *Visibility {
	v := &Visibility{shown: make(map[Category]struct{}, len(all))}
	for _, c := range all {
		v.shown[c] = struct{}{}
	}
	return v
}

// VisibilityOf returns a set showing only the given categories.
func VisibilityOf(cats ...Category) *Visibility {
	v := &Visibility{shown: make(map[Category]struct{}, len(cats))}
	for _, c := range cats {
		if c.Valid() {
			v.shown[c] = struct{}{}
		}
	}
	return v
}

// Toggle flips c in or out of the set and returns whether it is now visible.
func (v *Visibility) Toggle(c Category) bool {
	if v.shown == nil {
		v.shown = make(map[Category]struct{})
	}
	if _, ok := v.shown[c]; ok {
		delete(v.shown, c)
		return false
	}
	if !c.Valid() {
		return false
	}
	v.shown[c] = struct{}{}
	return true
}

// Visible reports whether c is shown.
func (v *Visibility) Visible(c Category) bool {
	_, ok := v.shown[c]
	return ok
}

// Shown returns the visible categories in display order.
func (v *Visibility) Shown() []Category {
	var out []Category
	for _, c := range all {
		if v.Visible(c) {
			out = append(out, c)
		}
	}
	return out
}

// AllVisible reports whether no category is hidden.
func (v *Visibility) AllVisible() bool {
	return len(v.shown) == len(all)
}

// Counts tallies items per category. Every category is present in the result,
// and the tally does not depend on any visibility set.
func Counts(cats []Category) map[Category]int {
	out := make(map[Category]int, len(all))
	for _, c := range all {
		out[c] = 0
	}
	for _, c := range cats {
		if _, ok := out[c]; ok {
			out[c]++
		}
	}
	return out
}
