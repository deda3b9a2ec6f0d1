// Package compare holds the map's selection state: the single property whose
// detail is open, and the ordered set of properties picked for side-by-side
// comparison.
package compare

// Set is an insertion-ordered set of property ids.
type Set struct {
	ids   []string
	index map[string]struct{}
}

// NewSet returns a set holding ids in order, skipping duplicates and blanks.
func NewSet(ids ...string) *Set {
	s := &Set{index: make(map[string]struct{})}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add appends id when it is not already a member.
func (s *Set) Add(id string) bool {
	if id == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id, keeping the remaining members in insertion order.
func (s *Set) Remove(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return true
}

// Toggle adds id, or removes it when already present. Returns membership after the call.
func (s *Set) Toggle(id string) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	return s.Add(id)
}

// Has reports membership.
func (s *Set) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the members in insertion order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the member count.
func (s *Set) Len() int { return len(s.ids) }

// Clear empties the set.
func (s *Set) Clear() {
	s.ids = nil
	s.index = make(map[string]struct{})
}

// Selection is the click-driven state of the map view.
type Selection struct {
	comparing bool
	selected  string
	members   *Set
}

// NewSelection returns an empty selection outside compare mode.
func NewSelection() *Selection {
	return &Selection{members: NewSet()}
}

// Click handles a marker or card click: in compare mode it toggles the property
// in the comparison set, otherwise it opens the property's detail.
func (s *Selection) Click(id string) {
	if s.comparing {
		s.members.Toggle(id)
		return
	}
	s.selected = id
}

// Focus opens a property's detail from search, leaving compare mode.
func (s *Selection) Focus(id string) {
	s.ExitCompare()
	s.selected = id
}

// EnterCompare switches to compare mode. The open detail is closed so it
// cannot reappear when compare mode ends.
func (s *Selection) EnterCompare() {
	s.comparing = true
	s.selected = ""
}

// ExitCompare leaves compare mode and empties the comparison set.
func (s *Selection) ExitCompare() {
	s.comparing = false
	s.members.Clear()
}

// ToggleCompare flips compare mode.
func (s *Selection) ToggleCompare() {
	if s.comparing {
		s.ExitCompare()
		return
	}
	s.EnterCompare()
}

// Comparing reports whether compare mode is active.
func (s *Selection) Comparing() bool { return s.comparing }

// Detail returns the property whose detail view is shown. Nothing is shown in compare mode.
func (s *Selection) Detail() (string, bool) {
	if s.comparing || s.selected == "" {
		return "", false
	}
	return s.selected, true
}

// CloseDetail closes the detail view.
func (s *Selection) CloseDetail() { s.selected = "" }

// Remove drops a property from the comparison set.
func (s *Selection) Remove(id string) { s.members.Remove(id) }

// Compared returns the comparison set in insertion order.
func (s *Selection) Compared() []string { return s.members.IDs() }

// Forget removes every trace of a property, for example after it is deleted.
func (s *Selection) Forget(id string) {
	s.members.Remove(id)
	if s.selected == id {
		s.selected = ""
	}
}
