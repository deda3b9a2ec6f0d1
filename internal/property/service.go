package property

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/treasurevalley/lotmap/internal/category"
	"github.com/treasurevalley/lotmap/internal/compare"
	"github.com/treasurevalley/lotmap/internal/geocoding"
	"github.com/treasurevalley/lotmap/internal/reconcile"
)

// MinSearchLength is the shortest query that triggers a search.
const MinSearchLength = 3

// PlaceFinder resolves free text to map places. Failures are reported as no results.
type PlaceFinder interface {
	Forward(ctx context.Context, query string) []geocoding.Place
}

// Service is the property read/write surface used by the HTTP handlers.
type Service struct {
	store  Store
	places PlaceFinder
}

// NewService returns a service writing through store. places may be nil.
func NewService(store Store, places PlaceFinder) *Service {
	return &Service{store: store, places: places}
}

// List returns live properties whose category is visible. A nil visibility shows all.
func (s *Service) List(ctx context.Context, vis *category.Visibility) ([]Property, error) {
	f := Filter{}
	if vis != nil && !vis.AllVisible() {
		f.Categories = vis.Shown()
		if len(f.Categories) == 0 {
			return []Property{}, nil
		}
	}
	return s.store.QueryAll(ctx, f)
}

// Get returns one live property.
func (s *Service) Get(ctx context.Context, id string) (*Property, error) {
	return s.find(ctx, id, false)
}

// Create validates body, reconciles the lot fields and inserts the record.
func (s *Service) Create(ctx context.Context, body []byte) (*Property, error) {
	values, err := normalizeCreate(body)
	if err != nil {
		return nil, err
	}
	// Only the lot fields the request sent drive derivation.
	changes := values.lotChanges()
	values.fillCreateDefaults()

	lot := reconcile.Apply(reconcile.Lot{}, changes)
	for _, f := range []reconcile.Field{
		reconcile.FieldLotWidth,
		reconcile.FieldLotDepth,
		reconcile.FieldSquareFootage,
		reconcile.FieldAcres,
	} {
		values.setLotField(f, lot)
	}

	p, err := s.store.Insert(ctx, values)
	if err != nil {
		return nil, err
	}
	log.Printf("[property] created %s (%s)", p.ID, p.Category)
	return p, nil
}

// Patch applies a partial update. Only keys present in body change; when a
// linked lot field is among them the dependent fields are recomputed against
// the stored record.
func (s *Service) Patch(ctx context.Context, id string, body []byte) (*Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	values, err := NormalizeUpdate(body)
	if err != nil {
		return nil, err
	}

	if changes := values.lotChanges(); len(changes) > 0 {
		current, err := s.find(ctx, id, true)
		if err != nil {
			return nil, err
		}
		before := current.LotMetrics()
		after := reconcile.Apply(before, changes)
		for f := range changes {
			values.setLotField(f, after)
		}
		for _, f := range reconcile.Changed(before, after) {
			values.setLotField(f, after)
		}
	}

	return s.store.Update(ctx, id, values)
}

// Delete soft-deletes a property through the regular patch path.
func (s *Service) Delete(ctx context.Context, id string) (*Property, error) {
	return s.Patch(ctx, id, []byte(`{"is_deleted":true}`))
}

// CategoryCount is one row of the category filter menu.
type CategoryCount struct {
	Category category.Category `json:"category"`
	Label    string            `json:"label"`
	Color    category.Color    `json:"color"`
	Count    int               `json:"count"`
	Visible  bool              `json:"visible"`
}

// Categories summarizes live properties per category. Counts ignore vis; it
// only sets the Visible flag.
func (s *Service) Categories(ctx context.Context, vis *category.Visibility) ([]CategoryCount, error) {
	props, err := s.store.QueryAll(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	if vis == nil {
		vis = category.NewVisibility()
	}

	counts := CountByCategory(props)
	out := make([]CategoryCount, 0, len(counts))
	for _, c := range category.All() {
		out = append(out, CategoryCount{
			Category: c,
			Label:    c.Label(),
			Color:    c.Color(),
			Count:    counts[c],
			Visible:  vis.Visible(c),
		})
	}
	return out, nil
}

// CountByCategory tallies non-deleted properties per category.
func CountByCategory(props []Property) map[category.Category]int {
	cats := make([]category.Category, 0, len(props))
	for _, p := range props {
		if !p.IsDeleted {
			cats = append(cats, p.Category)
		}
	}
	return category.Counts(cats)
}

// Compare returns the live properties named by ids, in the order given.
// Unknown or deleted ids are skipped.
func (s *Service) Compare(ctx context.Context, ids []string) ([]Property, error) {
	set := compare.NewSet()
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			set.Add(id)
		}
	}
	if set.Len() == 0 {
		return []Property{}, nil
	}

	props, err := s.store.QueryAll(ctx, Filter{IDs: set.IDs()})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Property, len(props))
	for _, p := range props {
		byID[p.ID.String()] = p
	}
	out := make([]Property, 0, len(props))
	for _, id := range set.IDs() {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// SearchResult is a property or a geocoded place matching a search query.
type SearchResult struct {
	Type      string     `json:"type"` // "property" or "address"
	ID        string     `json:"id"`
	PlaceName string     `json:"place_name"`
	Center    [2]float64 `json:"center"` // lng, lat
	Property  *Property  `json:"property,omitempty"`
}

// Search matches live properties by title, address or house name, then
// appends geocoded places. Geocoding failures only shorten the result.
func (s *Service) Search(ctx context.Context, query string) ([]SearchResult, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < MinSearchLength {
		return []SearchResult{}, nil
	}

	props, err := s.store.QueryAll(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	out := []SearchResult{}
	for i := range props {
		p := &props[i]
		if !matches(p, q) {
			continue
		}
		name := p.Title
		if p.Address != nil {
			name = p.Title + " - " + *p.Address
		}
		out = append(out, SearchResult{
			Type:      "property",
			ID:        p.ID.String(),
			PlaceName: name,
			Center:    [2]float64{p.Lng, p.Lat},
			Property:  p,
		})
	}

	if s.places != nil {
		for _, pl := range s.places.Forward(ctx, query) {
			out = append(out, SearchResult{
				Type:      "address",
				ID:        pl.ID,
				PlaceName: pl.PlaceName,
				Center:    pl.Center,
			})
		}
	}
	return out, nil
}

// Ping reports whether the store is reachable, when it supports checking.
func (s *Service) Ping(ctx context.Context) error {
	if p, ok := s.store.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *Service) find(ctx context.Context, id string, includeDeleted bool) (*Property, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	props, err := s.store.QueryAll(ctx, Filter{IDs: []string{id}, IncludeDeleted: includeDeleted})
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return nil, ErrNotFound
	}
	return &props[0], nil
}

func matches(p *Property, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	for _, v := range []*string{p.Address, p.HouseName} {
		if v != nil && strings.Contains(strings.ToLower(*v), q) {
			return true
		}
	}
	return false
}
