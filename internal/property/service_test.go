package property

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treasurevalley/lotmap/internal/category"
	"github.com/treasurevalley/lotmap/internal/geocoding"
)

type stubPlaces []geocoding.Place

func (s stubPlaces) Forward(context.Context, string) []geocoding.Place { return s }

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewSchemaTolerantStore(newTestStore(t, false), nil), nil)
}

func mustCreate(t *testing.T, svc *Service, body string) *Property {
	t.Helper()
	p, err := svc.Create(context.Background(), []byte(body))
	require.NoError(t, err)
	return p
}

func TestCreateDerivesAreaFromDimensions(t *testing.T) {
	svc := newTestService(t)
	p := mustCreate(t, svc, `{"title":"Lot 1","lat":1,"lng":1,"category":"vacant_lot","lot_width":50,"lot_depth":100}`)

	require.NotNil(t, p.SquareFootage)
	assert.Equal(t, int64(5000), *p.SquareFootage)
	require.NotNil(t, p.Acres)
	assert.Equal(t, 0.115, *p.Acres)
}

func TestCreateDerivesPairedArea(t *testing.T) {
	svc := newTestService(t)

	p := mustCreate(t, svc, `{"title":"Lot 1","lat":1,"lng":1,"category":"vacant_lot","square_footage":43560}`)
	require.NotNil(t, p.Acres)
	assert.Equal(t, 1.0, *p.Acres)

	p = mustCreate(t, svc, `{"title":"Lot 2","lat":1,"lng":1,"category":"vacant_lot","acres":2}`)
	require.NotNil(t, p.SquareFootage)
	assert.Equal(t, int64(87120), *p.SquareFootage)

	p = mustCreate(t, svc, `{"title":"Lot 3","lat":1,"lng":1,"category":"vacant_lot"}`)
	assert.Nil(t, p.SquareFootage)
	assert.Nil(t, p.Acres)
}

func TestCreateKeepsExplicitAreaPair(t *testing.T) {
	svc := newTestService(t)
	p := mustCreate(t, svc, `{"title":"Lot 1","lat":1,"lng":1,"category":"vacant_lot","square_footage":10000,"acres":0.25}`)

	assert.Equal(t, int64(10000), *p.SquareFootage)
	assert.Equal(t, 0.25, *p.Acres)
}

func TestPatchReconcilesLotFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, `{"title":"Lot 1","lat":1,"lng":1,"category":"vacant_lot"}`)
	id := p.ID.String()

	got, err := svc.Patch(ctx, id, []byte(`{"acres":0.5}`))
	require.NoError(t, err)
	assert.Equal(t, int64(21780), *got.SquareFootage)

	got, err = svc.Patch(ctx, id, []byte(`{"square_footage":43560}`))
	require.NoError(t, err)
	assert.Equal(t, 1.0, *got.Acres)

	got, err = svc.Patch(ctx, id, []byte(`{"lot_width":50,"lot_depth":100}`))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), *got.SquareFootage)
	assert.Equal(t, 0.115, *got.Acres)

	// Dimensions are set, so a new width recomputes from the stored depth.
	got, err = svc.Patch(ctx, id, []byte(`{"lot_width":100}`))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), *got.SquareFootage)
	assert.Equal(t, 0.23, *got.Acres)

	// With both dimensions populated an area edit does not touch the other area field.
	got, err = svc.Patch(ctx, id, []byte(`{"acres":0.3}`))
	require.NoError(t, err)
	assert.Equal(t, 0.3, *got.Acres)
	assert.Equal(t, int64(10000), *got.SquareFootage)

	got, err = svc.Patch(ctx, id, []byte(`{"title":"Renamed"}`))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, 0.3, *got.Acres, "unrelated patches leave lot fields alone")
}

func TestPatchClearingAreaClearsCounterpart(t *testing.T) {
	svc := newTestService(t)
	p := mustCreate(t, svc, `{"title":"Lot 1","lat":1,"lng":1,"category":"vacant_lot","acres":2}`)
	require.Equal(t, int64(87120), *p.SquareFootage)

	got, err := svc.Patch(context.Background(), p.ID.String(), []byte(`{"acres":null}`))
	require.NoError(t, err)
	assert.Nil(t, got.Acres)
	assert.Nil(t, got.SquareFootage)
}

func TestPatchUnknownProperty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Patch(ctx, "not-a-uuid", []byte(`{"title":"x"}`))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Patch(ctx, "2b0f1d4e-0a57-4c3e-9a51-3f8e4c0e6d10", []byte(`{"title":"x"}`))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Patch(ctx, "2b0f1d4e-0a57-4c3e-9a51-3f8e4c0e6d10", []byte(`{"acres":1}`))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPatchValidationNeverReachesStore(t *testing.T) {
	inner := &stubStore{}
	svc := NewService(inner, nil)

	_, err := svc.Patch(context.Background(), "2b0f1d4e-0a57-4c3e-9a51-3f8e4c0e6d10", []byte(`{"lat":200}`))
	requireInvalid(t, err, "lat")
	assert.Zero(t, inner.writes)
}

func TestDeleteIsSoft(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, `{"title":"Gone","lat":1,"lng":1,"category":"sold"}`)

	deleted, err := svc.Delete(ctx, p.ID.String())
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	_, err = svc.Get(ctx, p.ID.String())
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	restored, err := svc.Patch(ctx, p.ID.String(), []byte(`{"is_deleted":false}`))
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)
}

func TestListAndCategories(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, `{"title":"A","lat":1,"lng":1,"category":"sold"}`)
	mustCreate(t, svc, `{"title":"B","lat":1,"lng":1,"category":"sold"}`)
	mustCreate(t, svc, `{"title":"C","lat":1,"lng":1,"category":"pending"}`)
	gone := mustCreate(t, svc, `{"title":"D","lat":1,"lng":1,"category":"pending"}`)
	_, err := svc.Delete(ctx, gone.ID.String())
	require.NoError(t, err)

	all, err := svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	vis := category.NewVisibility()
	vis.Toggle(category.Sold)
	shown, err := svc.List(ctx, vis)
	require.NoError(t, err)
	require.Len(t, shown, 1)
	assert.Equal(t, "C", shown[0].Title)

	none, err := svc.List(ctx, category.VisibilityOf())
	require.NoError(t, err)
	assert.Empty(t, none)

	summary, err := svc.Categories(ctx, vis)
	require.NoError(t, err)
	require.Len(t, summary, len(category.All()))
	total := 0
	for _, row := range summary {
		total += row.Count
		switch row.Category {
		case category.Sold:
			assert.Equal(t, 2, row.Count)
			assert.False(t, row.Visible, "hiding a category keeps its count")
		case category.Pending:
			assert.Equal(t, 1, row.Count)
			assert.True(t, row.Visible)
		}
	}
	assert.Equal(t, len(all), total)
}

func TestCompareKeepsRequestOrder(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	a := mustCreate(t, svc, `{"title":"A","lat":1,"lng":1,"category":"sold"}`)
	b := mustCreate(t, svc, `{"title":"B","lat":1,"lng":1,"category":"sold"}`)
	c := mustCreate(t, svc, `{"title":"C","lat":1,"lng":1,"category":"sold"}`)

	got, err := svc.Compare(ctx, []string{c.ID.String(), a.ID.String(), "junk", c.ID.String(), b.ID.String()})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{got[0].Title, got[1].Title, got[2].Title})

	empty, err := svc.Compare(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearch(t *testing.T) {
	places := stubPlaces{{ID: "address.1", PlaceName: "1 Aspen Way, Eagle, Idaho", Center: [2]float64{-116.3, 43.7}}}
	svc := NewService(newTestStore(t, false), places)
	ctx := context.Background()
	mustCreate(t, svc, `{"title":"Aspen Ridge","lat":43.6,"lng":-116.2,"category":"sold","address":"9 Elm St"}`)
	mustCreate(t, svc, `{"title":"Lot 2","lat":1,"lng":1,"category":"sold","house_name":"The Aspen"}`)
	mustCreate(t, svc, `{"title":"Lot 3","lat":1,"lng":1,"category":"sold"}`)

	results, err := svc.Search(ctx, "aspen")
	require.NoError(t, err)
	require.Len(t, results, 3)

	var props, addresses int
	for _, r := range results {
		switch r.Type {
		case "property":
			props++
			require.NotNil(t, r.Property)
		case "address":
			addresses++
			assert.Equal(t, "1 Aspen Way, Eagle, Idaho", r.PlaceName)
		}
	}
	assert.Equal(t, 2, props)
	assert.Equal(t, 1, addresses)
	assert.Equal(t, "address", results[len(results)-1].Type, "places follow properties")

	short, err := svc.Search(ctx, "as")
	require.NoError(t, err)
	assert.Empty(t, short)
}
