package property

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treasurevalley/lotmap/internal/category"
	"github.com/treasurevalley/lotmap/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

// propertiesDDL mirrors the production table in SQLite types. %s holds the
// lot/block columns so a legacy table can be created without them.
const propertiesDDL = `CREATE TABLE properties (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	category TEXT NOT NULL,
	address TEXT,
	house_name TEXT,
	subdivision_phase TEXT,
	%s
	lot_number TEXT,
	garage_size_text TEXT,
	lat REAL NOT NULL,
	lng REAL NOT NULL,
	size_sqft INTEGER,
	bedrooms INTEGER,
	baths REAL,
	garage_size INTEGER,
	depth TEXT,
	width TEXT,
	building_setbacks TEXT,
	power_box_location TEXT,
	lot_width REAL,
	lot_depth REAL,
	lot_price REAL,
	house_price REAL,
	square_footage INTEGER,
	acres REAL,
	lot_info TEXT,
	is_deleted BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
)`

func newTestStore(t *testing.T, legacy bool) *GormStore {
	t.Helper()

	gdb, err := db.Open(sqlite.Open(":memory:"), db.Options{LogLevel: logger.Silent})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	lotBlock := "lot TEXT,\n\tblock TEXT,"
	if legacy {
		lotBlock = ""
	}
	require.NoError(t, gdb.Exec(fmt.Sprintf(propertiesDDL, lotBlock)).Error)
	return NewGormStore(gdb)
}

func mustCreateValues(t *testing.T, body string) Values {
	t.Helper()
	v, err := NormalizeCreate([]byte(body))
	require.NoError(t, err)
	return v
}

// countingStore records how many writes reach the wrapped store.
type countingStore struct {
	Store
	inserts, updates int
}

func (c *countingStore) Insert(ctx context.Context, v Values) (*Property, error) {
	c.inserts++
	return c.Store.Insert(ctx, v)
}

func (c *countingStore) Update(ctx context.Context, id string, v Values) (*Property, error) {
	c.updates++
	return c.Store.Update(ctx, id, v)
}

func TestGormStoreRoundTrip(t *testing.T) {
	s := newTestStore(t, false)
	ctx := context.Background()

	p, err := s.Insert(ctx, mustCreateValues(t, `{
		"title":"Lot 4","lat":43.6,"lng":-116.2,"category":"vacant_lot",
		"lot":"4","block":"B","lot_number":"12A","garage_size_text":3,
		"lot_info":["corner","cul-de-sac"],"square_footage":5000
	}`))
	require.NoError(t, err)

	assert.Equal(t, "Lot 4", p.Title)
	assert.Equal(t, category.VacantLot, p.Category)
	require.NotNil(t, p.Lot)
	assert.Equal(t, "4", *p.Lot)
	assert.Equal(t, TextValue("12A"), p.LotNumber)
	assert.Equal(t, NumericValue(3), p.GarageSizeText)
	assert.Equal(t, []string{"corner", "cul-de-sac"}, []string(p.LotInfo))
	require.NotNil(t, p.SquareFootage)
	assert.Equal(t, int64(5000), *p.SquareFootage)
	assert.Nil(t, p.Address)
	assert.False(t, p.IsDeleted)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.Update(ctx, p.ID.String(), Values{"address": "12 Main St", "is_deleted": true})
	require.NoError(t, err)
	require.NotNil(t, got.Address)
	assert.Equal(t, "12 Main St", *got.Address)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, "Lot 4", got.Title)

	live, err := s.QueryAll(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, live)

	all, err := s.QueryAll(ctx, Filter{IncludeDeleted: true})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGormStoreUpdateMissingRow(t *testing.T) {
	s := newTestStore(t, false)
	_, err := s.Update(context.Background(), "2b0f1d4e-0a57-4c3e-9a51-3f8e4c0e6d10", Values{"title": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreQueryFilters(t *testing.T) {
	s := newTestStore(t, false)
	ctx := context.Background()

	a, err := s.Insert(ctx, mustCreateValues(t, `{"title":"A","lat":1,"lng":1,"category":"sold"}`))
	require.NoError(t, err)
	_, err = s.Insert(ctx, mustCreateValues(t, `{"title":"B","lat":1,"lng":1,"category":"pending"}`))
	require.NoError(t, err)

	sold, err := s.QueryAll(ctx, Filter{Categories: []category.Category{category.Sold}})
	require.NoError(t, err)
	require.Len(t, sold, 1)
	assert.Equal(t, "A", sold[0].Title)

	byID, err := s.QueryAll(ctx, Filter{IDs: []string{a.ID.String()}})
	require.NoError(t, err)
	require.Len(t, byID, 1)
	assert.Equal(t, a.ID, byID[0].ID)
}

func TestSchemaDriftInsertRetriesWithoutGroup(t *testing.T) {
	inner := &countingStore{Store: newTestStore(t, true)}
	s := NewSchemaTolerantStore(inner, nil)

	p, err := s.Insert(context.Background(), mustCreateValues(t,
		`{"title":"Lot 9","lat":43.6,"lng":-116.2,"category":"vacant_lot","lot":"9","block":"C","lot_width":50}`))
	require.NoError(t, err)

	assert.Equal(t, 2, inner.inserts, "exactly one retry")
	assert.Nil(t, p.Lot)
	assert.Nil(t, p.Block)
	require.NotNil(t, p.LotWidth, "columns outside the group are kept")
	assert.Equal(t, 50.0, *p.LotWidth)
}

func TestSchemaDriftUpdateRetriesWithoutGroup(t *testing.T) {
	inner := &countingStore{Store: newTestStore(t, true)}
	s := NewSchemaTolerantStore(inner, nil)
	ctx := context.Background()

	p, err := inner.Store.Insert(ctx, mustCreateValues(t, `{"title":"Lot 9","lat":1,"lng":1,"category":"sold"}`).Without("lot", "block"))
	require.NoError(t, err)

	got, err := s.Update(ctx, p.ID.String(), Values{"lot": "9", "title": "Lot 9 renamed"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.updates)
	assert.Equal(t, "Lot 9 renamed", got.Title)
	assert.Nil(t, got.Lot)
}

func TestSchemaDriftIgnoresOtherColumns(t *testing.T) {
	inner := &countingStore{Store: newTestStore(t, true)}
	s := NewSchemaTolerantStore(inner, nil)
	ctx := context.Background()

	p, err := inner.Store.Insert(ctx, mustCreateValues(t, `{"title":"A","lat":1,"lng":1,"category":"sold"}`).Without("lot", "block"))
	require.NoError(t, err)

	_, err = s.Update(ctx, p.ID.String(), Values{"lot_shape": "flag"})
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, inner.updates, "no retry for a column outside every group")
}

// stubStore fails every write with a fixed error.
type stubStore struct {
	err    error
	writes int
}

func (s *stubStore) Insert(context.Context, Values) (*Property, error) {
	s.writes++
	return nil, s.err
}

func (s *stubStore) Update(context.Context, string, Values) (*Property, error) {
	s.writes++
	return nil, s.err
}

func (s *stubStore) QueryAll(context.Context, Filter) ([]Property, error) {
	return nil, s.err
}

func TestSchemaDriftFailedRetryReturnsOriginal(t *testing.T) {
	original := &StoreError{
		Op:      "update property",
		Code:    codeUndefinedColumn,
		Message: `column "block" of relation "properties" does not exist`,
	}
	inner := &stubStore{err: original}
	s := NewSchemaTolerantStore(inner, nil)

	_, err := s.Update(context.Background(), "id", Values{"block": "C", "title": "x"})
	assert.Same(t, original, err)
	assert.Equal(t, 2, inner.writes)
}

func TestSchemaDriftNeedsGroupColumnInPayload(t *testing.T) {
	inner := &stubStore{err: &StoreError{Code: codeUndefinedColumn, Message: `column "lot" does not exist`}}
	s := NewSchemaTolerantStore(inner, nil)

	_, err := s.Update(context.Background(), "id", Values{"title": "x"})
	assert.Error(t, err)
	assert.Equal(t, 1, inner.writes)
}

func TestSchemaDriftWholeWordMatch(t *testing.T) {
	inner := &stubStore{err: &StoreError{Code: codeUndefinedColumn, Message: `column "lot_shape" does not exist`}}
	s := NewSchemaTolerantStore(inner, nil)

	_, err := s.Update(context.Background(), "id", Values{"lot": "4"})
	assert.Error(t, err)
	assert.Equal(t, 1, inner.writes, `"lot_shape" must not match the lot column`)
}

func TestSchemaDriftConfiguredGroups(t *testing.T) {
	inner := &stubStore{err: &StoreError{Code: codeUndefinedColumn, Message: `column "house_name" does not exist`}}
	s := NewSchemaTolerantStore(inner, []DriftGroup{{Name: "house", Columns: []string{"house_name"}}})

	_, err := s.Update(context.Background(), "id", Values{"house_name": "The Aspen"})
	assert.Error(t, err)
	assert.Equal(t, 2, inner.writes)
}

func TestStoreErrorKeepsFieldsApart(t *testing.T) {
	se := &StoreError{Op: "insert property", Code: "23505", Message: "duplicate key", Details: "Key (id)=(x) already exists.", Hint: "pick another id"}
	err := storeError("update property", fmt.Errorf("wrapped: %w", se))

	var got *StoreError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, "23505", got.Code)
	assert.Equal(t, "duplicate key", got.Message)
	assert.Equal(t, "Key (id)=(x) already exists.", got.Details)
	assert.Equal(t, "pick another id", got.Hint)

	plain := storeError("query properties", errors.New("boom"))
	require.True(t, errors.As(plain, &got))
	assert.Equal(t, "boom", got.Message)
	assert.Empty(t, got.Code)
}
