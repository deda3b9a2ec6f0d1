package property

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the record store the property service writes through.
type Store interface {
	Insert(ctx context.Context, values Values) (*Property, error)
	Update(ctx context.Context, id string, values Values) (*Property, error)
	QueryAll(ctx context.Context, f Filter) ([]Property, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

// GormStore keeps properties in a SQL table through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore returns a store backed by db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Insert writes a new row, assigning id and created_at when the payload has none.
func (s *GormStore) Insert(ctx context.Context, values Values) (*Property, error) {
	row := values.Without()
	id, _ := row["id"].(uuid.UUID)
	if id == uuid.Nil {
		id = uuid.New()
		row["id"] = id
	}
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = time.Now().UTC()
	}

	if err := s.db.WithContext(ctx).Model(&Property{}).Create(map[string]any(row)).Error; err != nil {
		return nil, storeError("insert property", err)
	}
	return s.get(ctx, id.String(), "insert property")
}

// Update changes only the columns in values. Deleted rows can still be updated
// so a soft delete can be reverted.
func (s *GormStore) Update(ctx context.Context, id string, values Values) (*Property, error) {
	res := s.db.WithContext(ctx).
		Model(&Property{}).
		Where("id = ?", id).
		Updates(map[string]any(values))
	if res.Error != nil {
		return nil, storeError("update property", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.get(ctx, id, "update property")
}

// QueryAll returns matching rows, newest first.
func (s *GormStore) QueryAll(ctx context.Context, f Filter) ([]Property, error) {
	q := s.db.WithContext(ctx).Model(&Property{})
	if !f.IncludeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	if len(f.IDs) > 0 {
		q = q.Where("id IN ?", f.IDs)
	}
	if len(f.Categories) > 0 {
		cats := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			cats[i] = string(c)
		}
		q = q.Where("category IN ?", cats)
	}

	var out []Property
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, storeError("query properties", err)
	}
	return out, nil
}

// Ping checks that the underlying connection is reachable.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) get(ctx context.Context, id, op string) (*Property, error) {
	var p Property
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(op, err)
	}
	return &p, nil
}
