package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/treasurevalley/lotmap/internal/category"
	"github.com/treasurevalley/lotmap/internal/reconcile"
)

// Property is one listing, lot or house plotted on the map.
type Property struct {
	ID       uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Title    string            `gorm:"not null" json:"title"`
	Category category.Category `gorm:"type:text;not null;index" json:"category"`

	Address          *string   `json:"address"`
	HouseName        *string   `json:"house_name"`
	SubdivisionPhase *string   `json:"subdivision_phase"`
	Lot              *string   `json:"lot"`
	Block            *string   `json:"block"`
	LotNumber        DualValue `gorm:"type:text" json:"lot_number"`
	GarageSizeText   DualValue `gorm:"type:text" json:"garage_size_text"`

	Lat float64 `gorm:"not null" json:"lat"`
	Lng float64 `gorm:"not null" json:"lng"`

	// House metrics. Depth and Width are free text ("120 ft", "60-65").
	SizeSqft         *int64   `json:"size_sqft"`
	Bedrooms         *int64   `json:"bedrooms"`
	Baths            *float64 `json:"baths"`
	GarageSize       *int64   `json:"garage_size"`
	Depth            *string  `json:"depth"`
	Width            *string  `json:"width"`
	BuildingSetbacks *string  `json:"building_setbacks"`
	PowerBoxLocation *string  `json:"power_box_location"` // general house notes

	// Lot metrics
	LotWidth      *float64 `json:"lot_width"`
	LotDepth      *float64 `json:"lot_depth"`
	LotPrice      *float64 `json:"lot_price"`
	HousePrice    *float64 `json:"house_price"`
	SquareFootage *int64   `json:"square_footage"`
	Acres         *float64 `json:"acres"`

	LotInfo   pq.StringArray `gorm:"type:text[]" json:"lot_info"`
	IsDeleted bool           `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Property) TableName() string {
	return "properties"
}

// LotMetrics returns the linked lot fields.
func (p Property) LotMetrics() reconcile.Lot {
	return reconcile.Lot{
		Width:         p.LotWidth,
		Depth:         p.LotDepth,
		SquareFootage: p.SquareFootage,
		Acres:         p.Acres,
	}
}

// clearColumn blanks the field backed by column so a returned record does not
// claim a value that was never written.
func (p *Property) clearColumn(column string) {
	switch column {
	case "address":
		p.Address = nil
	case "house_name":
		p.HouseName = nil
	case "subdivision_phase":
		p.SubdivisionPhase = nil
	case "lot":
		p.Lot = nil
	case "block":
		p.Block = nil
	case "lot_number":
		p.LotNumber = DualValue{}
	case "garage_size_text":
		p.GarageSizeText = DualValue{}
	case "size_sqft":
		p.SizeSqft = nil
	case "bedrooms":
		p.Bedrooms = nil
	case "baths":
		p.Baths = nil
	case "garage_size":
		p.GarageSize = nil
	case "depth":
		p.Depth = nil
	case "width":
		p.Width = nil
	case "building_setbacks":
		p.BuildingSetbacks = nil
	case "power_box_location":
		p.PowerBoxLocation = nil
	case "lot_width":
		p.LotWidth = nil
	case "lot_depth":
		p.LotDepth = nil
	case "lot_price":
		p.LotPrice = nil
	case "house_price":
		p.HousePrice = nil
	case "square_footage":
		p.SquareFootage = nil
	case "acres":
		p.Acres = nil
	case "lot_info":
		p.LotInfo = nil
	}
}

// Values is a column to value payload for a write. A nil value clears the column.
type Values map[string]any

// Has reports whether column is part of the payload.
func (v Values) Has(column string) bool {
	_, ok := v[column]
	return ok
}

// Without returns a copy of v minus the given columns.
func (v Values) Without(columns ...string) Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	for _, c := range columns {
		delete(out, c)
	}
	return out
}

// lotChanges extracts the linked lot fields present in the payload.
func (v Values) lotChanges() map[reconcile.Field]*float64 {
	out := make(map[reconcile.Field]*float64)
	for _, f := range []reconcile.Field{
		reconcile.FieldLotWidth,
		reconcile.FieldLotDepth,
		reconcile.FieldSquareFootage,
		reconcile.FieldAcres,
	} {
		raw, ok := v[string(f)]
		if !ok {
			continue
		}
		switch n := raw.(type) {
		case float64:
			out[f] = &n
		case int64:
			fv := float64(n)
			out[f] = &fv
		default:
			out[f] = nil
		}
	}
	return out
}

// setLotField writes one reconciled lot field back into the payload.
func (v Values) setLotField(f reconcile.Field, lot reconcile.Lot) {
	var val any
	switch f {
	case reconcile.FieldLotWidth:
		if lot.Width != nil {
			val = *lot.Width
		}
	case reconcile.FieldLotDepth:
		if lot.Depth != nil {
			val = *lot.Depth
		}
	case reconcile.FieldSquareFootage:
		if lot.SquareFootage != nil {
			val = *lot.SquareFootage
		}
	case reconcile.FieldAcres:
		if lot.Acres != nil {
			val = *lot.Acres
		}
	}
	v[string(f)] = val
}

// Filter narrows QueryAll. Deleted rows are excluded unless IncludeDeleted is set.
type Filter struct {
	IDs            []string
	Categories     []category.Category
	IncludeDeleted bool
}
