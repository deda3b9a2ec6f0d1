// Package reconcile keeps the linked lot fields of a property (lot width, lot depth,
// square footage and acres) consistent with each other as they are edited.
//
// Lot dimensions win: while both lot_width and lot_depth are populated they are the
// source of truth for square footage and acres. Otherwise square footage and acres
// derive from each other, following whichever one was edited last.
package reconcile

import (
	"math"

	"github.com/treasurevalley/lotmap/internal/units"
)

// Field names one of the linked lot fields.
type Field string

const (
	FieldLotWidth      Field = "lot_width"
	FieldLotDepth      Field = "lot_depth"
	FieldSquareFootage Field = "square_footage"
	FieldAcres         Field = "acres"
)

// Source records which edit last drove the derived area fields.
type Source string

const (
	SourceNone          Source = "none"
	SourceAcres         Source = "acres"
	SourceSquareFootage Source = "square_footage"
	SourceLotDimensions Source = "lot_dimensions"
)

// Lot is the linked field set. A nil pointer means the field is absent.
type Lot struct {
	Width         *float64
	Depth         *float64
	SquareFootage *int64
	Acres         *float64
}

// HasDimensions reports whether both lot dimensions are populated.
func (l Lot) HasDimensions() bool {
	return positive(l.Width) && positive(l.Depth)
}

// Listener is notified of every field the reconciler derives.
type Listener func(field Field, lot Lot)

// Reconciler is the edit state machine. It is not safe for concurrent use; each
// form or request owns its own instance.
type Reconciler struct {
	lot      Lot
	last     Source
	updating bool
	listener Listener
}

// New returns a reconciler seeded with the current field values.
func New(initial Lot) *Reconciler {
	return &Reconciler{lot: initial, last: SourceNone}
}

// OnDerive registers a listener for derived field updates.
func (r *Reconciler) OnDerive(l Listener) {
	r.listener = l
}

// Lot returns the current field values.
func (r *Reconciler) Lot() Lot { return r.lot }

// Last returns the source of the most recent derivation.
func (r *Reconciler) Last() Source { return r.last }

// Edit applies a user edit of one linked field and recomputes the dependent
// fields. value nil clears the field. Edits arriving while a derivation is being
// published (a listener echoing the derived value back) are ignored.
func (r *Reconciler) Edit(field Field, value *float64) Lot {
	if r.updating {
		return r.lot
	}

	switch field {
	case FieldLotWidth:
		r.lot.Width = copyFloat(value)
		r.fromDimensions()
	case FieldLotDepth:
		r.lot.Depth = copyFloat(value)
		r.fromDimensions()
	case FieldSquareFootage:
		r.lot.SquareFootage = toInt(value)
		if r.lot.HasDimensions() {
			break
		}
		r.fromSquareFootage()
	case FieldAcres:
		r.lot.Acres = copyFloat(value)
		if r.lot.HasDimensions() {
			break
		}
		r.fromAcres()
	}
	return r.lot
}

// Set overwrites a field without deriving anything from it.
func (r *Reconciler) Set(field Field, value *float64) {
	switch field {
	case FieldLotWidth:
		r.lot.Width = copyFloat(value)
	case FieldLotDepth:
		r.lot.Depth = copyFloat(value)
	case FieldSquareFootage:
		r.lot.SquareFootage = toInt(value)
	case FieldAcres:
		r.lot.Acres = copyFloat(value)
	}
}

func (r *Reconciler) fromDimensions() {
	if !r.lot.HasDimensions() {
		return
	}
	area, ok := units.DimensionsToSqft(*r.lot.Width, *r.lot.Depth)
	if !ok {
		return
	}
	sqft := int64(math.Round(area))
	r.lot.SquareFootage = &sqft
	if acres, ok := units.SqftToAcres(area); ok {
		rounded := units.RoundAcres(acres)
		r.lot.Acres = &rounded
	}
	r.last = SourceLotDimensions
	r.publish(FieldSquareFootage, FieldAcres)
}

func (r *Reconciler) fromSquareFootage() {
	r.last = SourceSquareFootage
	if r.lot.SquareFootage == nil {
		r.lot.Acres = nil
		r.publish(FieldAcres)
		return
	}
	acres, ok := units.SqftToAcres(float64(*r.lot.SquareFootage))
	if !ok {
		r.lot.Acres = nil
	} else {
		rounded := units.RoundAcres(acres)
		r.lot.Acres = &rounded
	}
	r.publish(FieldAcres)
}

func (r *Reconciler) fromAcres() {
	r.last = SourceAcres
	if r.lot.Acres == nil {
		r.lot.SquareFootage = nil
		r.publish(FieldSquareFootage)
		return
	}
	sqft, ok := units.AcresToSqft(*r.lot.Acres)
	if !ok {
		r.lot.SquareFootage = nil
	} else {
		r.lot.SquareFootage = &sqft
	}
	r.publish(FieldSquareFootage)
}

func (r *Reconciler) publish(fields ...Field) {
	if r.listener == nil {
		return
	}
	r.updating = true
	defer func() { r.updating = false }()
	for _, f := range fields {
		r.listener(f, r.lot)
	}
}

func positive(v *float64) bool {
	return v != nil && *v > 0
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func toInt(v *float64) *int64 {
	if v == nil {
		return nil
	}
	i := int64(math.Round(*v))
	return &i
}
