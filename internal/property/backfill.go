package property

import (
	"context"
	"log"

	"github.com/treasurevalley/lotmap/internal/reconcile"
)

// LotFix is a record whose stored lot fields disagree with what they derive to.
type LotFix struct {
	ID     string            `json:"id"`
	Title  string            `json:"title"`
	Fields []reconcile.Field `json:"fields"`
	Before reconcile.Lot     `json:"before"`
	After  reconcile.Lot     `json:"after"`
}

// ReconcileLots recomputes the derived lot fields of every live record and,
// unless dryRun, writes the ones that changed. Records written before the
// fields were linked are the usual source of mismatches.
func (s *Service) ReconcileLots(ctx context.Context, dryRun bool) ([]LotFix, error) {
	props, err := s.store.QueryAll(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	var fixes []LotFix
	for _, p := range props {
		before := p.LotMetrics()
		after := reconcile.Derive(before)
		changed := reconcile.Changed(before, after)
		if len(changed) == 0 {
			continue
		}

		fix := LotFix{ID: p.ID.String(), Title: p.Title, Fields: changed, Before: before, After: after}
		fixes = append(fixes, fix)
		if dryRun {
			continue
		}

		values := Values{}
		for _, f := range changed {
			values.setLotField(f, after)
		}
		if _, err := s.store.Update(ctx, fix.ID, values); err != nil {
			return fixes, err
		}
		log.Printf("[property] reconciled %s: %v", fix.ID, changed)
	}
	return fixes, nil
}
