package seeds

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/treasurevalley/lotmap/internal/property"
)

// Creator is the part of the property service the seeder writes through.
type Creator interface {
	Create(ctx context.Context, body []byte) (*property.Property, error)
}

// Result counts what a seeding run did.
type Result struct {
	Created int
	Skipped int
}

// SeedAll loads the properties CSV at path and creates every valid row.
func SeedAll(ctx context.Context, svc Creator, path string, dryRun bool) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	bodies, err := property.DecodeCSV(f)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return SeedProperties(ctx, svc, bodies, dryRun)
}

// SeedProperties creates one property per body. Rows that fail validation are
// logged and skipped; a store failure stops the run. A dry run only validates.
func SeedProperties(ctx context.Context, svc Creator, bodies [][]byte, dryRun bool) (Result, error) {
	var res Result
	for i, body := range bodies {
		row := i + 2 // header is line 1

		if dryRun {
			if _, err := property.NormalizeCreate(body); err != nil {
				log.Printf("⚠️ Row %d invalid, skipping: %v", row, err)
				res.Skipped++
				continue
			}
			res.Created++
			continue
		}

		p, err := svc.Create(ctx, body)
		var ve *property.ValidationError
		if errors.As(err, &ve) {
			log.Printf("⚠️ Row %d invalid, skipping: %v", row, err)
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("row %d: %w", row, err)
		}
		log.Printf("Seeded %s (%s)", p.Title, p.Category)
		res.Created++
	}

	log.Printf("✅ Seeded %d properties, skipped %d", res.Created, res.Skipped)
	return res, nil
}
