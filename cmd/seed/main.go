package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/treasurevalley/lotmap/internal/config"
	"github.com/treasurevalley/lotmap/internal/db"
	"github.com/treasurevalley/lotmap/internal/property"
	"github.com/treasurevalley/lotmap/internal/seeds"
)

var (
	csvPath = flag.String("csv", "", "Path to the properties CSV (required)")
	dryRun  = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *csvPath == "" {
		log.Fatal("--csv is required")
	}

	var svc *property.Service
	if !*dryRun {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal(err)
		}
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
		db.Connect(db.Options{DSN: cfg.DatabaseURL, SuppressTransientWarnings: cfg.SuppressTransientDBWarnings})
		property.Init(db.DB, cfg.AutoMigrate)
		svc = property.NewService(property.NewSchemaTolerantStore(property.NewGormStore(db.DB), cfg.DriftGroups), nil)
	}

	if _, err := seeds.SeedAll(context.Background(), svc, *csvPath, *dryRun); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}
