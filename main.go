package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/treasurevalley/lotmap/internal/config"
	"github.com/treasurevalley/lotmap/internal/db"
	"github.com/treasurevalley/lotmap/internal/geocoding"
	"github.com/treasurevalley/lotmap/internal/middleware"
	"github.com/treasurevalley/lotmap/internal/property"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid config: ", err)
	}

	db.Connect(db.Options{
		DSN:                       cfg.DatabaseURL,
		SuppressTransientWarnings: cfg.SuppressTransientDBWarnings,
	})
	property.Init(db.DB, cfg.AutoMigrate)

	geoClient := geocoding.NewClient(cfg.MapboxToken, geocoding.Options{RatePerSecond: cfg.GeocodeRatePerSec})
	if geoClient == nil {
		log.Println("[geocoding] MAPBOX_TOKEN not set, geocoding disabled")
	}
	geo := geocoding.NewService(geoClient, cfg.GeocodeCacheTTL)

	store := property.NewSchemaTolerantStore(property.NewGormStore(db.DB), cfg.DriftGroups)
	props := property.NewHandlers(property.NewService(store, geo), cfg.Development())
	places := geocoding.NewHandlers(geo)

	if cfg.AdminTokenHash == "" {
		log.Println("[property] ADMIN_TOKEN_HASH not set, write routes are open")
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/", RootHandler)
	r.Get("/health", props.Health)
	r.Get("/search", props.Search)
	r.Get("/geocode", places.Forward)
	r.Get("/reverse-geocode", places.Reverse)
	r.Mount("/properties", property.SetupRoutes(props, middleware.AdminTokenMiddleware(cfg.AdminTokenHash)))

	log.Printf("Server listening on port :%s...", cfg.Port)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+cfg.Port, r))
}
