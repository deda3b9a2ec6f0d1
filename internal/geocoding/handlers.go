package geocoding

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Geocoder is what the HTTP handlers need from Service.
type Geocoder interface {
	Forward(ctx context.Context, query string) []Place
	Reverse(ctx context.Context, lat, lng float64) *Place
}

// Handlers serves the forward and reverse geocoding endpoints.
type Handlers struct {
	geo Geocoder
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(geo Geocoder) *Handlers {
	return &Handlers{geo: geo}
}

// Forward handles GET /geocode?q=
func (h *Handlers) Forward(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing query parameter q"})
		return
	}
	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=86400")
	writeJSON(w, http.StatusOK, map[string]any{"features": h.geo.Forward(r.Context(), q)})
}

// Reverse handles GET /reverse-geocode?lat=&lng=
func (h *Handlers) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng must be valid coordinates"})
		return
	}

	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=86400")
	place := h.geo.Reverse(r.Context(), lat, lng)
	if place == nil {
		writeJSON(w, http.StatusOK, map[string]any{"address": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"address": place.PlaceName,
		"center":  place.Center,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
