package property

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/treasurevalley/lotmap/internal/category"
)

// Handlers contains HTTP handlers and their dependencies.
type Handlers struct {
	svc *Service
	// verbose adds the store's details, hint and detail text to error bodies.
	verbose bool
}

// NewHandlers creates a new Handlers instance. verbose is meant for development.
func NewHandlers(svc *Service, verbose bool) *Handlers {
	return &Handlers{svc: svc, verbose: verbose}
}

// ListProperties handles GET /properties?categories=a,b
func (h *Handlers) ListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.svc.List(r.Context(), visibilityParam(r))
	if err != nil {
		h.writeError(w, "Failed to fetch properties", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"properties": props})
}

// CategorySummary handles GET /properties/categories
func (h *Handlers) CategorySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Categories(r.Context(), visibilityParam(r))
	if err != nil {
		h.writeError(w, "Failed to count properties", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": summary})
}

// CompareProperties handles GET /properties/compare?ids=a,b
func (h *Handlers) CompareProperties(w http.ResponseWriter, r *http.Request) {
	props, err := h.svc.Compare(r.Context(), splitList(r.URL.Query().Get("ids")))
	if err != nil {
		h.writeError(w, "Failed to fetch properties", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"properties": props})
}

// GetProperty handles GET /properties/{id}
func (h *Handlers) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "Failed to fetch property", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"property": p})
}

// CreateProperty handles POST /properties
func (h *Handlers) CreateProperty(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Failed to create property", invalid("body", "could not be read"))
		return
	}

	p, err := h.svc.Create(r.Context(), body)
	if err != nil {
		h.writeError(w, "Failed to create property", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"property": p})
}

// UpdateProperty handles PATCH /properties/{id}
func (h *Handlers) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Failed to update property", invalid("body", "could not be read"))
		return
	}

	p, err := h.svc.Patch(r.Context(), chi.URLParam(r, "id"), body)
	if err != nil {
		h.writeError(w, "Failed to update property", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"property": p})
}

// DeleteProperty handles DELETE /properties/{id} as a soft delete.
func (h *Handlers) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, "Failed to delete property", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"property": p})
}

// Search handles GET /search?q=
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, "Search failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// visibilityParam reads the categories query parameter. Absent means every
// category is visible; present but empty means none are.
func visibilityParam(r *http.Request) *category.Visibility {
	q := r.URL.Query()
	if !q.Has("categories") {
		return nil
	}
	var cats []category.Category
	for _, s := range splitList(q.Get("categories")) {
		cats = append(cats, category.Category(s))
	}
	return category.VisibilityOf(cats...)
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
