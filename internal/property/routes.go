package property

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes mounts the property routes. guard wraps the write routes.
func SetupRoutes(h *Handlers, guard func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListProperties)
	r.Get("/categories", h.CategorySummary)
	r.Get("/compare", h.CompareProperties)
	r.Get("/{id}", h.GetProperty)

	r.Group(func(r chi.Router) {
		r.Use(guard)

		r.Post("/", h.CreateProperty)
		r.Patch("/{id}", h.UpdateProperty)
		r.Delete("/{id}", h.DeleteProperty)
	})

	return r
}
