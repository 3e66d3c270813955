package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// productDetail is the detail-page payload: the raw product plus the
// rendered description and gallery slides.
type productDetail struct {
	Product
	DescriptionHTML string  `json:"description_html,omitempty"`
	Slides          []Slide `json:"slides,omitempty"`
}

// RegisterRoutes mounts the catalog API.
func RegisterRoutes(r chi.Router, c *Catalog) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/", handleList(c))
		r.Get("/{id}", handleGet(c))
	})
}

func handleList(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products := c.Products()
		if category := r.URL.Query().Get("category"); category != "" {
			products = c.ByCategory(category)
		}
		if products == nil {
			products = []Product{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(products)
	}
}

func handleGet(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := c.ByID(chi.URLParam(r, "id"))
		if !ok {
			http.Error(w, `{"error":"product not found"}`, http.StatusNotFound)
			return
		}

		descHTML, err := p.DescriptionHTML()
		if err != nil {
			http.Error(w, `{"error":"rendering description"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(productDetail{
			Product:         p,
			DescriptionHTML: descHTML,
			Slides:          p.Slides(),
		})
	}
}
