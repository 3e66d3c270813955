package handoff

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kodomoshop/storefront/internal/cart"
)

// RegisterRoutes mounts the handoff API. Activating a handoff snapshots the
// current cart's order summary; the cart itself is left untouched so the
// shopper can complete the order over the messaging app.
func RegisterRoutes(r chi.Router, store *Store, cartStore *cart.Store) {
	r.Route("/api/handoff", func(r chi.Router) {
		r.Post("/", handleCreate(store, cartStore))
		r.Get("/recent", handleRecent(store))
	})
}

func handleCreate(store *Store, cartStore *cart.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lines := cartStore.Lines()
		if len(lines) == 0 {
			http.Error(w, `{"error":"cart is empty"}`, http.StatusConflict)
			return
		}

		v := cart.Project(lines, "")
		rec, err := store.Log(r.Context(), Record{
			Message:   cart.HandoffMessage(lines),
			ItemCount: v.Badge,
			Total:     v.Total,
		})
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rec)
	}
}

func handleRecent(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		records, err := store.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []Record{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}
