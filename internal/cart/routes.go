package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ProductLookup resolves a catalog product id to the data captured on a new
// cart line. The second return value is false for unknown ids.
type ProductLookup func(id string) (AddRequest, bool)

// RegisterRoutes mounts the cart API. The catalog supplies stock and price
// at add time through lookup; quantity controls address lines by id.
func RegisterRoutes(r chi.Router, store *Store, renderer *Renderer, lookup ProductLookup, waNumber string) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", handleGetCart(store, waNumber))
		r.Get("/fragment", handleGetFragment(store, renderer, waNumber))
		r.Post("/items", handleAdd(store, lookup, waNumber))
		r.Post("/items/{id}/increase", handleIncrease(store, waNumber))
		r.Post("/items/{id}/decrease", handleDecrease(store, waNumber))
		r.Delete("/items/{id}", handleRemove(store, waNumber))
	})
}

func writeView(w http.ResponseWriter, store *Store, waNumber string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Project(store.Lines(), waNumber))
}

func handleGetCart(store *Store, waNumber string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeView(w, store, waNumber, http.StatusOK)
	}
}

func handleGetFragment(store *Store, renderer *Renderer, waNumber string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		html, err := renderer.Render(Project(store.Lines(), waNumber))
		if err != nil {
			http.Error(w, `{"error":"rendering cart"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	}
}

type addItemRequest struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

func handleAdd(store *Store, lookup ProductLookup, waNumber string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.ID == "" {
			http.Error(w, `{"error":"id is required"}`, http.StatusBadRequest)
			return
		}

		add, ok := lookup(req.ID)
		if !ok {
			http.Error(w, `{"error":"unknown product"}`, http.StatusNotFound)
			return
		}
		add.Qty = req.Qty

		if err := store.Add(add); err != nil {
			if errors.Is(err, ErrOutOfStock) || errors.Is(err, ErrStockLimitExceeded) {
				http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusConflict)
				return
			}
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}

		writeView(w, store, waNumber, http.StatusOK)
	}
}

func handleIncrease(store *Store, waNumber string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// At-limit and unknown ids are both quiet no-ops: the fresh view
		// carries the disabled state for the increase control.
		if _, err := store.IncreaseQuantity(chi.URLParam(r, "id")); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeView(w, store, waNumber, http.StatusOK)
	}
}

func handleDecrease(store *Store, waNumber string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := store.DecreaseQuantity(chi.URLParam(r, "id")); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeView(w, store, waNumber, http.StatusOK)
	}
}

func handleRemove(store *Store, waNumber string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Remove(chi.URLParam(r, "id")); err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
			return
		}
		writeView(w, store, waNumber, http.StatusOK)
	}
}
