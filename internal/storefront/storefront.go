package storefront

import (
	"github.com/go-chi/chi/v5"

	"github.com/kodomoshop/storefront/internal/cart"
	"github.com/kodomoshop/storefront/internal/catalog"
)

// Storefront serves the shop page and pushes cart changes to connected
// clients. It owns no cart state: every update it sends is a fresh
// projection of the cart store.
type Storefront struct {
	catalog  *catalog.Catalog
	store    *cart.Store
	renderer *cart.Renderer
	waNumber string
	shopName string
	hub      *hub
}

// New creates a Storefront and subscribes it to cart changes. Each
// successful cart mutation is broadcast as a fresh View to every websocket
// client, so all open pages re-render from the same state.
func New(c *catalog.Catalog, store *cart.Store, renderer *cart.Renderer, waNumber, shopName string) *Storefront {
	s := &Storefront{
		catalog:  c,
		store:    store,
		renderer: renderer,
		waNumber: waNumber,
		shopName: shopName,
		hub:      newHub(),
	}

	store.OnChange(func(lines []cart.Line) {
		s.hub.broadcast(cart.Project(lines, waNumber))
	})

	return s
}

// RegisterRoutes mounts the storefront page and the cart change stream.
func (s *Storefront) RegisterRoutes(r chi.Router) {
	r.Get("/", s.ServeIndex)
	r.Get("/ws/cart", s.handleWebSocket)
}
