package storefront

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/kodomoshop/storefront/internal/cart"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub tracks connected websocket clients and fans cart views out to them.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newHub() *hub {
	return &hub{conns: make(map[*websocket.Conn]bool)}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

// broadcast sends the view to every client. Clients that fail to accept the
// write are dropped.
func (h *hub) broadcast(v cart.View) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(v); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// handleWebSocket upgrades the connection, sends the current cart view
// immediately, then keeps the client subscribed to mutation broadcasts
// until it disconnects.
func (s *Storefront) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("storefront: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(cart.Project(s.store.Lines(), s.waNumber)); err != nil {
		return
	}

	s.hub.add(conn)
	defer s.hub.remove(conn)

	// Drain client messages until the connection closes; the stream is
	// one-way.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("storefront: websocket read: %v", err)
			}
			return
		}
	}
}
