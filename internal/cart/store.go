package cart

import (
	"fmt"
	"sync"
)

// AddRequest carries the catalog data captured when a product is added.
// Stock is the bound at add time; UnlimitedStock means no bound. A Qty of
// zero or less defaults to 1.
type AddRequest struct {
	ID       string
	Name     string
	Category string
	Stock    int
	Price    float64
	Qty      int
}

// Store owns the in-memory cart and its durable mirror. All mutations are
// serialized by a mutex and run to completion: the mirror is written before
// the in-memory state is committed, and change listeners fire synchronously
// afterwards, so listeners always observe exactly the persisted cart.
//
// A rejected operation (ErrOutOfStock, ErrStockLimitExceeded) changes
// neither memory nor the mirror.
type Store struct {
	mu       sync.Mutex
	lines    []Line
	mirror   Mirror
	onChange []func([]Line)
}

// NewStore creates a store initialized from the mirror. Lines that violate
// the cart invariants and duplicate ids are dropped during load.
func NewStore(mirror Mirror) (*Store, error) {
	s := &Store{mirror: mirror}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// OnChange registers a listener invoked with a snapshot of the cart after
// every successful mutation. Listeners run synchronously on the mutating
// call, in registration order.
func (s *Store) OnChange(fn func([]Line)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// Reload re-reads the cart from the mirror, replacing the in-memory state.
func (s *Store) Reload() error {
	loaded, err := s.mirror.Load()
	if err != nil {
		return fmt.Errorf("loading cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = normalize(loaded)
	return nil
}

// normalize drops invalid lines and duplicate ids (first occurrence wins),
// preserving insertion order.
func normalize(lines []Line) []Line {
	seen := make(map[string]bool, len(lines))
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if !l.Valid() || seen[l.ID] {
			continue
		}
		seen[l.ID] = true
		out = append(out, l)
	}
	return out
}

// Lines returns a snapshot of the cart in insertion order.
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.lines)
}

func snapshot(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

// Add inserts a new line or accumulates quantity onto an existing one.
// Adding to an existing line past its stock bound returns
// ErrStockLimitExceeded; creating a new line with more than the available
// stock returns ErrOutOfStock. Either rejection leaves the cart unchanged.
func (s *Store) Add(req AddRequest) error {
	qty := req.Qty
	if qty <= 0 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := snapshot(s.lines)
	if i := indexOf(next, req.ID); i >= 0 {
		line := next[i]
		if !line.Unbounded() && line.Qty+qty > line.Stock {
			return ErrStockLimitExceeded
		}
		line.Qty += qty
		next[i] = line
	} else {
		if req.Stock >= 0 && qty > req.Stock {
			return ErrOutOfStock
		}
		next = append(next, Line{
			ID:       req.ID,
			Name:     req.Name,
			Category: req.Category,
			Price:    req.Price,
			Qty:      qty,
			Stock:    req.Stock,
		})
	}

	return s.commit(next)
}

// IncreaseQuantity increments the quantity of the line with the given id.
// It reports whether the cart changed: false when the id is absent or the
// line is already at its stock bound.
func (s *Store) IncreaseQuantity(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.lines, id)
	if i < 0 {
		return false, nil
	}
	line := s.lines[i]
	if !line.Unbounded() && line.Qty >= line.Stock {
		return false, nil
	}

	next := snapshot(s.lines)
	next[i].Qty++
	if err := s.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// DecreaseQuantity decrements the quantity of the line with the given id.
// A line at quantity 1 is removed entirely; a zero-quantity line never
// exists. It reports whether the cart changed.
func (s *Store) DecreaseQuantity(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.lines, id)
	if i < 0 {
		return false, nil
	}

	next := snapshot(s.lines)
	if next[i].Qty > 1 {
		next[i].Qty--
	} else {
		next = append(next[:i], next[i+1:]...)
	}
	if err := s.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the line with the given id. Removing an absent id is a
// harmless no-op that still persists and notifies, so the rendered view is
// refreshed either way.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := snapshot(s.lines)
	if i := indexOf(next, id); i >= 0 {
		next = append(next[:i], next[i+1:]...)
	}
	return s.commit(next)
}

// Clear empties the cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(nil)
}

// commit persists the candidate state, then swaps it in and notifies
// listeners. Callers must hold the mutex. If the mirror write fails the
// in-memory cart keeps its previous state.
func (s *Store) commit(next []Line) error {
	if next == nil {
		next = []Line{}
	}
	if err := s.mirror.Save(next); err != nil {
		return fmt.Errorf("persisting cart: %w", err)
	}
	s.lines = next
	for _, fn := range s.onChange {
		fn(snapshot(s.lines))
	}
	return nil
}

func indexOf(lines []Line, id string) int {
	for i, l := range lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}
