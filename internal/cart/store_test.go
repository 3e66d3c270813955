package cart

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/kodomoshop/storefront/internal/db"
)

func setupStore(t *testing.T) (*Store, *FileMirror) {
	t.Helper()
	mirror := NewFileMirror(filepath.Join(t.TempDir(), "cart.json"))
	store, err := NewStore(mirror)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, mirror
}

func toyRequest(qty int) AddRequest {
	return AddRequest{ID: "p1", Name: "Toy", Category: "toys", Stock: 5, Price: 100, Qty: qty}
}

func TestAddNewLine(t *testing.T) {
	store, _ := setupStore(t)

	if err := store.Add(toyRequest(1)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	lines := store.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	want := Line{ID: "p1", Name: "Toy", Category: "toys", Price: 100, Qty: 1, Stock: 5}
	if lines[0] != want {
		t.Errorf("line = %+v, want %+v", lines[0], want)
	}

	v := Project(lines, "")
	if v.Badge != 1 {
		t.Errorf("badge = %d, want 1", v.Badge)
	}
	if v.Total != 100 {
		t.Errorf("total = %v, want 100", v.Total)
	}
}

func TestAddAccumulatesQuantity(t *testing.T) {
	store, _ := setupStore(t)

	// Adding 2 then 3 must equal adding 5 once.
	if err := store.Add(toyRequest(2)); err != nil {
		t.Fatalf("Add(2): %v", err)
	}
	if err := store.Add(toyRequest(3)); err != nil {
		t.Fatalf("Add(3): %v", err)
	}

	other, _ := setupStore(t)
	if err := other.Add(toyRequest(5)); err != nil {
		t.Fatalf("Add(5): %v", err)
	}

	if !reflect.DeepEqual(store.Lines(), other.Lines()) {
		t.Errorf("2+3 = %+v, 5 = %+v", store.Lines(), other.Lines())
	}
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	store, _ := setupStore(t)

	req := toyRequest(0)
	if err := store.Add(req); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := store.Lines()[0].Qty; got != 1 {
		t.Errorf("qty = %d, want 1", got)
	}
}

func TestAddRejectsPastStock(t *testing.T) {
	store, mirror := setupStore(t)

	if err := store.Add(toyRequest(5)); err != nil {
		t.Fatalf("Add(5): %v", err)
	}
	before := store.Lines()

	err := store.Add(toyRequest(1))
	if !errors.Is(err, ErrStockLimitExceeded) {
		t.Fatalf("expected ErrStockLimitExceeded, got %v", err)
	}

	// Rejection must change neither memory nor the mirror.
	if !reflect.DeepEqual(store.Lines(), before) {
		t.Errorf("cart changed after rejection: %+v", store.Lines())
	}
	persisted, err := mirror.Load()
	if err != nil {
		t.Fatalf("mirror.Load: %v", err)
	}
	if !reflect.DeepEqual(persisted, before) {
		t.Errorf("mirror changed after rejection: %+v", persisted)
	}
}

func TestAddNewLineOutOfStock(t *testing.T) {
	store, _ := setupStore(t)

	req := AddRequest{ID: "p9", Name: "Rare", Stock: 2, Price: 10, Qty: 3}
	if err := store.Add(req); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if len(store.Lines()) != 0 {
		t.Errorf("cart should stay empty, got %+v", store.Lines())
	}

	// Stock 0 means nothing can be added.
	req = AddRequest{ID: "p0", Name: "Gone", Stock: 0, Price: 10, Qty: 1}
	if err := store.Add(req); !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock for zero stock, got %v", err)
	}
}

func TestAddUnlimitedStock(t *testing.T) {
	store, _ := setupStore(t)

	req := AddRequest{ID: "d1", Name: "Download", Stock: UnlimitedStock, Price: 5, Qty: 100}
	if err := store.Add(req); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Add(req); err != nil {
		t.Fatalf("second Add: %v", err)
	}
	if got := store.Lines()[0].Qty; got != 200 {
		t.Errorf("qty = %d, want 200", got)
	}
}

func TestIncreaseQuantity(t *testing.T) {
	store, _ := setupStore(t)
	store.Add(toyRequest(1))

	changed, err := store.IncreaseQuantity("p1")
	if err != nil {
		t.Fatalf("IncreaseQuantity: %v", err)
	}
	if !changed {
		t.Error("expected change")
	}
	if got := store.Lines()[0].Qty; got != 2 {
		t.Errorf("qty = %d, want 2", got)
	}
}

func TestIncreaseQuantityAtStockLimit(t *testing.T) {
	store, mirror := setupStore(t)
	store.Add(toyRequest(5))

	changed, err := store.IncreaseQuantity("p1")
	if err != nil {
		t.Fatalf("IncreaseQuantity: %v", err)
	}
	if changed {
		t.Error("expected no change at stock limit")
	}
	if got := store.Lines()[0].Qty; got != 5 {
		t.Errorf("qty = %d, want 5", got)
	}

	persisted, _ := mirror.Load()
	if persisted[0].Qty != 5 {
		t.Errorf("mirror qty = %d, want 5", persisted[0].Qty)
	}
}

func TestIncreaseQuantityUnknownID(t *testing.T) {
	store, _ := setupStore(t)
	store.Add(toyRequest(1))

	changed, err := store.IncreaseQuantity("nope")
	if err != nil {
		t.Fatalf("IncreaseQuantity: %v", err)
	}
	if changed {
		t.Error("expected no change for unknown id")
	}
}

func TestIncreaseQuantityUnbounded(t *testing.T) {
	store, _ := setupStore(t)
	store.Add(AddRequest{ID: "d1", Name: "Download", Stock: UnlimitedStock, Price: 5, Qty: 999})

	changed, err := store.IncreaseQuantity("d1")
	if err != nil {
		t.Fatalf("IncreaseQuantity: %v", err)
	}
	if !changed {
		t.Error("unbounded stock must always allow increase")
	}
}

func TestDecreaseQuantity(t *testing.T) {
	store, _ := setupStore(t)
	store.Add(toyRequest(3))

	changed, err := store.DecreaseQuantity("p1")
	if err != nil {
		t.Fatalf("DecreaseQuantity: %v", err)
	}
	if !changed {
		t.Error("expected change")
	}
	if got := store.Lines()[0].Qty; got != 2 {
		t.Errorf("qty = %d, want 2", got)
	}
}

func TestDecreaseQuantityAtOneRemovesLine(t *testing.T) {
	store, _ := setupStore(t)
	store.Add(toyRequest(1))

	if _, err := store.DecreaseQuantity("p1"); err != nil {
		t.Fatalf("DecreaseQuantity: %v", err)
	}
	if len(store.Lines()) != 0 {
		t.Errorf("expected empty cart, got %+v", store.Lines())
	}
}

func TestDecreaseEqualsRemoveAtQtyOne(t *testing.T) {
	dec, _ := setupStore(t)
	dec.Add(toyRequest(1))
	dec.DecreaseQuantity("p1")

	rem, _ := setupStore(t)
	rem.Add(toyRequest(1))
	rem.Remove("p1")

	if !reflect.DeepEqual(dec.Lines(), rem.Lines()) {
		t.Errorf("decrease = %+v, remove = %+v", dec.Lines(), rem.Lines())
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, _ := setupStore(t)
	store.Add(toyRequest(2))
	store.Add(AddRequest{ID: "p2", Name: "Ball", Stock: 9, Price: 30, Qty: 1})

	if err := store.Remove("p1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	after := store.Lines()

	if err := store.Remove("p1"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if !reflect.DeepEqual(store.Lines(), after) {
		t.Errorf("second remove changed the cart: %+v", store.Lines())
	}
}

func TestMirrorRoundTrip(t *testing.T) {
	store, mirror := setupStore(t)
	store.Add(toyRequest(2))
	store.Add(AddRequest{ID: "p2", Name: "Ball", Category: "sports", Stock: 9, Price: 30, Qty: 1})
	store.IncreaseQuantity("p2")

	persisted, err := mirror.Load()
	if err != nil {
		t.Fatalf("mirror.Load: %v", err)
	}
	if !reflect.DeepEqual(persisted, store.Lines()) {
		t.Errorf("mirror = %+v, memory = %+v", persisted, store.Lines())
	}

	// A fresh store over the same mirror sees the identical cart.
	reloaded, err := NewStore(mirror)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if !reflect.DeepEqual(reloaded.Lines(), store.Lines()) {
		t.Errorf("reloaded = %+v, original = %+v", reloaded.Lines(), store.Lines())
	}
}

func TestMalformedMirrorLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing mirror: %v", err)
	}

	store, err := NewStore(NewFileMirror(path))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if len(store.Lines()) != 0 {
		t.Errorf("expected empty cart, got %+v", store.Lines())
	}
}

func TestLoadNormalizesInvalidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	raw := `[
		{"id": "p1", "name": "Toy", "price": 100, "qty": 2, "stock": 5},
		{"id": "p1", "name": "Dup", "price": 100, "qty": 1, "stock": 5},
		{"id": "bad", "name": "Zero", "price": 10, "qty": 0, "stock": 5},
		{"id": "over", "name": "Over", "price": 10, "qty": 9, "stock": 5},
		{"id": 42, "name": "Numeric", "price": 10, "qty": 1}
	]`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("writing mirror: %v", err)
	}

	store, err := NewStore(NewFileMirror(path))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	lines := store.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 surviving lines, got %+v", lines)
	}
	if lines[0].ID != "p1" || lines[0].Qty != 2 {
		t.Errorf("first line = %+v", lines[0])
	}
	// Numeric id normalized to string, absent stock treated as unbounded.
	if lines[1].ID != "42" {
		t.Errorf("numeric id = %q, want \"42\"", lines[1].ID)
	}
	if !lines[1].Unbounded() {
		t.Errorf("missing stock should be unbounded, got %d", lines[1].Stock)
	}
}

func TestInvariantsHoldAcrossOperationSequence(t *testing.T) {
	store, _ := setupStore(t)

	ops := []func(){
		func() { store.Add(toyRequest(4)) },
		func() { store.Add(toyRequest(4)) }, // rejected, 8 > 5
		func() { store.IncreaseQuantity("p1") },
		func() { store.IncreaseQuantity("p1") }, // at limit
		func() { store.Add(AddRequest{ID: "p2", Name: "Ball", Stock: 1, Price: 30, Qty: 1}) },
		func() { store.DecreaseQuantity("p2") },
		func() { store.DecreaseQuantity("p2") }, // already gone
		func() { store.Remove("missing") },
	}

	for i, op := range ops {
		op()
		for _, l := range store.Lines() {
			if l.Qty < 1 {
				t.Fatalf("after op %d: line %s has qty %d", i, l.ID, l.Qty)
			}
			if !l.Unbounded() && l.Qty > l.Stock {
				t.Fatalf("after op %d: line %s qty %d exceeds stock %d", i, l.ID, l.Qty, l.Stock)
			}
		}
	}
}

func TestOnChangeFiresAfterSuccessfulMutationsOnly(t *testing.T) {
	store, _ := setupStore(t)

	var calls int
	var last []Line
	store.OnChange(func(lines []Line) {
		calls++
		last = lines
	})

	store.Add(toyRequest(5))
	store.Add(toyRequest(1))     // rejected
	store.IncreaseQuantity("p1") // at limit, no change, no notification
	store.Remove("p1")

	// Add, Remove mutate; Remove of a missing id also notifies by contract.
	if calls != 2 {
		t.Errorf("expected 2 notifications, got %d", calls)
	}
	if len(last) != 0 {
		t.Errorf("final notification should carry empty cart, got %+v", last)
	}
}

type failingMirror struct{}

func (failingMirror) Load() ([]Line, error) { return nil, nil }
func (failingMirror) Save([]Line) error     { return errors.New("disk full") }

func TestFailedPersistKeepsPreviousState(t *testing.T) {
	store, err := NewStore(failingMirror{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if err := store.Add(toyRequest(1)); err == nil {
		t.Fatal("expected persist error")
	}
	if len(store.Lines()) != 0 {
		t.Errorf("memory mutated despite failed persist: %+v", store.Lines())
	}
}

func TestSQLiteMirrorRoundTrip(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	mirror := NewSQLiteMirror(database)
	store, err := NewStore(mirror)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	store.Add(toyRequest(2))
	store.Add(AddRequest{ID: "p2", Name: "Ball", Category: "sports", Stock: 9, Price: 30, Qty: 1})
	store.DecreaseQuantity("p1")

	persisted, err := mirror.Load()
	if err != nil {
		t.Fatalf("mirror.Load: %v", err)
	}
	if !reflect.DeepEqual(persisted, store.Lines()) {
		t.Errorf("mirror = %+v, memory = %+v", persisted, store.Lines())
	}

	// Saving an empty cart clears the table.
	store.Clear()
	persisted, _ = mirror.Load()
	if len(persisted) != 0 {
		t.Errorf("expected empty mirror, got %+v", persisted)
	}
}

func TestFileMirrorWritesPlainLineArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	store, err := NewStore(NewFileMirror(path))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store.Add(toyRequest(1))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading mirror file: %v", err)
	}
	var generic []map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("mirror is not a JSON array: %v", err)
	}
	if generic[0]["id"] != "p1" {
		t.Errorf("id = %v", generic[0]["id"])
	}
}
