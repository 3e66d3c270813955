package cart

import (
	"encoding/json"
	"fmt"
)

// UnlimitedStock marks a line whose product carried no stock bound in the
// catalog. Quantity increases on such a line are never rejected.
const UnlimitedStock = -1

// Line is one product entry in the cart: its quantity plus the price and
// stock bound captured from the catalog at add time. Prices are not
// re-fetched after the line is created.
type Line struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	Stock    int     `json:"stock"`
}

// UnmarshalJSON tolerates the shapes older mirrors produced: numeric ids
// and a missing stock field (treated as unbounded).
func (l *Line) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID       json.RawMessage `json:"id"`
		Name     string          `json:"name"`
		Category string          `json:"category"`
		Price    float64         `json:"price"`
		Qty      int             `json:"qty"`
		Stock    *int            `json:"stock"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := normalizeID(aux.ID)
	if err != nil {
		return err
	}

	l.ID = id
	l.Name = aux.Name
	l.Category = aux.Category
	l.Price = aux.Price
	l.Qty = aux.Qty
	if aux.Stock == nil {
		l.Stock = UnlimitedStock
	} else {
		l.Stock = *aux.Stock
	}
	return nil
}

// normalizeID accepts a JSON string or number and returns its string form.
func normalizeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("id must be a string or number, got %s", raw)
}

// Unbounded reports whether the line has no stock limit.
func (l Line) Unbounded() bool {
	return l.Stock < 0
}

// Valid reports whether the line satisfies the cart invariants: a non-empty
// id, a positive quantity, a non-negative price, and qty within the stock
// bound when the bound is finite.
func (l Line) Valid() bool {
	if l.ID == "" || l.Qty < 1 || l.Price < 0 {
		return false
	}
	if !l.Unbounded() && l.Qty > l.Stock {
		return false
	}
	return true
}

// Total returns the line total (unit price times quantity).
func (l Line) Total() float64 {
	return l.Price * float64(l.Qty)
}
