package catalog

import (
	"encoding/json"
	"fmt"
)

// Party identifies a manufacturer or importer on a product sheet.
type Party struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// Product is one catalog entry as authored in the shop's JSON files.
// Stock of -1 (or a missing stock field) means no stock bound.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Price           float64  `json:"price"`
	OldPrice        float64  `json:"old_price,omitempty"`
	MRP             float64  `json:"mrp,omitempty"`
	Offer           int      `json:"offer,omitempty"` // discount percentage
	Currency        string   `json:"currency,omitempty"`
	Stock           int      `json:"stock"`
	Images          []string `json:"images,omitempty"`
	Video           string   `json:"video,omitempty"`
	Description     string   `json:"description,omitempty"` // markdown
	CountryOfOrigin string   `json:"country_of_origin,omitempty"`
	Manufacturer    *Party   `json:"manufacturer,omitempty"`
	Importer        *Party   `json:"importer,omitempty"`
	Note            string   `json:"note,omitempty"`
}

// UnmarshalJSON tolerates numeric ids and a missing stock field, which some
// catalog files use.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	aux := struct {
		ID    json.RawMessage `json:"id"`
		Stock *int            `json:"stock"`
		*alias
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := normalizeID(aux.ID)
	if err != nil {
		return err
	}
	p.ID = id

	if aux.Stock == nil {
		p.Stock = -1
	} else {
		p.Stock = *aux.Stock
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

// InStock reports whether the product can be added to a cart at all.
func (p Product) InStock() bool {
	return p.Stock != 0
}

// Unbounded reports whether the product has no stock bound.
func (p Product) Unbounded() bool {
	return p.Stock < 0
}
