package handoff

import "time"

// Record is one order handoff: the summary text the shopper carried to the
// messaging app, kept so the shop owner can reconcile incoming orders.
type Record struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	ItemCount int       `json:"item_count"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}
