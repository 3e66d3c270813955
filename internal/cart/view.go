package cart

import (
	"fmt"
	"net/url"
	"strings"
)

// LineView is the projection of a single cart line for rendering.
type LineView struct {
	Index        int     `json:"index"` // 1-based position in the cart
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Qty          int     `json:"qty"`
	UnitPrice    float64 `json:"unit_price"`
	LineTotal    float64 `json:"line_total"`
	AtStockLimit bool    `json:"at_stock_limit"` // increase control renders disabled
}

// View is the full projection of the cart: everything the presentation
// layer needs to paint the mini-cart, derived fresh from the lines on every
// call. Projecting the same lines twice yields the same View.
type View struct {
	Lines          []LineView `json:"lines"`
	Total          float64    `json:"total"`
	Badge          int        `json:"badge"` // sum of quantities across lines
	Empty          bool       `json:"empty"`
	HandoffURL     string     `json:"handoff_url,omitempty"`
	HandoffEnabled bool       `json:"handoff_enabled"`
}

// Project builds the View for the given lines. waNumber is the WhatsApp
// destination for the order-handoff link; when it is empty or the cart is
// empty the handoff control is disabled.
func Project(lines []Line, waNumber string) View {
	v := View{Empty: len(lines) == 0}

	for i, l := range lines {
		v.Lines = append(v.Lines, LineView{
			Index:        i + 1,
			ID:           l.ID,
			Name:         l.Name,
			Category:     l.Category,
			Qty:          l.Qty,
			UnitPrice:    l.Price,
			LineTotal:    l.Total(),
			AtStockLimit: !l.Unbounded() && l.Qty >= l.Stock,
		})
		v.Total += l.Total()
		v.Badge += l.Qty
	}

	if !v.Empty && waNumber != "" {
		v.HandoffURL = HandoffURL(lines, waNumber)
		v.HandoffEnabled = true
	}
	return v
}

// HandoffMessage builds the order summary text: one 1-indexed
// "<i>. <name> | Qty: <qty>" line per cart line, newline-joined.
func HandoffMessage(lines []Line) string {
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = fmt.Sprintf("%d. %s | Qty: %d", i+1, l.Name, l.Qty)
	}
	return strings.Join(parts, "\n")
}

// HandoffURL builds the pre-filled WhatsApp deep link for the given lines.
func HandoffURL(lines []Line, waNumber string) string {
	return "https://wa.me/" + waNumber + "?text=" + url.QueryEscape(HandoffMessage(lines))
}
