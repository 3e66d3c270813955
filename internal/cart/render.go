package cart

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
)

// fragmentTemplate is the Go html/template for the mini-cart fragment. The
// presentation layer swaps the fragment in wholesale after every mutation
// and re-binds its controls from the data-id attributes, so the fragment
// carries no state of its own.
const fragmentTemplate = `{{if .View.Empty}}<div class="mini-cart" data-badge="0">
  <div class="empty-cart">
    <p class="empty-text">Cart is empty</p>
  </div>
  <div class="cart-header"><h4>Total:</h4><div id="cart-total-amount">0{{.Currency}}</div></div>
  <a id="confirm-btn" class="confirm-btn disabled" href="#">Confirm Order</a>
</div>
{{else}}<div class="mini-cart" data-badge="{{.View.Badge}}">
  <div class="cart-slider">
{{range .View.Lines}}    <div class="cart-slide" data-id="{{.ID}}">
      <div class="left">
        <div class="cart-name">{{.Name}}</div>
        <div class="cart-meta">
          <div class="qty-control" role="group" aria-label="Quantity controls">
            <button class="qty-decrease" data-id="{{.ID}}" aria-label="Decrease">&minus;</button>
            <div class="qty-number">{{.Qty}}</div>
            <button class="qty-increase{{if .AtStockLimit}} disabled{{end}}" data-id="{{.ID}}"{{if .AtStockLimit}} aria-disabled="true"{{end}} aria-label="Increase">&plus;</button>
          </div>
          <div class="cart-category">{{.Category}}</div>
        </div>
      </div>
      <div class="right">
        <div class="price">{{amount .UnitPrice}}{{$.Currency}}</div>
        <div class="line-total">= <strong>{{amount .LineTotal}}{{$.Currency}}</strong></div>
        <div><button class="remove-btn" data-id="{{.ID}}" title="Remove">&times;</button></div>
      </div>
    </div>
{{end}}  </div>
  <div class="cart-header"><h4>Total:</h4><div id="cart-total-amount">{{amount .View.Total}}{{.Currency}}</div></div>
  <a id="confirm-btn" class="confirm-btn" href="{{.View.HandoffURL}}" target="_blank" rel="noopener">Confirm Order</a>
</div>
{{end}}`

// Renderer paints a View into the mini-cart HTML fragment. The projection
// (Project) stays pure; only this step produces markup.
type Renderer struct {
	tmpl     *template.Template
	currency string
}

// NewRenderer creates a renderer using the given currency symbol.
func NewRenderer(currency string) *Renderer {
	tmpl := template.Must(template.New("cart").Funcs(template.FuncMap{
		"amount": formatAmount,
	}).Parse(fragmentTemplate))
	return &Renderer{tmpl: tmpl, currency: currency}
}

// Render returns the HTML fragment for the given view. Rendering the same
// view twice produces identical output.
func (r *Renderer) Render(v View) (string, error) {
	var buf bytes.Buffer
	data := struct {
		View     View
		Currency string
	}{View: v, Currency: r.currency}
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering cart fragment: %w", err)
	}
	return buf.String(), nil
}

// formatAmount renders a price without trailing decimal zeros (100, 99.5).
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
