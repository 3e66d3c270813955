package cart

import "errors"

// Domain errors. Both are rejections: the cart and its mirror are left
// untouched when either is returned.
var (
	// ErrOutOfStock is returned when adding a new line whose requested
	// quantity exceeds the available stock.
	ErrOutOfStock = errors.New("out of stock")

	// ErrStockLimitExceeded is returned when accumulating quantity onto an
	// existing line would push it past the stock bound captured at add time.
	ErrStockLimitExceeded = errors.New("stock limit reached")
)
