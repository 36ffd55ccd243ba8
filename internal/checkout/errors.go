package checkout

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrInvalidRequest     = errors.New("invalid checkout request")
)
