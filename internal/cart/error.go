package cart

import "errors"

var (
	// -- Request Context --
	ErrNoShopper            = errors.New("no shopper in request context")
	ErrUserNotAuthenticated = errors.New("user not authenticated")

	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrInvalidProduct  = errors.New("invalid cart product")

	// -- Resource State --
	ErrSellerMismatch = errors.New("cart already holds items from another seller")
	ErrAlreadyInCart  = errors.New("product is already in the cart")

	// -- Storage & Backend Failures --
	ErrFailedLoadCart = errors.New("failed to load cart")
	ErrFailedSaveCart = errors.New("failed to save cart")
)
