package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotAuthenticated  = errors.New("sign in to check out")
	ErrWrongRole         = errors.New("checkout is available to customer accounts only")
	ErrShippingRequired  = errors.New("shipping details required")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNotCompleted      = errors.New("no completed order")
	ErrOrderAwaiting     = errors.New("order awaiting confirmation")
	ErrNoOrderDraft      = errors.New("no order to show")
	ErrNoBackup          = errors.New("no deleted address to restore")
	ErrNoPendingPayment  = errors.New("no online payment in progress")
	ErrPaymentMismatch   = errors.New("payment does not match the pending order")
	ErrInvalidTransition = errors.New("invalid checkout transition")
)

// Routes a checkout precondition failure can send the shopper to.
const (
	RouteLogin             = "/login"
	RouteCart              = "/cart"
	RouteShipping          = "/checkout/shipping"
	RoutePayment           = "/checkout/payment"
	RouteConfirmation      = "/checkout/confirmation"
	RouteCustomerDashboard = "/customer/dashboard"
)

// RedirectError is a precondition failure. It is not shown as an error; the
// shopper is sent to To instead.
type RedirectError struct {
	To  string
	Err error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s: %v", e.To, e.Err)
}

func (e *RedirectError) Unwrap() error {
	return e.Err
}

func redirect(to string, err error) error {
	return &RedirectError{To: to, Err: err}
}

// ValidationError carries field-level messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "invalid shipping details: " + strings.Join(msgs, "; ")
}
