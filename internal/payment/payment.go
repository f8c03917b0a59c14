package payment

import "context"

// Gateway creates payment intents for the hosted payment element. Capture
// and confirmation happen in the processor's own UI.
type Gateway interface {
	CreateIntent(ctx context.Context, token, orderID string, method Method) (*Intent, error)
}
