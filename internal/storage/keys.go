package storage

import "fmt"

const (
	// Anonymous cart: local:{device_id}:cart -> JSON array of cart lines
	keyLocalCart = "local:%s:cart"

	// Checkout relay: session:{tab_id}:{slot}
	keySession = "session:%s:%s"
)

// Checkout relay slots.
const (
	SlotShipping        = "shipping"
	SlotShippingDeleted = "shipping_deleted"
	SlotOrderCompleted  = "order_completed"
	SlotOrderDraft      = "order_draft"
	SlotCheckoutState   = "checkout_state"
	SlotPendingOrder    = "pending_order"
)

func LocalCartKey(deviceID string) string {
	return fmt.Sprintf(keyLocalCart, deviceID)
}

func SessionKey(tabID, slot string) string {
	return fmt.Sprintf(keySession, tabID, slot)
}
