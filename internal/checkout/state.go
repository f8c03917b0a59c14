package checkout

// State is where a tab's checkout stands.
type State string

const (
	StateNoCart           State = "no_cart"
	StateShippingPending  State = "shipping_pending"
	StateShippingCaptured State = "shipping_captured"
	StatePaymentPending   State = "payment_pending"
	StateOrderPlaced      State = "order_placed"
	StateConfirmed        State = "confirmed"
)

// transitions lists, per state, the states it may move to. A placed order
// cannot be placed again before it is confirmed.
var transitions = map[State][]State{
	StateNoCart:           {StateNoCart, StateShippingPending, StateShippingCaptured},
	StateShippingPending:  {StateShippingPending, StateShippingCaptured, StateNoCart},
	StateShippingCaptured: {StateShippingCaptured, StateShippingPending, StatePaymentPending, StateOrderPlaced},
	StatePaymentPending:   {StatePaymentPending, StateShippingPending, StateShippingCaptured, StateOrderPlaced},
	StateOrderPlaced:      {StateConfirmed},
	StateConfirmed:        {StateShippingPending, StateShippingCaptured, StateNoCart},
}

func (s State) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
