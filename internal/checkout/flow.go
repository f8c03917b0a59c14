package checkout

import (
	"context"
	"fmt"
	"time"

	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/cart"
	"klickjet-storefront/internal/logger"
	"klickjet-storefront/internal/metrics"
	"klickjet-storefront/internal/payment"
	"klickjet-storefront/internal/pricing"
	"klickjet-storefront/internal/transport"

	"go.uber.org/zap"
)

// Cart is the part of the cart service checkout reads and empties.
type Cart interface {
	View(ctx context.Context) (*cart.View, error)
	Clear(ctx context.Context) (*cart.View, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, in backend.CreateOrderRequest) (*backend.Order, error)
}

// Flow drives one tab through shipping, payment and confirmation. Its state
// lives in the session relay, so any instance can serve any request.
type Flow struct {
	relay          *Relay
	cart           Cart
	orders         OrderCreator
	payments       payment.Gateway
	publishableKey string
	now            func() time.Time
}

func NewFlow(relay *Relay, c Cart, orders OrderCreator, payments payment.Gateway, publishableKey string) *Flow {
	return &Flow{
		relay:          relay,
		cart:           c,
		orders:         orders,
		payments:       payments,
		publishableKey: publishableKey,
		now:            time.Now,
	}
}

func (f *Flow) shopper(ctx context.Context) (transport.Shopper, error) {
	sh, ok := transport.ShopperFrom(ctx)
	if !ok || !sh.Authenticated() {
		return transport.Shopper{}, redirect(RouteLogin, ErrNotAuthenticated)
	}
	return sh, nil
}

// transition is the only place the checkout state changes.
func (f *Flow) transition(ctx context.Context, tabID string, to State) error {
	from, err := f.relay.State(ctx, tabID)
	if err != nil {
		return err
	}
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if from == to {
		return nil
	}
	if err := f.relay.SetState(ctx, tabID, to); err != nil {
		return err
	}

	logger.FromCtx(ctx).Debug("checkout state changed",
		zap.String("tab_id", tabID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}

func (f *Flow) allowed(ctx context.Context, tabID string, to State) error {
	from, err := f.relay.State(ctx, tabID)
	if err != nil {
		return err
	}
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func quoteOf(v *cart.View) pricing.Quote {
	return pricing.Compute(cart.PricingItems(v.Lines))
}

// Shipping loads the shipping step.
func (f *Flow) Shipping(ctx context.Context) (*ShippingStep, error) {
	sh, err := f.shopper(ctx)
	if err != nil {
		return nil, err
	}

	state, err := f.relay.State(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}
	if state == StateOrderPlaced {
		return nil, redirect(RouteConfirmation, ErrOrderAwaiting)
	}

	view, err := f.cart.View(ctx)
	if err != nil {
		return nil, err
	}
	if view.Empty() {
		return nil, redirect(RouteCart, ErrEmptyCart)
	}

	draft, err := f.relay.Shipping(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}
	hasBackup, err := f.relay.HasBackup(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}

	if state == StateNoCart || state == StateConfirmed {
		next := StateShippingPending
		if draft != nil {
			next = StateShippingCaptured
		}
		if err := f.transition(ctx, sh.TabID, next); err != nil {
			return nil, err
		}
		state = next
	}

	return &ShippingStep{
		Draft:     draft,
		HasBackup: hasBackup,
		Cart:      view,
		Quote:     quoteOf(view),
		Districts: Districts,
		State:     state,
	}, nil
}

// SubmitShipping validates and stores the address form.
func (f *Flow) SubmitShipping(ctx context.Context, in ShippingDraft) (*ShippingDraft, error) {
	sh, err := f.shopper(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := in.Validate()
	if err != nil {
		return nil, err
	}

	if err := f.allowed(ctx, sh.TabID, StateShippingCaptured); err != nil {
		return nil, err
	}
	if err := f.relay.SetShipping(ctx, sh.TabID, draft); err != nil {
		return nil, err
	}
	if err := f.transition(ctx, sh.TabID, StateShippingCaptured); err != nil {
		return nil, err
	}
	return &draft, nil
}

// RestoreShipping brings back the address removed by DeleteAddress.
func (f *Flow) RestoreShipping(ctx context.Context) (*ShippingDraft, error) {
	sh, err := f.shopper(ctx)
	if err != nil {
		return nil, err
	}

	backup, err := f.relay.Backup(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}
	if backup == nil {
		return nil, ErrNoBackup
	}

	if err := f.allowed(ctx, sh.TabID, StateShippingCaptured); err != nil {
		return nil, err
	}
	if err := f.relay.SetShipping(ctx, sh.TabID, *backup); err != nil {
		return nil, err
	}
	if err := f.relay.DeleteBackup(ctx, sh.TabID); err != nil {
		return nil, err
	}
	if err := f.transition(ctx, sh.TabID, StateShippingCaptured); err != nil {
		return nil, err
	}
	return backup, nil
}

// DeleteAddress moves the active address to the backup slot. The shopper
// goes back to the shipping step afterwards.
func (f *Flow) DeleteAddress(ctx context.Context) error {
	sh, err := f.shopper(ctx)
	if err != nil {
		return err
	}

	if err := f.allowed(ctx, sh.TabID, StateShippingPending); err != nil {
		return err
	}

	draft, err := f.relay.Shipping(ctx, sh.TabID)
	if err != nil {
		return err
	}
	if draft != nil {
		if err := f.relay.SetBackup(ctx, sh.TabID, *draft); err != nil {
			return err
		}
		if err := f.relay.DeleteShipping(ctx, sh.TabID); err != nil {
			return err
		}
	}

	return f.transition(ctx, sh.TabID, StateShippingPending)
}

// ready checks what both payment paths need: an address and a non-empty cart.
func (f *Flow) ready(ctx context.Context, sh transport.Shopper) (*ShippingDraft, *cart.View, error) {
	draft, err := f.relay.Shipping(ctx, sh.TabID)
	if err != nil {
		return nil, nil, err
	}
	if draft == nil {
		return nil, nil, redirect(RouteShipping, ErrShippingRequired)
	}

	view, err := f.cart.View(ctx)
	if err != nil {
		return nil, nil, err
	}
	if view.Empty() {
		return nil, nil, redirect(RouteCart, ErrEmptyCart)
	}
	return draft, view, nil
}

// Payment loads the payment step. Without a stored address the shopper is
// sent back to shipping.
func (f *Flow) Payment(ctx context.Context) (*PaymentStep, error) {
	sh, err := f.shopper(ctx)
	if err != nil {
		return nil, err
	}

	draft, view, err := f.ready(ctx, sh)
	if err != nil {
		return nil, err
	}

	state, err := f.relay.State(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}
	switch state {
	case StateOrderPlaced:
		return nil, redirect(RouteConfirmation, ErrOrderAwaiting)
	case StateNoCart, StateShippingPending, StateConfirmed:
		// an address carried over from an earlier checkout in this tab
		if err := f.transition(ctx, sh.TabID, StateShippingCaptured); err != nil {
			return nil, err
		}
		state = StateShippingCaptured
	}

	quote := quoteOf(view)
	return &PaymentStep{
		Shipping:       *draft,
		Cart:           view,
		Quote:          quote,
		Options:        payment.Options(pricing.Format(quote.Total)),
		PublishableKey: f.publishableKey,
		State:          state,
	}, nil
}

func buildOrder(draft ShippingDraft, view *cart.View, method payment.Method) (backend.CreateOrderRequest, OrderDraft) {
	quote := quoteOf(view)

	items := make([]backend.OrderItem, 0, len(view.Lines))
	snapshot := make([]DraftItem, 0, len(view.Lines))
	for _, l := range view.Lines {
		items = append(items, backend.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Title,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Image:     l.Image,
		})
		snapshot = append(snapshot, DraftItem{
			ProductID: l.ProductID,
			Name:      l.Title,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Image:     l.Image,
		})
	}

	req := backend.CreateOrderRequest{
		Items:           items,
		SellerID:        view.SellerID(),
		DeliveryAddress: draft.DeliveryAddress(),
		Shipping: backend.ShippingAddress{
			FirstName:  draft.FirstName,
			LastName:   draft.LastName,
			Address:    draft.Address,
			District:   draft.District,
			PostalCode: draft.PostalCode,
			Phone:      draft.Phone,
		},
		PaymentMethod: string(method),
		Subtotal:      quote.Subtotal,
		DeliveryFee:   quote.DeliveryFee,
		Tax:           quote.Tax,
		Total:         quote.Total,
	}

	order := OrderDraft{
		DeliveryAddress: req.DeliveryAddress,
		Items:           snapshot,
		Subtotal:        quote.Subtotal,
		DeliveryFee:     quote.DeliveryFee,
		Tax:             quote.Tax,
		Total:           quote.Total,
		PaymentMethod:   method,
		Shipping:        draft,
	}
	return req, order
}

// complete records a placed order for the confirmation page and empties the
// cart.
func (f *Flow) complete(ctx context.Context, tabID string, order OrderDraft) error {
	log := logger.FromCtx(ctx).With(zap.String("order_id", order.OrderID))

	if err := f.relay.SetOrderDraft(ctx, tabID, order); err != nil {
		return err
	}
	if err := f.relay.SetCompleted(ctx, tabID); err != nil {
		return err
	}
	// an online payment abandoned for this order or an earlier one must not
	// complete later
	if err := f.relay.deletePendingOrder(ctx, tabID); err != nil {
		log.Warn("failed to drop pending order", zap.Error(err))
	}
	if _, err := f.cart.Clear(ctx); err != nil {
		// the order exists; confirmation clears the cart again
		log.Warn("failed to clear cart after order", zap.Error(err))
	}
	if err := f.transition(ctx, tabID, StateOrderPlaced); err != nil {
		return err
	}

	metrics.OrderPlaced(string(order.PaymentMethod))
	log.Info("order placed", zap.String("payment_method", string(order.PaymentMethod)))
	return nil
}

// PlaceCashOnDelivery creates a cash-on-delivery order.
func (f *Flow) PlaceCashOnDelivery(ctx context.Context) (*OrderDraft, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "checkout"),
		zap.String("method", "PlaceCashOnDelivery"),
	)

	sh, err := f.shopper(ctx)
	if err != nil {
		return nil, err
	}

	draft, view, err := f.ready(ctx, sh)
	if err != nil {
		return nil, err
	}
	if err := f.allowed(ctx, sh.TabID, StateOrderPlaced); err != nil {
		return nil, err
	}

	req, order := buildOrder(*draft, view, payment.MethodCOD)
	created, err := f.orders.CreateOrder(ctx, sh.Token, req)
	if err != nil {
		log.Warn("failed to create order", zap.Error(err))
		return nil, err
	}

	order.OrderID = created.ID
	order.CreatedAt = f.now().UTC()

	if err := f.complete(ctx, sh.TabID, order); err != nil {
		return nil, err
	}
	return &order, nil
}

// BeginOnlinePayment creates the order, then a payment intent for it. If the
// intent cannot be created the order stays behind on the backend unpaid.
func (f *Flow) BeginOnlinePayment(ctx context.Context) (*OnlinePayment, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "checkout"),
		zap.String("method", "BeginOnlinePayment"),
	)

	sh, err := f.shopper(ctx)
	if err != nil {
		return nil, err
	}

	draft, view, err := f.ready(ctx, sh)
	if err != nil {
		return nil, err
	}
	if err := f.allowed(ctx, sh.TabID, StatePaymentPending); err != nil {
		return nil, err
	}

	req, order := buildOrder(*draft, view, payment.MethodOnline)
	created, err := f.orders.CreateOrder(ctx, sh.Token, req)
	if err != nil {
		log.Warn("failed to create order", zap.Error(err))
		return nil, err
	}
	order.OrderID = created.ID

	intent, err := f.payments.CreateIntent(ctx, sh.Token, created.ID, payment.MethodOnline)
	if err != nil {
		log.Error("payment intent failed after order creation, order left unpaid",
			zap.String("order_id", created.ID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := f.relay.setPendingOrder(ctx, sh.TabID, pendingOrder{
		Draft:           order,
		PaymentIntentID: intent.ID,
	}); err != nil {
		return nil, err
	}
	if err := f.transition(ctx, sh.TabID, StatePaymentPending); err != nil {
		return nil, err
	}

	return &OnlinePayment{
		OrderID:         created.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		PublishableKey:  f.publishableKey,
	}, nil
}

// CompleteOnlinePayment is called once the hosted payment element reports
// success.
func (f *Flow) CompleteOnlinePayment(ctx context.Context, paymentIntentID string) (*OrderDraft, error) {
	sh, err := f.shopper(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := f.relay.pendingOrder(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, redirect(RoutePayment, ErrNoPendingPayment)
	}
	state, err := f.relay.State(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}
	if state != StatePaymentPending {
		return nil, redirect(RoutePayment, ErrNoPendingPayment)
	}
	if pending.PaymentIntentID != "" && pending.PaymentIntentID != paymentIntentID {
		return nil, ErrPaymentMismatch
	}

	order := pending.Draft
	order.CreatedAt = f.now().UTC()

	if err := f.complete(ctx, sh.TabID, order); err != nil {
		return nil, err
	}
	return &order, nil
}

// Confirm loads the confirmation page. It is reachable once per placed
// order; without the completed flag the shopper goes to the dashboard and
// the cart is left alone.
func (f *Flow) Confirm(ctx context.Context) (*OrderDraft, error) {
	sh, err := f.shopper(ctx)
	if err != nil {
		return nil, err
	}

	done, err := f.relay.Completed(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, redirect(RouteCustomerDashboard, ErrNotCompleted)
	}

	order, err := f.relay.OrderDraft(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, redirect(RouteCustomerDashboard, ErrNoOrderDraft)
	}

	if _, err := f.cart.Clear(ctx); err != nil {
		return nil, err
	}
	if err := f.relay.deletePendingOrder(ctx, sh.TabID); err != nil {
		return nil, err
	}
	if err := f.relay.DeleteCompleted(ctx, sh.TabID); err != nil {
		return nil, err
	}
	if err := f.transition(ctx, sh.TabID, StateConfirmed); err != nil {
		return nil, err
	}
	return order, nil
}

// Track shows the last placed order. Progress steps are static.
func (f *Flow) Track(ctx context.Context) (*Tracking, error) {
	sh, err := f.shopper(ctx)
	if err != nil {
		return nil, err
	}

	order, err := f.relay.OrderDraft(ctx, sh.TabID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, redirect(RouteCustomerDashboard, ErrNoOrderDraft)
	}

	return &Tracking{
		Order:     *order,
		Recipient: order.Shipping.FullName(),
		Quote:     pricing.Compute(order.pricingItems()),
		Steps:     trackingSteps(),
	}, nil
}
