package checkout

import (
	"strings"
	"time"

	"klickjet-storefront/internal/cart"
	"klickjet-storefront/internal/payment"
	"klickjet-storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

// ShippingDraft is the address form captured on the shipping step.
type ShippingDraft struct {
	FirstName  string `json:"first_name" validate:"required,max=50,personname"`
	LastName   string `json:"last_name" validate:"required,max=50,personname"`
	Address    string `json:"address" validate:"required,max=200"`
	District   string `json:"district" validate:"required,district"`
	PostalCode string `json:"postal_code" validate:"required,number,max=10"`
	Phone      string `json:"phone" validate:"required,phone"`
}

func (d ShippingDraft) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// DeliveryAddress is the single-line address sent with the order.
func (d ShippingDraft) DeliveryAddress() string {
	return d.Address + ", " + d.District + " " + d.PostalCode
}

type DraftItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
}

// OrderDraft is the order summary carried from payment to the confirmation
// and tracking pages.
type OrderDraft struct {
	OrderID         string          `json:"order_id"`
	DeliveryAddress string          `json:"delivery_address"`
	Items           []DraftItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   payment.Method  `json:"payment_method"`
	Shipping        ShippingDraft   `json:"shipping"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (o OrderDraft) pricingItems() []pricing.Item {
	items := make([]pricing.Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, pricing.Item{Price: it.Price, Quantity: it.Quantity})
	}
	return items
}

// pendingOrder is an online order created server side whose payment has not
// been confirmed by the hosted element yet.
type pendingOrder struct {
	Draft           OrderDraft `json:"draft"`
	PaymentIntentID string     `json:"payment_intent_id"`
}

type ShippingStep struct {
	Draft     *ShippingDraft `json:"draft"`
	HasBackup bool           `json:"has_backup"`
	Cart      *cart.View     `json:"cart"`
	Quote     pricing.Quote  `json:"quote"`
	Districts []string       `json:"districts"`
	State     State          `json:"state"`
}

type PaymentStep struct {
	Shipping       ShippingDraft    `json:"shipping"`
	Cart           *cart.View       `json:"cart"`
	Quote          pricing.Quote    `json:"quote"`
	Options        []payment.Option `json:"options"`
	PublishableKey string           `json:"publishable_key"`
	State          State            `json:"state"`
}

// OnlinePayment is what the browser needs to open the hosted payment element.
type OnlinePayment struct {
	OrderID         string `json:"order_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
	PublishableKey  string `json:"publishable_key"`
}

type TrackingStep struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

type Tracking struct {
	Order     OrderDraft     `json:"order"`
	Recipient string         `json:"recipient"`
	Quote     pricing.Quote  `json:"quote"`
	Steps     []TrackingStep `json:"steps"`
}

// trackingSteps are illustrative; no live order status is fetched.
func trackingSteps() []TrackingStep {
	return []TrackingStep{
		{Key: "confirmed", Label: "Order confirmed", Done: true},
		{Key: "preparing", Label: "Preparing your order", Done: false},
		{Key: "out_for_delivery", Label: "Out for delivery", Done: false},
	}
}
