package pricing

import "github.com/shopspring/decimal"

var (
	// DeliveryFee is the flat fee added to every order.
	DeliveryFee = decimal.NewFromInt(300)
	TaxRate     = decimal.RequireFromString("0.08")
)

type Item struct {
	Price    decimal.Decimal
	Quantity int
}

// Quote is the price breakdown shown on the cart, shipping, payment and
// tracking steps.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// Subtotal sums price x quantity over items.
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

func Compute(items []Item) Quote {
	return ForSubtotal(Subtotal(items))
}

// ForSubtotal computes subtotal + delivery fee + tax, rounded to cents.
func ForSubtotal(subtotal decimal.Decimal) Quote {
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(TaxRate).Round(2)
	return Quote{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee,
		Tax:         tax,
		Total:       subtotal.Add(DeliveryFee).Add(tax),
	}
}

// Format renders an amount for display, e.g. "Rs. 570.00".
func Format(amount decimal.Decimal) string {
	return "Rs. " + amount.StringFixed(2)
}
