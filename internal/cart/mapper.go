package cart

import (
	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/pricing"
)

func lineFromBackend(item backend.CartItem) Line {
	return Line{
		ProductID: item.ProductID,
		LineID:    item.ID,
		Title:     item.Title,
		Price:     item.Price,
		Quantity:  item.Quantity,
		SellerID:  item.SellerID,
		Image:     item.Image,
	}
}

func linesFromBackend(c *backend.Cart) []Line {
	if c == nil {
		return []Line{}
	}
	lines := make([]Line, 0, len(c.Items))
	for _, item := range c.Items {
		lines = append(lines, lineFromBackend(item))
	}
	return lines
}

// CandidateFromProduct builds an add-to-cart candidate from a catalog product.
func CandidateFromProduct(p *backend.Product) Candidate {
	return Candidate{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		SellerID:  p.SellerID,
		Image:     p.Image,
	}
}

// PricingItems adapts lines for pricing.Compute.
func PricingItems(lines []Line) []pricing.Item {
	items := make([]pricing.Item, 0, len(lines))
	for _, l := range lines {
		items = append(items, pricing.Item{Price: l.Price, Quantity: l.Quantity})
	}
	return items
}

func newView(lines []Line, authenticated bool) *View {
	cp := make([]Line, len(lines))
	copy(cp, lines)

	count := 0
	for _, l := range cp {
		count += l.Quantity
	}

	quote := pricing.Compute(PricingItems(cp))
	return &View{
		Lines:         cp,
		Count:         count,
		Total:         quote.Subtotal,
		Quote:         quote,
		Authenticated: authenticated,
	}
}
