package cart

import (
	"klickjet-storefront/internal/pricing"

	"github.com/shopspring/decimal"
)

// Line is one product entry in a cart. LineID is set only for lines of the
// authenticated server cart.
type Line struct {
	ProductID string          `json:"product_id"`
	LineID    string          `json:"line_id,omitempty"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	SellerID  string          `json:"seller_id,omitempty"`
	Image     string          `json:"image,omitempty"`
}

// Candidate is a product about to be added to the cart.
type Candidate struct {
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	SellerID  string          `json:"seller_id,omitempty"`
	Image     string          `json:"image,omitempty"`
}

func (c Candidate) line(quantity int) Line {
	return Line{
		ProductID: c.ProductID,
		Title:     c.Title,
		Price:     c.Price,
		Quantity:  quantity,
		SellerID:  c.SellerID,
		Image:     c.Image,
	}
}

// View is the cart as rendered: lines plus derived values.
type View struct {
	Lines         []Line          `json:"lines"`
	Count         int             `json:"count"`
	Total         decimal.Decimal `json:"total"`
	Quote         pricing.Quote   `json:"quote"`
	Authenticated bool            `json:"authenticated"`
}

func (v *View) Empty() bool {
	return v == nil || len(v.Lines) == 0
}

// SellerID is the seller shared by every line, or "" for an empty cart.
func (v *View) SellerID() string {
	if v.Empty() {
		return ""
	}
	return v.Lines[0].SellerID
}

// ReconcileReport describes one login-time merge of the anonymous cart.
type ReconcileReport struct {
	Attempted int      `json:"attempted"`
	Migrated  []string `json:"migrated"`
	Failed    []string `json:"failed"`
	Cart      *View    `json:"cart"`
}
