package backend

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	SellerID    string          `json:"seller_id,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Image       string          `json:"image,omitempty"`
}

type ProductInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"category_id,omitempty"`
	Image       string          `json:"image,omitempty"`
}

type ProductQuery struct {
	Search     string
	CategoryID string
	SellerID   string
	Page       int
	Limit      int
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CartItem is one line of the authenticated server cart. ID is the
// server-assigned line id used by update and remove.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	SellerID  string          `json:"seller_id,omitempty"`
	Image     string          `json:"image,omitempty"`
}

type Cart struct {
	Items []CartItem `json:"items"`
}

type ShippingAddress struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address    string `json:"address"`
	District   string `json:"district"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
}

type CreateOrderRequest struct {
	Items           []OrderItem     `json:"items"`
	SellerID        string          `json:"seller_id,omitempty"`
	DeliveryAddress string          `json:"delivery_address"`
	Shipping        ShippingAddress `json:"shipping"`
	PaymentMethod   string          `json:"payment_method"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
}

type Order struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	DeliveryAddress string          `json:"delivery_address"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	CreatedAt       time.Time       `json:"created_at"`
}

type OrderStatusUpdate struct {
	Status string `json:"status"`
}

type PaymentIntentRequest struct {
	OrderID string `json:"order_id"`
	Method  string `json:"method"`
}

type PaymentIntent struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status,omitempty"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Applicant is a seller or deliverer awaiting (or past) admin approval.
type Applicant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type ApplicantKind string

const (
	ApplicantSellers    ApplicantKind = "sellers"
	ApplicantDeliverers ApplicantKind = "deliverers"
)

type UploadRequest struct {
	Image        string `json:"image"`
	Folder       string `json:"folder,omitempty"`
	CloudName    string `json:"cloud_name,omitempty"`
	UploadPreset string `json:"upload_preset,omitempty"`
}

type UploadResult struct {
	ID  string `json:"public_id"`
	URL string `json:"url"`
}
