package handler

import (
	"context"
	"time"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/cart"
	"klickjet-storefront/internal/checkout"
)

// Backend is the part of the marketplace API the pages reach directly, not
// through the cart or checkout components.
type Backend interface {
	ListProducts(ctx context.Context, q backend.ProductQuery) ([]backend.Product, error)
	GetProduct(ctx context.Context, id string) (*backend.Product, error)
	CreateProduct(ctx context.Context, token string, in backend.ProductInput) (*backend.Product, error)
	UpdateProduct(ctx context.Context, token, id string, in backend.ProductInput) (*backend.Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	ListCategories(ctx context.Context) ([]backend.Category, error)

	Login(ctx context.Context, in backend.Credentials) (*backend.AuthResponse, error)
	Register(ctx context.Context, in backend.Registration) (*backend.AuthResponse, error)
	Logout(ctx context.Context, token string) error

	ListOrders(ctx context.Context, token string) ([]backend.Order, error)
	UpdateOrderStatus(ctx context.Context, token, orderID, status string) (*backend.Order, error)

	ListApplicants(ctx context.Context, token string, kind backend.ApplicantKind) ([]backend.Applicant, error)
	ApproveApplicant(ctx context.Context, token string, kind backend.ApplicantKind, id string) error
	RejectApplicant(ctx context.Context, token string, kind backend.ApplicantKind, id, reason string) error
	DeleteApplicant(ctx context.Context, token string, kind backend.ApplicantKind, id string) error
	ListUsers(ctx context.Context, token string) ([]backend.User, error)
	DeleteUser(ctx context.Context, token, id string) error

	UploadImage(ctx context.Context, token string, in backend.UploadRequest) (*backend.UploadResult, error)
	DeleteImage(ctx context.Context, token, id string) error
}

// PublicConfig is the browser-visible configuration.
type PublicConfig struct {
	PaymentPublishableKey string `json:"payment_publishable_key"`
	ImageCloudName        string `json:"image_cloud_name"`
	ImageUploadPreset     string `json:"image_upload_preset"`
}

type Options struct {
	Public       PublicConfig
	CookieSecure bool
	// Timeout bounds each request's calls to the backend; zero means none.
	Timeout time.Duration
}

type Handler struct {
	cart     cart.Service
	checkout *checkout.Flow
	api      Backend
	resolver *auth.Resolver
	opts     Options
}

func New(c cart.Service, flow *checkout.Flow, api Backend, resolver *auth.Resolver, opts Options) *Handler {
	return &Handler{
		cart:     c,
		checkout: flow,
		api:      api,
		resolver: resolver,
		opts:     opts,
	}
}

func (h *Handler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.opts.Timeout)
}

// IdentityFetcher resolves tokens through the backend's /auth/me.
func IdentityFetcher(me func(ctx context.Context, token string) (*backend.User, error)) auth.FetchFunc {
	return func(ctx context.Context, token string) (*auth.Identity, error) {
		u, err := me(ctx, token)
		if err != nil {
			return nil, err
		}
		return identityFromUser(*u), nil
	}
}

func identityFromUser(u backend.User) *auth.Identity {
	return &auth.Identity{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   auth.Role(u.Role),
	}
}
