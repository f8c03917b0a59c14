package handler

import (
	"net/http"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/logger"
	"klickjet-storefront/internal/metrics"
	"klickjet-storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	CORSOrigin string
	// Limiter is optional; nil disables rate limiting.
	Limiter *middleware.RateLimiter
}

// NewRouter mounts every storefront route behind the shared middleware stack.
func NewRouter(h *Handler, rc RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.CORS(rc.CORSOrigin))

	r.Get("/health", h.Health)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(h.opts.CookieSecure))
		r.Use(middleware.Identity(h.resolver, h.opts.CookieSecure))
		if rc.Limiter != nil {
			r.Use(rc.Limiter.Middleware)
		}

		r.Get("/config/public", h.PublicConfig)

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.ListCategories)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/lines", h.AddLine)
			r.Put("/lines/{productID}", h.SetQuantity)
			r.Delete("/lines/{productID}", h.RemoveLine)
			r.With(middleware.RequireRole()).Post("/reconcile", h.Reconcile)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Post("/logout", h.Logout)
			r.With(middleware.RequireRole()).Get("/me", h.Me)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(customerOnly)

			r.Get("/shipping", h.ShippingStep)
			r.Post("/shipping", h.SubmitShipping)
			r.Delete("/shipping", h.DeleteShipping)
			r.Post("/shipping/restore", h.RestoreShipping)

			r.Get("/payment", h.PaymentStep)
			r.Post("/payment/cod", h.PlaceCashOnDelivery)
			r.Post("/payment/online", h.BeginOnlinePayment)
			r.Post("/payment/online/complete", h.CompleteOnlinePayment)

			r.Get("/confirmation", h.Confirmation)
			r.Get("/tracking", h.Tracking)
		})

		r.Route("/customer", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleCustomer))
			r.Get("/orders", h.ListOrders)
		})

		r.Route("/seller", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleSeller))
			r.Get("/products", h.ListSellerProducts)
			r.Post("/products", h.CreateProduct)
			r.Put("/products/{id}", h.UpdateProduct)
			r.Delete("/products/{id}", h.DeleteProduct)
			r.Get("/orders", h.ListOrders)
			r.Put("/orders/{id}", h.UpdateOrderStatus)
		})

		r.Route("/deliverer", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleDeliverer))
			r.Get("/orders", h.ListOrders)
			r.Put("/orders/{id}", h.UpdateOrderStatus)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			for _, kind := range []string{"/sellers", "/deliverers"} {
				r.Get(kind, h.ListApplicants)
				r.Put(kind+"/{id}/approve", h.ApproveApplicant)
				r.Put(kind+"/{id}/reject", h.RejectApplicant)
				r.Delete(kind+"/{id}", h.DeleteApplicant)
			}
			r.Get("/users", h.ListUsers)
			r.Delete("/users/{id}", h.DeleteUser)
		})

		r.Route("/api/upload-image", func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleSeller, auth.RoleAdmin))
			r.Post("/", h.UploadImage)
			r.Delete("/{id}", h.DeleteImage)
		})
	})

	return r
}
