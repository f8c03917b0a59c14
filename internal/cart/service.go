package cart

import (
	"context"
	"fmt"
	"time"

	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/logger"
	"klickjet-storefront/internal/transport"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// Backend is the part of the marketplace API the cart talks to.
type Backend interface {
	GetCart(ctx context.Context, token string) (*backend.Cart, error)
	AddCartItem(ctx context.Context, token, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, token, lineID string, quantity int) error
	RemoveCartItem(ctx context.Context, token, lineID string) error
	ClearCart(ctx context.Context, token string) error
}

// Service is the cart of the shopper carried by the request context.
//
// Every operation returns the resulting view. When an operation fails the
// view is the last known-good state, so callers can render it next to the
// error notice.
type Service interface {
	View(ctx context.Context) (*View, error)
	AddLine(ctx context.Context, candidate Candidate, quantity int) (*View, error)
	RemoveLine(ctx context.Context, productID string) (*View, error)
	SetQuantity(ctx context.Context, productID string, quantity int) (*View, error)
	Clear(ctx context.Context) (*View, error)
	ReconcileOnLogin(ctx context.Context) (*ReconcileReport, error)
}

type service struct {
	repo    Repository
	backend Backend

	// last cart fetched from the backend, per user id
	snapshots *expirable.LRU[string, []Line]
}

// NewService creates a cart service. snapshotTTL <= 0 keeps snapshots until
// they are evicted by size.
func NewService(repo Repository, b Backend, snapshotSize int, snapshotTTL time.Duration) Service {
	return &service{
		repo:      repo,
		backend:   b,
		snapshots: expirable.NewLRU[string, []Line](snapshotSize, nil, snapshotTTL),
	}
}

func shopperFrom(ctx context.Context) (transport.Shopper, error) {
	sh, ok := transport.ShopperFrom(ctx)
	if !ok {
		return transport.Shopper{}, ErrNoShopper
	}
	return sh, nil
}

func (s *service) snapshot(userID string) []Line {
	if lines, ok := s.snapshots.Get(userID); ok {
		return lines
	}
	return []Line{}
}

// sync re-fetches the server cart and records it as the snapshot. On failure
// it returns the previous snapshot alongside the error.
func (s *service) sync(ctx context.Context, sh transport.Shopper) ([]Line, error) {
	c, err := s.backend.GetCart(ctx, sh.Token)
	if err != nil {
		return s.snapshot(sh.Identity.UserID), fmt.Errorf("%w: %w", ErrFailedLoadCart, err)
	}

	lines := linesFromBackend(c)
	s.snapshots.Add(sh.Identity.UserID, lines)
	return lines, nil
}

func (s *service) current(ctx context.Context, sh transport.Shopper) ([]Line, error) {
	if sh.Authenticated() {
		return s.sync(ctx, sh)
	}

	lines, err := s.repo.Load(ctx, sh.DeviceID)
	if err != nil {
		return []Line{}, fmt.Errorf("%w: %w", ErrFailedLoadCart, err)
	}
	return lines, nil
}

func (s *service) persist(ctx context.Context, sh transport.Shopper, before, after []Line) (*View, error) {
	if err := s.repo.Save(ctx, sh.DeviceID, after); err != nil {
		return newView(before, false), fmt.Errorf("%w: %w", ErrFailedSaveCart, err)
	}
	return newView(after, false), nil
}

func (s *service) View(ctx context.Context) (*View, error) {
	sh, err := shopperFrom(ctx)
	if err != nil {
		return newView(nil, false), err
	}

	lines, err := s.current(ctx, sh)
	return newView(lines, sh.Authenticated()), err
}

func findLine(lines []Line, productID string) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// checkCandidate enforces one seller per cart and one line per product.
func checkCandidate(lines []Line, c Candidate) error {
	if len(lines) > 0 && lines[0].SellerID != c.SellerID {
		return ErrSellerMismatch
	}
	if findLine(lines, c.ProductID) >= 0 {
		return ErrAlreadyInCart
	}
	return nil
}

func (s *service) AddLine(ctx context.Context, candidate Candidate, quantity int) (*View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddLine"),
		zap.String("product_id", candidate.ProductID),
	)

	sh, err := shopperFrom(ctx)
	if err != nil {
		return newView(nil, false), err
	}

	lines, err := s.current(ctx, sh)
	if err != nil {
		log.Warn("failed to load cart", zap.Error(err))
		return newView(lines, sh.Authenticated()), err
	}

	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return newView(lines, sh.Authenticated()), ErrInvalidQuantity
	}
	if candidate.ProductID == "" {
		return newView(lines, sh.Authenticated()), ErrInvalidProduct
	}

	if err := checkCandidate(lines, candidate); err != nil {
		log.Info("add to cart rejected", zap.Error(err), zap.String("seller_id", candidate.SellerID))
		return newView(lines, sh.Authenticated()), err
	}

	if !sh.Authenticated() {
		after := append(append([]Line{}, lines...), candidate.line(quantity))
		return s.persist(ctx, sh, lines, after)
	}

	if err := s.backend.AddCartItem(ctx, sh.Token, candidate.ProductID, quantity); err != nil {
		log.Warn("failed to add cart item", zap.Error(err))
		return newView(lines, true), err
	}

	lines, err = s.sync(ctx, sh)
	return newView(lines, true), err
}

func (s *service) RemoveLine(ctx context.Context, productID string) (*View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RemoveLine"),
		zap.String("product_id", productID),
	)

	sh, err := shopperFrom(ctx)
	if err != nil {
		return newView(nil, false), err
	}

	lines, err := s.current(ctx, sh)
	if err != nil {
		log.Warn("failed to load cart", zap.Error(err))
		return newView(lines, sh.Authenticated()), err
	}

	idx := findLine(lines, productID)
	if idx < 0 {
		return newView(lines, sh.Authenticated()), nil
	}

	if !sh.Authenticated() {
		after := append(append([]Line{}, lines[:idx]...), lines[idx+1:]...)
		return s.persist(ctx, sh, lines, after)
	}

	lineID := lines[idx].LineID
	if lineID == "" {
		return newView(lines, true), nil
	}

	if err := s.backend.RemoveCartItem(ctx, sh.Token, lineID); err != nil {
		log.Warn("failed to remove cart item", zap.Error(err))
		return newView(lines, true), err
	}

	lines, err = s.sync(ctx, sh)
	return newView(lines, true), err
}

// SetQuantity treats a quantity below 1 as a removal.
func (s *service) SetQuantity(ctx context.Context, productID string, quantity int) (*View, error) {
	if quantity < 1 {
		return s.RemoveLine(ctx, productID)
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SetQuantity"),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)

	sh, err := shopperFrom(ctx)
	if err != nil {
		return newView(nil, false), err
	}

	lines, err := s.current(ctx, sh)
	if err != nil {
		log.Warn("failed to load cart", zap.Error(err))
		return newView(lines, sh.Authenticated()), err
	}

	idx := findLine(lines, productID)
	if idx < 0 {
		return newView(lines, sh.Authenticated()), nil
	}

	if !sh.Authenticated() {
		after := append([]Line{}, lines...)
		after[idx].Quantity = quantity
		return s.persist(ctx, sh, lines, after)
	}

	lineID := lines[idx].LineID
	if lineID == "" {
		return newView(lines, true), nil
	}

	if err := s.backend.UpdateCartItem(ctx, sh.Token, lineID, quantity); err != nil {
		log.Warn("failed to update cart item", zap.Error(err))
		return newView(lines, true), err
	}

	lines, err = s.sync(ctx, sh)
	return newView(lines, true), err
}

func (s *service) Clear(ctx context.Context) (*View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Clear"),
	)

	sh, err := shopperFrom(ctx)
	if err != nil {
		return newView(nil, false), err
	}

	if !sh.Authenticated() {
		lines, err := s.repo.Load(ctx, sh.DeviceID)
		if err != nil {
			lines = []Line{}
		}
		return s.persist(ctx, sh, lines, []Line{})
	}

	if err := s.backend.ClearCart(ctx, sh.Token); err != nil {
		log.Warn("failed to clear cart", zap.Error(err))
		return newView(s.snapshot(sh.Identity.UserID), true), err
	}

	s.snapshots.Add(sh.Identity.UserID, []Line{})
	return newView(nil, true), nil
}
