package cart

import (
	"context"

	"klickjet-storefront/internal/logger"
	"klickjet-storefront/internal/metrics"

	"go.uber.org/zap"
)

// ReconcileOnLogin moves the device's anonymous cart into the server cart of
// the now authenticated shopper.
//
// Lines are added one at a time, each call finishing before the next starts:
// the backend cart mutation is not atomic per item, so concurrent adds could
// lose updates. A failed line is logged and skipped. The anonymous cart is
// deleted whatever the outcome, even when it cannot be read, and the server
// cart is re-fetched as the new source of truth.
func (s *service) ReconcileOnLogin(ctx context.Context) (*ReconcileReport, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ReconcileOnLogin"),
	)

	sh, err := shopperFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !sh.Authenticated() {
		return nil, ErrUserNotAuthenticated
	}

	local, err := s.repo.Load(ctx, sh.DeviceID)
	if err != nil {
		// an unreadable local cart is dropped like a migrated one
		log.Error("failed to read anonymous cart", zap.Error(err))
		local = nil
	}

	report := &ReconcileReport{
		Attempted: len(local),
		Migrated:  []string{},
		Failed:    []string{},
	}

	for _, l := range local {
		err := s.backend.AddCartItem(ctx, sh.Token, l.ProductID, l.Quantity)
		metrics.ReconcileLine(err == nil)
		if err != nil {
			log.Warn("failed to migrate cart line",
				zap.String("product_id", l.ProductID),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, l.ProductID)
			continue
		}
		report.Migrated = append(report.Migrated, l.ProductID)
	}

	if err := s.repo.Delete(ctx, sh.DeviceID); err != nil {
		log.Error("failed to delete anonymous cart", zap.Error(err))
	}

	lines, err := s.sync(ctx, sh)
	report.Cart = newView(lines, true)

	if report.Attempted > 0 {
		log.Info("anonymous cart reconciled",
			zap.Int("attempted", report.Attempted),
			zap.Int("migrated", len(report.Migrated)),
			zap.Int("failed", len(report.Failed)),
		)
	}
	return report, err
}
