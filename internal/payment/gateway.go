package payment

import (
	"context"

	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/logger"

	"go.uber.org/zap"
)

// IntentCreator is the backend call that asks the processor for an intent.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, token string, in backend.PaymentIntentRequest) (*backend.PaymentIntent, error)
}

type backendGateway struct {
	api IntentCreator
}

func NewGateway(api IntentCreator) Gateway {
	return &backendGateway{api: api}
}

func (g *backendGateway) CreateIntent(ctx context.Context, token, orderID string, method Method) (*Intent, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "payment"),
		zap.String("method", "CreateIntent"),
		zap.String("order_id", orderID),
	)

	if method != MethodOnline {
		return nil, ErrUnsupportedMethod
	}

	res, err := g.api.CreatePaymentIntent(ctx, token, backend.PaymentIntentRequest{
		OrderID: orderID,
		Method:  string(method),
	})
	if err != nil {
		log.Error("failed to create payment intent", zap.Error(err))
		return nil, err
	}

	if res.ClientSecret == "" {
		log.Error("payment intent without client secret", zap.String("payment_intent_id", res.PaymentIntentID))
		return nil, ErrMissingSecret
	}

	log.Info("payment intent created", zap.String("payment_intent_id", res.PaymentIntentID))

	return &Intent{
		ID:           res.PaymentIntentID,
		OrderID:      orderID,
		ClientSecret: res.ClientSecret,
	}, nil
}
