package payment

import "errors"

var (
	ErrUnsupportedMethod = errors.New("unsupported payment method")
	ErrMissingSecret     = errors.New("payment intent has no client secret")
)

type Method string

const (
	MethodCOD    Method = "cod"
	MethodOnline Method = "online"
)

// Intent is what the browser needs to open the hosted payment element.
type Intent struct {
	ID           string `json:"payment_intent_id"`
	OrderID      string `json:"order_id"`
	ClientSecret string `json:"client_secret"`
}

// Option is one payment method offered on the payment step.
type Option struct {
	Method       Method   `json:"method"`
	Label        string   `json:"label"`
	Instructions []string `json:"instructions"`
}
