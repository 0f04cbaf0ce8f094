package payment

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

var ErrGateway = errors.New("payment gateway unavailable")

// Order is a gateway-side record of an amount to be collected. It is created
// before the customer pays and referenced by the signature check afterwards.
type Order struct {
	ID          string
	AmountCents int64
	Currency    string
}

type Gateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency, receipt string, notes map[string]interface{}) (*Order, error)
}

type razorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) Gateway {
	return &razorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amountCents int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amountCents,
		"currency": currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: order response missing id", ErrGateway)
	}

	return &Order{ID: id, AmountCents: amountCents, Currency: currency}, nil
}
