package payments

import (
	"context"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
)

// StripeProvider implements Provider on Stripe Checkout.
type StripeProvider struct {
	successURL string
	cancelURL  string
}

func NewStripe(secretKey, successURL, cancelURL string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{successURL: successURL, cancelURL: cancelURL}
}

func (p *StripeProvider) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Title),
				},
				UnitAmount: stripe.Int64(req.AmountCents),
			},
			Quantity: stripe.Int64(1),
		}},
		// Stripe substitutes the real id into the placeholder on redirect
		SuccessURL: stripe.String(p.successURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(p.cancelURL),
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return fromStripe(s), nil
}

func (p *StripeProvider) Session(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := session.Get(id, params)
	if err != nil {
		return nil, err
	}
	return fromStripe(s), nil
}

func fromStripe(s *stripe.CheckoutSession) *Session {
	return &Session{
		ID:       s.ID,
		Paid:     s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: s.Metadata,
	}
}

var _ Provider = (*StripeProvider)(nil)
