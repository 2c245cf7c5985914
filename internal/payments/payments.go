// Package payments is the adapter boundary to the external payment
// processor. The bridge only needs two things from a checkout session: was it
// paid, and what booking metadata it carries.
package payments

import "context"

type Session struct {
	ID       string
	Paid     bool
	Metadata map[string]string
}

type SessionRequest struct {
	Title       string
	AmountCents int64
	Metadata    map[string]string
}

type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	Session(ctx context.Context, id string) (*Session, error)
}
