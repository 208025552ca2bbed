package payments

import (
	"context"
	"errors"

	"github.com/azursoldev/likes-io/internal/orders"
)

type Method string

const (
	MethodCard     Method = "card"
	MethodCrypto   Method = "crypto"
	MethodRegional Method = "regional"
	MethodWallet   Method = "wallet"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodCrypto, MethodRegional, MethodWallet:
		return true
	}
	return false
}

var (
	ErrUnknownMethod = errors.New("unknown payment method")
	ErrAuthRequired  = errors.New("authentication required")
)

// BeginResult is either a redirect to an off-site hosted checkout or an
// already-settled payment (wallet).
type BeginResult struct {
	CheckoutURL string
	Settled     bool
	Ref         string
}

type Gateway interface {
	Begin(ctx context.Context, o orders.Order) (BeginResult, error)
}
