// Package orderstate holds venue-wide order policy.
package orderstate

import (
	"errors"

	"github.com/uhyunpark/ordergate/pkg/num"
)

// ErrNotConfigured is returned when the venue minimum notional was never set.
// There is no built-in default.
var ErrNotConfigured = errors.New("min order quote asset amount not configured")

// OrderState is a read-only snapshot of the venue order policy.
type OrderState struct {
	// MinOrderQuoteAssetAmount is the smallest approximate notional, in
	// QuotePrecision units, any price-bearing order may carry.
	MinOrderQuoteAssetAmount num.Uint `json:"minOrderQuoteAssetAmount"`
}

// New returns a validated OrderState.
func New(minOrderQuoteAssetAmount num.Uint) (OrderState, error) {
	s := OrderState{MinOrderQuoteAssetAmount: minOrderQuoteAssetAmount}
	if err := s.Validate(); err != nil {
		return OrderState{}, err
	}
	return s, nil
}

func (s OrderState) Validate() error {
	if s.MinOrderQuoteAssetAmount.IsZero() {
		return ErrNotConfigured
	}
	return nil
}
