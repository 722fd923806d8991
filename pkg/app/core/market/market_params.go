package market

import (
	"github.com/uhyunpark/ordergate/pkg/app/core/amm"
	"github.com/uhyunpark/ordergate/pkg/num"
)

// MarketParams is a helper struct for creating markets with all parameters
// This separates config from the runtime Market struct
type MarketParams struct {
	PegMultiplier              num.Uint
	MinimumBaseAssetTradeSize  num.Uint
	MinimumQuoteAssetTradeSize num.Uint
}

// DefaultParams returns the parameters new perpetual markets launch with.
var DefaultParams = MarketParams{
	// Peg: 1.000 (PegPrecision = 10^3)
	PegMultiplier: amm.PegPrecision,

	// Minimum trade sizes in reserve units (ReservePrecision = 10^13)
	// 10^7 = 0.000001 base asset
	MinimumBaseAssetTradeSize:  num.NewUint(10_000_000),
	MinimumQuoteAssetTradeSize: num.NewUint(10_000_000),
}

// NewMarketWithDefaults creates a market using DefaultParams
func NewMarketWithDefaults(symbol, baseAsset, quoteAsset string) (*Market, error) {
	return NewMarket(symbol, baseAsset, quoteAsset, DefaultParams)
}

// PeggedPerpetual returns DefaultParams with a custom peg, expressed in whole
// units (e.g. 40 → 40.000x).
func PeggedPerpetual(peg uint64) MarketParams {
	p := DefaultParams
	// uint64 × 10^3 always fits in 128 bits
	p.PegMultiplier, _ = num.NewUint(peg).CheckedMul(amm.PegPrecision)
	return p
}
