// Package amm holds the fixed-point scales of the automated market maker and
// the conversion between quote notional and reserve units.
package amm

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/ordergate/pkg/num"
)

// ReserveConverter converts a quote-precision notional into reserve-precision
// units for a market with the given peg multiplier. Arithmetic failures must
// match num.ErrMath.
type ReserveConverter interface {
	QuoteToReserve(quoteAssetAmount, pegMultiplier num.Uint) (num.Uint, error)
}

// PegConverter is the venue's conversion:
//
//	reserve = quote * ReserveTimesPegToQuotePrecisionRatio / peg
type PegConverter struct{}

func (PegConverter) QuoteToReserve(quoteAssetAmount, pegMultiplier num.Uint) (num.Uint, error) {
	scaled, err := quoteAssetAmount.CheckedMul(ReserveTimesPegToQuotePrecisionRatio)
	if err != nil {
		return num.Uint{}, fmt.Errorf("quote to reserve: %w", err)
	}
	reserve, err := scaled.CheckedDiv(pegMultiplier)
	if err != nil {
		return num.Uint{}, fmt.Errorf("quote to reserve (peg=%s): %w", pegMultiplier, err)
	}
	return reserve, nil
}

// ToDecimal renders a fixed-point amount with the given number of decimals,
// e.g. ToDecimal(500000, QuoteDecimals) = 0.5. Only used for display.
func ToDecimal(u num.Uint, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(u.BigInt(), -decimals)
}

// QuoteString formats a quote-precision amount in whole quote units without rounding.
func QuoteString(u num.Uint) string {
	return ToDecimal(u, QuoteDecimals).String()
}
