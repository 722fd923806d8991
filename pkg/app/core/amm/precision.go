package amm

import "github.com/uhyunpark/ordergate/pkg/num"

// Fixed-point scales used across the venue. Every amount is an unsigned
// integer; the precision says how many units make one whole unit.
//
//	price        → MarkPricePrecision   (10^10 = $1.00)
//	base amount  → ReservePrecision     (10^13 = 1 base asset)
//	quote amount → QuotePrecision       (10^6  = $1.00)
//	peg          → PegPrecision         (10^3  = 1.0x)
const (
	MarkPriceDecimals = 10
	ReserveDecimals   = 13
	QuoteDecimals     = 6
	PegDecimals       = 3
)

var (
	MarkPricePrecision = num.MustPow10(MarkPriceDecimals)
	ReservePrecision   = num.MustPow10(ReserveDecimals)
	QuotePrecision     = num.MustPow10(QuoteDecimals)
	PegPrecision       = num.MustPow10(PegDecimals)

	// ReserveTimesPegToQuotePrecisionRatio = ReservePrecision * PegPrecision / QuotePrecision
	ReserveTimesPegToQuotePrecisionRatio = num.MustPow10(ReserveDecimals + PegDecimals - QuoteDecimals)
)
