package market

import (
	"fmt"
	"strings"

	"github.com/uhyunpark/ordergate/pkg/num"
)

// MarketStatus defines the trading status of a market
type MarketStatus int8

const (
	Active   MarketStatus = iota // Trading enabled
	Paused                       // Trading halted (emergency)
	Settling                     // Expiry/settlement in progress
	Settled                      // Market closed
)

func (ms MarketStatus) String() string {
	switch ms {
	case Active:
		return "Active"
	case Paused:
		return "Paused"
	case Settling:
		return "Settling"
	case Settled:
		return "Settled"
	default:
		return "Unknown"
	}
}

func (ms MarketStatus) MarshalText() ([]byte, error) {
	if ms < Active || ms > Settled {
		return nil, fmt.Errorf("unknown market status %d", ms)
	}
	return []byte(ms.String()), nil
}

func (ms *MarketStatus) UnmarshalText(b []byte) error {
	for s := Active; s <= Settled; s++ {
		if strings.EqualFold(s.String(), string(b)) {
			*ms = s
			return nil
		}
	}
	return fmt.Errorf("unknown market status %q", b)
}

// AMM is the part of the market maker state the admission gate reads.
type AMM struct {
	// PegMultiplier scales quote notional into reserve units (PegPrecision).
	PegMultiplier num.Uint `json:"pegMultiplier"`

	// Smallest admissible base quantity (ReservePrecision).
	MinimumBaseAssetTradeSize num.Uint `json:"minimumBaseAssetTradeSize"`

	// Smallest admissible quote notional after conversion to reserve units
	// (ReservePrecision).
	MinimumQuoteAssetTradeSize num.Uint `json:"minimumQuoteAssetTradeSize"`
}

// Market is a read-only snapshot of a perpetual market (e.g., SOL-PERP).
// Values are copied out of the registry; mutating a snapshot never affects
// the registry.
type Market struct {
	// Identity
	Symbol     string       `json:"symbol"`     // "SOL-PERP"
	BaseAsset  string       `json:"baseAsset"`  // "SOL"
	QuoteAsset string       `json:"quoteAsset"` // "USDC"
	Status     MarketStatus `json:"status"`

	AMM AMM `json:"amm"`

	// Metadata
	LaunchedAt int64 `json:"launchedAt"` // Unix seconds, 0 until the market opens
}

// NewMarket creates a new market with validation
func NewMarket(symbol, baseAsset, quoteAsset string, params MarketParams) (*Market, error) {
	m := &Market{
		Symbol:     symbol,
		BaseAsset:  baseAsset,
		QuoteAsset: quoteAsset,
		Status:     Active,
		AMM: AMM{
			PegMultiplier:              params.PegMultiplier,
			MinimumBaseAssetTradeSize:  params.MinimumBaseAssetTradeSize,
			MinimumQuoteAssetTradeSize: params.MinimumQuoteAssetTradeSize,
		},
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid market params: %w", err)
	}

	return m, nil
}

// Validate checks market parameter sanity
func (m *Market) Validate() error {
	if m.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	// ':' separates storage key segments
	if strings.ContainsAny(m.Symbol, ": \t\n") {
		return fmt.Errorf("symbol %q must not contain ':' or whitespace", m.Symbol)
	}
	if m.BaseAsset == "" || m.QuoteAsset == "" {
		return fmt.Errorf("base and quote assets must be specified")
	}
	if m.Status < Active || m.Status > Settled {
		return fmt.Errorf("unknown status %d", m.Status)
	}
	// A zero peg would make every quote-sized order an arithmetic failure.
	if m.AMM.PegMultiplier.IsZero() {
		return fmt.Errorf("peg multiplier must be positive")
	}
	if m.AMM.MinimumBaseAssetTradeSize.IsZero() {
		return fmt.Errorf("minimum base asset trade size must be positive")
	}
	return nil
}

// IsActive reports whether orders may be admitted.
func (m *Market) IsActive() bool {
	return m.Status == Active
}
