package api

import (
	"github.com/uhyunpark/ordergate/pkg/app/core/amm"
	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/order"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
	"github.com/uhyunpark/ordergate/pkg/app/gate"
	"github.com/uhyunpark/ordergate/pkg/num"
)

// API request and response types for REST endpoints and WebSocket messages.
// Fixed-point amounts travel as decimal strings of raw units.

// MarketInfo represents a market snapshot
type MarketInfo struct {
	Symbol     string `json:"symbol"`     // e.g., "SOL-PERP"
	BaseAsset  string `json:"baseAsset"`  // e.g., "SOL"
	QuoteAsset string `json:"quoteAsset"` // e.g., "USDC"
	Status     string `json:"status"`     // "Active", "Paused", "Settling", "Settled"

	PegMultiplier              num.Uint `json:"pegMultiplier"`              // PegPrecision units
	Peg                        string   `json:"peg"`                        // e.g., "40"
	MinimumBaseAssetTradeSize  num.Uint `json:"minimumBaseAssetTradeSize"`  // ReservePrecision units
	MinimumQuoteAssetTradeSize num.Uint `json:"minimumQuoteAssetTradeSize"` // ReservePrecision units
	LaunchedAt                 int64    `json:"launchedAt"`
}

func toMarketInfo(m market.Market) MarketInfo {
	return MarketInfo{
		Symbol:                     m.Symbol,
		BaseAsset:                  m.BaseAsset,
		QuoteAsset:                 m.QuoteAsset,
		Status:                     m.Status.String(),
		PegMultiplier:              m.AMM.PegMultiplier,
		Peg:                        amm.ToDecimal(m.AMM.PegMultiplier, amm.PegDecimals).String(),
		MinimumBaseAssetTradeSize:  m.AMM.MinimumBaseAssetTradeSize,
		MinimumQuoteAssetTradeSize: m.AMM.MinimumQuoteAssetTradeSize,
		LaunchedAt:                 m.LaunchedAt,
	}
}

// UpsertMarketRequest replaces a market's parameters. The symbol comes from
// the path. Status defaults to Active.
type UpsertMarketRequest struct {
	BaseAsset                  string               `json:"baseAsset"`
	QuoteAsset                 string               `json:"quoteAsset"`
	Status                     *market.MarketStatus `json:"status,omitempty"`
	PegMultiplier              num.Uint             `json:"pegMultiplier"`
	MinimumBaseAssetTradeSize  num.Uint             `json:"minimumBaseAssetTradeSize"`
	MinimumQuoteAssetTradeSize num.Uint             `json:"minimumQuoteAssetTradeSize"`
	LaunchedAt                 int64                `json:"launchedAt"`
}

func (r UpsertMarketRequest) toMarket(symbol string) market.Market {
	status := market.Active
	if r.Status != nil {
		status = *r.Status
	}
	return market.Market{
		Symbol:     symbol,
		BaseAsset:  r.BaseAsset,
		QuoteAsset: r.QuoteAsset,
		Status:     status,
		AMM: market.AMM{
			PegMultiplier:              r.PegMultiplier,
			MinimumBaseAssetTradeSize:  r.MinimumBaseAssetTradeSize,
			MinimumQuoteAssetTradeSize: r.MinimumQuoteAssetTradeSize,
		},
		LaunchedAt: r.LaunchedAt,
	}
}

// OrderStateInfo is the venue order policy
type OrderStateInfo struct {
	MinOrderQuoteAssetAmount num.Uint `json:"minOrderQuoteAssetAmount"` // QuotePrecision units
	MinOrderValue            string   `json:"minOrderValue"`            // dollars, e.g. "0.5"
}

func toOrderStateInfo(s orderstate.OrderState) OrderStateInfo {
	return OrderStateInfo{
		MinOrderQuoteAssetAmount: s.MinOrderQuoteAssetAmount,
		MinOrderValue:            amm.QuoteString(s.MinOrderQuoteAssetAmount),
	}
}

// UpdateOrderStateRequest sets the venue-wide minimum order value
type UpdateOrderStateRequest struct {
	MinOrderQuoteAssetAmount num.Uint `json:"minOrderQuoteAssetAmount"`
}

// ValidateOrderRequest submits one order for admission. Signature is the
// optional 0x-prefixed 65-byte EIP-712 signature by order.owner.
type ValidateOrderRequest struct {
	Order     order.Order `json:"order"`
	Signature string      `json:"signature,omitempty"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest represents a WebSocket subscription request
// Channels: "decisions", "decisions:{symbol}"
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"`
}

// DecisionUpdate is pushed to subscribers for every admission decision
type DecisionUpdate struct {
	Type     string        `json:"type"` // "decision"
	Channel  string        `json:"channel"`
	Decision gate.Decision `json:"decision"`
}
