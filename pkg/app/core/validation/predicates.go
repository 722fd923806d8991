package validation

import (
	"go.uber.org/zap"

	"github.com/uhyunpark/ordergate/pkg/app/core/amm"
	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/order"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
	"github.com/uhyunpark/ordergate/pkg/num"
)

// priceToQuotePrecisionRatio = MarkPricePrecision / QuotePrecision. A zero
// ratio would surface as num.ErrDivisionByZero in approxMarketValue.
func priceToQuotePrecisionRatio() (num.Uint, error) {
	return amm.MarkPricePrecision.CheckedDiv(amm.QuotePrecision)
}

func (v *Validator) validateBaseAssetAmount(o order.Order, m market.Market) error {
	if o.BaseAssetAmount.IsZero() {
		return v.reject(o, m, ZeroBaseAmount)
	}

	if o.BaseAssetAmount.LT(m.AMM.MinimumBaseAssetTradeSize) {
		return v.reject(o, m, BelowMinimumBaseSize,
			zap.Stringer("base_asset_amount", o.BaseAssetAmount),
			zap.Stringer("minimum_base_asset_trade_size", m.AMM.MinimumBaseAssetTradeSize))
	}

	return nil
}

func (v *Validator) validateQuoteAssetAmount(o order.Order, m market.Market) error {
	if o.QuoteAssetAmount.IsZero() {
		return v.reject(o, m, ZeroQuoteAmount)
	}

	reserveAmount, err := v.converter.QuoteToReserve(o.QuoteAssetAmount, m.AMM.PegMultiplier)
	if err != nil {
		// Returned as-is so callers see the converter's own failure.
		v.log.Error("order_validation_math_error",
			zap.String("step", "quote_to_reserve"),
			zap.String("symbol", m.Symbol),
			zap.String("order_id", o.ID),
			zap.Error(err))
		return err
	}

	if reserveAmount.LT(m.AMM.MinimumQuoteAssetTradeSize) {
		return v.reject(o, m, BelowMinimumQuoteSize,
			zap.Stringer("quote_asset_amount", o.QuoteAssetAmount),
			zap.Stringer("quote_asset_reserve_amount", reserveAmount),
			zap.Stringer("minimum_quote_asset_trade_size", m.AMM.MinimumQuoteAssetTradeSize))
	}

	return nil
}

// approxMarketValue converts price × base (MarkPricePrecision ×
// ReservePrecision) down to QuotePrecision.
func approxMarketValue(price, base num.Uint) (num.Uint, error) {
	value, err := price.CheckedMul(base)
	if err != nil {
		return num.Uint{}, err
	}
	if value, err = value.CheckedDiv(amm.ReservePrecision); err != nil {
		return num.Uint{}, err
	}
	ratio, err := priceToQuotePrecisionRatio()
	if err != nil {
		return num.Uint{}, err
	}
	return value.CheckedDiv(ratio)
}

// validateGlobalMinimumNotional applies the venue-wide minimum to price × base.
// price is the limit price, or the trigger price for stop orders.
func (v *Validator) validateGlobalMinimumNotional(o order.Order, m market.Market, s orderstate.OrderState, price num.Uint) error {
	value, err := approxMarketValue(price, o.BaseAssetAmount)
	if err != nil {
		return v.mathFailure(o, m, "approx_market_value", err)
	}

	if value.LT(s.MinOrderQuoteAssetAmount) {
		return v.reject(o, m, BelowGlobalMinimumNotional,
			zap.String("approx_market_value", amm.QuoteString(value)),
			zap.String("min_order_quote_asset_amount", amm.QuoteString(s.MinOrderQuoteAssetAmount)))
	}

	return nil
}
