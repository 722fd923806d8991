package validation

import (
	"go.uber.org/zap"

	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/order"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
)

func (v *Validator) validateMarketOrder(o order.Order, m market.Market) error {
	if !o.QuoteAssetAmount.IsZero() && !o.BaseAssetAmount.IsZero() {
		return v.reject(o, m, ConflictingSizeSpecification)
	}

	if !o.BaseAssetAmount.IsZero() {
		if err := v.validateBaseAssetAmount(o, m); err != nil {
			return err
		}
	} else {
		if err := v.validateQuoteAssetAmount(o, m); err != nil {
			return err
		}
	}

	if !o.TriggerPrice.IsZero() {
		return v.reject(o, m, UnexpectedTriggerPrice)
	}

	return nil
}

func (v *Validator) validateLimitOrder(o order.Order, m market.Market, s orderstate.OrderState) error {
	if err := v.validateBaseAssetAmount(o, m); err != nil {
		return err
	}

	if o.Price.IsZero() {
		return v.reject(o, m, ZeroPrice)
	}

	if !o.TriggerPrice.IsZero() {
		return v.reject(o, m, UnexpectedTriggerPrice)
	}

	return v.validateGlobalMinimumNotional(o, m, s, o.Price)
}

func (v *Validator) validateStopOrder(o order.Order, m market.Market, s orderstate.OrderState) error {
	if err := v.validateBaseAssetAmount(o, m); err != nil {
		return err
	}

	if !o.Price.IsZero() {
		return v.reject(o, m, UnexpectedPrice)
	}

	if o.TriggerPrice.IsZero() {
		return v.reject(o, m, ZeroTriggerPrice)
	}

	return v.validateGlobalMinimumNotional(o, m, s, o.TriggerPrice)
}

func (v *Validator) validateStopLimitOrder(o order.Order, m market.Market, s orderstate.OrderState) error {
	if err := v.validateBaseAssetAmount(o, m); err != nil {
		return err
	}

	if o.Price.IsZero() {
		return v.reject(o, m, ZeroPrice)
	}

	if o.TriggerPrice.IsZero() {
		return v.reject(o, m, ZeroTriggerPrice)
	}

	// Only the Above/Long and Below/Short pairings are constrained.
	switch o.TriggerCondition {
	case order.Above:
		if o.Direction == order.Long && o.Price.LT(o.TriggerPrice) {
			return v.reject(o, m, InconsistentTriggerAbove,
				zap.Stringer("price", o.Price),
				zap.Stringer("trigger_price", o.TriggerPrice))
		}
	case order.Below:
		if o.Direction == order.Short && o.Price.GT(o.TriggerPrice) {
			return v.reject(o, m, InconsistentTriggerBelow,
				zap.Stringer("price", o.Price),
				zap.Stringer("trigger_price", o.TriggerPrice))
		}
	}

	return v.validateGlobalMinimumNotional(o, m, s, o.Price)
}
