// Package validation is the order admission gate: a pure accept/reject
// decision for one proposed order against a market snapshot and the venue
// order policy.
//
// Validate returns nil when the order is admissible, a RejectionReason when
// it is not, and a num.ErrMath error when a checked operation failed. The
// first failing guard wins; guards run in a fixed order per order type.
package validation

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/uhyunpark/ordergate/pkg/app/core/amm"
	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/order"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
)

// Validator holds no state besides its collaborators and is safe for
// concurrent use.
type Validator struct {
	log       *zap.Logger
	converter amm.ReserveConverter
}

// New returns a Validator. A nil logger discards diagnostics; a nil converter
// selects amm.PegConverter.
func New(log *zap.Logger, converter amm.ReserveConverter) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	if converter == nil {
		converter = amm.PegConverter{}
	}
	return &Validator{
		log:       log.Named("validation"),
		converter: converter,
	}
}

// Validate routes the order to the rule set for its type.
func (v *Validator) Validate(o order.Order, m market.Market, s orderstate.OrderState) error {
	switch o.Type {
	case order.Market:
		return v.validateMarketOrder(o, m)
	case order.Limit:
		return v.validateLimitOrder(o, m, s)
	case order.Stop:
		return v.validateStopOrder(o, m, s)
	case order.StopLimit:
		return v.validateStopLimitOrder(o, m, s)
	}

	v.log.Error("order_type_unsupported",
		zap.String("symbol", m.Symbol),
		zap.String("order_id", o.ID),
		zap.Int8("order_type", int8(o.Type)))
	return fmt.Errorf("%w: %d", ErrUnsupportedOrderType, o.Type)
}

// reject emits the diagnostic for a failed guard and returns its reason.
func (v *Validator) reject(o order.Order, m market.Market, reason RejectionReason, fields ...zap.Field) error {
	base := []zap.Field{
		zap.String("reason", reason.Code()),
		zap.String("symbol", m.Symbol),
		zap.String("order_id", o.ID),
		zap.Stringer("order_type", o.Type),
		zap.Stringer("direction", o.Direction),
	}
	v.log.Info("order_rejected: "+reason.Description(), append(base, fields...)...)
	return reason
}

// mathFailure logs and wraps an arithmetic failure. The wrapped error still
// matches num.ErrMath.
func (v *Validator) mathFailure(o order.Order, m market.Market, step string, err error) error {
	v.log.Error("order_validation_math_error",
		zap.String("step", step),
		zap.String("symbol", m.Symbol),
		zap.String("order_id", o.ID),
		zap.Stringer("order_type", o.Type),
		zap.Error(err))
	return fmt.Errorf("%s: %w", step, err)
}
