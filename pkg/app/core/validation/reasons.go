package validation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrder is matched by every RejectionReason via errors.Is.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrUnsupportedOrderType means an order type reached the validator that
	// has no rule set. It is a programming error, not a rejection.
	ErrUnsupportedOrderType = errors.New("unsupported order type")
)

// RejectionReason identifies the first guard an order failed. It implements
// error so rule sets can return it directly.
type RejectionReason uint8

const (
	ZeroBaseAmount RejectionReason = iota + 1
	BelowMinimumBaseSize
	ZeroQuoteAmount
	BelowMinimumQuoteSize
	ConflictingSizeSpecification
	UnexpectedTriggerPrice
	ZeroPrice
	UnexpectedPrice
	ZeroTriggerPrice
	InconsistentTriggerAbove
	InconsistentTriggerBelow
	BelowGlobalMinimumNotional
)

var reasonInfo = map[RejectionReason]struct {
	code, description string
}{
	ZeroBaseAmount:               {"zero_base_amount", "order base_asset_amount cannot be 0"},
	BelowMinimumBaseSize:         {"below_minimum_base_size", "order base_asset_amount smaller than market minimum_base_asset_trade_size"},
	ZeroQuoteAmount:              {"zero_quote_amount", "order quote_asset_amount cannot be 0"},
	BelowMinimumQuoteSize:        {"below_minimum_quote_size", "order quote_asset_amount in reserve units smaller than market minimum_quote_asset_trade_size"},
	ConflictingSizeSpecification: {"conflicting_size_specification", "market order must not set both quote_asset_amount and base_asset_amount"},
	UnexpectedTriggerPrice:       {"unexpected_trigger_price", "order type must not have a trigger price"},
	ZeroPrice:                    {"zero_price", "limit price cannot be 0"},
	UnexpectedPrice:              {"unexpected_price", "stop order must not have a limit price"},
	ZeroTriggerPrice:             {"zero_trigger_price", "trigger price cannot be 0"},
	InconsistentTriggerAbove:     {"inconsistent_trigger_above", "trigger condition above with direction long requires limit price >= trigger price"},
	InconsistentTriggerBelow:     {"inconsistent_trigger_below", "trigger condition below with direction short requires limit price <= trigger price"},
	BelowGlobalMinimumNotional:   {"below_global_minimum_notional", "order value below venue min_order_quote_asset_amount"},
}

// Code is the stable wire identifier, e.g. "zero_price".
func (r RejectionReason) Code() string {
	if info, ok := reasonInfo[r]; ok {
		return info.code
	}
	return fmt.Sprintf("rejection_%d", uint8(r))
}

// Description names the violated rule for humans.
func (r RejectionReason) Description() string {
	if info, ok := reasonInfo[r]; ok {
		return info.description
	}
	return "unknown rejection"
}

func (r RejectionReason) String() string { return r.Code() }

func (r RejectionReason) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidOrder, r.Description())
}

// Is makes errors.Is(err, ErrInvalidOrder) hold for every reason.
func (r RejectionReason) Is(target error) bool {
	return target == ErrInvalidOrder
}

// AsRejection extracts the RejectionReason from err. The second result is
// false for nil and for arithmetic or internal failures.
func AsRejection(err error) (RejectionReason, bool) {
	var r RejectionReason
	if errors.As(err, &r) {
		return r, true
	}
	return 0, false
}

// ParseReason maps a wire code back to its RejectionReason.
func ParseReason(code string) (RejectionReason, error) {
	for r, info := range reasonInfo {
		if info.code == code {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rejection code %q", code)
}

// AllReasons returns every rejection reason in declaration order.
func AllReasons() []RejectionReason {
	out := make([]RejectionReason, 0, len(reasonInfo))
	for r := ZeroBaseAmount; r <= BelowGlobalMinimumNotional; r++ {
		out = append(out, r)
	}
	return out
}
