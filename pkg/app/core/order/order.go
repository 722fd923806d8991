// Package order defines the proposed order submitted to the admission gate.
package order

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/uhyunpark/ordergate/pkg/num"
)

// Type selects the rule set an order is validated against.
type Type int8

const (
	Market    Type = iota // Executes immediately, sized in base or quote units
	Limit                 // Rests at Price
	Stop                  // Becomes a market order once TriggerPrice is crossed
	StopLimit             // Becomes a limit order at Price once TriggerPrice is crossed
)

var typeNames = map[Type]string{
	Market:    "market",
	Limit:     "limit",
	Stop:      "stop",
	StopLimit: "stop_limit",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "unknown"
}

func (t Type) MarshalText() ([]byte, error) {
	s, ok := typeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown order type %d", t)
	}
	return []byte(s), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	for k, v := range typeNames {
		if strings.EqualFold(v, string(b)) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown order type %q", b)
}

// Direction is the side of the position the order opens or increases.
type Direction int8

const (
	Long Direction = iota
	Short
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "long"
	case Short:
		return "short"
	default:
		return "unknown"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	switch d {
	case Long, Short:
		return []byte(d.String()), nil
	default:
		return nil, fmt.Errorf("unknown direction %d", d)
	}
}

func (d *Direction) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "long":
		*d = Long
	case "short":
		*d = Short
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// TriggerCondition says whether a stop-limit order fires when the market
// moves above or below its trigger price.
type TriggerCondition int8

const (
	Above TriggerCondition = iota
	Below
)

func (c TriggerCondition) String() string {
	switch c {
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return "unknown"
	}
}

func (c TriggerCondition) MarshalText() ([]byte, error) {
	switch c {
	case Above, Below:
		return []byte(c.String()), nil
	default:
		return nil, fmt.Errorf("unknown trigger condition %d", c)
	}
}

func (c *TriggerCondition) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "above":
		*c = Above
	case "below":
		*c = Below
	default:
		return fmt.Errorf("unknown trigger condition %q", b)
	}
	return nil
}

// Order is a proposed trade instruction. Amounts are fixed-point and zero
// means "not set":
//
//	Price, TriggerPrice → amm.MarkPricePrecision
//	BaseAssetAmount     → amm.ReservePrecision
//	QuoteAssetAmount    → amm.QuotePrecision (market orders only)
//
// ID, Symbol and Owner identify the order to the surrounding service; the
// validator does not read them.
type Order struct {
	ID     string         `json:"id,omitempty"`
	Symbol string         `json:"symbol"`
	Owner  common.Address `json:"owner"`

	Type             Type             `json:"type"`
	Direction        Direction        `json:"direction"`
	Price            num.Uint         `json:"price"`
	TriggerPrice     num.Uint         `json:"triggerPrice"`
	TriggerCondition TriggerCondition `json:"triggerCondition"`
	BaseAssetAmount  num.Uint         `json:"baseAssetAmount"`
	QuoteAssetAmount num.Uint         `json:"quoteAssetAmount"`
}

// Canonical is the deterministic one-line text form of the order, used in
// logs and CLI output. Field order is fixed, every field is present and free-text fields
// are quoted.
func (o Order) Canonical() string {
	return fmt.Sprintf("ORDER:%q:%q:%s:%s:%s:%s:%s:%s:%s:%s",
		o.Symbol, o.ID, o.Owner.Hex(),
		o.Type, o.Direction,
		o.Price, o.TriggerPrice, o.TriggerCondition,
		o.BaseAssetAmount, o.QuoteAssetAmount)
}
