// Package gate serves admission requests: it resolves the market snapshot,
// checks the order signature, runs the validator and publishes the decision.
package gate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/order"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
	"github.com/uhyunpark/ordergate/pkg/app/core/validation"
	"github.com/uhyunpark/ordergate/pkg/crypto"
	"github.com/uhyunpark/ordergate/pkg/util"
)

var (
	ErrMarketNotFound  = market.ErrMarketNotFound
	ErrMarketNotActive = errors.New("market not active")
	ErrBadSignature    = errors.New("bad order signature")
)

// Request is one order submitted for admission. Signature is the 65-byte
// EIP-712 signature by Order.Owner, or nil.
type Request struct {
	Order     order.Order
	Signature []byte
}

// Decision is the outcome of an admission that reached the validator.
type Decision struct {
	ID       uuid.UUID `json:"id"`
	Symbol   string    `json:"symbol"`
	OrderID  string    `json:"orderId"`
	Accepted bool      `json:"accepted"`
	Reason   string    `json:"reason,omitempty"`
	Message  string    `json:"message,omitempty"`
	At       time.Time `json:"at"`
}

type DecisionListener interface {
	OnDecision(Decision)
}

// DecisionListenerFunc adapts a function to DecisionListener.
type DecisionListenerFunc func(Decision)

func (f DecisionListenerFunc) OnDecision(d Decision) { f(d) }

type Option func(*Gate)

// WithRequireSignatures makes unsigned orders fail with ErrBadSignature.
func WithRequireSignatures(require bool) Option {
	return func(g *Gate) { g.requireSignatures = require }
}

func WithDomain(domain crypto.EIP712Domain) Option {
	return func(g *Gate) { g.signer = crypto.NewEIP712Signer(domain) }
}

func WithLogger(log *zap.Logger) Option {
	return func(g *Gate) { g.log = log }
}

func WithClock(c util.Clock) Option {
	return func(g *Gate) { g.clock = c }
}

type Gate struct {
	registry  *market.MarketRegistry
	validator *validation.Validator
	signer    *crypto.EIP712Signer
	clock     util.Clock
	log       *zap.Logger

	requireSignatures bool

	mu    sync.RWMutex
	state orderstate.OrderState

	listenersMu sync.RWMutex
	listeners   []DecisionListener

	stats *counters
}

// New builds a gate over the registry. The order state must be configured.
func New(registry *market.MarketRegistry, state orderstate.OrderState, validator *validation.Validator, opts ...Option) (*Gate, error) {
	if registry == nil {
		return nil, errors.New("gate: nil market registry")
	}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("gate: %w", err)
	}

	g := &Gate{
		registry: registry,
		state:    state,
		signer:   crypto.NewEIP712Signer(crypto.DefaultDomain()),
		clock:    util.RealClock{},
		log:      zap.NewNop(),
		stats:    newCounters(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.clock == nil {
		g.clock = util.RealClock{}
	}
	g.log = g.log.Named("gate")
	if validator == nil {
		validator = validation.New(g.log, nil)
	}
	g.validator = validator
	return g, nil
}

// Subscribe registers a listener for every decision. Listeners run
// synchronously on the admitting goroutine and must not block. A listener
// may call Subscribe; the new listener sees the next decision.
func (g *Gate) Subscribe(l DecisionListener) {
	g.listenersMu.Lock()
	g.listeners = append(g.listeners, l)
	g.listenersMu.Unlock()
}

// OrderState returns the policy currently applied to admissions.
func (g *Gate) OrderState() orderstate.OrderState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// SetOrderState swaps the policy. Admissions already past the snapshot step
// finish under the previous value.
func (g *Gate) SetOrderState(s orderstate.OrderState) error {
	if err := s.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
	g.log.Info("order_state_updated",
		zap.Stringer("min_order_quote_asset_amount", s.MinOrderQuoteAssetAmount))
	return nil
}

// Admit decides one order. Rejections are returned as a Decision with a nil
// error; lookup, signature and arithmetic failures return an error.
func (g *Gate) Admit(ctx context.Context, req Request) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	o := req.Order
	m, err := g.registry.GetMarket(o.Symbol)
	if err != nil {
		g.stats.refused()
		return Decision{}, err
	}
	if !m.IsActive() {
		g.stats.refused()
		return Decision{}, fmt.Errorf("%w: %s is %s", ErrMarketNotActive, m.Symbol, m.Status)
	}

	if err := g.checkSignature(req); err != nil {
		g.stats.refused()
		g.log.Warn("order_signature_rejected",
			zap.String("symbol", o.Symbol),
			zap.String("order_id", o.ID),
			zap.String("owner", o.Owner.Hex()),
			zap.Error(err))
		return Decision{}, err
	}

	verr := g.validator.Validate(o, m, g.OrderState())

	d := Decision{
		ID:       uuid.New(),
		Symbol:   m.Symbol,
		OrderID:  o.ID,
		Accepted: verr == nil,
		At:       g.clock.Now(),
	}
	if verr != nil {
		reason, ok := validation.AsRejection(verr)
		if !ok {
			g.stats.failed()
			return Decision{}, verr
		}
		d.Reason = reason.Code()
		d.Message = reason.Description()
		g.stats.rejected(reason)
	} else {
		g.stats.accepted()
		g.log.Debug("order_accepted",
			zap.String("symbol", d.Symbol),
			zap.String("order", o.Canonical()),
			zap.Stringer("decision_id", d.ID))
	}

	g.publish(d)
	return d, nil
}

func (g *Gate) checkSignature(req Request) error {
	if len(req.Signature) == 0 {
		if g.requireSignatures {
			return fmt.Errorf("%w: signature required", ErrBadSignature)
		}
		return nil
	}

	signer, err := g.signer.RecoverOrderSigner(req.Order, req.Signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	if signer != req.Order.Owner {
		return fmt.Errorf("%w: signed by %s, owner %s", ErrBadSignature, signer.Hex(), req.Order.Owner.Hex())
	}
	return nil
}

func (g *Gate) publish(d Decision) {
	g.listenersMu.RLock()
	listeners := append([]DecisionListener(nil), g.listeners...)
	g.listenersMu.RUnlock()

	for _, l := range listeners {
		l.OnDecision(d)
	}
}

// Stats returns a snapshot of the admission counters.
func (g *Gate) Stats() Stats {
	return g.stats.snapshot()
}
