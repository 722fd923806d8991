package market

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrMarketNotFound = errors.New("market not found")
	ErrMarketExists   = errors.New("market already registered")
	ErrMarketSettled  = errors.New("market is settled")
)

// MarketRegistry manages multiple markets in a thread-safe manner
// Supports registration, lookup, and status updates for all trading markets
type MarketRegistry struct {
	mu      sync.RWMutex
	markets map[string]*Market // symbol -> market
}

// NewMarketRegistry creates an empty market registry
func NewMarketRegistry() *MarketRegistry {
	return &MarketRegistry{
		markets: make(map[string]*Market),
	}
}

// RegisterMarket adds a new market to the registry
// Returns error if market with same symbol already exists
func (mr *MarketRegistry) RegisterMarket(m *Market) error {
	if m == nil {
		return fmt.Errorf("cannot register nil market")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("register %s: %w", m.Symbol, err)
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()

	if _, exists := mr.markets[m.Symbol]; exists {
		return fmt.Errorf("%w: %s", ErrMarketExists, m.Symbol)
	}

	cp := *m
	mr.markets[m.Symbol] = &cp
	return nil
}

// UpsertMarket replaces the parameters of an existing market or registers a
// new one. Settled markets cannot be replaced.
func (mr *MarketRegistry) UpsertMarket(m *Market) error {
	if m == nil {
		return fmt.Errorf("cannot register nil market")
	}
	if err := m.Validate(); err != nil {
		return fmt.Errorf("upsert %s: %w", m.Symbol, err)
	}

	mr.mu.Lock()
	defer mr.mu.Unlock()

	if prev, exists := mr.markets[m.Symbol]; exists && prev.Status == Settled {
		return fmt.Errorf("cannot replace %s: %w", m.Symbol, ErrMarketSettled)
	}

	cp := *m
	mr.markets[m.Symbol] = &cp
	return nil
}

// GetMarket returns a snapshot of the market with the given symbol.
// The snapshot is a copy; later registry updates do not affect it.
func (mr *MarketRegistry) GetMarket(symbol string) (Market, error) {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	m, exists := mr.markets[symbol]
	if !exists {
		return Market{}, fmt.Errorf("%w: %s", ErrMarketNotFound, symbol)
	}

	return *m, nil
}

// ListMarkets returns snapshots of all registered markets sorted by symbol
func (mr *MarketRegistry) ListMarkets() []Market {
	mr.mu.RLock()
	defer mr.mu.RUnlock()

	markets := make([]Market, 0, len(mr.markets))
	for _, m := range mr.markets {
		markets = append(markets, *m)
	}
	sort.Slice(markets, func(i, j int) bool { return markets[i].Symbol < markets[j].Symbol })

	return markets
}

// ListActiveMarkets returns only markets with Active status
func (mr *MarketRegistry) ListActiveMarkets() []Market {
	all := mr.ListMarkets()
	markets := all[:0]
	for _, m := range all {
		if m.Status == Active {
			markets = append(markets, m)
		}
	}

	return markets
}

// UpdateMarketStatus changes the trading status of a market
// Used for emergency pausing, settling, etc.
func (mr *MarketRegistry) UpdateMarketStatus(symbol string, status MarketStatus) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	m, exists := mr.markets[symbol]
	if !exists {
		return fmt.Errorf("%w: %s", ErrMarketNotFound, symbol)
	}

	if err := validateStatusTransition(m.Status, status); err != nil {
		return err
	}

	m.Status = status
	return nil
}

// validateStatusTransition checks if status change is valid
func validateStatusTransition(from, to MarketStatus) error {
	// Active → Paused: allowed (emergency halt)
	// Paused → Active: allowed (resume trading)
	// Active/Paused → Settling: allowed (start settlement)
	// Settling → Settled: allowed (finalize)
	// Settled → *: not allowed (terminal state)

	if from == Settled {
		return fmt.Errorf("cannot change status: %w", ErrMarketSettled)
	}
	if to < Active || to > Settled {
		return fmt.Errorf("unknown status %d", to)
	}

	return nil
}

// RemoveMarket removes a market from the registry
// Only settled markets may be removed
func (mr *MarketRegistry) RemoveMarket(symbol string) error {
	mr.mu.Lock()
	defer mr.mu.Unlock()

	m, exists := mr.markets[symbol]
	if !exists {
		return fmt.Errorf("%w: %s", ErrMarketNotFound, symbol)
	}

	if m.Status != Settled {
		return fmt.Errorf("cannot remove market %s with status %s (must be Settled)", symbol, m.Status)
	}

	delete(mr.markets, symbol)
	return nil
}

// Count returns the total number of registered markets
func (mr *MarketRegistry) Count() int {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return len(mr.markets)
}

// Exists checks if a market is registered
func (mr *MarketRegistry) Exists(symbol string) bool {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	_, exists := mr.markets[symbol]
	return exists
}
