// Package storage persists market snapshots, the order policy and the
// admission decision log in Pebble.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
	"github.com/uhyunpark/ordergate/pkg/app/gate"
)

type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

// NewMemStore opens a store backed by an in-memory filesystem.
func NewMemStore() (*PebbleStore, error) {
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		return nil, err
	}
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Close() error { return s.db.Close() }

func (s *PebbleStore) putJSON(key []byte, v any, opts *pebble.WriteOptions) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Set(key, data, opts)
}

// getJSON decodes the value at key into v. found is false when the key is
// absent.
func (s *PebbleStore) getJSON(key []byte, v any) (found bool, err error) {
	data, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer closer.Close()
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// SaveMarket persists a market snapshot
func (s *PebbleStore) SaveMarket(m market.Market) error {
	if err := s.putJSON(marketKey(m.Symbol), m, pebble.Sync); err != nil {
		return fmt.Errorf("failed to save market %s: %w", m.Symbol, err)
	}
	return nil
}

// LoadMarket loads a market snapshot
// Returns nil if the market doesn't exist
func (s *PebbleStore) LoadMarket(symbol string) (*market.Market, error) {
	var m market.Market
	found, err := s.getJSON(marketKey(symbol), &m)
	if err != nil {
		return nil, fmt.Errorf("failed to load market %s: %w", symbol, err)
	}
	if !found {
		return nil, nil
	}
	return &m, nil
}

// LoadAllMarkets returns every persisted market in symbol order
func (s *PebbleStore) LoadAllMarkets() ([]market.Market, error) {
	prefix := []byte(prefixMarket)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var markets []market.Market
	for iter.First(); iter.Valid(); iter.Next() {
		var m market.Market
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			return nil, fmt.Errorf("corrupt market entry %q: %w", iter.Key(), err)
		}
		markets = append(markets, m)
	}
	return markets, iter.Error()
}

// DeleteMarket removes a market snapshot
func (s *PebbleStore) DeleteMarket(symbol string) error {
	if err := s.db.Delete(marketKey(symbol), pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete market %s: %w", symbol, err)
	}
	return nil
}

// SaveOrderState persists the venue order policy
func (s *PebbleStore) SaveOrderState(st orderstate.OrderState) error {
	if err := s.putJSON([]byte(keyOrderState), st, pebble.Sync); err != nil {
		return fmt.Errorf("failed to save order state: %w", err)
	}
	return nil
}

// LoadOrderState returns nil if no policy has been saved
func (s *PebbleStore) LoadOrderState() (*orderstate.OrderState, error) {
	var st orderstate.OrderState
	found, err := s.getJSON([]byte(keyOrderState), &st)
	if err != nil {
		return nil, fmt.Errorf("failed to load order state: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &st, nil
}

// SaveDecision appends a decision to the symbol's log. The log is an audit
// trail, so writes are not synced.
func (s *PebbleStore) SaveDecision(d gate.Decision) error {
	key := decisionKey(d.Symbol, d.At, d.ID.String())
	if err := s.putJSON(key, d, pebble.NoSync); err != nil {
		return fmt.Errorf("failed to save decision: %w", err)
	}
	return nil
}

// LoadRecentDecisions loads the most recent limit decisions for a symbol,
// newest first
func (s *PebbleStore) LoadRecentDecisions(symbol string, limit int) ([]gate.Decision, error) {
	prefix := decisionPrefix(symbol)
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	decisions := []gate.Decision{}
	for iter.Last(); iter.Valid() && len(decisions) < limit; iter.Prev() {
		var d gate.Decision
		if err := json.Unmarshal(iter.Value(), &d); err != nil {
			return nil, fmt.Errorf("corrupt decision entry %q: %w", iter.Key(), err)
		}
		decisions = append(decisions, d)
	}
	return decisions, iter.Error()
}
