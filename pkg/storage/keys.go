package storage

import (
	"fmt"
	"time"
)

// Key schema:
//
//	mkt:<symbol>                       → Market (JSON)
//	ostate                             → OrderState (JSON)
//	dec:<len>:<symbol>:<unix-nanos>:<id> → Decision (JSON)
//
// The symbol length keeps one symbol's log from matching another symbol
// that starts with it.
const (
	prefixMarket   = "mkt:"
	prefixDecision = "dec:"
	keyOrderState  = "ostate"
)

// marketKey returns the key for a market
// Format: "mkt:{symbol}"
func marketKey(symbol string) []byte {
	return []byte(prefixMarket + symbol)
}

// decisionKey returns the key for a decision
// Timestamp is zero-padded (20 digits) for lexicographic sorting
func decisionKey(symbol string, at time.Time, id string) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", decisionPrefix(symbol), at.UnixNano(), id))
}

// decisionPrefix returns the prefix for all decisions of a symbol
// Format: "dec:{len(symbol)}:{symbol}:"
func decisionPrefix(symbol string) []byte {
	return []byte(fmt.Sprintf("%s%d:%s:", prefixDecision, len(symbol), symbol))
}

// keyUpperBound returns the exclusive upper bound for a prefix scan
func keyUpperBound(prefix []byte) []byte {
	bound := make([]byte, len(prefix))
	copy(bound, prefix)
	bound[len(bound)-1]++
	return bound
}
