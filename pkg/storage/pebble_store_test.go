package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
	"github.com/uhyunpark/ordergate/pkg/app/gate"
	"github.com/uhyunpark/ordergate/pkg/num"
)

func newTestStore(t *testing.T) *PebbleStore {
	t.Helper()
	s, err := NewMemStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMarketRoundTrip(t *testing.T) {
	s := newTestStore(t)

	m, err := market.NewMarket("SOL-PERP", "SOL", "USDC", market.PeggedPerpetual(40))
	require.NoError(t, err)
	m.LaunchedAt = 1_700_000_000

	require.NoError(t, s.SaveMarket(*m))

	got, err := s.LoadMarket("SOL-PERP")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *m, *got)
	assert.Equal(t, "40000", got.AMM.PegMultiplier.String())
}

func TestLoadMarket_Missing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LoadMarket("NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadAllMarkets_SortedAndDelete(t *testing.T) {
	s := newTestStore(t)

	for _, sym := range []string{"SOL-PERP", "BTC-PERP", "ETH-PERP"} {
		m, err := market.NewMarketWithDefaults(sym, sym[:3], "USDC")
		require.NoError(t, err)
		require.NoError(t, s.SaveMarket(*m))
	}
	// Unrelated keys must not leak into the scan.
	require.NoError(t, s.SaveOrderState(orderstate.OrderState{MinOrderQuoteAssetAmount: num.NewUint(1)}))

	all, err := s.LoadAllMarkets()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "BTC-PERP", all[0].Symbol)
	assert.Equal(t, "ETH-PERP", all[1].Symbol)
	assert.Equal(t, "SOL-PERP", all[2].Symbol)

	require.NoError(t, s.DeleteMarket("ETH-PERP"))
	all, err = s.LoadAllMarkets()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderStateRoundTrip(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LoadOrderState()
	require.NoError(t, err)
	assert.Nil(t, got)

	want := orderstate.OrderState{MinOrderQuoteAssetAmount: num.NewUint(500_000)}
	require.NoError(t, s.SaveOrderState(want))

	got, err = s.LoadOrderState()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestDecisionLog_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		d := gate.Decision{
			ID:       uuid.New(),
			Symbol:   "SOL-PERP",
			OrderID:  string(rune('a' + i)),
			Accepted: i%2 == 0,
			At:       base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, s.SaveDecision(d))
	}
	// Other symbol, same prefix stem.
	require.NoError(t, s.SaveDecision(gate.Decision{ID: uuid.New(), Symbol: "SOL", At: base}))

	got, err := s.LoadRecentDecisions("SOL-PERP", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "e", got[0].OrderID)
	assert.Equal(t, "d", got[1].OrderID)
	assert.Equal(t, "c", got[2].OrderID)

	got, err = s.LoadRecentDecisions("SOL", 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.LoadRecentDecisions("BTC-PERP", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecisionLog_SymbolPrefixDoesNotLeak(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveDecision(gate.Decision{ID: uuid.New(), Symbol: "SOL", OrderID: "plain", At: at}))
	require.NoError(t, s.SaveDecision(gate.Decision{ID: uuid.New(), Symbol: "SOL:X", OrderID: "nested", At: at}))

	got, err := s.LoadRecentDecisions("SOL", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SOL", got[0].Symbol)
	assert.Equal(t, "plain", got[0].OrderID)

	got, err = s.LoadRecentDecisions("SOL:X", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "nested", got[0].OrderID)
}

func TestDecisionLog_CorruptEntryIsAnError(t *testing.T) {
	s := newTestStore(t)
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveDecision(gate.Decision{ID: uuid.New(), Symbol: "SOL-PERP", At: at}))
	require.NoError(t, s.db.Set(decisionKey("SOL-PERP", at.Add(time.Second), "bad"), []byte("{not json"), nil))

	_, err := s.LoadRecentDecisions("SOL-PERP", 10)
	assert.ErrorContains(t, err, "corrupt decision entry")
}
