package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/uhyunpark/ordergate/params"
	"github.com/uhyunpark/ordergate/pkg/api"
	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
	"github.com/uhyunpark/ordergate/pkg/app/core/validation"
	"github.com/uhyunpark/ordergate/pkg/app/gate"
	"github.com/uhyunpark/ordergate/pkg/storage"
	"github.com/uhyunpark/ordergate/pkg/util"
)

// Markets registered on first start when the store is empty.
var bootstrapMarkets = []struct {
	symbol, base, quote string
	peg                 uint64
}{
	{"BTC-PERP", "BTC", "USDC", 1},
	{"ETH-PERP", "ETH", "USDC", 1},
	{"SOL-PERP", "SOL", "USDC", 1},
}

func main() {
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	level, _ := util.ParseLevel(cfg.Log.Level)
	var logger *zap.Logger
	var err error
	if cfg.Log.File != "" {
		logger, err = util.NewLoggerWithFile(cfg.Log.File, level)
	} else {
		logger, err = util.NewLogger(level)
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.Log.File, "level", level.String())

	// ---- Store ----
	store, err := storage.NewPebbleStore(cfg.Store.Path)
	if err != nil {
		sugar.Fatalw("store_open_failed", "path", cfg.Store.Path, "err", err)
	}
	defer store.Close()

	registry, err := loadMarkets(store, sugar)
	if err != nil {
		sugar.Fatalw("market_load_failed", "err", err)
	}

	state, err := resolveOrderState(cfg, store)
	if err != nil {
		sugar.Fatalw("order_state_unconfigured", "err", err,
			"hint", "set GATE_MIN_ORDER_QUOTE_ASSET_AMOUNT (quote units, 1000000 = $1)")
	}
	sugar.Infow("order_state_loaded", "min_order_quote_asset_amount", state.MinOrderQuoteAssetAmount.String())

	// ---- Gate ----
	g, err := gate.New(registry, state, validation.New(logger, nil),
		gate.WithLogger(logger),
		gate.WithRequireSignatures(cfg.Gate.RequireSignatures))
	if err != nil {
		sugar.Fatalw("gate_init_failed", "err", err)
	}

	g.Subscribe(gate.DecisionListenerFunc(func(d gate.Decision) {
		if err := store.SaveDecision(d); err != nil {
			sugar.Warnw("decision_persist_failed", "decision_id", d.ID.String(), "err", err)
		}
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- API Server ----
	apiServer := api.NewServer(g, registry, store, logger)

	sugar.Infow("gate_starting",
		"markets", registry.Count(),
		"require_signatures", cfg.Gate.RequireSignatures,
		"api_addr", cfg.API.Addr)

	if err := apiServer.Start(ctx, cfg.API.Addr, cfg.API.AllowedOrigins); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("api_server_failed", "err", err)
	}

	stats := g.Stats()
	sugar.Infow("gate_stopped",
		"accepted", stats.Accepted,
		"rejected", stats.Rejected,
		"refused", stats.Refused,
		"failed", stats.Failed)
}

// loadMarkets fills a registry from the store, seeding it on first start.
func loadMarkets(store *storage.PebbleStore, sugar *zap.SugaredLogger) (*market.MarketRegistry, error) {
	registry := market.NewMarketRegistry()

	markets, err := store.LoadAllMarkets()
	if err != nil {
		return nil, err
	}

	if len(markets) == 0 {
		for _, b := range bootstrapMarkets {
			m, err := market.NewMarket(b.symbol, b.base, b.quote, market.PeggedPerpetual(b.peg))
			if err != nil {
				return nil, err
			}
			if err := store.SaveMarket(*m); err != nil {
				return nil, err
			}
			markets = append(markets, *m)
		}
		sugar.Infow("markets_bootstrapped", "count", len(markets))
	}

	for i := range markets {
		if err := registry.RegisterMarket(&markets[i]); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// resolveOrderState prefers an explicit env value over the stored policy and
// persists whichever is used.
func resolveOrderState(cfg params.Config, store *storage.PebbleStore) (orderstate.OrderState, error) {
	if !cfg.Gate.MinOrderQuoteAssetAmount.IsZero() {
		st, err := orderstate.New(cfg.Gate.MinOrderQuoteAssetAmount)
		if err != nil {
			return orderstate.OrderState{}, err
		}
		return st, store.SaveOrderState(st)
	}

	saved, err := store.LoadOrderState()
	if err != nil {
		return orderstate.OrderState{}, err
	}
	if saved == nil {
		return orderstate.OrderState{}, orderstate.ErrNotConfigured
	}
	return *saved, saved.Validate()
}
