// check-order validates an order offline against a market snapshot and can
// sign it for submission to POST /api/v1/orders/validate.
//
//	check-order -order order.json -min-order-value 500000 [-key <hex> | -gen-key]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/uhyunpark/ordergate/pkg/app/core/market"
	"github.com/uhyunpark/ordergate/pkg/app/core/order"
	"github.com/uhyunpark/ordergate/pkg/app/core/orderstate"
	"github.com/uhyunpark/ordergate/pkg/app/core/validation"
	"github.com/uhyunpark/ordergate/pkg/crypto"
	"github.com/uhyunpark/ordergate/pkg/num"
	"github.com/uhyunpark/ordergate/pkg/util"
)

type signedRequest struct {
	Order     order.Order `json:"order"`
	Signature string      `json:"signature"`
}

func main() {
	var (
		orderPath = flag.String("order", "-", "order JSON file, - for stdin")
		peg       = flag.String("peg", market.DefaultParams.PegMultiplier.String(), "peg multiplier (PegPrecision units)")
		minBase   = flag.String("min-base", market.DefaultParams.MinimumBaseAssetTradeSize.String(), "minimum base trade size (reserve units)")
		minQuote  = flag.String("min-quote", market.DefaultParams.MinimumQuoteAssetTradeSize.String(), "minimum quote trade size (reserve units)")
		minValue  = flag.String("min-order-value", "", "venue minimum order value (quote units, required)")
		keyHex    = flag.String("key", "", "private key to sign the order with")
		genKey    = flag.Bool("gen-key", false, "sign with a freshly generated key")
		logLevel  = flag.String("log-level", "info", "diagnostic log level")
	)
	flag.Parse()

	if err := run(*orderPath, *peg, *minBase, *minQuote, *minValue, *keyHex, *genKey, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(orderPath, peg, minBase, minQuote, minValue, keyHex string, genKey bool, logLevel string) error {
	level, err := util.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logger, err := util.NewLogger(level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	o, err := readOrder(orderPath)
	if err != nil {
		return err
	}

	m, err := buildMarket(o.Symbol, peg, minBase, minQuote)
	if err != nil {
		return err
	}

	minAmount, err := num.UintFromDecimal(minValue)
	if err != nil {
		return fmt.Errorf("-min-order-value: %w", err)
	}
	state, err := orderstate.New(minAmount)
	if err != nil {
		return err
	}

	fmt.Printf("Order: %s\n", o.Canonical())

	verr := validation.New(logger, nil).Validate(o, *m, state)
	if reason, ok := validation.AsRejection(verr); ok {
		fmt.Printf("Rejected: %s (%s)\n", reason.Code(), reason.Description())
	} else if verr != nil {
		return fmt.Errorf("validation failed: %w", verr)
	} else {
		fmt.Println("Accepted")
	}

	signer, err := loadSigner(keyHex, genKey)
	if err != nil || signer == nil {
		return err
	}
	if o.Owner != signer.Address() {
		logger.Info("owner_overridden", zap.String("owner", signer.Address().Hex()))
		o.Owner = signer.Address()
	}

	sig, err := crypto.NewEIP712Signer(crypto.DefaultDomain()).SignOrder(signer, o)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(signedRequest{Order: o, Signature: crypto.EncodeSignature(sig)}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println("Signed request (JSON):")
	fmt.Println(string(out))
	return nil
}

func readOrder(path string) (order.Order, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return order.Order{}, err
		}
		defer f.Close()
		r = f
	}

	var o order.Order
	if err := json.NewDecoder(r).Decode(&o); err != nil {
		return order.Order{}, fmt.Errorf("decode order: %w", err)
	}
	if o.Symbol == "" {
		return order.Order{}, errors.New("order symbol is required")
	}
	return o, nil
}

func buildMarket(symbol, peg, minBase, minQuote string) (*market.Market, error) {
	var p market.MarketParams
	var err error
	if p.PegMultiplier, err = num.UintFromDecimal(peg); err != nil {
		return nil, fmt.Errorf("-peg: %w", err)
	}
	if p.MinimumBaseAssetTradeSize, err = num.UintFromDecimal(minBase); err != nil {
		return nil, fmt.Errorf("-min-base: %w", err)
	}
	if p.MinimumQuoteAssetTradeSize, err = num.UintFromDecimal(minQuote); err != nil {
		return nil, fmt.Errorf("-min-quote: %w", err)
	}
	return market.NewMarket(symbol, "BASE", "QUOTE", p)
}

// loadSigner returns nil when no signing was requested.
func loadSigner(keyHex string, genKey bool) (*crypto.Signer, error) {
	switch {
	case keyHex != "":
		return crypto.FromPrivateKeyHex(keyHex)
	case genKey:
		signer, err := crypto.GenerateKey()
		if err != nil {
			return nil, err
		}
		fmt.Printf("Address: %s\n", signer.Address().Hex())
		fmt.Printf("Private Key: %s (KEEP SECRET!)\n", signer.PrivateKeyHex())
		return signer, nil
	default:
		return nil, nil
	}
}
