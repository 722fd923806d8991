package orderstate

import (
	"errors"
	"testing"

	"github.com/uhyunpark/ordergate/pkg/num"
)

func TestNew(t *testing.T) {
	s, err := New(num.NewUint(500_000))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.MinOrderQuoteAssetAmount.Uint64() != 500_000 {
		t.Errorf("min = %s", s.MinOrderQuoteAssetAmount)
	}

	if _, err := New(num.Zero()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("zero minimum err = %v, want ErrNotConfigured", err)
	}
}
