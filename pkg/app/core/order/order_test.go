package order

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeOrderJSON(t *testing.T) {
	raw := `{
		"symbol": "SOL-PERP",
		"owner": "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb0",
		"type": "stop_limit",
		"direction": "short",
		"price": "1500000000000",
		"triggerPrice": "1600000000000",
		"triggerCondition": "below",
		"baseAssetAmount": "20000000000000"
	}`

	var o Order
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if o.Type != StopLimit {
		t.Errorf("type = %v, want stop_limit", o.Type)
	}
	if o.Direction != Short {
		t.Errorf("direction = %v, want short", o.Direction)
	}
	if o.TriggerCondition != Below {
		t.Errorf("trigger condition = %v, want below", o.TriggerCondition)
	}
	if o.Price.String() != "1500000000000" {
		t.Errorf("price = %s", o.Price)
	}
	if !o.QuoteAssetAmount.IsZero() {
		t.Errorf("absent quote amount should decode as zero, got %s", o.QuoteAssetAmount)
	}
}

func TestDecodeRejectsUnknownEnums(t *testing.T) {
	tests := []string{
		`{"type":"iceberg"}`,
		`{"direction":"sideways"}`,
		`{"triggerCondition":"equal"}`,
	}
	for _, raw := range tests {
		var o Order
		if err := json.Unmarshal([]byte(raw), &o); err == nil {
			t.Errorf("decoding %s succeeded, want error", raw)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Market.String(), "market"},
		{Limit.String(), "limit"},
		{Stop.String(), "stop"},
		{StopLimit.String(), "stop_limit"},
		{Type(42).String(), "unknown"},
		{Long.String(), "long"},
		{Short.String(), "short"},
		{Above.String(), "above"},
		{Below.String(), "below"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}

	if _, err := Type(42).MarshalText(); err == nil {
		t.Errorf("marshalling unknown type succeeded")
	}
}

func TestCanonicalIsStable(t *testing.T) {
	o := Order{Symbol: "SOL-PERP", ID: "a:b", Type: Limit}
	c := o.Canonical()
	if c != o.Canonical() {
		t.Fatalf("canonical form not deterministic")
	}
	if !strings.HasPrefix(c, `ORDER:"SOL-PERP":"a:b":`) {
		t.Errorf("canonical = %s", c)
	}

	o2 := o
	o2.Direction = Short
	if o2.Canonical() == c {
		t.Errorf("canonical form ignores direction")
	}
}
