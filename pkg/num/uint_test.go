package num

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCheckedArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func() (Uint, error)
		want string
	}{
		{"add", func() (Uint, error) { return NewUint(10).CheckedAdd(NewUint(20)) }, "30"},
		{"sub", func() (Uint, error) { return NewUint(30).CheckedSub(NewUint(10)) }, "20"},
		{"mul", func() (Uint, error) { return NewUint(5).CheckedMul(NewUint(6)) }, "30"},
		{"div truncates", func() (Uint, error) { return NewUint(100).CheckedDiv(NewUint(3)) }, "33"},
		{"mul beyond 64 bits", func() (Uint, error) {
			return MustPow10(10).CheckedMul(MustPow10(13))
		}, "100000000000000000000000"},
		{"add to max boundary", func() (Uint, error) {
			almost, _ := Max.CheckedSub(NewUint(1))
			return almost.CheckedAdd(NewUint(1))
		}, "340282366920938463463374607431768211455"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCheckedArithmeticFailures(t *testing.T) {
	tests := []struct {
		name string
		op   func() (Uint, error)
		want error
	}{
		{"add overflow", func() (Uint, error) { return Max.CheckedAdd(NewUint(1)) }, ErrMathOverflow},
		{"mul overflow", func() (Uint, error) { return Max.CheckedMul(NewUint(2)) }, ErrMathOverflow},
		{"mul overflow past 256 bits", func() (Uint, error) { return Max.CheckedMul(Max) }, ErrMathOverflow},
		{"sub underflow", func() (Uint, error) { return NewUint(1).CheckedSub(NewUint(2)) }, ErrMathUnderflow},
		{"div by zero", func() (Uint, error) { return NewUint(1).CheckedDiv(Zero()) }, ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.op()
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if !errors.Is(err, ErrMath) {
				t.Errorf("err = %v does not match ErrMath", err)
			}
		})
	}
}

func TestPow10(t *testing.T) {
	if got := MustPow10(0); got.String() != "1" {
		t.Errorf("10^0 = %s, want 1", got)
	}
	if got := MustPow10(13); got.String() != "10000000000000" {
		t.Errorf("10^13 = %s", got)
	}
	if _, err := Pow10(39); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("10^39 err = %v, want overflow", err)
	}
}

func TestComparisons(t *testing.T) {
	a, b := NewUint(100), NewUint(150)
	if !a.LT(b) || a.GT(b) || !a.LTE(b) || a.GTE(b) {
		t.Errorf("100 vs 150 comparisons wrong")
	}
	if !a.LTE(a) || !a.GTE(a) || !a.EQ(NewUint(100)) || a.Cmp(a) != 0 {
		t.Errorf("equal comparisons wrong")
	}
	if !Zero().IsZero() || a.IsZero() {
		t.Errorf("IsZero wrong")
	}
}

func TestUintFromDecimal(t *testing.T) {
	if _, err := UintFromDecimal("340282366920938463463374607431768211456"); !errors.Is(err, ErrMathOverflow) {
		t.Errorf("2^128 err = %v, want overflow", err)
	}
	for _, bad := range []string{"", "-1", "1.5", "abc"} {
		if _, err := UintFromDecimal(bad); err == nil {
			t.Errorf("UintFromDecimal(%q) succeeded", bad)
		}
	}
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		Amount Uint `json:"amount"`
	}

	data, err := json.Marshal(wrapper{Amount: MustUintFromDecimal("123456789012345678901")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"amount":"123456789012345678901"}` {
		t.Errorf("marshal = %s", data)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"amount":42}`), &w); err != nil {
		t.Fatalf("unmarshal bare number: %v", err)
	}
	if w.Amount.Uint64() != 42 {
		t.Errorf("amount = %s, want 42", w.Amount)
	}
	if err := json.Unmarshal([]byte(`{"amount":"-5"}`), &w); err == nil {
		t.Errorf("negative amount accepted")
	}
}
