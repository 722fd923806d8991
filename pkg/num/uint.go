// Package num provides overflow-checked unsigned fixed-point arithmetic.
//
// Amounts on the venue are 128-bit unsigned integers scaled by a per-field
// precision. Uint carries the value in a 256-bit word so intermediate products
// never wrap, and every operation that would leave the 128-bit range fails
// with an error instead of returning a truncated value.
package num

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Bits is the width of every amount handled by this package.
const Bits = 128

var (
	// ErrMath is matched (via errors.Is) by every arithmetic failure below.
	ErrMath = errors.New("math error")

	ErrMathOverflow   = fmt.Errorf("%w: overflow", ErrMath)
	ErrMathUnderflow  = fmt.Errorf("%w: underflow", ErrMath)
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrMath)
)

// Uint is an unsigned integer bounded to 128 bits. The zero value is 0.
type Uint struct {
	v uint256.Int
}

// Max is the largest representable amount (2^128 - 1).
var Max = func() Uint {
	var u Uint
	u.v.Lsh(uint256.NewInt(1), Bits)
	u.v.SubUint64(&u.v, 1)
	return u
}()

// NewUint returns x as a Uint.
func NewUint(x uint64) Uint {
	var u Uint
	u.v.SetUint64(x)
	return u
}

// Zero returns 0.
func Zero() Uint { return Uint{} }

// Pow10 returns 10^exp, failing if the result does not fit in 128 bits.
func Pow10(exp uint) (Uint, error) {
	out := NewUint(1)
	ten := NewUint(10)
	for i := uint(0); i < exp; i++ {
		var err error
		if out, err = out.CheckedMul(ten); err != nil {
			return Uint{}, fmt.Errorf("10^%d: %w", exp, err)
		}
	}
	return out, nil
}

// MustPow10 is Pow10 for package-level constants.
func MustPow10(exp uint) Uint {
	u, err := Pow10(exp)
	if err != nil {
		panic(err)
	}
	return u
}

// UintFromDecimal parses a base-10 string.
func UintFromDecimal(s string) (Uint, error) {
	if s == "" {
		return Uint{}, fmt.Errorf("parse %q: empty amount", s)
	}
	var u Uint
	if err := u.v.SetFromDecimal(s); err != nil {
		return Uint{}, fmt.Errorf("parse %q: %w", s, err)
	}
	if u.v.BitLen() > Bits {
		return Uint{}, fmt.Errorf("parse %q: %w", s, ErrMathOverflow)
	}
	return u, nil
}

// MustUintFromDecimal panics on malformed input. Intended for constants and tests.
func MustUintFromDecimal(s string) Uint {
	u, err := UintFromDecimal(s)
	if err != nil {
		panic(err)
	}
	return u
}

func bounded(z *uint256.Int, overflow bool) (Uint, error) {
	if overflow || z.BitLen() > Bits {
		return Uint{}, ErrMathOverflow
	}
	return Uint{v: *z}, nil
}

// CheckedAdd returns u + o.
func (u Uint) CheckedAdd(o Uint) (Uint, error) {
	var z uint256.Int
	_, overflow := z.AddOverflow(&u.v, &o.v)
	return bounded(&z, overflow)
}

// CheckedSub returns u - o, failing when o > u.
func (u Uint) CheckedSub(o Uint) (Uint, error) {
	var z uint256.Int
	if _, underflow := z.SubOverflow(&u.v, &o.v); underflow {
		return Uint{}, ErrMathUnderflow
	}
	return Uint{v: z}, nil
}

// CheckedMul returns u * o.
func (u Uint) CheckedMul(o Uint) (Uint, error) {
	var z uint256.Int
	_, overflow := z.MulOverflow(&u.v, &o.v)
	return bounded(&z, overflow)
}

// CheckedDiv returns u / o rounded toward zero.
func (u Uint) CheckedDiv(o Uint) (Uint, error) {
	if o.v.IsZero() {
		return Uint{}, ErrDivisionByZero
	}
	var z uint256.Int
	z.Div(&u.v, &o.v)
	return Uint{v: z}, nil
}

// Cmp returns -1, 0 or +1.
func (u Uint) Cmp(o Uint) int { return u.v.Cmp(&o.v) }

func (u Uint) IsZero() bool { return u.v.IsZero() }
func (u Uint) EQ(o Uint) bool { return u.v.Eq(&o.v) }
func (u Uint) LT(o Uint) bool { return u.v.Lt(&o.v) }
func (u Uint) LTE(o Uint) bool { return !u.v.Gt(&o.v) }
func (u Uint) GT(o Uint) bool { return u.v.Gt(&o.v) }
func (u Uint) GTE(o Uint) bool { return !u.v.Lt(&o.v) }
func (u Uint) IsUint64() bool { return u.v.IsUint64() }
func (u Uint) Uint64() uint64 { return u.v.Uint64() }
func (u Uint) BigInt() *big.Int { return u.v.ToBig() }
func (u Uint) String() string { return u.v.Dec() }

// MarshalText encodes the value as a decimal string.
func (u Uint) MarshalText() ([]byte, error) {
	return []byte(u.v.Dec()), nil
}

// UnmarshalText parses a decimal string.
func (u *Uint) UnmarshalText(b []byte) error {
	parsed, err := UintFromDecimal(string(b))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// MarshalJSON encodes the value as a quoted decimal string so that amounts
// beyond 2^53 survive JavaScript clients.
func (u Uint) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.v.Dec())
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON integer.
func (u *Uint) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return u.UnmarshalText([]byte(s))
	}
	if string(b) == "null" {
		*u = Uint{}
		return nil
	}
	return u.UnmarshalText(b)
}
