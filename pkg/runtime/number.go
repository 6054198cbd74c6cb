package runtime

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// decimalCtx bounds inexact operations (division, powers) to 34 significant digits.
var decimalCtx = apd.BaseContext.WithPrecision(34)

// NumberValue is an exact decimal. The pointed-to decimal is never mutated.
type NumberValue struct {
	Val *apd.Decimal
}

func (v NumberValue) Kind() Kind { return KindNumber }

// Int returns the number for an integer.
func Int(n int64) NumberValue {
	return NumberValue{Val: apd.New(n, 0)}
}

// ParseNumber parses decimal text exactly.
func ParseNumber(text string) (NumberValue, error) {
	d, _, err := apd.NewFromString(strings.ReplaceAll(strings.TrimSpace(text), "_", ""))
	if err != nil {
		return NumberValue{}, Errorf(ErrInvalidNumber, "invalid number literal %q", text)
	}
	if d.Form != apd.Finite {
		return NumberValue{}, Errorf(ErrInvalidNumber, "invalid number literal %q", text)
	}
	return NumberValue{Val: d}, nil
}

// MustNumber parses text and panics on failure; for literals known to be valid.
func MustNumber(text string) NumberValue {
	n, err := ParseNumber(text)
	if err != nil {
		panic(err)
	}
	return n
}

func (v NumberValue) decimal() *apd.Decimal {
	if v.Val == nil {
		return apd.New(0, 0)
	}
	return v.Val
}

// String renders the canonical form: plain notation without trailing zeros.
func (v NumberValue) String() string {
	text := v.decimal().Text('f')
	if strings.Contains(text, ".") {
		text = strings.TrimRight(text, "0")
		text = strings.TrimSuffix(text, ".")
	}
	if text == "-0" {
		return "0"
	}
	return text
}

// Int64 returns the value when it is integral and fits in an int64.
func (v NumberValue) Int64() (int64, bool) {
	var integ, frac apd.Decimal
	v.decimal().Modf(&integ, &frac)
	if !frac.IsZero() {
		return 0, false
	}
	n, err := integ.Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsInteger reports whether the value has no fractional part.
func (v NumberValue) IsInteger() bool {
	var integ, frac apd.Decimal
	v.decimal().Modf(&integ, &frac)
	return frac.IsZero()
}

// Sign returns -1, 0 or +1.
func (v NumberValue) Sign() int {
	return v.decimal().Sign()
}

// IsZero reports whether the value equals zero.
func (v NumberValue) IsZero() bool {
	return v.decimal().IsZero()
}

// Float64 converts for consumers that need a binary float.
func (v NumberValue) Float64() float64 {
	f, err := v.decimal().Float64()
	if err != nil {
		return 0
	}
	return f
}

// Cmp compares two numbers.
func (v NumberValue) Cmp(other NumberValue) int {
	return v.decimal().Cmp(other.decimal())
}

type decimalOp func(d, x, y *apd.Decimal) (apd.Condition, error)

func applyDecimal(op decimalOp, a, b NumberValue) (NumberValue, error) {
	out := new(apd.Decimal)
	if _, err := op(out, a.decimal(), b.decimal()); err != nil {
		return NumberValue{}, Errorf(ErrInvalidOperation, "arithmetic failed: %v", err)
	}
	return NumberValue{Val: out}, nil
}

// NumberAdd returns a + b.
func NumberAdd(a, b NumberValue) (NumberValue, error) {
	return applyDecimal(decimalCtx.Add, a, b)
}

// NumberSub returns a - b.
func NumberSub(a, b NumberValue) (NumberValue, error) {
	return applyDecimal(decimalCtx.Sub, a, b)
}

// NumberMul returns a * b.
func NumberMul(a, b NumberValue) (NumberValue, error) {
	return applyDecimal(decimalCtx.Mul, a, b)
}

// NumberDiv returns a / b, failing on a zero divisor.
func NumberDiv(a, b NumberValue) (NumberValue, error) {
	if b.IsZero() {
		return NumberValue{}, Errorf(ErrDivisionByZero, "division by zero")
	}
	return applyDecimal(decimalCtx.Quo, a, b)
}

// NumberRem returns a % b, failing on a zero divisor.
func NumberRem(a, b NumberValue) (NumberValue, error) {
	if b.IsZero() {
		return NumberValue{}, Errorf(ErrDivisionByZero, "modulo by zero")
	}
	return applyDecimal(decimalCtx.Rem, a, b)
}

// NumberPow returns a ** b.
func NumberPow(a, b NumberValue) (NumberValue, error) {
	if a.IsZero() && b.decimal().Sign() < 0 {
		return NumberValue{}, Errorf(ErrDivisionByZero, "zero raised to a negative power")
	}
	return applyDecimal(decimalCtx.Pow, a, b)
}

// NumberNeg returns -a.
func NumberNeg(a NumberValue) NumberValue {
	out := new(apd.Decimal)
	out.Neg(a.decimal())
	return NumberValue{Val: out}
}

type roundingOp func(d, x *apd.Decimal) (apd.Condition, error)

func applyRounding(op roundingOp, a NumberValue) NumberValue {
	out := new(apd.Decimal)
	if _, err := op(out, a.decimal()); err != nil {
		return a
	}
	return NumberValue{Val: out}
}

// NumberFloor rounds toward negative infinity.
func NumberFloor(a NumberValue) NumberValue { return applyRounding(decimalCtx.Floor, a) }

// NumberCeil rounds toward positive infinity.
func NumberCeil(a NumberValue) NumberValue { return applyRounding(decimalCtx.Ceil, a) }

// NumberRound rounds half away from zero.
func NumberRound(a NumberValue) NumberValue {
	ctx := decimalCtx.WithPrecision(decimalCtx.Precision)
	ctx.Rounding = apd.RoundHalfUp
	return applyRounding(ctx.RoundToIntegralValue, a)
}

// NumberAbs returns |a|.
func NumberAbs(a NumberValue) NumberValue {
	out := new(apd.Decimal)
	out.Abs(a.decimal())
	return NumberValue{Val: out}
}
