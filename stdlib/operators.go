// Package stdlib builds the namespace a Task starts with: the operator and
// built-in FuncDefs every program's Module implicitly has in scope,
// grounded in the arithmetic and comparison primitives a structural,
// multiple-dispatch language needs underneath its surface syntax.
package stdlib

import (
	"math"
	"math/big"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/juno-r1/sophia/interp"
)

func num(v interp.Value) *big.Rat { return v.Num }

func arith(name string, op func(a, b *big.Rat) *big.Rat) interp.Method {
	return interp.NewStdMethod(name, func(t *interp.Task, args []interp.Value) interp.Value {
		return interp.NewNumber(op(num(args[0]), num(args[1])))
	}, interp.StdNumber(), []interp.TypeDef{interp.StdNumber(), interp.StdNumber()})
}

func unaryArith(name string, op func(a *big.Rat) *big.Rat) interp.Method {
	return interp.NewStdMethod(name, func(t *interp.Task, args []interp.Value) interp.Value {
		return interp.NewNumber(op(num(args[0])))
	}, interp.StdNumber(), []interp.TypeDef{interp.StdNumber()})
}

func cmp(name string, op func(c int) bool, sig interp.TypeDef) interp.Method {
	return interp.NewStdMethod(name, func(t *interp.Task, args []interp.Value) interp.Value {
		return interp.NewBoolean(op(compareValues(args[0], args[1])))
	}, interp.StdBoolean(), []interp.TypeDef{sig, sig})
}

// compareValues orders two like-kinded values: numbers by Rat.Cmp, strings
// lexically, booleans false < true.
func compareValues(a, b interp.Value) int {
	switch a.Kind {
	case interp.KindNumber:
		return a.Num.Cmp(b.Num)
	case interp.KindString:
		return strings.Compare(a.Str, b.Str)
	case interp.KindBoolean:
		switch {
		case a.Bool == b.Bool:
			return 0
		case !a.Bool:
			return -1
		default:
			return 1
		}
	default:
		return 0
	}
}

func boolBinary(name string, op func(a, b bool) bool) interp.Method {
	return interp.NewStdMethod(name, func(t *interp.Task, args []interp.Value) interp.Value {
		return interp.NewBoolean(op(args[0].Bool, args[1].Bool))
	}, interp.StdBoolean(), []interp.TypeDef{interp.StdBoolean(), interp.StdBoolean()})
}

// pow implements exponentiation over big.Rat: integer exponents by exact
// repeated squaring (so `2^10` stays an exact integer), anything else by
// falling back through float64 — the language's numeric tower is
// rational-by-default but doesn't claim irrational closure.
func pow(base, exp *big.Rat) *big.Rat {
	if exp.IsInt() {
		n := exp.Num().Int64()
		neg := n < 0
		if neg {
			n = -n
		}
		result := big.NewRat(1, 1)
		b := new(big.Rat).Set(base)
		for n > 0 {
			if n&1 == 1 {
				result.Mul(result, b)
			}
			b.Mul(b, b)
			n >>= 1
		}
		if neg {
			result.Inv(result)
		}
		return result
	}
	bf, _ := base.Float64()
	ef, _ := exp.Float64()
	out := new(big.Rat)
	out.SetFloat64(math.Pow(bf, ef))
	return out
}

// inOperator implements the "in" operator's three shapes: substring search
// over the raw bytes (strings.Contains), list membership by structural
// equality, and range membership via the arithmetic-progression test.
func inOperator(t *interp.Task, args []interp.Value) interp.Value {
	needle, haystack := args[0], args[1]
	switch haystack.Kind {
	case interp.KindString:
		return interp.NewBoolean(strings.Contains(haystack.Str, needle.Str))
	case interp.KindList:
		for _, e := range haystack.List {
			if interp.Equal(e, needle) {
				return interp.NewBoolean(true)
			}
		}
		return interp.NewBoolean(false)
	case interp.KindRange:
		if needle.Kind != interp.KindNumber {
			return interp.NewBoolean(false)
		}
		return interp.NewBoolean(haystack.Rng.Contains(needle.Num))
	default:
		return interp.NewErr(interp.TYPE)
	}
}

// graphemeCount counts user-perceived characters rather than bytes or
// runes, used by the string-length built-in so multi-codepoint emoji and
// combining sequences count once.
func graphemeCount(s string) int {
	n := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		n++
	}
	return n
}
