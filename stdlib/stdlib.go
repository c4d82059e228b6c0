package stdlib

import (
	"math"
	"math/big"

	"github.com/juno-r1/sophia/interp"
)

// sizeMethods implements the `size` built-in: grapheme count for strings,
// element count for lists, entry count for records.
func sizeMethods() []interp.Method {
	str := interp.NewStdMethod("size", func(t *interp.Task, args []interp.Value) interp.Value {
		return interp.NewNumber(big.NewRat(int64(graphemeCount(args[0].Str)), 1))
	}, interp.StdInteger(), []interp.TypeDef{interp.StdString()})
	list := interp.NewStdMethod("size", func(t *interp.Task, args []interp.Value) interp.Value {
		return interp.NewNumber(big.NewRat(int64(len(args[0].List)), 1))
	}, interp.StdInteger(), []interp.TypeDef{interp.StdList()})
	record := interp.NewStdMethod("size", func(t *interp.Task, args []interp.Value) interp.Value {
		return interp.NewNumber(big.NewRat(int64(len(args[0].Record)), 1))
	}, interp.StdInteger(), []interp.TypeDef{interp.StdRecord()})
	return []interp.Method{str, list, record}
}

// define registers a batch of methods under name into values/types.
func define(values map[string]interp.Value, name string, methods ...interp.Method) {
	existing, ok := values[name]
	var fd *interp.FuncDef
	if ok && existing.Kind == interp.KindFunction {
		fd = existing.Func
	} else {
		fd = interp.NewFuncDef()
	}
	for _, m := range methods {
		fd = fd.Extend(m)
	}
	values[name] = interp.NewFunction(fd)
}

// Namespace builds the value and type tables a fresh Task starts from:
// every operator and built-in a program can call without defining it
// itself. engine's RunTask merges this with the lowering pass's own
// interned constant namespace before building the Task.
func Namespace() (map[string]interp.Value, map[string]interp.TypeDef) {
	values := map[string]interp.Value{}
	types := map[string]interp.TypeDef{}

	for name, td := range map[string]interp.TypeDef{
		"any":      interp.StdAny(),
		"none":     interp.StdNone(),
		"some":     interp.StdSome(),
		"boolean":  interp.StdBoolean(),
		"number":   interp.StdNumber(),
		"integer":  interp.StdInteger(),
		"string":   interp.StdString(),
		"range":    interp.StdRange(),
		"list":     interp.StdList(),
		"record":   interp.StdRecord(),
		"function": interp.StdFunction(),
		"type":     interp.StdType(),
	} {
		td := td
		values[name] = interp.NewType(&td)
		types[name] = interp.StdType()
	}

	define(values, "+",
		arith("+", func(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) }),
		interp.NewStdMethod("+", func(t *interp.Task, args []interp.Value) interp.Value {
			return interp.NewString(args[0].Str + args[1].Str)
		}, interp.StdString(), []interp.TypeDef{interp.StdString(), interp.StdString()}),
		interp.NewStdMethod("+", func(t *interp.Task, args []interp.Value) interp.Value {
			out := append(args[0].Clone().List, args[1].Clone().List...)
			return interp.NewList(out)
		}, interp.StdList(), []interp.TypeDef{interp.StdList(), interp.StdList()}),
	)
	define(values, "-",
		arith("-", func(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) }),
		unaryArith("-", func(a *big.Rat) *big.Rat { return new(big.Rat).Neg(a) }),
	)
	define(values, "*", arith("*", func(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) }))
	define(values, "/", arith("/", func(a, b *big.Rat) *big.Rat { return new(big.Rat).Quo(a, b) }))
	define(values, "^", arith("^", pow))
	define(values, "%", arith("%", modRat))

	define(values, "=",
		cmp("=", func(c int) bool { return c == 0 }, interp.StdNumber()),
		interp.NewStdMethod("=", func(t *interp.Task, args []interp.Value) interp.Value {
			return interp.NewBoolean(interp.Equal(args[0], args[1]))
		}, interp.StdBoolean(), []interp.TypeDef{interp.StdAny(), interp.StdAny()}),
	)
	define(values, "!=",
		interp.NewStdMethod("!=", func(t *interp.Task, args []interp.Value) interp.Value {
			return interp.NewBoolean(!interp.Equal(args[0], args[1]))
		}, interp.StdBoolean(), []interp.TypeDef{interp.StdAny(), interp.StdAny()}),
	)
	define(values, "<", cmp("<", func(c int) bool { return c < 0 }, interp.StdNumber()))
	define(values, ">", cmp(">", func(c int) bool { return c > 0 }, interp.StdNumber()))
	define(values, "<=", cmp("<=", func(c int) bool { return c <= 0 }, interp.StdNumber()))
	define(values, ">=", cmp(">=", func(c int) bool { return c >= 0 }, interp.StdNumber()))

	define(values, "and", boolBinary("and", func(a, b bool) bool { return a && b }))
	define(values, "or", boolBinary("or", func(a, b bool) bool { return a || b }))
	define(values, "xor", boolBinary("xor", func(a, b bool) bool { return a != b }))
	define(values, "not", interp.NewStdMethod("not", func(t *interp.Task, args []interp.Value) interp.Value {
		return interp.NewBoolean(!args[0].Bool)
	}, interp.StdBoolean(), []interp.TypeDef{interp.StdBoolean()}))

	define(values, "in", interp.NewStdMethod("in", inOperator, interp.StdBoolean(),
		[]interp.TypeDef{interp.StdAny(), interp.StdSome()}))

	define(values, "return", returnMethods()...)
	define(values, "constraint", constraintMethod())
	define(values, "[", indexMethods()...)
	define(values, "size", sizeMethods()...)

	return values, types
}

func modRat(a, b *big.Rat) *big.Rat {
	if !a.IsInt() || !b.IsInt() {
		af, _ := a.Float64()
		bf, _ := b.Float64()
		out := new(big.Rat)
		out.SetFloat64(math.Mod(af, bf))
		return out
	}
	ai, bi := a.Num(), b.Num()
	m := new(big.Int).Mod(ai, bi)
	return new(big.Rat).SetInt(m)
}
