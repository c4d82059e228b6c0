package interp

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind tags the concrete shape stored in a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindRange
	KindList
	KindRecord
	KindFunction
	KindType
	KindErr
)

// Entry is one pair of an ordered Record: records preserve insertion order
// rather than hashing, since Value (carrying slices and pointers) has no
// natural hash key.
type Entry struct {
	Key   Value
	Value Value
}

// Range is the start/end/step triple of rationals described by the data
// model. It is immutable; iteration is driven by the VM's own cursor state,
// not by mutating a Range in place (see Task.Iterators).
type Range struct {
	Start *big.Rat
	End   *big.Rat
	Step  *big.Rat
}

// Contains reports whether x lies on the arithmetic progression the range
// describes (not just within its bounds).
func (r Range) Contains(x *big.Rat) bool {
	lo, hi := r.Start, r.End
	if r.Step.Sign() < 0 {
		lo, hi = hi, lo
	}
	if lo.Cmp(x) > 0 || x.Cmp(hi) > 0 {
		return false
	}
	diff := new(big.Rat).Sub(x, r.Start)
	ratio := new(big.Rat).Quo(diff, r.Step)
	return ratio.IsInt()
}

// Elements materialises the range's members in order; used by `.iterator`
// and by the `[` operator when it slices a list with a range.
func (r Range) Elements() []*big.Rat {
	var out []*big.Rat
	cur := new(big.Rat).Set(r.Start)
	ascending := r.Step.Sign() >= 0
	for {
		if ascending && cur.Cmp(r.End) > 0 {
			break
		}
		if !ascending && cur.Cmp(r.End) < 0 {
			break
		}
		out = append(out, new(big.Rat).Set(cur))
		cur = new(big.Rat).Add(cur, r.Step)
	}
	return out
}

func (r Range) String() string {
	return fmt.Sprintf("%s:%s:%s", r.Start.RatString(), r.End.RatString(), r.Step.RatString())
}

// Value is the tagged variant over every concrete runtime datum. Only the
// fields relevant to Kind are populated. Values are pass-by-clone: Clone
// must be used whenever a Value is written into a fresh register so that
// independent readers never observe a later mutation.
type Value struct {
	Kind Kind

	Bool   bool
	Num    *big.Rat
	Str    string
	Rng    Range
	List   []Value
	Record []Entry
	Func   *FuncDef
	Typ    *TypeDef
	ErrVal ErrKind
}

func NewNone() Value               { return Value{Kind: KindNone} }
func NewBoolean(b bool) Value      { return Value{Kind: KindBoolean, Bool: b} }
func NewNumber(n *big.Rat) Value   { return Value{Kind: KindNumber, Num: n} }
func NewString(s string) Value     { return Value{Kind: KindString, Str: s} }
func NewRange(r Range) Value       { return Value{Kind: KindRange, Rng: r} }
func NewList(xs []Value) Value     { return Value{Kind: KindList, List: xs} }
func NewRecord(es []Entry) Value   { return Value{Kind: KindRecord, Record: es} }
func NewFunction(f *FuncDef) Value { return Value{Kind: KindFunction, Func: f} }
func NewType(t *TypeDef) Value     { return Value{Kind: KindType, Typ: t} }
func NewErr(kind ErrKind) Value    { return Value{Kind: KindErr, ErrVal: kind} }

// Clone deep-copies a Value's owned containers so that a write into a
// register never aliases a previous reader's copy.
func (v Value) Clone() Value {
	switch v.Kind {
	case KindNumber:
		return Value{Kind: KindNumber, Num: new(big.Rat).Set(v.Num)}
	case KindList:
		out := make([]Value, len(v.List))
		for i, e := range v.List {
			out[i] = e.Clone()
		}
		return Value{Kind: KindList, List: out}
	case KindRecord:
		out := make([]Entry, len(v.Record))
		for i, e := range v.Record {
			out[i] = Entry{Key: e.Key.Clone(), Value: e.Value.Clone()}
		}
		return Value{Kind: KindRecord, Record: out}
	default:
		return v
	}
}

// Equal reports structural equality between two values.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNone:
		return true
	case KindBoolean:
		return a.Bool == b.Bool
	case KindNumber:
		return a.Num.Cmp(b.Num) == 0
	case KindString:
		return a.Str == b.Str
	case KindRange:
		return a.Rng.Start.Cmp(b.Rng.Start) == 0 && a.Rng.End.Cmp(b.Rng.End) == 0 && a.Rng.Step.Cmp(b.Rng.Step) == 0
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(a.Record) != len(b.Record) {
			return false
		}
		for i := range a.Record {
			if !Equal(a.Record[i].Key, b.Record[i].Key) || !Equal(a.Record[i].Value, b.Record[i].Value) {
				return false
			}
		}
		return true
	case KindFunction:
		return a.Func == b.Func
	case KindType:
		return a.Typ.Equal(*b.Typ)
	case KindErr:
		return a.ErrVal == b.ErrVal
	default:
		return false
	}
}

// Truthy implements the language's notion of a conditional value: booleans
// test directly, none is false, everything else is true. This mirrors how
// the reference treats `if`/`while` conditions generically over Value.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBoolean:
		return v.Bool
	case KindNone:
		return false
	default:
		return true
	}
}

// Debug renders a value's debug form, the form printed for the program's
// final result.
func Debug(v Value) string {
	switch v.Kind {
	case KindNone:
		return "none"
	case KindBoolean:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.Num.RatString()
	case KindString:
		return "'" + v.Str + "'"
	case KindRange:
		return v.Rng.String()
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = Debug(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRecord:
		parts := make([]string, len(v.Record))
		for i, e := range v.Record {
			parts[i] = Debug(e.Key) + ": " + Debug(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunction:
		return "<function>"
	case KindType:
		return "<type>"
	case KindErr:
		return "Err(" + v.ErrVal.String() + ")"
	default:
		return "?"
	}
}
