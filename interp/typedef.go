package interp

import "math/big"

// TypeDef is a structural type: an ordered sequence of predicates plus an
// optional prototype value. Subtyping is expressed entirely by predicate
// containment — there is no class hierarchy to walk.
type TypeDef struct {
	Predicates []Predicate
	Prototype  Value
}

// NewTypeDef installs predicates verbatim, with no prototype (defaults to
// none) unless one is given.
func NewTypeDef(preds []Predicate, proto *Value) TypeDef {
	p := NewNone()
	if proto != nil {
		p = *proto
	}
	return TypeDef{Predicates: preds, Prototype: p}
}

// FromSuper concatenates a supertype's predicates with extra ones,
// inheriting the supertype's prototype when none is given. This is how the
// standard library's DAG of any/some/boolean/number/integer/... is built:
// purely by prefix extension, never by subclassing.
func FromSuper(super TypeDef, extra []Predicate, proto *Value) TypeDef {
	preds := make([]Predicate, 0, len(super.Predicates)+len(extra))
	preds = append(preds, super.Predicates...)
	preds = append(preds, extra...)
	p := super.Prototype
	if proto != nil {
		p = *proto
	}
	return TypeDef{Predicates: preds, Prototype: p}
}

// Check returns true iff p is contained in self's predicate sequence — the
// structural subtype test.
func (t TypeDef) Check(p Predicate) bool {
	for _, q := range t.Predicates {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

// Criterion returns the last predicate present in self but absent from
// other — the most specific distinguishing predicate. Non-commutative:
// Criterion(a, b) and Criterion(b, a) generally differ, and extend() tries
// both orders for exactly that reason.
func (t TypeDef) Criterion(other TypeDef) (Predicate, bool) {
	var last Predicate
	found := false
	for _, p := range t.Predicates {
		if !other.Check(p) {
			last = p
			found = true
		}
	}
	return last, found
}

// Equal compares two TypeDefs by predicate sequence (prototype is not part
// of identity — two std_integer values with different prototypes, which
// never happens in practice, would still be the same type).
func (t TypeDef) Equal(o TypeDef) bool {
	if len(t.Predicates) != len(o.Predicates) {
		return false
	}
	for i := range t.Predicates {
		if !t.Predicates[i].Equal(o.Predicates[i]) {
			return false
		}
	}
	return true
}

// Standard library atoms, forming a fixed DAG under predicate-prefix
// containment: any < some < {boolean, number, string}, number < integer,
// any < none. Built lazily so each call returns an independent TypeDef
// value (TypeDefs are logically immutable once constructed; nothing here
// mutates a shared instance).
func StdAny() TypeDef {
	return NewTypeDef([]Predicate{NewBasePredicate("any", typeAny)}, nil)
}

func StdNone() TypeDef {
	none := NewNone()
	return FromSuper(StdAny(), []Predicate{NewBasePredicate("none", typeNone)}, &none)
}

func StdSome() TypeDef {
	return FromSuper(StdAny(), []Predicate{NewBasePredicate("some", typeSome)}, nil)
}

func StdBoolean() TypeDef {
	proto := NewBoolean(true)
	return FromSuper(StdSome(), []Predicate{NewBasePredicate("boolean", typeBoolean)}, &proto)
}

func StdNumber() TypeDef {
	proto := NewNumber(new(big.Rat))
	return FromSuper(StdSome(), []Predicate{NewBasePredicate("number", typeNumber)}, &proto)
}

func StdInteger() TypeDef {
	return FromSuper(StdNumber(), []Predicate{NewBasePredicate("integer", typeInteger)}, nil)
}

func StdString() TypeDef {
	proto := NewString("")
	return FromSuper(StdSome(), []Predicate{NewBasePredicate("string", typeString)}, &proto)
}

func StdRange() TypeDef {
	return FromSuper(StdSome(), []Predicate{NewBasePredicate("range", typeRange)}, nil)
}

func StdList() TypeDef {
	proto := NewList(nil)
	return FromSuper(StdSome(), []Predicate{NewBasePredicate("list", typeList)}, &proto)
}

func StdRecord() TypeDef {
	proto := NewRecord(nil)
	return FromSuper(StdSome(), []Predicate{NewBasePredicate("record", typeRecord)}, &proto)
}

func StdFunction() TypeDef {
	return FromSuper(StdSome(), []Predicate{NewBasePredicate("function", typeFunction)}, nil)
}

func StdType() TypeDef {
	return FromSuper(StdSome(), []Predicate{NewBasePredicate("type", typeType)}, nil)
}

func typeAny(Value) bool       { return true }
func typeNone(v Value) bool    { return v.Kind == KindNone }
func typeSome(v Value) bool    { return v.Kind != KindNone }
func typeBoolean(v Value) bool { return v.Kind == KindBoolean }
func typeNumber(v Value) bool  { return v.Kind == KindNumber }
func typeInteger(v Value) bool {
	return v.Kind == KindNumber && v.Num.IsInt()
}
func typeString(v Value) bool   { return v.Kind == KindString }
func typeRange(v Value) bool    { return v.Kind == KindRange }
func typeList(v Value) bool     { return v.Kind == KindList }
func typeRecord(v Value) bool   { return v.Kind == KindRecord }
func typeFunction(v Value) bool { return v.Kind == KindFunction }
func typeType(v Value) bool     { return v.Kind == KindType }

// Infer returns the most specific standard TypeDef for a value, taking care
// to distinguish integer (denominator 1) from number.
func Infer(v Value) TypeDef {
	switch v.Kind {
	case KindNone:
		return StdNone()
	case KindBoolean:
		return StdBoolean()
	case KindNumber:
		if v.Num.IsInt() {
			return StdInteger()
		}
		return StdNumber()
	case KindString:
		return StdString()
	case KindRange:
		return StdRange()
	case KindList:
		return StdList()
	case KindRecord:
		return StdRecord()
	case KindFunction:
		return StdFunction()
	case KindType:
		return StdType()
	default:
		return StdAny()
	}
}

// Read parses a textual type descriptor into a TypeDef: "?" means infer
// (an empty predicate list: it Checks no predicate and Matches every value,
// and the VM special-cases it wherever a "?" signature entry appears), and
// atom names map onto the standard DAG.
func Read(descriptor string) TypeDef {
	switch descriptor {
	case "?":
		return TypeDef{}
	case "any":
		return StdAny()
	case "none":
		return StdNone()
	case "some":
		return StdSome()
	case "boolean":
		return StdBoolean()
	case "number":
		return StdNumber()
	case "integer":
		return StdInteger()
	case "string":
		return StdString()
	case "range":
		return StdRange()
	case "list":
		return StdList()
	case "record":
		return StdRecord()
	case "function":
		return StdFunction()
	case "type":
		return StdType()
	default:
		return StdAny()
	}
}
