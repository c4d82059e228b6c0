package interp

// FuncDefKind tags the three node shapes of the dispatch tree.
type FuncDefKind uint8

const (
	FuncUndefined FuncDefKind = iota
	FuncLeaf
	FuncNode
)

// FuncDef is the dispatch tree: a binary decision tree over
// (argument index, predicate) nodes that picks the most specific
// applicable method for a call. It is logically immutable — Extend always
// returns a new tree rather than mutating in place, which is also its
// share-across-closures story (see Design Notes in the specification).
type FuncDef struct {
	Kind FuncDefKind

	Method Method // Leaf only.

	TruePath  *FuncDef // Node only.
	FalsePath *FuncDef
	Property  Predicate
	Index     int
}

// NewFuncDef builds a dispatch tree from zero or more methods, in order.
func NewFuncDef(methods ...Method) *FuncDef {
	fd := &FuncDef{Kind: FuncUndefined}
	for _, m := range methods {
		fd = fd.Extend(m)
	}
	return fd
}

func newArityNode(truePath, falsePath *FuncDef, arity int) *FuncDef {
	return &FuncDef{Kind: FuncNode, TruePath: truePath, FalsePath: falsePath, Property: NewAnyPredicate(), Index: arity}
}

func newPredicateNode(truePath, falsePath *FuncDef, property Predicate, index int) *FuncDef {
	return &FuncDef{Kind: FuncNode, TruePath: truePath, FalsePath: falsePath, Property: property, Index: index}
}

func leaf(m Method) *FuncDef { return &FuncDef{Kind: FuncLeaf, Method: m} }

// Extend inserts a method into the tree, returning the new tree. See the
// specification's FuncDef invariants: among siblings under an arity split,
// the higher-arity branch is TruePath; among siblings under a predicate
// split, TruePath holds the more specific branch (by Criterion); two
// leaves with the same signature collapse, latest wins.
func (fd *FuncDef) Extend(m Method) *FuncDef {
	switch fd.Kind {
	case FuncUndefined:
		return leaf(m)

	case FuncLeaf:
		old := fd.Method
		switch {
		case sameSignature(m, old):
			return leaf(m)
		case m.Arity > old.Arity:
			return newArityNode(leaf(m), leaf(old), old.Arity)
		case m.Arity < old.Arity:
			return newArityNode(leaf(old), leaf(m), m.Arity)
		default:
			for i := 0; i < m.Arity; i++ {
				if crit, ok := m.Signature[i].Criterion(old.Signature[i]); ok {
					return newPredicateNode(leaf(m), leaf(old), crit, i)
				}
				if crit, ok := old.Signature[i].Criterion(m.Signature[i]); ok {
					return newPredicateNode(leaf(old), leaf(m), crit, i)
				}
			}
			// Tree invariant violation: same predicate set, different
			// signature — extend() assumes this can't happen.
			panic("interp: funcdef: methods have identical predicates but unequal signatures")
		}

	default: // FuncNode
		if m.Arity == 0 {
			if fd.FalsePath.Kind == FuncLeaf && fd.FalsePath.Method.Arity == 0 {
				return newArityNode(fd.TruePath, leaf(m), 0)
			}
			return newArityNode(fd, leaf(m), 0)
		}
		if fd.Index < m.Arity && m.Signature[fd.Index].Check(fd.Property) {
			return newPredicateNode(fd.TruePath.Extend(m), fd.FalsePath, fd.Property, fd.Index)
		}
		return newPredicateNode(fd.TruePath, fd.FalsePath.Extend(m), fd.Property, fd.Index)
	}
}

// Dispatch walks the tree to find the most specific method applicable to
// signature, per the Julia-inspired multiple-dispatch algorithm: descend
// on satisfied predicates only, which — since Check is predicate
// containment — never excludes an applicable method. A node whose index is
// out of range for the signature sends the walk down its false path. The
// bool result is false iff dispatch failed (an Undefined tree, or a leaf
// whose arity or parameter types the signature does not satisfy), which
// the VM surfaces as Value::Err(DISP).
func (fd *FuncDef) Dispatch(signature []TypeDef) (Method, bool) {
	switch fd.Kind {
	case FuncNode:
		if len(signature) != 0 && fd.Index < len(signature) && signature[fd.Index].Check(fd.Property) {
			return fd.TruePath.Dispatch(signature)
		}
		return fd.FalsePath.Dispatch(signature)
	case FuncLeaf:
		if len(signature) != fd.Method.Arity {
			return Method{}, false
		}
		for i, arg := range signature {
			if !satisfies(arg, fd.Method.Signature[i]) {
				return Method{}, false
			}
		}
		return fd.Method, true
	default:
		return Method{}, false
	}
}

// satisfies reports whether arg, as an actual call-site TypeDef, satisfies a
// method's declared parameter type: every predicate the declared type
// requires must be present in arg's own predicate sequence.
func satisfies(arg, declared TypeDef) bool {
	for _, p := range declared.Predicates {
		if !arg.Check(p) {
			return false
		}
	}
	return true
}
