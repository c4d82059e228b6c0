package interp

// PredicateKind distinguishes the three Predicate shapes the data model
// describes: a zero-capture built-in test, a built-in test closed over a
// captured signature, and a fully user-defined one lowered to IR.
type PredicateKind uint8

const (
	PredicateBase PredicateKind = iota
	PredicateStd
	PredicateUser
)

// BaseRoutine is a zero-capture built-in type check, e.g. "is this a
// number". Std/User predicates additionally carry a signature and closure,
// but dispatch only ever needs their name+shape identity.
type BaseRoutine func(Value) bool

// Predicate is a named test applicable to a Value. Identity for the
// lattice is name+shape equality, never routine pointer identity — two
// Predicates built independently for "integer" must still compare equal so
// that from_super-derived TypeDefs interoperate with directly-built ones.
type Predicate struct {
	Kind PredicateKind
	Name string

	// Std/User: captured parameter signature and closure namespace.
	Signature []TypeDef
	Closure   map[string]Value

	// User: IR body and declared parameter names/return type.
	Instructions []Instruction
	Params       []string
	Final        TypeDef

	routine BaseRoutine // Base only; not part of equality.
}

// NewBasePredicate builds a zero-capture built-in predicate.
func NewBasePredicate(name string, routine BaseRoutine) Predicate {
	return Predicate{Kind: PredicateBase, Name: name, routine: routine}
}

// NewAnyPredicate is the sentinel predicate used at arity-split dispatch
// nodes, where the split isn't really about a type at all.
func NewAnyPredicate() Predicate {
	return NewBasePredicate("any", func(Value) bool { return true })
}

// Test evaluates a Base predicate directly against a value. Std/User
// predicates, which may run arbitrary IR or capture extra signature
// arguments, are not evaluated here: Test reports false for them.
func (p Predicate) Test(v Value) bool {
	if p.Kind == PredicateBase && p.routine != nil {
		return p.routine(v)
	}
	return false
}

// Equal implements Predicate identity: same shape, same name. Std/User
// predicates with the same name are treated as identical for lattice
// purposes, matching the reference's PartialEq on the enum's Base/Std/User
// variants (shape + name, not captured state).
func (p Predicate) Equal(o Predicate) bool {
	return p.Kind == o.Kind && p.Name == o.Name
}
