package interp

// StdRoutine is a built-in method body. It takes the running Task by
// mutable reference (so built-ins like `return` can set Task.Path) and its
// arguments by value.
type StdRoutine func(*Task, []Value) Value

// RoutineKind distinguishes a built-in function pointer from a
// user-defined IR body.
type RoutineKind uint8

const (
	RoutineStd RoutineKind = iota
	RoutineUser
)

// Method is one arm of a multimethod.
type Method struct {
	RoutineKind  RoutineKind
	Std          StdRoutine
	Instructions []Instruction // User bodies only.

	Name      string
	Params    []string
	Final     TypeDef
	Signature []TypeDef
	Arity     int
	Closure   map[string]Value
	Entry     int // User bodies only: absolute index into the owning Task's instruction vector.
}

// NewStdMethod builds a Method around a built-in Go function, given its
// name, parameter types (not including the return type) and final
// (return) type.
func NewStdMethod(name string, routine StdRoutine, final TypeDef, signature []TypeDef) Method {
	return Method{
		RoutineKind: RoutineStd,
		Std:         routine,
		Name:        name,
		Final:       final,
		Signature:   signature,
		Arity:       len(signature),
	}
}

// NewUserMethod builds a Method from a lowered IR body.
func NewUserMethod(name string, params []string, instructions []Instruction, final TypeDef, signature []TypeDef, closure map[string]Value) Method {
	return Method{
		RoutineKind:  RoutineUser,
		Instructions: instructions,
		Name:         name,
		Params:       params,
		Final:        final,
		Signature:    signature,
		Arity:        len(signature),
		Closure:      closure,
	}
}

// sameSignature reports whether two methods have an identical parameter
// type signature (used to decide whether extend() replaces a leaf outright
// rather than splitting it).
func sameSignature(a, b Method) bool {
	if a.Arity != b.Arity {
		return false
	}
	for i := range a.Signature {
		if !a.Signature[i].Equal(b.Signature[i]) {
			return false
		}
	}
	return true
}
