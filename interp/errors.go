// Package interp holds the core data model and runtime: values, the
// structural type lattice, the multiple-dispatch tree, the instruction
// shapes the lowering pass emits, and the VM loop that executes them. These
// pieces are kept in one package because the reference implementation ties
// them together just as tightly: a Method's std routine needs a mutable
// Task, Task needs Value/TypeDef, and TypeDef needs Value for its
// prototype — a cycle that Go packages can't express across boundaries.
package interp

// ErrKind enumerates the runtime error taxonomy. These are the only error
// kinds that surface as Value::Err; pre-runtime failures are returned as Go
// errors by engine.Compile instead.
type ErrKind uint8

const (
	CALL ErrKind = iota // Command name resolved to a non-Function value.
	DESC                // Type lookup missed in the type namespace.
	DISP                // No dispatch path applied.
	TYPE                // Internal opcode saw a value of unexpected shape.
	IMPL                // Unknown internal opcode or unimplemented path.
	READ                // Value lookup missed in the value namespace.
)

func (e ErrKind) String() string {
	switch e {
	case CALL:
		return "CALL"
	case DESC:
		return "DESC"
	case DISP:
		return "DISP"
	case TYPE:
		return "TYPE"
	case IMPL:
		return "IMPL"
	case READ:
		return "READ"
	default:
		return "ERR"
	}
}
