package interp

import (
	"math/big"

	"fortio.org/log"
	"github.com/rivo/uniseg"
)

// Task is one linear program under execution: the instruction vector, the
// parallel value/type namespaces, and the program counter. State is owned
// exclusively by the current task — the only tables every nested call
// shares are Instructions and EndOf, which are read-only, and NamedTypes,
// which a .type run inside a nested call also writes; matching the single-threaded,
// synchronous concurrency model the specification describes.
type Task struct {
	Instructions []Instruction
	Values       map[string]Value
	Types        map[string]TypeDef
	NamedTypes   map[string]TypeDef
	EndOf        map[int]int

	Path      int
	CurrentOp Instruction
	Iterators map[string][]Value

	steps    int
	MaxSteps int // 0 means unbounded; see config.Options.MaxSteps.
}

// NewTask builds a Task ready to run from a Module's lowered and resolved
// instruction vector, the constant namespace the lowering pass interned,
// and the standard library namespace/type table.
func NewTask(instructions []Instruction, endOf map[int]int, namespace map[string]Value, types map[string]TypeDef, namedTypes map[string]TypeDef) *Task {
	values := map[string]Value{"0": NewNone(), "-1": NewNone()}
	typespace := map[string]TypeDef{"0": StdNone(), "-1": StdNone()}
	for k, v := range types {
		typespace[k] = v
	}
	for k, v := range namespace {
		values[k] = v
		if _, ok := typespace[k]; !ok {
			typespace[k] = Infer(v)
		}
	}
	names := map[string]TypeDef{}
	for k, v := range namedTypes {
		names[k] = v
	}
	return &Task{
		Instructions: instructions,
		Values:       values,
		Types:        typespace,
		NamedTypes:   names,
		EndOf:        endOf,
		Path:         1, // Slot 0 is the conventional header label.
		Iterators:    map[string][]Value{},
	}
}

// Run executes the instruction vector to completion, returning the final
// value bound to register "0" by the terminating `return`, or an Err
// value if a runtime error short-circuited the loop.
func (t *Task) Run() Value {
	for t.Path != 0 {
		if t.Path < 0 || t.Path >= len(t.Instructions) {
			log.Errf("sophia: path %d out of range (%d instructions)", t.Path, len(t.Instructions))
			return NewErr(IMPL)
		}
		op := t.Instructions[t.Path]
		t.Path++
		t.CurrentOp = op
		if op.Kind == InstrLabel {
			continue
		}
		var result Value
		var isErr bool
		if op.Kind == InstrCommand {
			result, isErr = t.execCommand(op)
		} else {
			result, isErr = t.execInternal(op)
		}
		if isErr {
			log.Debugf("sophia: runtime error %s at %q", Debug(result), op.String())
			return result
		}
		t.steps++
		if t.MaxSteps > 0 && t.steps > t.MaxSteps {
			log.Errf("sophia: exceeded step budget %d", t.MaxSteps)
			return NewErr(IMPL)
		}
	}
	return t.Values["0"]
}

// call runs a user-defined method body to completion in a nested Task that
// shares this Task's instruction vector, jump table and named types but
// gets its own fresh value/type namespaces (seeded from the method's
// closure and its bound parameters) — the call-frame boundary.
func (t *Task) call(m Method, args []Value) Value {
	child := &Task{
		Instructions: t.Instructions,
		Values:       map[string]Value{"0": NewNone(), "-1": NewNone()},
		Types:        map[string]TypeDef{"0": StdNone(), "-1": StdNone()},
		NamedTypes:   t.NamedTypes,
		EndOf:        t.EndOf,
		Path:         m.Entry,
		Iterators:    map[string][]Value{},
		MaxSteps:     t.MaxSteps,
	}
	for k, v := range m.Closure {
		child.Values[k] = v
		child.Types[k] = Infer(v)
	}
	for i, name := range m.Params {
		if i < len(args) {
			child.Values[name] = args[i].Clone()
			if i < len(m.Signature) && len(m.Signature[i].Predicates) != 0 {
				child.Types[name] = m.Signature[i]
			} else {
				// An inferred ("?") parameter carries the argument's own
				// runtime type into the body.
				child.Types[name] = Infer(args[i])
			}
		}
	}
	return child.Run()
}

// resolveValue reads a register from the value namespace, surfacing a
// missing entry as a READ error per the error taxonomy.
func (t *Task) resolveValue(name string) (Value, bool) {
	v, ok := t.Values[name]
	return v, ok
}

// resolveType reads a register from the type namespace (DESC on miss).
func (t *Task) resolveType(name string) (TypeDef, bool) {
	ty, ok := t.Types[name]
	return ty, ok
}

// resolveTypeName turns a type-descriptor identifier (as carried by .check
// and .type arguments, which name types rather than registers) into a
// TypeDef: first the "?" infer sentinel, then the program's own named
// types, then the standard atoms.
func (t *Task) resolveTypeName(name string) TypeDef {
	if name == "?" {
		return TypeDef{}
	}
	if td, ok := t.NamedTypes[name]; ok {
		return td
	}
	return Read(name)
}

// bindResult implements the generic Command/Internal result-binding rule:
// write the value into address, and its type as the method's declared
// final type unless it is the inferred/unconstrained sentinel or the
// value is none, in which case infer or use std_none respectively.
func (t *Task) bindResult(address string, result Value, final TypeDef) {
	t.Values[address] = result.Clone()
	switch {
	case result.Kind == KindNone:
		t.Types[address] = StdNone()
	case len(final.Predicates) != 0:
		t.Types[address] = final
	default:
		t.Types[address] = Infer(result)
	}
}

// execCommand dispatches a user-visible Command through the namespace: the
// callee is itself looked up as a Value, multiple dispatch picks the
// applicable method by argument TypeDef signature, and the method runs
// with the argument Values.
func (t *Task) execCommand(op Instruction) (Value, bool) {
	fnVal, ok := t.resolveValue(op.Name)
	if !ok {
		return NewErr(READ), true
	}
	if fnVal.Kind != KindFunction {
		return NewErr(CALL), true
	}
	args := make([]Value, len(op.Args))
	sig := make([]TypeDef, len(op.Args))
	for i, reg := range op.Args {
		v, ok := t.resolveValue(reg)
		if !ok {
			return NewErr(READ), true
		}
		ty, ok := t.resolveType(reg)
		if !ok {
			return NewErr(DESC), true
		}
		args[i] = v
		sig[i] = ty
	}
	method, ok := fnVal.Func.Dispatch(sig)
	if !ok {
		return NewErr(DISP), true
	}
	var result Value
	if method.RoutineKind == RoutineStd {
		result = method.Std(t, args)
	} else {
		result = t.call(method, args)
	}
	if result.Kind == KindErr {
		return result, true
	}
	t.bindResult(op.Address, result, method.Final)
	return result, false
}

// execInternal dispatches the fixed set of VM-internal opcodes. Control
// flow (if/loop/next/continue/break) consults op.Target, the absolute jump
// position ir.ResolveJumps computed from the label structure; this is the
// one place the implementation departs from the specification's literal
// Command-shaped "if", since a namespace-dispatched Command
// can only carry Value arguments, never a resolved jump target.
func (t *Task) execInternal(op Instruction) (Value, bool) {
	switch op.Name {
	case ".check":
		return t.doCheck(op)
	case ".type":
		return t.doType(op)
	case ".function":
		return t.doFunction(op)
	case ".bind":
		return t.doBind(op)
	case "if":
		return t.doIf(op)
	case ".loop":
		t.Path = op.Target
		return NewNone(), false
	case ".iterator":
		return t.doIterator(op)
	case ".next":
		return t.doNext(op)
	case ".continue", ".break":
		t.Path = op.Target
		return NewNone(), false
	case ".list":
		return t.doList(op)
	case ".record":
		return t.doRecord(op)
	case ".range", ".slice":
		return t.doRange(op)
	case "meta":
		v, ok := t.resolveValue(op.Args[0])
		if !ok {
			return NewErr(READ), true
		}
		t.Values[op.Address] = v.Clone()
		t.Types[op.Address] = Infer(v)
		return v, false
	case ".future", ".receive", ".link", ".use":
		// Lowered correctly (see ir.Lower) but unsupported at runtime; the
		// concurrency supervisor and module linker are external
		// collaborators per the specification's scope.
		return NewErr(IMPL), true
	default:
		return NewErr(IMPL), true
	}
}

func (t *Task) doCheck(op Instruction) (Value, bool) {
	v, ok := t.resolveValue(op.Args[0])
	if !ok {
		return NewErr(READ), true
	}
	typeName := op.Args[1]
	if typeName == "?" {
		t.Values[op.Address] = v.Clone()
		t.Types[op.Address] = Infer(v)
		return v, false
	}
	ty := t.resolveTypeName(typeName)
	if !ty.Matches(v) {
		return NewErr(TYPE), true
	}
	t.Values[op.Address] = v.Clone()
	t.Types[op.Address] = ty
	return v, false
}

func (t *Task) doType(op Instruction) (Value, bool) {
	super := t.resolveTypeName(op.Args[0])
	var proto *Value
	if len(op.Args) > 1 {
		v, ok := t.resolveValue(op.Args[1])
		if !ok {
			return NewErr(READ), true
		}
		proto = &v
	}
	td := FromSuper(super, nil, proto)
	t.NamedTypes[op.Address] = td
	t.Values[op.Address] = NewType(&td)
	t.Types[op.Address] = StdType()
	// The constraint body between the adjacent START and its END is not
	// evaluated at definition time; step past it like .function does.
	if t.Path < len(t.Instructions) && t.Instructions[t.Path].Kind == InstrLabel && t.Instructions[t.Path].Name == "START" {
		if end, ok := t.EndOf[t.Path]; ok {
			t.Path = end + 1
		}
	}
	return NewNone(), false
}

// doFunction extracts the body instructions that follow the immediately
// adjacent START label (up to its matching END, both resolved ahead of
// time by ir.ResolveJumps), builds a Method around them, registers it as
// another arm of the named multimethod, and skips the outer execution
// past the body so it never runs at definition time — only when called.
func (t *Task) doFunction(op Instruction) (Value, bool) {
	opener := t.Path // Position of the Label("START") right after .function.
	end, ok := t.EndOf[opener]
	if !ok {
		return NewErr(IMPL), true
	}
	entry := opener + 1
	names := op.Labels
	types := op.Args
	if len(names) == 0 {
		return NewErr(IMPL), true
	}
	final := t.resolveTypeName(types[0])
	params := append([]string(nil), names[1:]...)
	sig := make([]TypeDef, len(types)-1)
	for i, desc := range types[1:] {
		sig[i] = t.resolveTypeName(desc)
	}
	closure := make(map[string]Value, len(t.Values))
	for k, v := range t.Values {
		closure[k] = v
	}
	m := NewUserMethod(op.Address, params, t.Instructions[entry:end], final, sig, closure)
	m.Entry = entry
	existing, ok := t.Values[op.Address]
	var fd *FuncDef
	if ok && existing.Kind == KindFunction {
		fd = existing.Func
	} else {
		fd = NewFuncDef()
	}
	fd = fd.Extend(m)
	fnVal := NewFunction(fd)
	// The closure map is shared with the stored method, so inserting the
	// function under its own name here makes recursive calls resolve.
	closure[op.Address] = fnVal
	t.Values[op.Address] = fnVal
	t.Types[op.Address] = StdFunction()
	t.Path = end + 1
	return NewNone(), false
}

func (t *Task) doBind(op Instruction) (Value, bool) {
	for i, dest := range op.Labels {
		if i >= len(op.Args) {
			break
		}
		v, ok := t.resolveValue(op.Args[i])
		if !ok {
			return NewErr(READ), true
		}
		ty, ok := t.resolveType(op.Args[i])
		if !ok {
			ty = Infer(v)
		}
		t.Values[dest] = v.Clone()
		t.Types[dest] = ty
	}
	return NewNone(), false
}

// doIf implements both the mid (arity 1) and closing (arity 0) shapes of
// the "if" internal, sharing a single address between them (the if
// statement and the ternary both emit the pair against one register).
func (t *Task) doIf(op Instruction) (Value, bool) {
	if op.Arity == 1 {
		v, ok := t.resolveValue(op.Args[0])
		if !ok {
			return NewErr(READ), true
		}
		t.Values[op.Address] = v
		t.Types[op.Address] = StdBoolean()
		if !v.Truthy() {
			t.Path = op.Target
		}
		return v, false
	}
	cond, ok := t.Values[op.Address]
	if ok && cond.Truthy() && op.Target >= 0 {
		t.Path = op.Target
	}
	return NewNone(), false
}

func (t *Task) doIterator(op Instruction) (Value, bool) {
	src, ok := t.resolveValue(op.Args[0])
	if !ok {
		return NewErr(READ), true
	}
	var elems []Value
	switch src.Kind {
	case KindList:
		elems = append(elems, src.List...)
	case KindRange:
		for _, r := range src.Rng.Elements() {
			elems = append(elems, NewNumber(r))
		}
	case KindString:
		gr := uniseg.NewGraphemes(src.Str)
		for gr.Next() {
			elems = append(elems, NewString(gr.Str()))
		}
	case KindRecord:
		for _, e := range src.Record {
			elems = append(elems, NewList([]Value{e.Key, e.Value}))
		}
	default:
		return NewErr(TYPE), true
	}
	t.Iterators[op.Address] = elems
	t.Values[op.Address] = src.Clone()
	t.Types[op.Address] = Infer(src)
	return NewNone(), false
}

func (t *Task) doNext(op Instruction) (Value, bool) {
	queue := t.Iterators[op.Args[0]]
	if len(queue) == 0 {
		t.Path = op.Target
		return NewNone(), false
	}
	v := queue[0]
	t.Iterators[op.Args[0]] = queue[1:]
	t.Values[op.Address] = v
	t.Types[op.Address] = Infer(v)
	return v, false
}

func (t *Task) doList(op Instruction) (Value, bool) {
	elems := make([]Value, len(op.Args))
	for i, reg := range op.Args {
		v, ok := t.resolveValue(reg)
		if !ok {
			return NewErr(READ), true
		}
		elems[i] = v.Clone()
	}
	result := NewList(elems)
	t.Values[op.Address] = result
	t.Types[op.Address] = StdList()
	return result, false
}

func (t *Task) doRecord(op Instruction) (Value, bool) {
	entries := make([]Entry, len(op.Args))
	for i, reg := range op.Args {
		v, ok := t.resolveValue(reg)
		if !ok {
			return NewErr(READ), true
		}
		var key Value
		if i < len(op.Labels) {
			k, ok := t.resolveValue(op.Labels[i])
			if !ok {
				return NewErr(READ), true
			}
			key = k
		}
		entries[i] = Entry{Key: key, Value: v.Clone()}
	}
	result := NewRecord(entries)
	t.Values[op.Address] = result
	t.Types[op.Address] = StdRecord()
	return result, false
}

func (t *Task) doRange(op Instruction) (Value, bool) {
	if len(op.Args) < 3 {
		return NewErr(IMPL), true
	}
	nums := make([]*big.Rat, 3)
	for i := 0; i < 3; i++ {
		v, ok := t.resolveValue(op.Args[i])
		if !ok {
			return NewErr(READ), true
		}
		if v.Kind != KindNumber {
			return NewErr(TYPE), true
		}
		nums[i] = v.Num
	}
	if nums[2].Sign() == 0 {
		return NewErr(TYPE), true
	}
	result := NewRange(Range{Start: nums[0], End: nums[1], Step: nums[2]})
	t.Values[op.Address] = result
	t.Types[op.Address] = StdRange()
	return result, false
}

// Matches reports whether v satisfies every predicate in t. Std/User
// predicates (capturing arbitrary IR bodies) aren't evaluated here: the
// core standard library registers only Base predicates for its atoms, so
// this suffices for the structural type checks the VM performs; see
// DESIGN.md for the scope of what User predicate bodies this port executes.
func (t TypeDef) Matches(v Value) bool {
	for _, p := range t.Predicates {
		if p.Kind == PredicateBase {
			if !p.Test(v) {
				return false
			}
		}
	}
	return true
}
