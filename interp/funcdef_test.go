package interp

import "testing"

func stdMethod(name string, sig ...TypeDef) Method {
	return NewStdMethod(name, func(*Task, []Value) Value { return NewNone() }, TypeDef{}, sig)
}

func TestDispatchFailsWhenNoMethodApplies(t *testing.T) {
	fd := NewFuncDef(stdMethod("f", StdString()))
	if _, ok := fd.Dispatch([]TypeDef{StdNumber()}); ok {
		t.Fatal("dispatch should fail: the only method takes a string, not a number")
	}
}

func TestDispatchPicksTheArityZeroMethodForEmptySignature(t *testing.T) {
	fd := NewFuncDef(stdMethod("f"), stdMethod("f", StdNumber()))
	m, ok := fd.Dispatch(nil)
	if !ok {
		t.Fatal("dispatch on an empty signature should resolve to the arity-0 method")
	}
	if m.Arity != 0 {
		t.Fatalf("expected the arity-0 method, got arity %d", m.Arity)
	}
}

func TestDispatchPicksMatchingArity(t *testing.T) {
	fd := NewFuncDef(stdMethod("f", StdNumber()), stdMethod("f", StdNumber(), StdNumber()))
	m, ok := fd.Dispatch([]TypeDef{StdInteger(), StdInteger()})
	if !ok {
		t.Fatal("dispatch should resolve the two-argument method for a two-argument call")
	}
	if m.Arity != 2 {
		t.Fatalf("expected arity 2, got %d", m.Arity)
	}
}

func TestExtendIsIdempotent(t *testing.T) {
	m := stdMethod("f", StdNumber())
	once := NewFuncDef(m)
	twice := once.Extend(m)
	sigOnce, okOnce := once.Dispatch([]TypeDef{StdInteger()})
	sigTwice, okTwice := twice.Dispatch([]TypeDef{StdInteger()})
	if !okOnce || !okTwice {
		t.Fatal("both trees should dispatch the shared signature")
	}
	if sigOnce.Name != sigTwice.Name || sigOnce.Arity != sigTwice.Arity {
		t.Fatal("inserting the same method twice should not change dispatch")
	}
}

func TestMoreSpecificMethodWinsWhenApplicable(t *testing.T) {
	general := stdMethod("f", StdNumber())
	fd := NewFuncDef(general)
	before, ok := fd.Dispatch([]TypeDef{StdInteger()})
	if !ok || before.Name != "f" {
		t.Fatal("the general method should apply to an integer before a specific one exists")
	}

	specific := stdMethod("g", StdInteger())
	fd = fd.Extend(specific)
	after, ok := fd.Dispatch([]TypeDef{StdInteger()})
	if !ok {
		t.Fatal("dispatch should still resolve once a more specific method is added")
	}
	if after.Name != "g" {
		t.Fatal("the more specific (integer) method should win over the general (number) one")
	}

	// A value that only satisfies the general signature is unaffected.
	stillGeneral, ok := fd.Dispatch([]TypeDef{StdNumber()})
	if !ok || stillGeneral.Name != "f" {
		t.Fatal("a signature that doesn't satisfy the specific method should still resolve to the general one")
	}
}

func TestExtendSplitsOnArityBeforePredicate(t *testing.T) {
	fd := NewFuncDef(stdMethod("unary", StdNumber()), stdMethod("binary", StdNumber(), StdNumber()))
	m, ok := fd.Dispatch([]TypeDef{StdNumber(), StdNumber()})
	if !ok || m.Name != "binary" {
		t.Fatal("a two-argument call should resolve to the two-argument method")
	}
	m, ok = fd.Dispatch([]TypeDef{StdNumber()})
	if !ok || m.Name != "unary" {
		t.Fatal("a one-argument call should resolve to the one-argument method")
	}
}
