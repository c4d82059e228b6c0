package ir

import (
	"testing"

	"github.com/juno-r1/sophia/ast"
	"github.com/juno-r1/sophia/interp"
	"github.com/juno-r1/sophia/lexer"
)

func lowerSource(t *testing.T, source string) []interp.Instruction {
	t.Helper()
	lines := lexer.Split(lexer.Normalise(source))
	instructions, _, _ := Lower(ast.Tree(lines))
	return instructions
}

func TestLowerAssignShape(t *testing.T) {
	instrs := lowerSource(t, "x: 2 + 3")
	// Header label, the + command, the BIND group folded to one .bind, the
	// module's implicit return, and the closing label.
	if len(instrs) != 6 {
		t.Fatalf("got %d instructions, want 6:\n%v", len(instrs), instrs)
	}
	if instrs[0].Kind != interp.InstrLabel || instrs[0].Name != "START" {
		t.Fatal("slot 0 should be the module header label")
	}
	if instrs[1].Kind != interp.InstrCommand || instrs[1].Name != "+" {
		t.Fatalf("expected the + command second, got %s", instrs[1].String())
	}
	bind := instrs[3]
	if bind.Kind != interp.InstrInternal || bind.Name != ".bind" || bind.Labels[0] != "x" {
		t.Fatalf("expected a folded .bind for x, got %s", bind.String())
	}
	if instrs[4].Kind != interp.InstrCommand || instrs[4].Name != "return" {
		t.Fatal("module should close with an implicit return")
	}
}

func TestFoldBindsMergesBindRun(t *testing.T) {
	instrs := lowerSource(t, "x: 1; y: 2")
	binds := 0
	var merged interp.Instruction
	for _, in := range instrs {
		if in.Kind == interp.InstrInternal && in.Name == ".bind" {
			binds++
			merged = in
		}
	}
	if binds != 1 {
		t.Fatalf("a multi-bind assign should fold to a single .bind, got %d", binds)
	}
	if merged.Labels[0] != "x" || merged.Labels[1] != "y" {
		t.Fatalf("fold should preserve bind order, got labels %v", merged.Labels)
	}
}

func TestLowerFunctionHeader(t *testing.T) {
	instrs := lowerSource(t, "f (x) => x")
	for i, in := range instrs {
		if in.Kind == interp.InstrInternal && in.Name == ".function" {
			if in.Address != "f" {
				t.Fatalf("function binds under its name, got %q", in.Address)
			}
			if in.Labels[0] != "f" || in.Labels[1] != "x" {
				t.Fatalf("signature names = %v, want [f x]", in.Labels)
			}
			next := instrs[i+1]
			if next.Kind != interp.InstrLabel || next.Name != "START" {
				t.Fatal(".function must be followed by its body's START label")
			}
			return
		}
	}
	t.Fatal("no .function instruction emitted")
}

func TestResolveJumpsWhileLoop(t *testing.T) {
	instrs := lowerSource(t, "x: 0\nwhile x < 3:\n\tx: x + 1\n")
	var opener, end, condIf, loop = -1, -1, -1, -1
	for i, in := range instrs {
		switch {
		case in.Kind == interp.InstrLabel && in.Name == "START" && i > 0 && opener == -1:
			opener = i
		case in.Kind == interp.InstrInternal && in.Name == "if" && in.Arity == 1:
			condIf = i
		case in.Kind == interp.InstrInternal && in.Name == ".loop":
			loop = i
		case in.Kind == interp.InstrLabel && in.Name == "END" && end == -1:
			end = i
		}
	}
	if opener == -1 || end == -1 || condIf == -1 || loop == -1 {
		t.Fatalf("missing expected instructions:\n%v", instrs)
	}
	if instrs[condIf].Target != end+1 {
		t.Fatalf("conditional exit should land past the loop's END, got %d want %d", instrs[condIf].Target, end+1)
	}
	if instrs[loop].Target != opener {
		t.Fatalf(".loop should re-enter at the loop's own opener, got %d want %d", instrs[loop].Target, opener)
	}
}

func TestLowerEmitsUnsupportedOpcodes(t *testing.T) {
	instrs := lowerSource(t, "link a, b\nuse c from d\n")
	var names []string
	for _, in := range instrs {
		if in.Kind == interp.InstrInternal {
			names = append(names, in.Name)
		}
	}
	want := map[string]bool{".link": false, ".use": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("%s should still be emitted even though the runtime reports IMPL for it", n)
		}
	}
}
