package engine

import (
	"testing"

	"github.com/juno-r1/sophia/config"
	"github.com/juno-r1/sophia/interp"
)

func compileAndRun(t *testing.T, source string) *interp.Task {
	t.Helper()
	prog, err := Compile(source)
	if err != nil {
		t.Fatalf("compile %q: %v", source, err)
	}
	task, result := prog.RunTask(config.Default())
	if result.Kind == interp.KindErr {
		t.Fatalf("run %q: runtime error %s", source, interp.Debug(result))
	}
	return task
}

func binding(t *testing.T, task *interp.Task, name string) interp.Value {
	t.Helper()
	v, ok := task.Values[name]
	if !ok {
		t.Fatalf("no binding for %q", name)
	}
	return v
}

func wantNumber(t *testing.T, v interp.Value, want string) {
	t.Helper()
	if v.Kind != interp.KindNumber || v.Num.RatString() != want {
		t.Fatalf("got %s, want %s", interp.Debug(v), want)
	}
}

func TestArithmeticAddition(t *testing.T) {
	task := compileAndRun(t, "x: 2 + 3")
	wantNumber(t, binding(t, task, "x"), "5")
}

func TestArithmeticExponent(t *testing.T) {
	task := compileAndRun(t, "x: 2 ^ 10")
	wantNumber(t, binding(t, task, "x"), "1024")
}

func TestRationalArithmeticStaysExact(t *testing.T) {
	task := compileAndRun(t, "x: 1/3 + 1/6")
	wantNumber(t, binding(t, task, "x"), "1/2")
}

func TestComparison(t *testing.T) {
	task := compileAndRun(t, "x: 1 < 2")
	v := binding(t, task, "x")
	if v.Kind != interp.KindBoolean || !v.Bool {
		t.Fatalf("got %s, want true", interp.Debug(v))
	}
}

func TestIfElseBinding(t *testing.T) {
	task := compileAndRun(t, "if 1 = 1:\n\ty: 1\nelse:\n\ty: 2\n")
	wantNumber(t, binding(t, task, "y"), "1")
}

func TestIfElseBindingFalseBranch(t *testing.T) {
	task := compileAndRun(t, "if 1 = 2:\n\ty: 1\nelse:\n\ty: 2\n")
	wantNumber(t, binding(t, task, "y"), "2")
}

func TestSubstring(t *testing.T) {
	task := compileAndRun(t, "x: 'a' in 'cat'")
	v := binding(t, task, "x")
	if v.Kind != interp.KindBoolean || !v.Bool {
		t.Fatalf("got %s, want true", interp.Debug(v))
	}
}

func TestTopLevelReturn(t *testing.T) {
	task := compileAndRun(t, "return 7")
	wantNumber(t, task.Values["0"], "7")
}

func TestWhileLoop(t *testing.T) {
	task := compileAndRun(t, "x: 0\nwhile x < 3:\n\tx: x + 1\n")
	wantNumber(t, binding(t, task, "x"), "3")
}

func TestWhileLoopBreak(t *testing.T) {
	task := compileAndRun(t, "total: 0\nwhile true:\n\ttotal: total + 1\n\tif total = 3:\n\t\tbreak\n")
	wantNumber(t, binding(t, task, "total"), "3")
}

func TestForLoop(t *testing.T) {
	task := compileAndRun(t, "total: 0\nfor i in [1, 2, 3]:\n\ttotal: total + i\n")
	wantNumber(t, binding(t, task, "total"), "6")
}

func TestForLoopContinue(t *testing.T) {
	task := compileAndRun(t, "total: 0\nfor i in [1, 2, 3, 4]:\n\tif i = 3:\n\t\tcontinue\n\ttotal: total + i\n")
	wantNumber(t, binding(t, task, "total"), "7")
}

func TestForLoopOverString(t *testing.T) {
	// A quote right before a newline joins the next line onto its own, so
	// the accumulator's line ends in a comment rather than on its quote.
	task := compileAndRun(t, "s: '' // empty\nfor c in 'ab':\n\ts: s + c\n")
	v := binding(t, task, "s")
	if v.Kind != interp.KindString || v.Str != "ab" {
		t.Fatalf("got %s, want 'ab'", interp.Debug(v))
	}
}

func TestTernaryExpression(t *testing.T) {
	task := compileAndRun(t, "x: 1 if 1 < 2 else 2\n")
	wantNumber(t, binding(t, task, "x"), "1")
}

func TestTernaryExpressionFalseBranch(t *testing.T) {
	task := compileAndRun(t, "x: 1 if 2 < 1 else 2\n")
	wantNumber(t, binding(t, task, "x"), "2")
}

func TestFunctionDefinitionAndCall(t *testing.T) {
	task := compileAndRun(t, "double (n) => n * 2\nx: double(5)\n")
	wantNumber(t, binding(t, task, "x"), "10")
}

func TestFunctionBlockBody(t *testing.T) {
	task := compileAndRun(t, "add (a, b):\n\treturn a + b\nx: add(2, 3)\n")
	wantNumber(t, binding(t, task, "x"), "5")
}

func TestMultipleDispatchPrefersSpecificMethod(t *testing.T) {
	source := "f (number n) => 0\nf (integer n) => 1\nx: f(3)\ny: f(1/2)\n"
	task := compileAndRun(t, source)
	wantNumber(t, binding(t, task, "x"), "1")
	wantNumber(t, binding(t, task, "y"), "0")
}

func TestRecursion(t *testing.T) {
	task := compileAndRun(t, "fact (n) => 1 if n < 2 else n * fact(n - 1)\nx: fact(5)\n")
	wantNumber(t, binding(t, task, "x"), "120")
}

func TestTypedAssign(t *testing.T) {
	task := compileAndRun(t, "x integer: 7")
	wantNumber(t, binding(t, task, "x"), "7")
}

func TestTypedAssignMismatchIsRuntimeError(t *testing.T) {
	prog, err := Compile("x integer: 'a'")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	result := prog.Run(config.Default())
	if result.Kind != interp.KindErr {
		t.Fatalf("got %s, want a TYPE error", interp.Debug(result))
	}
}

func TestUserTypeInSignature(t *testing.T) {
	source := "type natural extends integer:\nf (natural n) => n + 1\nx: f(4)\n"
	task := compileAndRun(t, source)
	wantNumber(t, binding(t, task, "x"), "5")
}

func TestListIndex(t *testing.T) {
	task := compileAndRun(t, "x: [10, 20, 30][1]\n")
	wantNumber(t, binding(t, task, "x"), "20")
}

func TestRecordLiteralAndIndex(t *testing.T) {
	task := compileAndRun(t, "r: [1: 'a', 2: 'b']\nx: r[2]\n")
	v := binding(t, task, "x")
	if v.Kind != interp.KindString || v.Str != "b" {
		t.Fatalf("got %s, want 'b'", interp.Debug(v))
	}
}

func TestSizeBuiltin(t *testing.T) {
	task := compileAndRun(t, "x: size([1, 2, 3])\ny: size('abc')\n")
	wantNumber(t, binding(t, task, "x"), "3")
	wantNumber(t, binding(t, task, "y"), "3")
}

func TestDispatchFailureIsRuntimeError(t *testing.T) {
	prog, err := Compile("x: 1 + 'a'")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	result := prog.Run(config.Default())
	if result.Kind != interp.KindErr || result.ErrVal != interp.DISP {
		t.Fatalf("got %s, want Err(DISP)", interp.Debug(result))
	}
}

func TestCompileRejectsUnterminatedString(t *testing.T) {
	if _, err := Compile("x: 'a"); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestCompileRejectsUnbalancedBrackets(t *testing.T) {
	if _, err := Compile("x: (1 + 2"); err == nil {
		t.Fatal("expected an error for unbalanced brackets")
	}
}

func TestCompileRejectsEmptySource(t *testing.T) {
	if _, err := Compile(""); err == nil {
		t.Fatal("expected an error for empty source")
	}
}
