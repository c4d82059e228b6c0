// Package engine wires the pipeline stages — lexer, ast, ir, stdlib,
// interp — into the two operations a caller actually wants: compile source
// text into a runnable program, and run it. cmd/sophia and the test suite
// both go through here rather than hand-assembling the pipeline.
package engine

import (
	"fmt"

	"fortio.org/log"

	"github.com/juno-r1/sophia/ast"
	"github.com/juno-r1/sophia/config"
	"github.com/juno-r1/sophia/interp"
	"github.com/juno-r1/sophia/ir"
	"github.com/juno-r1/sophia/lexer"
	"github.com/juno-r1/sophia/stdlib"
)

// Program is a compiled, ready-to-run module.
type Program struct {
	instructions []interp.Instruction
	endOf        map[int]int
	constants    map[string]interp.Value
}

// Compile validates, normalises, splits and parses source into a linked
// AST, then lowers and resolves it into a runnable Program. It returns an
// error for the three structural defects the lexer can catch ahead of any
// parsing: an unterminated string, unbalanced brackets, or empty source.
func Compile(source string) (*Program, error) {
	if lexer.IsEmpty(source) {
		return nil, fmt.Errorf("sophia: empty program")
	}
	if lexer.IsUnquoted(source) {
		return nil, fmt.Errorf("sophia: unterminated string literal")
	}
	normalised := lexer.Normalise(source)
	if lexer.IsUnmatched(normalised) {
		return nil, fmt.Errorf("sophia: unbalanced brackets")
	}
	lines := lexer.Split(normalised)
	tree := ast.Tree(lines)
	instructions, endOf, constants := ir.Lower(tree)
	return &Program{instructions: instructions, endOf: endOf, constants: constants}, nil
}

// RunTask executes a compiled Program to completion and returns both the
// Task it ran in — so a caller can inspect bindings the program left
// behind (e.g. a top-level `x: ...` assignment that never explicitly
// returned) — and the terminating result, which is an Err value when a
// runtime error short-circuited the loop.
func (p *Program) RunTask(opts config.Options) (*interp.Task, interp.Value) {
	values, types := stdlib.Namespace()
	task := interp.NewTask(p.instructions, p.endOf, mergeValues(values, p.constants), types, nil)
	task.MaxSteps = opts.MaxSteps
	log.Debugf("sophia: running %d instructions", len(p.instructions))
	result := task.Run()
	return task, result
}

// Run executes a compiled Program to completion and returns its result
// value (possibly an Err value; Run itself never returns a Go error for a
// runtime failure, matching the specification's closed error taxonomy).
func (p *Program) Run(opts config.Options) interp.Value {
	_, result := p.RunTask(opts)
	return result
}

// RunSource is the one-shot convenience path: compile then run.
func RunSource(source string, opts config.Options) (interp.Value, error) {
	prog, err := Compile(source)
	if err != nil {
		return interp.Value{}, err
	}
	return prog.Run(opts), nil
}

func mergeValues(base, extra map[string]interp.Value) map[string]interp.Value {
	out := make(map[string]interp.Value, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
