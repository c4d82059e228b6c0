// Package ir lowers a linked AST into the flat instruction vector the VM
// executes: register assignment, the execute/end depth-first traversal that
// emits instructions around each node's children, the .bind fold optimizer,
// and the two-pass jump resolution that gives control-flow internals their
// absolute targets.
package ir

import (
	"strconv"

	"github.com/juno-r1/sophia/ast"
	"github.com/juno-r1/sophia/interp"
	"github.com/juno-r1/sophia/token"
)

// Lowering holds the state threaded through one program's lowering: the
// emitted instruction vector and the constant namespace interned literals
// are registered into.
type Lowering struct {
	Instructions []interp.Instruction
	Namespace    map[string]interp.Value
	next         int // Next negative constant id, counting down from -2.
}

// NewLowering returns a Lowering ready to process a Module tree.
func NewLowering() *Lowering {
	return &Lowering{
		Namespace: map[string]interp.Value{},
		next:      -2,
	}
}

// Lower runs the full pipeline — register assignment, instruction
// emission, the bind fold, and jump resolution — returning the final
// instruction vector, the label->end index table Task needs to extract
// function bodies, and the constant namespace interned literals were
// registered into.
func Lower(tree ast.Node) ([]interp.Instruction, map[int]int, map[string]interp.Value) {
	l := NewLowering()
	l.generate(&tree)
	l.Instructions = FoldBinds(l.Instructions)
	endOf := ResolveJumps(l.Instructions)
	return l.Instructions, endOf, l.Namespace
}

// generate performs the explicit path-stack depth-first traversal: at each
// node, execute() fires for the child index about to be visited (or, at
// the end, end() fires once all children are done), mirroring the
// reference compiler's own iterative (non-recursive) walk.
func (l *Lowering) generate(root *ast.Node) {
	var path []int
	index := 0
	for {
		head := root
		for _, i := range path {
			head = &head.Children[i]
		}
		l.Instructions = append(l.Instructions, l.execute(head, index)...)
		if index < len(head.Children) {
			node := &head.Children[index]
			l.registerNode(node, head, path, index)
			path = append(path, index)
			index = 0
		} else {
			l.Instructions = append(l.Instructions, l.end(head)...)
			if len(path) == 0 {
				return
			}
			index = path[len(path)-1] + 1
			path = path[:len(path)-1]
		}
	}
}

func (l *Lowering) intern(v interp.Value) string {
	reg := strconv.Itoa(l.next)
	l.next--
	l.Namespace[reg] = v
	return reg
}

// registerNode implements the register-assignment rules: identifier-shaped
// tokens keep their literal name, none reads the fixed "-1" register,
// empty-sequence and literal tokens intern a constant, a ternary's
// RightConditional half shares its parent LeftConditional's register (both
// halves bind their result there), and everything else gets the
// path-sum-derived temporary.
func (l *Lowering) registerNode(node, parent *ast.Node, path []int, index int) {
	switch node.Token.Kind {
	case token.Env, token.Name, token.Receive:
		node.Register = node.Token.Literal
	case token.Null:
		node.Register = "-1"
	case token.Sequence:
		if len(node.Children) == 0 {
			node.Register = l.intern(interp.NewList(nil))
			return
		}
		node.Register = pathRegister(path, index)
	case token.Number:
		node.Register = l.intern(interp.NewNumber(node.Token.Num))
	case token.String:
		node.Register = l.intern(interp.NewString(node.Token.Literal))
	case token.Boolean:
		node.Register = l.intern(interp.NewBoolean(node.Token.Bool))
	case token.RightConditional:
		node.Register = parent.Register
	default:
		node.Register = pathRegister(path, index)
	}
}

// pathRegister sums the indices along the path from root down to (and
// including) this node's own position, offset by one so it never collides
// with the "0" result register. Sums can repeat between a node and its
// first child; that sharing is deliberate — a parent consumes its first
// child's value out of the slot it then overwrites with its own result.
func pathRegister(path []int, index int) string {
	sum := index + 1
	for _, i := range path {
		sum += i
	}
	return strconv.Itoa(sum)
}

func childRegisters(head *ast.Node) []string {
	out := make([]string, len(head.Children))
	for i, c := range head.Children {
		out[i] = c.Register
	}
	return out
}

// execute emits the instructions that belong before descending into
// head.Children[index] (or, for index==0, before any child at all).
func (l *Lowering) execute(head *ast.Node, index int) []interp.Instruction {
	switch index {
	case 0:
		switch head.Token.Kind {
		case token.Module, token.If, token.While, token.For, token.LeftConditional:
			label := "START"
			if head.Branch {
				label = "ELSE"
			}
			return []interp.Instruction{interp.Label(label)}
		case token.Else:
			return []interp.Instruction{interp.Label("ELSE")}
		case token.Function:
			return []interp.Instruction{
				interp.Internal(".function", head.Token.FuncName, head.Token.SigTypes, head.Token.SigNames),
				interp.Label("START"),
			}
		case token.Type:
			if !head.Token.HasPrototype {
				return typeHead(head)
			}
		}
	case 1:
		switch head.Token.Kind {
		case token.If, token.While, token.LeftConditional:
			return []interp.Instruction{
				interp.Internal("if", head.Register, []string{head.Children[0].Register}, nil),
			}
		case token.For:
			return forExecute(head)
		case token.Type:
			// The prototype child has a register only once it has been
			// visited, so the prototype form defers its head until here.
			if head.Token.HasPrototype {
				return typeHead(head)
			}
		case token.RightConditional:
			return []interp.Instruction{
				interp.Internal(".bind", "0", []string{head.Children[0].Register}, []string{head.Register}),
				interp.Internal("if", head.Register, nil, nil),
				interp.Label("END"),
				interp.Label("ELSE"),
			}
		}
	}
	return nil
}

// typeHead emits the type binding and the START label its constraint body
// (if any) sits behind; the .type handler skips the body at definition
// time the same way .function skips a method body.
func typeHead(head *ast.Node) []interp.Instruction {
	if head.Token.HasPrototype {
		protoReg := head.Children[0].Register
		return []interp.Instruction{
			interp.Internal(".check", head.Register, []string{protoReg, head.Token.Supertype}, nil),
			interp.Internal(".type", head.Token.TypeName, []string{head.Token.Supertype, head.Register}, nil),
			interp.Label("START"),
		}
	}
	return []interp.Instruction{
		interp.Internal(".type", head.Token.TypeName, []string{head.Token.Supertype}, nil),
		interp.Label("START"),
	}
}

// forExecute lowers `for index in iterator:` into a source evaluation
// (already done, it's head.Children[0]) followed by materialising the
// iterator and drawing the first element.
func forExecute(head *ast.Node) []interp.Instruction {
	return []interp.Instruction{
		interp.Internal(".iterator", head.Register, []string{head.Children[0].Register}, nil),
		interp.Internal(".next", head.Token.ForIndex, []string{head.Register}, nil),
	}
}

// end emits the instructions that belong once every child of head has been
// visited.
func (l *Lowering) end(head *ast.Node) []interp.Instruction {
	switch head.Token.Kind {
	case token.Type:
		return []interp.Instruction{interp.Command("constraint", "0", nil), interp.Label("END")}
	case token.Module, token.Function:
		return methodEnd(head)
	case token.Assign:
		return assignEnd(head)
	case token.If:
		return []interp.Instruction{
			interp.Internal("if", head.Register, nil, nil),
			interp.Label("END"),
		}
	case token.While, token.For:
		return []interp.Instruction{
			interp.Internal(".loop", "0", nil, nil),
			interp.Label("END"),
		}
	case token.Return:
		if len(head.Children) == 0 {
			return []interp.Instruction{interp.Command("return", "0", nil)}
		}
		return []interp.Instruction{interp.Command("return", "0", []string{head.Children[0].Register})}
	case token.Link:
		return []interp.Instruction{interp.Internal(".link", "0", nil, head.Token.Names)}
	case token.Use:
		source := "0"
		if head.Token.HasSrc {
			source = head.Token.Source
		}
		return []interp.Instruction{interp.Internal(".use", source, nil, head.Token.Names)}
	case token.Else:
		return []interp.Instruction{interp.Label("END")}
	case token.Continue:
		return []interp.Instruction{interp.Internal(".continue", "0", nil, nil)}
	case token.Break:
		return []interp.Instruction{interp.Internal(".break", "0", nil, nil)}
	case token.Receive:
		return []interp.Instruction{interp.Internal(".receive", head.Register, nil, nil)}
	case token.Sequence:
		return sequenceEnd(head)
	case token.Meta:
		return []interp.Instruction{interp.Internal("meta", head.Register, []string{head.Children[0].Register}, nil)}
	case token.Bind:
		return []interp.Instruction{interp.Internal(".future", head.Register, childRegisters(head), nil)}
	case token.RightConditional:
		return []interp.Instruction{
			interp.Internal(".bind", "0", []string{head.Children[1].Register}, []string{head.Register}),
			interp.Label("END"),
		}
	case token.Pair:
		if len(head.Children) == 3 {
			return []interp.Instruction{interp.Internal(".slice", head.Register, childRegisters(head), nil)}
		}
		return nil
	case token.Call:
		callee := head.Children[0].Register
		return []interp.Instruction{interp.Command(callee, head.Register, childRegisters(head)[1:])}
	case token.Index:
		return indexEnd(head)
	case token.Prefix, token.Infix, token.InfixR:
		return []interp.Instruction{interp.Command(head.Token.Literal, head.Register, childRegisters(head))}
	default:
		return nil
	}
}

// methodEnd closes a Module or Function body: the value of its last
// statement becomes the implicit return.
func methodEnd(head *ast.Node) []interp.Instruction {
	if len(head.Children) == 0 {
		return []interp.Instruction{interp.Command("return", "0", nil), interp.Label("END")}
	}
	last := returnRegister(&head.Children[len(head.Children)-1])
	return []interp.Instruction{interp.Command("return", "0", []string{last}), interp.Label("END")}
}

// returnRegister picks the register an implicit return can actually read.
// Function and type statements bind under their own name rather than their
// node register, and an else block's value lives in its last statement.
func returnRegister(n *ast.Node) string {
	switch n.Token.Kind {
	case token.Function:
		return n.Token.FuncName
	case token.Type:
		return n.Token.TypeName
	case token.Else:
		// Whether the else body ran depends on the condition, so its
		// registers can't be read unconditionally; the block yields none.
		return "-1"
	default:
		return n.Register
	}
}

// assignEnd emits the naive, one-pair-at-a-time form of an assignment: a
// BIND label followed by, per name, an optional .check (skipped for an
// inferred "?" type) and its own .bind. FoldBinds collapses every .bind in
// this run into a single instruction once lowering finishes.
func assignEnd(head *ast.Node) []interp.Instruction {
	instrs := []interp.Instruction{interp.Label("BIND")}
	base, _ := strconv.Atoi(head.Register)
	var last string
	for i, typ := range head.Token.BindTypes {
		childReg := head.Children[i].Register
		name := head.Token.BindNames[i]
		if typ == "?" {
			instrs = append(instrs, interp.Internal(".bind", "0", []string{childReg}, []string{name}))
			last = childReg
			continue
		}
		addr := strconv.Itoa(base + i)
		instrs = append(instrs, interp.Internal(".check", addr, []string{childReg, typ}, nil))
		instrs = append(instrs, interp.Internal(".bind", "0", []string{addr}, []string{name}))
		last = addr
	}
	// An assignment is itself an expression: its value is whatever was last
	// bound, aliased into the statement's own register so a Module/Function
	// body that ends on an assignment still has a value for its implicit
	// return.
	if last != "" {
		instrs = append(instrs, interp.Internal(".bind", "0", []string{last}, []string{head.Register}))
	}
	return instrs
}

func sequenceEnd(head *ast.Node) []interp.Instruction {
	if len(head.Children) == 0 {
		return nil
	}
	if head.Children[0].Token.Kind == token.Pair && len(head.Children[0].Children) == 2 {
		keys := make([]string, len(head.Children))
		values := make([]string, len(head.Children))
		for i, c := range head.Children {
			keys[i] = c.Children[0].Register
			values[i] = c.Children[1].Register
		}
		return []interp.Instruction{interp.Internal(".record", head.Register, values, keys)}
	}
	return []interp.Instruction{interp.Internal(".list", head.Register, childRegisters(head), nil)}
}

func indexEnd(head *ast.Node) []interp.Instruction {
	regs := childRegisters(head)
	instrs := []interp.Instruction{interp.Command("[", head.Register, regs[:2])}
	for _, r := range regs[2:] {
		instrs = append(instrs, interp.Command("[", head.Register, []string{head.Register, r}))
	}
	return instrs
}
