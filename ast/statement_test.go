package ast

import (
	"testing"

	"github.com/juno-r1/sophia/token"
)

func TestStatementClassification(t *testing.T) {
	cases := map[string]token.Kind{
		"type natural extends integer:": token.Type,
		"f (x) => x":                    token.Function,
		"x: 1":                          token.Assign,
		"if x:":                         token.If,
		"while x:":                      token.While,
		"for i in xs:":                  token.For,
		"return":                        token.Return,
		"link a, b":                     token.Link,
		"use a from b":                  token.Use,
		"continue":                      token.Continue,
		"break":                         token.Break,
		"else:":                         token.Else,
		"1 + 2":                         token.Infix,
	}
	for line, want := range cases {
		if got := Statement(line).Token.Kind; got != want {
			t.Errorf("Statement(%q).Kind = %v, want %v", line, got, want)
		}
	}
}

func TestExpressionPrecedence(t *testing.T) {
	root := Expression("1 + 2 * 3")
	if root.Token.Literal != "+" {
		t.Fatalf("root should be +, got %q", root.Token.Literal)
	}
	if len(root.Children) != 2 || root.Children[1].Token.Literal != "*" {
		t.Fatalf("* should bind tighter than + and sit on the right branch")
	}
}

func TestExponentIsRightAssociative(t *testing.T) {
	root := Expression("2 ^ 3 ^ 2")
	if root.Token.Literal != "^" || len(root.Children) != 2 {
		t.Fatalf("root should be a binary ^")
	}
	if root.Children[1].Token.Literal != "^" {
		t.Fatal("2 ^ 3 ^ 2 should parse as 2 ^ (3 ^ 2)")
	}
}

func TestConcatenatorFlattens(t *testing.T) {
	root := Expression("1, 2, 3")
	if root.Token.Kind != token.Concatenator || len(root.Children) != 3 {
		t.Fatalf("a, b, c should flatten into one branch with 3 children, got %d", len(root.Children))
	}
}

func TestCallConsumesArguments(t *testing.T) {
	root := Expression("f(1, 2)")
	if root.Token.Kind != token.Call {
		t.Fatalf("expected a call node, got %v", root.Token.Kind)
	}
	if len(root.Children) != 3 {
		t.Fatalf("call should hold callee plus 2 arguments, got %d children", len(root.Children))
	}
}

func TestFunctionSignatureKeepsDeclarationOrder(t *testing.T) {
	node := Statement("f integer (string a, b):")
	tok := node.Token
	if tok.Kind != token.Function {
		t.Fatalf("expected a function statement, got %v", tok.Kind)
	}
	wantNames := []string{"f", "a", "b"}
	wantTypes := []string{"integer", "string", "?"}
	for i := range wantNames {
		if tok.SigNames[i] != wantNames[i] || tok.SigTypes[i] != wantTypes[i] {
			t.Fatalf("signature = %v/%v, want %v/%v", tok.SigNames, tok.SigTypes, wantNames, wantTypes)
		}
	}
}

func TestTreeLinksByIndentation(t *testing.T) {
	root := Tree([]string{"if x:", "\ty: 1", "else:", "\ty: 2"})
	if root.Token.Kind != token.Module || len(root.Children) != 2 {
		t.Fatalf("module should hold the if and the else, got %d children", len(root.Children))
	}
	ifNode := root.Children[0]
	if ifNode.Token.Kind != token.If || len(ifNode.Children) != 2 {
		t.Fatalf("if should hold its condition and one body statement")
	}
	if root.Children[1].Token.Kind != token.Else {
		t.Fatal("second module child should be the else block")
	}
}

func TestElseTailSetsBranchFlag(t *testing.T) {
	root := Tree([]string{"if x:", "\ty: 1", "else if z:", "\ty: 2"})
	second := root.Children[1]
	if second.Token.Kind != token.If || !second.Branch {
		t.Fatal("else if should reclassify as an If line with the branch flag set")
	}
}
