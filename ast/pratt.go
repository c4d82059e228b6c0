package ast

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/juno-r1/sophia/lexer"
	"github.com/juno-r1/sophia/token"
)

// reTypeExpr / reFuncExpr re-match the raw text of a parenthesised group
// against the typedef-expression and function-expression grammars; whichever
// matches first turns the group into an anonymous Type{name:"@"} or
// Function{name:"@"} node instead of a plain grouped expression.
var (
	reTypeExpr = regexp.MustCompile(`^extends (?P<supertype>\w+)(?: with (?P<prototype>.*?))?\s*=>\s*(?P<expression>.+)$`)
	reFuncExpr = regexp.MustCompile(`^(?P<params>(?:\w+(?: \w+)?(?:\s*,\s*)?)*)\s*=>\s*(?P<expression>.+?)(?:\s*=>\s*(?P<final>\w+))?$`)
)

// pratt is the token scanner feeding the precedence-climbing parser. It
// holds a one-token lookahead (peek) alongside the current token, and owns
// the regex capture iterator over the expression text.
type pratt struct {
	text    string
	pos     int
	current token.Token
	peek    token.Token
}

// Expression parses a single expression string into a Node tree.
func Expression(pattern string) Node {
	p := &pratt{text: pattern}
	p.advance()
	return p.parse(0)
}

// parse implements the Pratt loop: NUD on the current token, then LED while
// the upcoming token binds tighter than lbp.
func (p *pratt) parse(lbp int) Node {
	p.advance()
	if p.current.Kind == token.EOL {
		return Leaf(p.current)
	}
	left := p.nud(p.current)
	for lbp < p.peek.LBP() {
		p.advance()
		left = p.led(p.current, left)
		if p.current.Kind == token.EOL {
			return Leaf(p.current)
		}
	}
	return left
}

// advance shifts peek into current and scans a new peek token, skipping
// whitespace between matches.
func (p *pratt) advance() {
	p.current = p.peek
	p.peek = p.scan()
}

// scan returns the next raw token from the expression text, deciding
// bracket/operator readings (group-vs-call, prefix-vs-infix) based on
// whether the token just produced (p.current, not yet updated here — see
// advance) expects an operand next.
func (p *pratt) scan() token.Token {
	for p.pos < len(p.text) && (p.text[p.pos] == ' ' || p.text[p.pos] == '\t') {
		p.pos++
	}
	if p.pos >= len(p.text) {
		return token.Token{Kind: token.EOL}
	}
	loc := lexer.ScanPattern.FindStringSubmatchIndex(p.text[p.pos:])
	if loc == nil || loc[0] != 0 {
		return token.Token{Kind: token.EOL}
	}
	names := lexer.ScanPattern.SubexpNames()
	p.pos += loc[1]
	for i, name := range names {
		if i == 0 || loc[2*i] == -1 {
			continue
		}
		sub := p.text[p.pos-loc[1]+loc[2*i] : p.pos-loc[1]+loc[2*i+1]]
		switch name {
		case "number":
			n := new(big.Rat)
			n.SetString(normaliseNumber(sub))
			return token.Token{Kind: token.Number, Num: n, Literal: sub}
		case "string":
			return token.Token{Kind: token.String, Literal: sub[1 : len(sub)-1]}
		case "name":
			return p.nameToken(sub)
		case "env":
			return token.Token{Kind: token.Env, Literal: sub}
		case "receive":
			return token.Token{Kind: token.Receive, Literal: sub}
		case "lparen":
			return p.lparenToken(sub)
		case "rparen":
			return token.Token{Kind: token.RightBracket}
		case "operator":
			return p.operatorToken(sub)
		}
	}
	return token.Token{Kind: token.EOL}
}

// normaliseNumber trims the dangling separator of "3." / "3/" style
// literals so big.Rat.SetString accepts them; everything else passes
// through ("3.5" and "3/2" are already in its grammar).
func normaliseNumber(lit string) string {
	if strings.HasSuffix(lit, ".") || strings.HasSuffix(lit, "/") {
		return lit[:len(lit)-1]
	}
	return lit
}

func (p *pratt) nameToken(name string) token.Token {
	switch name {
	case "and", "or", "xor", "in":
		return token.Token{Kind: token.Infix, Literal: name}
	case "not", "new":
		return token.Token{Kind: token.Prefix, Literal: name}
	case "true", "false":
		return token.Token{Kind: token.Boolean, Bool: name == "true"}
	case "null":
		return token.Token{Kind: token.Null}
	case "if":
		return token.Token{Kind: token.LeftConditional}
	case "else":
		return token.Token{Kind: token.RightConditional}
	default:
		return token.Token{Kind: token.Name, Literal: name}
	}
}

func (p *pratt) lparenToken(bracket string) token.Token {
	if p.current.IsPrefixContext() {
		raw := p.collect(bracket)
		switch bracket {
		case "(":
			return token.Token{Kind: token.Parenthesis, Literal: raw}
		case "[":
			return token.Token{Kind: token.Sequence, Literal: raw}
		default:
			return token.Token{Kind: token.Meta, Literal: raw}
		}
	}
	switch bracket {
	case "(":
		return token.Token{Kind: token.Call}
	default:
		return token.Token{Kind: token.Index}
	}
}

func (p *pratt) operatorToken(sym string) token.Token {
	if p.current.IsPrefixContext() {
		return token.Token{Kind: token.Prefix, Literal: sym}
	}
	switch sym {
	case ",":
		return token.Token{Kind: token.Concatenator}
	case ":":
		return token.Token{Kind: token.Pair}
	case "^", "->", "=>", ".":
		return token.Token{Kind: token.InfixR, Literal: sym}
	case "<-":
		return token.Token{Kind: token.Bind}
	default:
		return token.Token{Kind: token.Infix, Literal: sym}
	}
}

// collect consumes the raw text of a bracketed group started by open,
// tracking nested depth; brackets inside are guaranteed balanced by the
// validator that already ran over the whole source.
func (p *pratt) collect(open string) string {
	depth := 1
	start := p.pos
	for depth != 0 {
		if p.pos >= len(p.text) {
			break
		}
		switch p.text[p.pos] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		p.pos++
	}
	end := p.pos
	if end > start {
		end-- // Drop the closing bracket itself.
	}
	raw := strings.TrimSpace(p.text[start:end])
	return raw
}

// nud produces the node for a token encountered with no left context.
func (p *pratt) nud(t token.Token) Node {
	switch t.Kind {
	case token.Parenthesis:
		return p.nudParenthesis(t)
	case token.Sequence:
		if t.Literal == "" {
			return Branch(t, nil)
		}
		contents := Expression(t.Literal)
		if contents.Token.Kind == token.Concatenator {
			return Branch(t, contents.Children)
		}
		return Branch(t, []Node{contents})
	case token.Meta:
		return Branch(t, []Node{Expression(t.Literal)})
	case token.Prefix:
		return Branch(t, []Node{p.parse(t.LBP())})
	default:
		return Leaf(t)
	}
}

func (p *pratt) nudParenthesis(t token.Token) Node {
	if m := reTypeExpr.FindStringSubmatch(t.Literal); m != nil {
		supertype, _ := namedGroup(reTypeExpr, m, "supertype")
		prototype, hasProto := namedGroup(reTypeExpr, m, "prototype")
		expression, _ := namedGroup(reTypeExpr, m, "expression")
		tok := token.Token{Kind: token.Type, TypeName: "@", Supertype: supertype, HasPrototype: hasProto}
		exprNode := Expression(expression)
		if hasProto {
			return Branch(tok, []Node{Expression(prototype), exprNode})
		}
		return Branch(tok, []Node{exprNode})
	}
	if m := reFuncExpr.FindStringSubmatch(t.Literal); m != nil {
		final, ok := namedGroup(reFuncExpr, m, "final")
		if !ok {
			final = "?"
		}
		params, _ := namedGroup(reFuncExpr, m, "params")
		names, types := parseSignature(params)
		sigNames := append([]string{"@"}, names...)
		sigTypes := append([]string{final}, types...)
		expression, _ := namedGroup(reFuncExpr, m, "expression")
		tok := token.Token{Kind: token.Function, FuncName: "@", SigNames: sigNames, SigTypes: sigTypes}
		return Branch(tok, []Node{Expression(expression)})
	}
	if t.Literal == "" {
		return Branch(t, nil)
	}
	return Branch(t, []Node{Expression(t.Literal)})
}

// led produces the node for a token encountered with a left operand.
func (p *pratt) led(t token.Token, left Node) Node {
	switch t.Kind {
	case token.Infix:
		return Branch(t, []Node{left, p.parse(t.LBP())})
	case token.Bind:
		return p.ledBind(t, left)
	case token.LeftConditional:
		return p.ledLeftConditional(t, left)
	case token.RightConditional:
		return Branch(t, []Node{left, p.parse(t.LBP())})
	case token.InfixR:
		return Branch(t, []Node{left, p.parse(t.LBP() - 1)})
	case token.Concatenator:
		return p.ledFlatten(t, left, token.Concatenator, t.LBP()-1)
	case token.Pair:
		return p.ledFlatten(t, left, token.Pair, t.LBP()-1)
	case token.Call:
		return p.ledBracketed(t, left)
	case token.Index:
		return p.ledBracketed(t, left)
	default:
		return Leaf(t)
	}
}

// ledBind builds the bind ("<-") branch, flattening a chained
// `a <- b <- c` into a single branch the same way Concatenator and Pair
// flatten their own kind.
func (p *pratt) ledBind(t token.Token, left Node) Node {
	return p.ledFlatten(t, left, token.Bind, t.LBP()-1)
}

// ledLeftConditional grafts the already-parsed left branch into the
// consequent position of an "if" used as an expression: `left if cond else
// alt` parses cond first (as `right`), then re-wraps left (the consequent)
// together with right's remaining children (the alternative produced by a
// nested RightConditional) under right's own token.
func (p *pratt) ledLeftConditional(t token.Token, left Node) Node {
	right := p.parse(t.LBP())
	nodes := []Node{left}
	if len(right.Children) > 1 {
		nodes = append(nodes, right.Children[1:]...)
	}
	var cond Node
	if len(right.Children) > 0 {
		cond = right.Children[0]
	}
	return Branch(t, []Node{cond, Branch(right.Token, nodes)})
}

func (p *pratt) ledFlatten(t token.Token, left Node, flattenKind token.Kind, rbp int) Node {
	right := p.parse(rbp)
	nodes := []Node{left}
	if right.Token.Kind == flattenKind {
		nodes = append(nodes, right.Children...)
	} else {
		nodes = append(nodes, right)
	}
	return Branch(t, nodes)
}

func (p *pratt) ledBracketed(t token.Token, left Node) Node {
	nodes := []Node{left}
	if p.peek.Kind == token.RightBracket {
		p.advance()
		return Branch(t, nodes)
	}
	right := p.parse(1)
	if right.Token.Kind == token.Concatenator {
		nodes = append(nodes, right.Children...)
	} else {
		nodes = append(nodes, right)
	}
	p.advance()
	return Branch(t, nodes)
}
