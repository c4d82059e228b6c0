package ast

import (
	"regexp"
	"strings"

	"github.com/juno-r1/sophia/token"
)

// Line-shape patterns, tried in a fixed order; the first match wins and
// anything left over falls through to a bare expression line.
var (
	reWhitespaceOnly = regexp.MustCompile(`^\s*$`)
	reBranch         = regexp.MustCompile(`^else (.+)$`)

	reType     = regexp.MustCompile(`^type (?P<name>\w+)(?: extends (?P<supertype>\w+))?(?: with (?P<prototype>.*?))?(?:(:)$|\s*=>\s*(?P<expression>.+))$`)
	reFunction = regexp.MustCompile(`^(?P<name>\w+)(?: (?P<final>\w+))?\s*\((?P<params>(?:\w+(?: \w+)?(?:\s*,\s*)?)*)\)(?:(:)$|\s*=>\s*(?P<expression>.+))$`)
	reAssign   = regexp.MustCompile(`^(?:\w+(?: \w+)?:\s*.+(?:\s*;\s*)?)+$`)
	reBind     = regexp.MustCompile(`(?P<name>\w+)(?: (?P<type>\w+))?:\s*(?P<expression>.+?)(?:;|$)`)
	reIf       = regexp.MustCompile(`^if (?P<expression>.+):$`)
	reWhile    = regexp.MustCompile(`^while (?P<expression>.+):$`)
	reFor      = regexp.MustCompile(`^for (?P<index>\w+) in (?P<iterator>.+):$`)
	reReturn   = regexp.MustCompile(`^return(?: (?P<expression>.+))?$`)
	reLink     = regexp.MustCompile(`^link (?P<names>\w+(?:\s*,\s*\w+)*)$`)
	reUse      = regexp.MustCompile(`^use (?P<names>\w+(?:\s*,\s*\w+)*)(?:\s*from\s+(?P<source>\w+))?`)
	reContinue = regexp.MustCompile(`^continue$`)
	reBreak    = regexp.MustCompile(`^break$`)
	reElse     = regexp.MustCompile(`^else:$`)

	reCommaSplit = regexp.MustCompile(`\s*,\s*`)
)

func namedGroup(re *regexp.Regexp, m []string, name string) (string, bool) {
	for i, n := range re.SubexpNames() {
		if n == name && m[i] != "" {
			return m[i], true
		}
	}
	return "", false
}

// Statement classifies one logical line into a statement Node. Order
// matches the closed set the recognizer tries: type, function, assign, if,
// while, for, return, link, use, continue, break, else, expression.
func Statement(pattern string) Node {
	if m := reType.FindStringSubmatch(pattern); m != nil {
		return newType(reType, m)
	}
	if m := reFunction.FindStringSubmatch(pattern); m != nil {
		return newFunction(reFunction, m)
	}
	if reAssign.MatchString(pattern) {
		return newAssign(pattern)
	}
	if m := reIf.FindStringSubmatch(pattern); m != nil {
		expr, _ := namedGroup(reIf, m, "expression")
		return Branch(token.Token{Kind: token.If}, []Node{Expression(expr)})
	}
	if m := reWhile.FindStringSubmatch(pattern); m != nil {
		expr, _ := namedGroup(reWhile, m, "expression")
		return Branch(token.Token{Kind: token.While}, []Node{Expression(expr)})
	}
	if m := reFor.FindStringSubmatch(pattern); m != nil {
		index, _ := namedGroup(reFor, m, "index")
		iter, _ := namedGroup(reFor, m, "iterator")
		return Branch(token.Token{Kind: token.For, ForIndex: index}, []Node{Expression(iter)})
	}
	if m := reReturn.FindStringSubmatch(pattern); m != nil {
		if expr, ok := namedGroup(reReturn, m, "expression"); ok {
			return Branch(token.Token{Kind: token.Return}, []Node{Expression(expr)})
		}
		return Branch(token.Token{Kind: token.Return}, nil)
	}
	if m := reLink.FindStringSubmatch(pattern); m != nil {
		names, _ := namedGroup(reLink, m, "names")
		return Branch(token.Token{Kind: token.Link, Names: splitNames(names)}, nil)
	}
	if m := reUse.FindStringSubmatch(pattern); m != nil {
		names, _ := namedGroup(reUse, m, "names")
		source, hasSrc := namedGroup(reUse, m, "source")
		return Branch(token.Token{Kind: token.Use, Names: splitNames(names), Source: source, HasSrc: hasSrc}, nil)
	}
	if reContinue.MatchString(pattern) {
		return Leaf(token.Token{Kind: token.Continue})
	}
	if reBreak.MatchString(pattern) {
		return Leaf(token.Token{Kind: token.Break})
	}
	if reElse.MatchString(pattern) {
		return Branch(token.Token{Kind: token.Else}, nil)
	}
	return Expression(pattern)
}

func splitNames(s string) []string {
	return reCommaSplit.Split(s, -1)
}

func newType(re *regexp.Regexp, m []string) Node {
	name, _ := namedGroup(re, m, "name")
	supertype, ok := namedGroup(re, m, "supertype")
	if !ok {
		supertype = "any"
	}
	prototype, hasProto := namedGroup(re, m, "prototype")
	expression, hasExpr := namedGroup(re, m, "expression")
	tok := token.Token{Kind: token.Type, TypeName: name, Supertype: supertype, HasPrototype: hasProto}
	var children []Node
	if hasProto {
		children = append(children, Expression(prototype))
	}
	if hasExpr {
		children = append(children, Expression(expression))
	}
	return Branch(tok, children)
}

// parseSignature turns "type name, type name, name" declaration text into
// parallel name/type slices in declaration order; a bare name defaults to
// the "?" infer sentinel so the argument's runtime type flows through.
func parseSignature(params string) ([]string, []string) {
	if strings.TrimSpace(params) == "" {
		return nil, nil
	}
	var names, types []string
	for _, param := range reCommaSplit.Split(params, -1) {
		fields := strings.Fields(param)
		switch len(fields) {
		case 1:
			names = append(names, fields[0])
			types = append(types, "?")
		default:
			names = append(names, fields[1])
			types = append(types, fields[0])
		}
	}
	return names, types
}

func newFunction(re *regexp.Regexp, m []string) Node {
	name, _ := namedGroup(re, m, "name")
	final, ok := namedGroup(re, m, "final")
	if !ok {
		final = "?"
	}
	params, _ := namedGroup(re, m, "params")
	names, types := parseSignature(params)
	sigNames := append([]string{name}, names...)
	sigTypes := append([]string{final}, types...)
	tok := token.Token{Kind: token.Function, FuncName: name, SigNames: sigNames, SigTypes: sigTypes}
	var children []Node
	if expression, ok := namedGroup(re, m, "expression"); ok {
		children = append(children, Expression(expression))
	}
	return Branch(tok, children)
}

func newAssign(pattern string) Node {
	var names, types []string
	var children []Node
	for _, m := range reBind.FindAllStringSubmatch(pattern, -1) {
		name, _ := namedGroup(reBind, m, "name")
		typ, ok := namedGroup(reBind, m, "type")
		if !ok {
			typ = "?"
		}
		expr, _ := namedGroup(reBind, m, "expression")
		names = append(names, name)
		types = append(types, typ)
		children = append(children, Expression(expr))
	}
	return Branch(token.Token{Kind: token.Assign, BindNames: names, BindTypes: types}, children)
}
