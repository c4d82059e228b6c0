// Package token defines the lexical categories produced while scanning a
// logical line of source and consumed by the Pratt expression parser.
package token

import "math/big"

// Kind enumerates every shape of token the lexer can produce: statement
// heads, expression atoms, bracketed raw-text groups, operator categories
// and end-of-line.
type Kind uint8

const (
	EOL Kind = iota

	// Statement heads.
	Module
	Type
	Function
	Assign
	If
	While
	For
	Return
	Link
	Use
	Else
	Continue
	Break
	Start

	// Expression atoms.
	Number
	String
	Boolean
	Null
	Env
	Name
	Receive

	// Bracketed raw-text groups (pre-split, re-lexed on demand).
	Parenthesis
	Sequence
	Meta

	// Expression groups / operator categories.
	Prefix
	Infix
	Bind
	LeftConditional
	RightConditional
	InfixR
	Concatenator
	Pair
	Call
	Index
	RightBracket
)

// Token is a tagged union over every token shape. Only the fields relevant
// to Kind are populated; this mirrors the payload-carrying variants of the
// source language's token enum without requiring a Go interface per kind.
type Token struct {
	Kind Kind

	// Literal text for names, operators, raw bracket contents, receive names.
	Literal string

	// Number / Boolean literals.
	Num  *big.Rat
	Bool bool

	// Type{name, supertype, prototype} statement payload.
	TypeName     string
	Supertype    string
	HasPrototype bool

	// Function{name, signature} statement payload. Signature preserves
	// declaration order: names[0] is the function/return binding, the rest
	// are parameters in the order written.
	FuncName string
	SigNames []string
	SigTypes []string

	// Assign(binds) statement payload: parallel name/type slices, one entry
	// per bind pair, in source order.
	BindNames []string
	BindTypes []string

	// For(index) statement payload.
	ForIndex string

	// Link(names) / Use{names, source} statement payload.
	Names  []string
	Source string
	HasSrc bool
}

// lbpTable is the left-binding-power table from the external grammar (20 is
// tightest). Index by the symbolic name used for each token category.
var lbpTable = map[string]int{
	"RIGHT_BRACKET": 1,
	",":             2,
	":":             3,
	"->":            4,
	"=>":            4,
	"if":            5,
	"else":          6,
	"or":            7,
	"and":           8,
	"xor":           9,
	"=":             10,
	"!=":            10,
	"in":            10,
	"<":             11,
	">":             11,
	"<=":            11,
	">=":            11,
	"&":             12,
	"|":             12,
	"+":             13,
	"-":             13,
	"*":             14,
	"/":             14,
	"%":             14,
	"^":             15,
	"?":             16,
	"<-":            17,
	"PREFIX":        18,
	"LEFT_BRACKET":  19,
	".":             20,
}

// LBP returns the left-binding power of the token, or 0 if the token never
// appears in infix/postfix position (literals, statement heads, EOL).
func (t Token) LBP() int {
	var key string
	switch t.Kind {
	case Prefix:
		key = "PREFIX"
	case Infix, InfixR:
		key = t.Literal
	case Bind:
		key = "<-"
	case LeftConditional:
		key = "if"
	case RightConditional:
		key = "else"
	case Concatenator:
		key = ","
	case Pair:
		key = ":"
	case Call, Index:
		key = "LEFT_BRACKET"
	case RightBracket:
		key = "RIGHT_BRACKET"
	default:
		return 0
	}
	return lbpTable[key]
}

// IsPrefixContext reports whether, when this token is about to be scanned
// next, an upcoming bracket or otherwise-ambiguous operator must take its
// prefix (NUD-only) reading rather than its infix (LED) reading.
func (t Token) IsPrefixContext() bool {
	switch t.Kind {
	case Prefix, Infix, Bind, LeftConditional, RightConditional,
		InfixR, Concatenator, Pair, Call, Index, EOL:
		return true
	default:
		return false
	}
}
