package expr

import "strings"

// Expr is a node of a parsed dependency expression
type Expr interface {
	// String renders the node fully parenthesised
	String() string
	isExpr()
}

// Const is a literal truth value. Only produced for empty input.
type Const struct {
	Value bool
}

// Ident references a feature by name
type Ident struct {
	Name string
	Pos  int
}

// Not negates its operand
type Not struct {
	X Expr
}

// And is true when both operands are true
type And struct {
	L, R Expr
}

// Or is true when either operand is true
type Or struct {
	L, R Expr
}

func (Const) isExpr() {}
func (Ident) isExpr() {}
func (Not) isExpr()   {}
func (And) isExpr()   {}
func (Or) isExpr()    {}

func (c Const) String() string {
	if c.Value {
		return "true"
	}
	return "false"
}

func (i Ident) String() string { return i.Name }
func (n Not) String() string   { return "!" + n.X.String() }
func (a And) String() string   { return "(" + a.L.String() + " && " + a.R.String() + ")" }
func (o Or) String() string    { return "(" + o.L.String() + " || " + o.R.String() + ")" }

// Idents returns the feature names referenced by e in order of first appearance
func Idents(e Expr) []string {
	var names []string
	seen := make(map[string]bool)

	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case Ident:
			if !seen[n.Name] {
				seen[n.Name] = true
				names = append(names, n.Name)
			}
		case Not:
			walk(n.X)
		case And:
			walk(n.L)
			walk(n.R)
		case Or:
			walk(n.L)
			walk(n.R)
		}
	}
	walk(e)

	return names
}

// IsTrivial reports whether src is empty once whitespace is removed
func IsTrivial(src string) bool {
	return strings.TrimSpace(src) == ""
}
