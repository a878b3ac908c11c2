// Package expr implements the boolean dependency expression language used by
// feature declarations.
//
// Grammar, lowest precedence first:
//
//	or      = and { "||" and }
//	and     = unary { "&&" unary }
//	unary   = "!" unary | primary
//	primary = ident | "(" or ")"
//
// Identifiers are feature names made of letters, digits and `_ - . +`.
// An empty expression is the constant true.
package expr
