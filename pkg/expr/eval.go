package expr

import "fmt"

// Lookup resolves a feature name to its truth value
type Lookup func(name string) (bool, error)

// Eval evaluates e against lookup. && and || short-circuit.
func Eval(e Expr, lookup Lookup) (bool, error) {
	switch n := e.(type) {
	case Const:
		return n.Value, nil
	case Ident:
		return lookup(n.Name)
	case Not:
		v, err := Eval(n.X, lookup)
		if err != nil {
			return false, err
		}
		return !v, nil
	case And:
		l, err := Eval(n.L, lookup)
		if err != nil || !l {
			return false, err
		}
		return Eval(n.R, lookup)
	case Or:
		l, err := Eval(n.L, lookup)
		if err != nil {
			return false, err
		}
		if l {
			return true, nil
		}
		return Eval(n.R, lookup)
	default:
		return false, fmt.Errorf("unsupported expression node %T", e)
	}
}

// MapLookup returns a Lookup backed by a map. Missing names are an error.
func MapLookup(values map[string]bool) Lookup {
	return func(name string) (bool, error) {
		v, ok := values[name]
		if !ok {
			return false, fmt.Errorf("unknown identifier %q", name)
		}
		return v, nil
	}
}
