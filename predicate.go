package river

import (
	"github.com/pkg/errors"

	"github.com/drborges/river/query"
)

// Predicate is the function shape Filter/While/Until/Every/Some ultimately
// run per element. PredicateArg additionally accepts a func(T) bool or a
// query.Doc, per spec §4.3's "pred is either a closure or a Mongo-style
// query object".
type Predicate[T any] func(value T) bool

// PredicateArg is the union of the two predicate forms a caller may pass:
// a typed func(T) bool, a Predicate[T], or a query.Doc compiled against
// each element (using FieldOf with "$value" for scalar elements, or
// struct/map field lookup for composite elements).
type PredicateArg[T any] any

// ResolvePredicate normalizes a PredicateArg into a Predicate[T].
func ResolvePredicate[T any](arg PredicateArg[T]) (Predicate[T], error) {
	switch p := arg.(type) {
	case Predicate[T]:
		return p, nil
	case func(T) bool:
		return p, nil
	case query.Doc:
		compiled, err := query.Compile(p)
		if err != nil {
			return nil, err
		}
		return func(v T) bool { return compiled(v) }, nil
	default:
		return nil, errors.Errorf("river: unsupported predicate type %T", arg)
	}
}
