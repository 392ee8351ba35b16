// Package query implements the Mongo-style predicate mini-DSL spec §4.3
// requires Filter/While/Until/Every/Some to accept: a Doc whose values are
// either literals (implying $eq) or a nested operator map using
// $lt/$lte/$gt/$gte/$eq/$ne/$in/$nin.
package query

import (
	"reflect"

	"github.com/pkg/errors"
)

// Doc is a query document. A bare value implies $eq; a nested map is a set
// of operators, all of which must hold (implicit $and).
type Doc map[string]any

var operators = map[string]func(actual, operand any) (bool, error){
	"$eq":  func(a, o any) (bool, error) { return equal(a, o), nil },
	"$ne":  func(a, o any) (bool, error) { return !equal(a, o), nil },
	"$lt":  func(a, o any) (bool, error) { return compareOrdered(a, o, func(c int) bool { return c < 0 }) },
	"$lte": func(a, o any) (bool, error) { return compareOrdered(a, o, func(c int) bool { return c <= 0 }) },
	"$gt":  func(a, o any) (bool, error) { return compareOrdered(a, o, func(c int) bool { return c > 0 }) },
	"$gte": func(a, o any) (bool, error) { return compareOrdered(a, o, func(c int) bool { return c >= 0 }) },
	"$in":  func(a, o any) (bool, error) { return memberOf(a, o) },
	"$nin": func(a, o any) (bool, error) { ok, err := memberOf(a, o); return !ok, err },
}

// Compile turns doc into a predicate over arbitrary values, fetching each
// field the predicate's caller extracted via FieldOf (or, for a scalar
// stream, the value itself under the key "$value").
func Compile(doc Doc) (func(any) bool, error) {
	type check struct {
		field string
		op    string
		fn    func(actual, operand any) (bool, error)
		arg   any
	}
	var checks []check
	for field, spec := range doc {
		ops, isDoc := spec.(Doc)
		if !isDoc {
			if nested, ok := spec.(map[string]any); ok {
				ops = Doc(nested)
				isDoc = true
			}
		}
		if !isDoc {
			fn := operators["$eq"]
			checks = append(checks, check{field, "$eq", fn, spec})
			continue
		}
		for op, arg := range ops {
			fn, ok := operators[op]
			if !ok {
				return nil, errors.Errorf("query: unsupported operator %q", op)
			}
			checks = append(checks, check{field, op, fn, arg})
		}
	}

	return func(v any) bool {
		for _, c := range checks {
			actual := FieldOf(v, c.field)
			ok, err := c.fn(actual, c.arg)
			if err != nil || !ok {
				return false
			}
		}
		return true
	}, nil
}

// FieldOf extracts field from v: the special field "$value" returns v
// itself (for scalar streams); any other name is looked up as a struct
// field or map key via reflection.
func FieldOf(v any, field string) any {
	if field == "$value" {
		return v
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		val := rv.MapIndex(reflect.ValueOf(field))
		if !val.IsValid() {
			return nil
		}
		return val.Interface()
	case reflect.Struct:
		val := rv.FieldByName(field)
		if !val.IsValid() {
			return nil
		}
		return val.Interface()
	default:
		return nil
	}
}

func equal(a, o any) bool {
	return reflect.DeepEqual(a, o)
}

func compareOrdered(a, o any, test func(int) bool) (bool, error) {
	c, err := compare(a, o)
	if err != nil {
		return false, err
	}
	return test(c), nil
}

// compare orders two scalars, supporting the numeric and string kinds a
// filtered stream realistically carries.
func compare(a, o any) (int, error) {
	av, aok := toFloat(a)
	ov, ook := toFloat(o)
	if aok && ook {
		switch {
		case av < ov:
			return -1, nil
		case av > ov:
			return 1, nil
		default:
			return 0, nil
		}
	}
	as, aok := a.(string)
	os, ook := o.(string)
	if aok && ook {
		switch {
		case as < os:
			return -1, nil
		case as > os:
			return 1, nil
		default:
			return 0, nil
		}
	}
	return 0, errors.Errorf("query: cannot order %T against %T", a, o)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func memberOf(a, o any) (bool, error) {
	ov := reflect.ValueOf(o)
	if ov.Kind() != reflect.Slice && ov.Kind() != reflect.Array {
		return false, errors.Errorf("query: $in/$nin operand must be a slice, got %T", o)
	}
	for i := 0; i < ov.Len(); i++ {
		if equal(a, ov.Index(i).Interface()) {
			return true, nil
		}
	}
	return false, nil
}
