package runtime

import "strings"

// ValuesEqual is structural for data and identity for functions and streams.
func ValuesEqual(a, b Value) bool {
	a, b = Resolved(a), Resolved(b)
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	switch av := a.(type) {
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av.Cmp(bv) == 0
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case ListValue:
		bv, ok := b.(ListValue)
		return ok && sequencesEqual(av.Elements, bv.Elements)
	case TupleValue:
		bv, ok := b.(TupleValue)
		return ok && sequencesEqual(av.Elements, bv.Elements)
	case *MapValue:
		bv, ok := b.(*MapValue)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, entry := range av.Entries() {
			other, ok := bv.Get(entry.Key)
			if !ok || !ValuesEqual(entry.Value, other) {
				return false
			}
		}
		return true
	case *FunctionValue:
		bv, ok := b.(*FunctionValue)
		if !ok {
			return false
		}
		if av.IsBuiltin() || bv.IsBuiltin() {
			return av.Builtin == bv.Builtin
		}
		return av == bv
	case *RegexValue:
		bv, ok := b.(*RegexValue)
		return ok && av.Source == bv.Source
	case *StreamValue:
		bv, ok := b.(*StreamValue)
		return ok && av == bv
	case StreamProxyValue:
		bv, ok := b.(StreamProxyValue)
		return ok && av.Which == bv.Which
	case EnvMapValue:
		_, ok := b.(EnvMapValue)
		return ok
	case ModuleValue:
		bv, ok := b.(ModuleValue)
		return ok && av.Path == bv.Path
	default:
		return false
	}
}

func sequencesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if !ValuesEqual(a[idx], b[idx]) {
			return false
		}
	}
	return true
}

// CompareValues orders numbers with numbers and strings with strings.
func CompareValues(op string, a, b Value) (int, error) {
	switch av := a.(type) {
	case NumberValue:
		if bv, ok := b.(NumberValue); ok {
			return av.Cmp(bv), nil
		}
	case StringValue:
		if bv, ok := b.(StringValue); ok {
			return strings.Compare(av.Val, bv.Val), nil
		}
	}
	return 0, TypeMismatch(op, a, b)
}
