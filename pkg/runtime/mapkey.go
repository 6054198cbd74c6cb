package runtime

import (
	"strconv"
	"strings"
)

// MapKey is the hashable projection of a Value. Hash is canonical, so 1 and
// 1.0 address the same entry; Value returns the value the key was built from.
type MapKey struct {
	hash  string
	value Value
}

// NewMapKey validates v as a map key.
func NewMapKey(v Value) (MapKey, error) {
	hash, err := keyHash(v)
	if err != nil {
		return MapKey{}, err
	}
	return MapKey{hash: hash, value: v}, nil
}

// StringKey is a shortcut for string keys, which never fail.
func StringKey(s string) MapKey {
	return MapKey{hash: stringHash(s), value: String(s)}
}

func (k MapKey) Hash() string { return k.hash }

func (k MapKey) Value() Value { return k.value }

func stringHash(s string) string {
	return "s" + strconv.Itoa(len(s)) + ":" + s
}

func keyHash(v Value) (string, error) {
	switch val := v.(type) {
	case StringValue:
		return stringHash(val.Val), nil
	case NumberValue:
		return "n:" + val.String(), nil
	case BoolValue:
		if val.Val {
			return "b:1", nil
		}
		return "b:0", nil
	case TupleValue:
		var b strings.Builder
		b.WriteString("t")
		b.WriteString(strconv.Itoa(len(val.Elements)))
		b.WriteString("(")
		for _, el := range val.Elements {
			part, err := keyHash(el)
			if err != nil {
				return "", err
			}
			b.WriteString(strconv.Itoa(len(part)))
			b.WriteString(":")
			b.WriteString(part)
		}
		b.WriteString(")")
		return b.String(), nil
	default:
		return "", Errorf(ErrInvalidMapKey, "%s cannot be used as a map key", TypeName(v))
	}
}
