package runtime

import (
	"strconv"
	"strings"
)

// Stringify renders a value for output: strings appear raw at the top level
// and quoted inside containers.
func Stringify(v Value) string {
	if s, ok := Resolved(v).(StringValue); ok {
		return s.Val
	}
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// Inspect renders a value with strings quoted.
func Inspect(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch val := v.(type) {
	case nil, NilValue:
		b.WriteString("nil")
	case BoolValue:
		b.WriteString(strconv.FormatBool(val.Val))
	case NumberValue:
		b.WriteString(val.String())
	case StringValue:
		b.WriteString(strconv.Quote(val.Val))
	case ListValue:
		b.WriteByte('[')
		writeSequence(b, val.Elements)
		b.WriteByte(']')
	case TupleValue:
		b.WriteByte('(')
		writeSequence(b, val.Elements)
		if len(val.Elements) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case *MapValue:
		b.WriteByte('{')
		for idx, entry := range val.Entries() {
			if idx > 0 {
				b.WriteString(", ")
			}
			writeValue(b, entry.Key.Value())
			b.WriteString(": ")
			writeValue(b, entry.Value)
		}
		b.WriteByte('}')
	case *FunctionValue:
		if val.Name != "" {
			b.WriteString("<function " + val.Name + ">")
		} else {
			b.WriteString("<function>")
		}
	case *RegexValue:
		b.WriteString("/" + val.Source + "/")
	case *StreamValue:
		b.WriteString(val.String())
	case StreamProxyValue:
		b.WriteString("<stream " + val.Which.String() + ">")
	case EnvMapValue:
		b.WriteString("<env>")
	case ModuleValue:
		if val.Cell.Loaded() {
			writeValue(b, val.Cell.value)
			return
		}
		b.WriteString("<module " + val.Path + ">")
	default:
		b.WriteString("<" + TypeName(v) + ">")
	}
}

func writeSequence(b *strings.Builder, elements []Value) {
	for idx, el := range elements {
		if idx > 0 {
			b.WriteString(", ")
		}
		writeValue(b, el)
	}
}
