package stdlib

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func jsonModule(r Registrar) *runtime.MapValue {
	return moduleFunctions(r, "std:json", map[string]runtime.NativeFunc{
		"parse": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("json:parse", args, 1, 1); err != nil {
				return nil, err
			}
			text, err := stringArg("json:parse", args, 0)
			if err != nil {
				return nil, err
			}
			return DecodeJSON(text)
		},
		"generate": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("json:generate", args, 1, 1); err != nil {
				return nil, err
			}
			text, err := EncodeJSON(args[0])
			if err != nil {
				return nil, err
			}
			return runtime.String(text), nil
		},
	})
}

// DecodeJSON converts a JSON document into runtime values. Object key order
// is preserved and numbers stay exact.
func DecodeJSON(text string) (runtime.Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	val, err := decodeJSONValue(dec)
	if err != nil {
		return nil, jsonParseError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, runtime.Errorf(runtime.ErrJSONParse, "unexpected data after top-level value")
	}
	return val, nil
}

func jsonParseError(err error) error {
	var rtErr *runtime.Error
	if errors.As(err, &rtErr) {
		return err
	}
	return runtime.Errorf(runtime.ErrJSONParse, "%v", err)
}

func decodeJSONValue(dec *json.Decoder) (runtime.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := runtime.NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, runtime.Errorf(runtime.ErrJSONParse, "object key must be a string")
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.SetString(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			var elements []runtime.Value
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				elements = append(elements, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return runtime.ListValue{Elements: elements}, nil
		default:
			return nil, runtime.Errorf(runtime.ErrJSONParse, "unexpected delimiter %s", t)
		}
	case json.Number:
		return runtime.ParseNumber(t.String())
	case string:
		return runtime.String(t), nil
	case bool:
		return runtime.Bool(t), nil
	case nil:
		return runtime.Nil, nil
	default:
		return nil, runtime.Errorf(runtime.ErrJSONParse, "unexpected token %v", tok)
	}
}

// EncodeJSON renders v as compact JSON, keeping map insertion order.
func EncodeJSON(v runtime.Value) (string, error) {
	var buf bytes.Buffer
	if err := encodeJSONValue(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeJSONValue(buf *bytes.Buffer, v runtime.Value) error {
	switch val := v.(type) {
	case nil, runtime.NilValue:
		buf.WriteString("null")
	case runtime.BoolValue:
		if val.Val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case runtime.NumberValue:
		buf.WriteString(val.String())
	case runtime.StringValue:
		writeJSONString(buf, val.Val)
	case runtime.ListValue:
		return encodeJSONArray(buf, val.Elements)
	case runtime.TupleValue:
		return encodeJSONArray(buf, val.Elements)
	case *runtime.MapValue:
		buf.WriteByte('{')
		for idx, entry := range val.Entries() {
			if idx > 0 {
				buf.WriteByte(',')
			}
			key, err := scalarKey(entry.Key.Value(), runtime.ErrJSONGenerate)
			if err != nil {
				return err
			}
			writeJSONString(buf, key)
			buf.WriteByte(':')
			if err := encodeJSONValue(buf, entry.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return runtime.Errorf(runtime.ErrJSONGenerate, "cannot represent %s as JSON", runtime.TypeName(v))
	}
	return nil
}

func encodeJSONArray(buf *bytes.Buffer, elements []runtime.Value) error {
	buf.WriteByte('[')
	for idx, el := range elements {
		if idx > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSONValue(buf, el); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1)
}

// scalarKey renders a map key for formats whose keys are always strings.
func scalarKey(key runtime.Value, kind runtime.ErrorKind) (string, error) {
	switch k := key.(type) {
	case runtime.StringValue:
		return k.Val, nil
	case runtime.NumberValue, runtime.BoolValue:
		return runtime.Stringify(k), nil
	default:
		return "", runtime.Errorf(kind, "map key of type %s cannot be encoded", runtime.TypeName(key))
	}
}
