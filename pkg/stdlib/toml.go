package stdlib

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func tomlModule(r Registrar) *runtime.MapValue {
	return moduleFunctions(r, "std:toml", map[string]runtime.NativeFunc{
		"parse": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("toml:parse", args, 1, 1); err != nil {
				return nil, err
			}
			text, err := stringArg("toml:parse", args, 0)
			if err != nil {
				return nil, err
			}
			return DecodeTOML(text)
		},
		"generate": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("toml:generate", args, 1, 1); err != nil {
				return nil, err
			}
			text, err := EncodeTOML(args[0])
			if err != nil {
				return nil, err
			}
			return runtime.String(text), nil
		},
	})
}

// tomlOrder records the document position of every key below a table path.
type tomlOrder map[string]map[string]int

func (o tomlOrder) rank(table, key string) (int, bool) {
	pos, ok := o[table][key]
	return pos, ok
}

// DecodeTOML converts a TOML document into a map, ordering keys the way the
// document lists them.
func DecodeTOML(text string) (runtime.Value, error) {
	raw := make(map[string]any)
	md, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, runtime.Errorf(runtime.ErrTOMLParse, "%v", err)
	}
	order := make(tomlOrder)
	for idx, key := range md.Keys() {
		if len(key) == 0 {
			continue
		}
		parent := strings.Join(key[:len(key)-1], ".")
		if order[parent] == nil {
			order[parent] = make(map[string]int)
		}
		if _, seen := order[parent][key[len(key)-1]]; !seen {
			order[parent][key[len(key)-1]] = idx
		}
	}
	return tomlValue(raw, "", order)
}

func tomlValue(raw any, path string, order tomlOrder) (runtime.Value, error) {
	switch v := raw.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.SliceStable(keys, func(a, b int) bool {
			ra, oka := order.rank(path, keys[a])
			rb, okb := order.rank(path, keys[b])
			switch {
			case oka && okb:
				return ra < rb
			case oka != okb:
				return oka
			default:
				return keys[a] < keys[b]
			}
		})
		m := runtime.NewMap()
		for _, k := range keys {
			child := k
			if path != "" {
				child = path + "." + k
			}
			val, err := tomlValue(v[k], child, order)
			if err != nil {
				return nil, err
			}
			m.SetString(k, val)
		}
		return m, nil
	case []map[string]any:
		elements := make([]runtime.Value, 0, len(v))
		for _, table := range v {
			val, err := tomlValue(table, path, order)
			if err != nil {
				return nil, err
			}
			elements = append(elements, val)
		}
		return runtime.ListValue{Elements: elements}, nil
	case []any:
		elements := make([]runtime.Value, 0, len(v))
		for _, item := range v {
			val, err := tomlValue(item, path, order)
			if err != nil {
				return nil, err
			}
			elements = append(elements, val)
		}
		return runtime.ListValue{Elements: elements}, nil
	case string:
		return runtime.String(v), nil
	case bool:
		return runtime.Bool(v), nil
	case int64:
		return runtime.Int(v), nil
	case float64:
		n, err := runtime.ParseNumber(strconv.FormatFloat(v, 'f', -1, 64))
		if err != nil {
			return nil, runtime.Errorf(runtime.ErrTOMLParse, "%s: number is not finite", path)
		}
		return n, nil
	case time.Time:
		return runtime.String(v.Format(time.RFC3339Nano)), nil
	default:
		return nil, runtime.Errorf(runtime.ErrTOMLParse, "%s: unsupported value of type %T", path, raw)
	}
}

// EncodeTOML renders a map as a TOML document. Tables are emitted with
// sorted keys.
func EncodeTOML(v runtime.Value) (string, error) {
	m, ok := v.(*runtime.MapValue)
	if !ok {
		return "", runtime.Errorf(runtime.ErrTOMLGenerate, "TOML documents must be maps, got %s", runtime.TypeName(v))
	}
	native, err := tomlNative(m)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(native); err != nil {
		return "", runtime.Errorf(runtime.ErrTOMLGenerate, "%v", err)
	}
	return buf.String(), nil
}

func tomlNative(v runtime.Value) (any, error) {
	switch val := v.(type) {
	case runtime.BoolValue:
		return val.Val, nil
	case runtime.StringValue:
		return val.Val, nil
	case runtime.NumberValue:
		if n, ok := val.Int64(); ok {
			return n, nil
		}
		return val.Float64(), nil
	case runtime.ListValue:
		return tomlNativeList(val.Elements)
	case runtime.TupleValue:
		return tomlNativeList(val.Elements)
	case *runtime.MapValue:
		out := make(map[string]any, val.Len())
		for _, entry := range val.Entries() {
			key, err := scalarKey(entry.Key.Value(), runtime.ErrTOMLGenerate)
			if err != nil {
				return nil, err
			}
			child, err := tomlNative(entry.Value)
			if err != nil {
				return nil, err
			}
			out[key] = child
		}
		return out, nil
	default:
		return nil, runtime.Errorf(runtime.ErrTOMLGenerate, "cannot represent %s as TOML", runtime.TypeName(v))
	}
}

func tomlNativeList(elements []runtime.Value) (any, error) {
	out := make([]any, 0, len(elements))
	for _, el := range elements {
		child, err := tomlNative(el)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}
