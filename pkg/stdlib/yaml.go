package stdlib

import (
	"bytes"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func yamlModule(r Registrar) *runtime.MapValue {
	return moduleFunctions(r, "std:yaml", map[string]runtime.NativeFunc{
		"parse": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("yaml:parse", args, 1, 1); err != nil {
				return nil, err
			}
			text, err := stringArg("yaml:parse", args, 0)
			if err != nil {
				return nil, err
			}
			return DecodeYAML(text)
		},
		"generate": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("yaml:generate", args, 1, 1); err != nil {
				return nil, err
			}
			text, err := EncodeYAML(args[0])
			if err != nil {
				return nil, err
			}
			return runtime.String(text), nil
		},
	})
}

// DecodeYAML converts a YAML document into runtime values through the node
// API so mapping order survives.
func DecodeYAML(text string) (runtime.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, runtime.Errorf(runtime.ErrYAMLParse, "%v", err)
	}
	if doc.Kind == 0 {
		return runtime.Nil, nil
	}
	return yamlNodeValue(&doc)
}

func yamlNodeValue(node *yaml.Node) (runtime.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return runtime.Nil, nil
		}
		return yamlNodeValue(node.Content[0])
	case yaml.AliasNode:
		return yamlNodeValue(node.Alias)
	case yaml.SequenceNode:
		elements := make([]runtime.Value, 0, len(node.Content))
		for _, child := range node.Content {
			val, err := yamlNodeValue(child)
			if err != nil {
				return nil, err
			}
			elements = append(elements, val)
		}
		return runtime.ListValue{Elements: elements}, nil
	case yaml.MappingNode:
		m := runtime.NewMap()
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			keyVal, err := yamlNodeValue(node.Content[idx])
			if err != nil {
				return nil, err
			}
			key, err := runtime.NewMapKey(keyVal)
			if err != nil {
				return nil, runtime.Errorf(runtime.ErrYAMLParse, "line %d: %s", node.Content[idx].Line, runtime.MessageOf(err))
			}
			val, err := yamlNodeValue(node.Content[idx+1])
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil
	case yaml.ScalarNode:
		return yamlScalarValue(node)
	default:
		return nil, runtime.Errorf(runtime.ErrYAMLParse, "line %d: unsupported node", node.Line)
	}
}

func yamlScalarValue(node *yaml.Node) (runtime.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return runtime.Nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, runtime.Errorf(runtime.ErrYAMLParse, "line %d: %v", node.Line, err)
		}
		return runtime.Bool(b), nil
	case "!!int", "!!float":
		if n, err := runtime.ParseNumber(node.Value); err == nil {
			return n, nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, runtime.Errorf(runtime.ErrYAMLParse, "line %d: %v", node.Line, err)
		}
		n, err := runtime.ParseNumber(strconv.FormatFloat(f, 'f', -1, 64))
		if err != nil {
			return nil, runtime.Errorf(runtime.ErrYAMLParse, "line %d: number %q is not finite", node.Line, node.Value)
		}
		return n, nil
	default:
		return runtime.String(node.Value), nil
	}
}

// EncodeYAML renders v as a YAML document with two-space indentation.
func EncodeYAML(v runtime.Value) (string, error) {
	node, err := yamlNodeFor(v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", runtime.Errorf(runtime.ErrYAMLGenerate, "%v", err)
	}
	if err := enc.Close(); err != nil {
		return "", runtime.Errorf(runtime.ErrYAMLGenerate, "%v", err)
	}
	return buf.String(), nil
}

func yamlNodeFor(v runtime.Value) (*yaml.Node, error) {
	switch val := v.(type) {
	case nil, runtime.NilValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case runtime.BoolValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val.Val)}, nil
	case runtime.NumberValue:
		tag := "!!float"
		if val.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}, nil
	case runtime.StringValue:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val.Val}, nil
	case runtime.ListValue:
		return yamlSequence(val.Elements)
	case runtime.TupleValue:
		return yamlSequence(val.Elements)
	case *runtime.MapValue:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, entry := range val.Entries() {
			key, err := scalarKey(entry.Key.Value(), runtime.ErrYAMLGenerate)
			if err != nil {
				return nil, err
			}
			child, err := yamlNodeFor(entry.Value)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, child)
		}
		return node, nil
	default:
		return nil, runtime.Errorf(runtime.ErrYAMLGenerate, "cannot represent %s as YAML", runtime.TypeName(v))
	}
}

func yamlSequence(elements []runtime.Value) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, el := range elements {
		child, err := yamlNodeFor(el)
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, child)
	}
	return node, nil
}
