package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type nodeCategoryDecoder func(map[string]any, string) (Node, bool, error)

var nodeDecoders []nodeCategoryDecoder

func init() {
	nodeDecoders = []nodeCategoryDecoder{
		decodeLiteralNodes,
		decodeExpressionNodes,
		decodeControlFlowNodes,
		decodeDefinitionNodes,
	}
}

// ParseJSON decodes the parser's JSON interchange form into a module.
func ParseJSON(data []byte) (*Module, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode module json: %w", err)
	}
	return DecodeModule(raw)
}

// ParseYAML decodes the YAML rendition of the interchange form.
func ParseYAML(data []byte) (*Module, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode module yaml: %w", err)
	}
	return DecodeModule(raw)
}

// DecodeModule builds a Module from a generic map tree.
func DecodeModule(raw map[string]any) (*Module, error) {
	if raw == nil {
		return nil, fmt.Errorf("module node is nil")
	}
	if typ, _ := raw["type"].(string); typ != string(NodeModule) {
		return nil, fmt.Errorf("expected Module node, got %q", typ)
	}
	body, err := decodeStatements(raw["body"])
	if err != nil {
		return nil, err
	}
	mod := NewModule(body)
	SetSpan(mod, decodeSpan(raw["span"]))
	return mod, nil
}

func decodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	for _, decoder := range nodeDecoders {
		decoded, handled, err := decoder(node, typ)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", typ, err)
		}
		if handled {
			SetSpan(decoded, decodeSpan(node["span"]))
			return decoded, nil
		}
	}
	return nil, fmt.Errorf("unsupported node type %q", typ)
}

func decodeExpression(raw any) (Expression, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid expression node %T", raw)
	}
	decoded, err := decodeNode(node)
	if err != nil {
		return nil, err
	}
	expr, ok := decoded.(Expression)
	if !ok {
		return nil, fmt.Errorf("node %s is not an expression", decoded.NodeType())
	}
	return expr, nil
}

func decodeOptionalExpression(raw any) (Expression, error) {
	if raw == nil {
		return nil, nil
	}
	return decodeExpression(raw)
}

func decodeExpressions(raw any) ([]Expression, error) {
	items, _ := raw.([]any)
	out := make([]Expression, 0, len(items))
	for _, item := range items {
		expr, err := decodeExpression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func decodeStatement(raw any) (Statement, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid statement node %T", raw)
	}
	decoded, err := decodeNode(node)
	if err != nil {
		return nil, err
	}
	stmt, ok := decoded.(Statement)
	if !ok {
		return nil, fmt.Errorf("node %s is not a statement", decoded.NodeType())
	}
	return stmt, nil
}

func decodeStatements(raw any) ([]Statement, error) {
	items, _ := raw.([]any)
	out := make([]Statement, 0, len(items))
	for _, item := range items {
		stmt, err := decodeStatement(item)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeBlock(raw any) (*BlockExpression, error) {
	expr, err := decodeExpression(raw)
	if err != nil {
		return nil, err
	}
	block, ok := expr.(*BlockExpression)
	if !ok {
		return nil, fmt.Errorf("expected BlockExpression, got %s", expr.NodeType())
	}
	return block, nil
}

func decodeOptionalIdentifier(raw any) (*Identifier, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		if v == "" {
			return nil, nil
		}
		return NewIdentifier(v), nil
	case map[string]any:
		decoded, err := decodeNode(v)
		if err != nil {
			return nil, err
		}
		id, ok := decoded.(*Identifier)
		if !ok {
			return nil, fmt.Errorf("expected Identifier, got %s", decoded.NodeType())
		}
		return id, nil
	default:
		return nil, fmt.Errorf("invalid identifier %T", raw)
	}
}

func decodeTemplateParts(raw any) ([]TemplatePart, error) {
	items, _ := raw.([]any)
	parts := make([]TemplatePart, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			parts = append(parts, TemplatePart{Text: v})
		case map[string]any:
			if text, ok := v["text"].(string); ok {
				parts = append(parts, TemplatePart{Text: text})
				continue
			}
			exprRaw, ok := v["expr"]
			if !ok {
				exprRaw = v
			}
			expr, err := decodeExpression(exprRaw)
			if err != nil {
				return nil, err
			}
			parts = append(parts, TemplatePart{Expr: expr})
		default:
			return nil, fmt.Errorf("invalid template part %T", item)
		}
	}
	return parts, nil
}

func decodeParams(raw any) ([]*FunctionParameter, error) {
	items, _ := raw.([]any)
	params := make([]*FunctionParameter, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			params = append(params, NewFunctionParameter(v, nil))
		case map[string]any:
			name, _ := v["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("function parameter missing name")
			}
			def, err := decodeOptionalExpression(v["default"])
			if err != nil {
				return nil, err
			}
			param := NewFunctionParameter(name, def)
			SetSpan(param, decodeSpan(v["span"]))
			params = append(params, param)
		default:
			return nil, fmt.Errorf("invalid function parameter %T", item)
		}
	}
	return params, nil
}

func decodePattern(raw any) (Pattern, error) {
	node, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid pattern node %T", raw)
	}
	typ, _ := node["type"].(string)
	var pattern Pattern
	switch typ {
	case string(NodeWildcardPattern):
		pattern = NewWildcardPattern()
	case string(NodeValuePattern):
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, err
		}
		pattern = NewValuePattern(value)
	case string(NodeTuplePattern):
		items, _ := node["elements"].([]any)
		elements := make([]Pattern, 0, len(items))
		for _, item := range items {
			elem, err := decodePattern(item)
			if err != nil {
				return nil, err
			}
			elements = append(elements, elem)
		}
		pattern = NewTuplePattern(elements)
	case string(NodeRegexPattern):
		expr, err := decodeExpression(node["regex"])
		if err != nil {
			return nil, err
		}
		re, ok := expr.(*RegexLiteral)
		if !ok {
			return nil, fmt.Errorf("regex pattern requires RegexLiteral, got %s", expr.NodeType())
		}
		pattern = NewRegexPattern(re)
	default:
		return nil, fmt.Errorf("unsupported pattern type %q", typ)
	}
	SetSpan(pattern, decodeSpan(node["span"]))
	return pattern, nil
}

func decodeSpan(raw any) Span {
	node, ok := raw.(map[string]any)
	if !ok {
		return Span{}
	}
	return Span{Start: decodePosition(node["start"]), End: decodePosition(node["end"])}
}

func decodePosition(raw any) Position {
	node, ok := raw.(map[string]any)
	if !ok {
		return Position{}
	}
	return Position{Line: decodeInt(node["line"]), Column: decodeInt(node["column"])}
}

func decodeInt(raw any) int {
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return 0
}

// numberText keeps number literals exact regardless of how the document encoded them.
func numberText(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("invalid number literal value %T", raw)
	}
}
