package ast

import "fmt"

func decodeLiteralNodes(node map[string]any, typ string) (Node, bool, error) {
	switch NodeType(typ) {
	case NodeIdentifier:
		name, _ := node["name"].(string)
		if name == "" {
			return nil, true, fmt.Errorf("identifier missing name")
		}
		return NewIdentifier(name), true, nil
	case NodeNumberLiteral:
		text, err := numberText(node["value"])
		if err != nil {
			return nil, true, err
		}
		return NewNumberLiteral(text), true, nil
	case NodeStringLiteral:
		val, _ := node["value"].(string)
		return NewStringLiteral(val), true, nil
	case NodeStringTemplate:
		parts, err := decodeTemplateParts(node["parts"])
		if err != nil {
			return nil, true, err
		}
		return NewStringTemplate(parts), true, nil
	case NodeBooleanLiteral:
		val, _ := node["value"].(bool)
		return NewBooleanLiteral(val), true, nil
	case NodeNilLiteral:
		return NewNilLiteral(), true, nil
	case NodeListLiteral:
		elements, err := decodeExpressions(node["elements"])
		if err != nil {
			return nil, true, err
		}
		return NewListLiteral(elements), true, nil
	case NodeTupleLiteral:
		elements, err := decodeExpressions(node["elements"])
		if err != nil {
			return nil, true, err
		}
		return NewTupleLiteral(elements), true, nil
	case NodeMapLiteral:
		items, _ := node["entries"].([]any)
		entries := make([]*MapLiteralEntry, 0, len(items))
		for _, item := range items {
			entryNode, ok := item.(map[string]any)
			if !ok {
				return nil, true, fmt.Errorf("invalid map literal entry %T", item)
			}
			key, err := decodeExpression(entryNode["key"])
			if err != nil {
				return nil, true, err
			}
			value, err := decodeExpression(entryNode["value"])
			if err != nil {
				return nil, true, err
			}
			entry := NewMapLiteralEntry(key, value)
			SetSpan(entry, decodeSpan(entryNode["span"]))
			entries = append(entries, entry)
		}
		return NewMapLiteral(entries), true, nil
	case NodeRegexLiteral:
		pattern, _ := node["pattern"].(string)
		return NewRegexLiteral(pattern), true, nil
	case NodeShellCommand:
		parts, err := decodeTemplateParts(node["parts"])
		if err != nil {
			return nil, true, err
		}
		return NewShellCommand(parts), true, nil
	default:
		return nil, false, nil
	}
}

func decodeExpressionNodes(node map[string]any, typ string) (Node, bool, error) {
	switch NodeType(typ) {
	case NodeGroupExpression:
		inner, err := decodeExpression(node["inner"])
		if err != nil {
			return nil, true, err
		}
		return NewGroupExpression(inner), true, nil
	case NodeUnaryExpression:
		op, _ := node["operator"].(string)
		operand, err := decodeExpression(node["operand"])
		if err != nil {
			return nil, true, err
		}
		return NewUnaryExpression(op, operand), true, nil
	case NodeBinaryExpression:
		op, _ := node["operator"].(string)
		left, err := decodeExpression(node["left"])
		if err != nil {
			return nil, true, err
		}
		right, err := decodeExpression(node["right"])
		if err != nil {
			return nil, true, err
		}
		return NewBinaryExpression(op, left, right), true, nil
	case NodeIndexExpression:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, true, err
		}
		index, err := decodeExpression(node["index"])
		if err != nil {
			return nil, true, err
		}
		return NewIndexExpression(object, index), true, nil
	case NodeSliceExpression:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, true, err
		}
		start, err := decodeOptionalExpression(node["start"])
		if err != nil {
			return nil, true, err
		}
		end, err := decodeOptionalExpression(node["end"])
		if err != nil {
			return nil, true, err
		}
		return NewSliceExpression(object, start, end), true, nil
	case NodeMapAccessExpression:
		object, err := decodeExpression(node["object"])
		if err != nil {
			return nil, true, err
		}
		key, _ := node["key"].(string)
		return NewMapAccessExpression(object, key), true, nil
	case NodeMethodCallExpression:
		receiver, err := decodeExpression(node["receiver"])
		if err != nil {
			return nil, true, err
		}
		method, _ := node["method"].(string)
		args, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, true, err
		}
		return NewMethodCallExpression(receiver, method, args), true, nil
	case NodeCallExpression:
		callee, err := decodeExpression(node["callee"])
		if err != nil {
			return nil, true, err
		}
		args, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, true, err
		}
		return NewCallExpression(callee, args), true, nil
	case NodeAssignmentExpression:
		op, _ := node["operator"].(string)
		target, err := decodeExpression(node["target"])
		if err != nil {
			return nil, true, err
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, true, err
		}
		return NewAssignmentExpression(AssignmentOperator(op), target, value), true, nil
	case NodePostfixExpression:
		op, _ := node["operator"].(string)
		target, err := decodeExpression(node["target"])
		if err != nil {
			return nil, true, err
		}
		return NewPostfixExpression(op, target), true, nil
	default:
		return nil, false, nil
	}
}

func decodeControlFlowNodes(node map[string]any, typ string) (Node, bool, error) {
	switch NodeType(typ) {
	case NodeBlockExpression:
		body, err := decodeStatements(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewBlockExpression(body), true, nil
	case NodeMatchExpression:
		subject, err := decodeOptionalExpression(node["subject"])
		if err != nil {
			return nil, true, err
		}
		items, _ := node["arms"].([]any)
		arms := make([]*MatchArm, 0, len(items))
		for _, item := range items {
			armNode, ok := item.(map[string]any)
			if !ok {
				return nil, true, fmt.Errorf("invalid match arm %T", item)
			}
			pattern, err := decodePattern(armNode["pattern"])
			if err != nil {
				return nil, true, err
			}
			body, err := decodeExpression(armNode["body"])
			if err != nil {
				return nil, true, err
			}
			arm := NewMatchArm(pattern, body)
			SetSpan(arm, decodeSpan(armNode["span"]))
			arms = append(arms, arm)
		}
		return NewMatchExpression(subject, arms), true, nil
	case NodeReturnExpression:
		value, err := decodeOptionalExpression(node["value"])
		if err != nil {
			return nil, true, err
		}
		return NewReturnExpression(value), true, nil
	case NodeBreakExpression:
		label, err := decodeOptionalIdentifier(node["label"])
		if err != nil {
			return nil, true, err
		}
		value, err := decodeOptionalExpression(node["value"])
		if err != nil {
			return nil, true, err
		}
		return NewBreakExpression(label, value), true, nil
	case NodeContinueExpression:
		label, err := decodeOptionalIdentifier(node["label"])
		if err != nil {
			return nil, true, err
		}
		return NewContinueExpression(label), true, nil
	case NodeLoopExpression:
		label, err := decodeOptionalIdentifier(node["label"])
		if err != nil {
			return nil, true, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewLoopExpression(label, body), true, nil
	case NodeLoopThroughExpression:
		label, err := decodeOptionalIdentifier(node["label"])
		if err != nil {
			return nil, true, err
		}
		iterable, err := decodeExpression(node["iterable"])
		if err != nil {
			return nil, true, err
		}
		items, _ := node["bindings"].([]any)
		bindings := make([]*Identifier, 0, len(items))
		for _, item := range items {
			id, err := decodeOptionalIdentifier(item)
			if err != nil {
				return nil, true, err
			}
			if id == nil {
				return nil, true, fmt.Errorf("empty loop binding")
			}
			bindings = append(bindings, id)
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewLoopThroughExpression(label, iterable, bindings, body), true, nil
	default:
		return nil, false, nil
	}
}

func decodeDefinitionNodes(node map[string]any, typ string) (Node, bool, error) {
	switch NodeType(typ) {
	case NodeFunctionLiteral:
		params, err := decodeParams(node["params"])
		if err != nil {
			return nil, true, err
		}
		body, err := decodeStatement(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewFunctionLiteral(params, body), true, nil
	case NodeFunctionDefinition:
		id, err := decodeOptionalIdentifier(node["id"])
		if err != nil {
			return nil, true, err
		}
		if id == nil {
			return nil, true, fmt.Errorf("function definition missing id")
		}
		params, err := decodeParams(node["params"])
		if err != nil {
			return nil, true, err
		}
		body, err := decodeStatement(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewFunctionDefinition(id, params, body), true, nil
	case NodeImportStatement:
		module, _ := node["module"].(string)
		if module == "" {
			return nil, true, fmt.Errorf("import missing module")
		}
		item, _ := node["item"].(string)
		alias, err := decodeOptionalIdentifier(node["alias"])
		if err != nil {
			return nil, true, err
		}
		return NewImportStatement(module, item, alias), true, nil
	case NodeExportStatement:
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, true, err
		}
		return NewExportStatement(value), true, nil
	default:
		return nil, false, nil
	}
}
