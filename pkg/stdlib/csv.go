package stdlib

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func csvModule(r Registrar) *runtime.MapValue {
	return moduleFunctions(r, "std:csv", map[string]runtime.NativeFunc{
		"parse": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("csv:parse", args, 1, 2); err != nil {
				return nil, err
			}
			text, err := stringArg("csv:parse", args, 0)
			if err != nil {
				return nil, err
			}
			headers := false
			if len(args) == 2 {
				b, ok := args[1].(runtime.BoolValue)
				if !ok {
					return nil, argTypeError("csv:parse", 1, "a boolean", args[1])
				}
				headers = b.Val
			}
			return DecodeCSV(text, headers)
		},
		"generate": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("csv:generate", args, 1, 1); err != nil {
				return nil, err
			}
			text, err := EncodeCSV(args[0])
			if err != nil {
				return nil, err
			}
			return runtime.String(text), nil
		},
	})
}

// DecodeCSV returns a list of rows. With headers the first record names the
// fields and every later row becomes a map.
func DecodeCSV(text string, headers bool) (runtime.Value, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, runtime.Errorf(runtime.ErrCSVParse, "%v", err)
	}
	rows := make([]runtime.Value, 0, len(records))
	if !headers {
		for _, record := range records {
			rows = append(rows, stringList(record))
		}
		return runtime.ListValue{Elements: rows}, nil
	}
	if len(records) == 0 {
		return runtime.ListValue{}, nil
	}
	names := records[0]
	for line, record := range records[1:] {
		if len(record) != len(names) {
			return nil, runtime.Errorf(runtime.ErrCSVParse, "record %d has %d fields, header has %d", line+2, len(record), len(names))
		}
		row := runtime.NewMap()
		for idx, name := range names {
			row.SetString(name, runtime.String(record[idx]))
		}
		rows = append(rows, row)
	}
	return runtime.ListValue{Elements: rows}, nil
}

// EncodeCSV renders a list of lists, or a list of maps sharing the first
// map's keys as the header row.
func EncodeCSV(v runtime.Value) (string, error) {
	list, ok := v.(runtime.ListValue)
	if !ok {
		return "", runtime.Errorf(runtime.ErrCSVGenerate, "expected a list of rows, got %s", runtime.TypeName(v))
	}
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	var header []runtime.Value
	for idx, row := range list.Elements {
		var fields []string
		switch r := row.(type) {
		case runtime.ListValue:
			fields = make([]string, len(r.Elements))
			for col, cell := range r.Elements {
				fields[col] = runtime.Stringify(cell)
			}
		case runtime.TupleValue:
			fields = make([]string, len(r.Elements))
			for col, cell := range r.Elements {
				fields[col] = runtime.Stringify(cell)
			}
		case *runtime.MapValue:
			if header == nil {
				header = r.Keys()
				names := make([]string, len(header))
				for col, key := range header {
					names[col] = runtime.Stringify(key)
				}
				if err := writer.Write(names); err != nil {
					return "", runtime.Errorf(runtime.ErrCSVGenerate, "%v", err)
				}
			}
			fields = make([]string, len(header))
			for col, key := range header {
				mk, err := runtime.NewMapKey(key)
				if err != nil {
					return "", err
				}
				if cell, found := r.Get(mk); found {
					fields[col] = runtime.Stringify(cell)
				}
			}
		default:
			return "", runtime.Errorf(runtime.ErrCSVGenerate, "row %d must be a list or map, got %s", idx+1, runtime.TypeName(row))
		}
		if err := writer.Write(fields); err != nil {
			return "", runtime.Errorf(runtime.ErrCSVGenerate, "%v", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", runtime.Errorf(runtime.ErrCSVGenerate, "%v", err)
	}
	return buf.String(), nil
}
