package stdlib

import (
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func regexModule(r Registrar) *runtime.MapValue {
	return moduleFunctions(r, "std:regex", map[string]runtime.NativeFunc{
		"compile": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("regex:compile", args, 1, 1); err != nil {
				return nil, err
			}
			pattern, err := stringArg("regex:compile", args, 0)
			if err != nil {
				return nil, err
			}
			return runtime.CompileRegex(pattern)
		},
		"matches": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			re, text, err := regexAndText("regex:matches", args, 2)
			if err != nil {
				return nil, err
			}
			return runtime.Bool(re.Re.MatchString(text)), nil
		},
		"find_all": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			re, text, err := regexAndText("regex:find_all", args, 2)
			if err != nil {
				return nil, err
			}
			return stringList(re.Re.FindAllString(text, -1)), nil
		},
		"replace": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			re, text, err := regexAndText("regex:replace", args, 3)
			if err != nil {
				return nil, err
			}
			repl, err := stringArg("regex:replace", args, 2)
			if err != nil {
				return nil, err
			}
			return runtime.String(re.Re.ReplaceAllString(text, repl)), nil
		},
	})
}

// regexAndText reads the (pattern, text, ...) prefix shared by the module
// functions.
func regexAndText(name string, args []runtime.Value, want int) (*runtime.RegexValue, string, error) {
	if err := arity(name, args, want, want); err != nil {
		return nil, "", err
	}
	re, err := regexArg(name, args, 0)
	if err != nil {
		return nil, "", err
	}
	text, err := stringArg(name, args, 1)
	if err != nil {
		return nil, "", err
	}
	return re, text, nil
}
