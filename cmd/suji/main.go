package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/kr/pretty"

	"github.com/suji-lang/suji-sub002/pkg/driver"
	"github.com/suji-lang/suji-sub002/pkg/interpreter"
	"github.com/suji-lang/suji-sub002/pkg/stdlib"
)

const cliToolVersion = "suji-cli 0.0.0-dev"

type globalOptions struct {
	configPath string
	logLevel   string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, args, err := parseGlobalOptions(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runScript(opts, args[1:])
	case "dump":
		return runDump(args[1:])
	case "modules":
		return runModules(opts, args[1:])
	default:
		return runScript(opts, args)
	}
}

// parseGlobalOptions strips leading --config/--log-level flags.
func parseGlobalOptions(args []string) (globalOptions, []string, error) {
	var opts globalOptions
	for len(args) > 0 && strings.HasPrefix(args[0], "--") {
		name, value, inline := strings.Cut(args[0], "=")
		var target *string
		switch name {
		case "--config":
			target = &opts.configPath
		case "--log-level":
			target = &opts.logLevel
		default:
			return opts, args, nil
		}
		if !inline {
			if len(args) < 2 {
				return opts, nil, fmt.Errorf("%s requires a value", name)
			}
			value = args[1]
			args = args[1:]
		}
		*target = value
		args = args[1:]
	}
	return opts, args, nil
}

func printUsage() {
	fmt.Fprintf(os.Stdout, `usage: suji [--config suji.yml] [--log-level level] <command>

commands:
  run <module.suji.json|yaml> [args...]   evaluate a module
  dump <module.suji.json|yaml>            print the decoded syntax tree
  modules fetch                           fetch git_modules into the cache
  version                                 print the CLI version
`)
}

// loadConfig reads --config, else the nearest suji.yml above dir, else the
// defaults with dir as the only module path.
func loadConfig(opts globalOptions, dir string) (*driver.Config, error) {
	path := opts.configPath
	if path == "" {
		path = driver.FindConfig(dir)
	}
	var cfg *driver.Config
	if path != "" {
		loaded, err := driver.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		defaults := driver.DefaultConfig()
		defaults.ModulePaths = []string{dir}
		defaults.CacheDir = filepath.Join(dir, defaults.CacheDir)
		cfg = &defaults
	}
	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	lvl, err := log.ValidateLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLogLevel(lvl)
	return cfg, nil
}

func runScript(opts globalOptions, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "run requires a module file")
		return 1
	}
	entry, err := filepath.Abs(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve %s: %v\n", args[0], err)
		return 1
	}
	cfg, err := loadConfig(opts, filepath.Dir(entry))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	module, err := driver.ParseModuleFile(entry)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	interp := interpreter.New(cfg.InterpreterOptions()...)
	stdlib.Install(interp)
	loader, err := driver.NewLoaderFromConfig(interp, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	interp.SetModuleSource(loader.Load)
	stdlib.ScriptArgs = append([]string(nil), args[1:]...)

	log.LogVf("running %s", entry)
	if _, _, err := interp.EvaluateModule(module); err != nil {
		if code, ok := interpreter.ExitCodeFromError(err); ok {
			return code
		}
		fmt.Fprintln(os.Stderr, interpreter.DescribeError(err))
		return 1
	}
	return 0
}

func runDump(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "dump requires exactly one module file")
		return 1
	}
	module, err := driver.ParseModuleFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	pretty.Fprintf(os.Stdout, "%# v\n", module)
	return 0
}

func runModules(opts globalOptions, args []string) int {
	if len(args) != 1 || args[0] != "fetch" {
		fmt.Fprintln(os.Stderr, "usage: suji modules fetch")
		return 1
	}
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg, err := loadConfig(opts, wd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	if len(cfg.GitModules) == 0 {
		fmt.Fprintln(os.Stdout, "no git modules configured")
		return 0
	}
	results, err := driver.NewGitFetcher(cfg.CacheDir).FetchAll(cfg.GitModules)
	for _, result := range results {
		fmt.Fprintf(os.Stdout, "%s %s %s\n", result.Name, result.Version, result.Dir)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
