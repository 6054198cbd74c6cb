package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/interpreter"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
	"github.com/suji-lang/suji-sub002/pkg/stdlib"
)

// DirModuleFile is the entry file of a directory module.
const DirModuleFile = "mod.suji.json"

var sourceExtensions = []string{".suji.json", ".suji.yaml", ".suji.yml"}

var dataExtensions = []string{".json", ".yaml", ".yml", ".toml"}

// Loader resolves non-builtin module paths to files on disk, either below
// the configured search paths or inside fetched git modules.
type Loader struct {
	interp      *interpreter.Interpreter
	searchPaths []string
	gitModules  map[string]*GitModuleSpec
	fetcher     *GitFetcher
	gitRoots    map[string]string
}

// NewLoader builds a loader over the given search paths. Paths are made
// absolute; empty entries are skipped.
func NewLoader(interp *interpreter.Interpreter, searchPaths []string) (*Loader, error) {
	l := &Loader{interp: interp, gitRoots: make(map[string]string)}
	for _, p := range searchPaths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("loader: resolve search path %s: %w", p, err)
		}
		l.searchPaths = append(l.searchPaths, abs)
	}
	return l, nil
}

// NewLoaderFromConfig wires the config's module paths and git modules.
func NewLoaderFromConfig(interp *interpreter.Interpreter, cfg *Config) (*Loader, error) {
	l, err := NewLoader(interp, cfg.ModulePaths)
	if err != nil {
		return nil, err
	}
	l.gitModules = cfg.GitModules
	l.fetcher = NewGitFetcher(cfg.CacheDir)
	return l, nil
}

// AddGitRoot binds a module name to an already fetched checkout.
func (l *Loader) AddGitRoot(name, dir string) {
	l.gitRoots[name] = dir
}

// Load implements interpreter.ModuleSource.
func (l *Loader) Load(path string) (runtime.Value, error) {
	if path == "" || strings.Contains(path, "..") {
		return nil, runtime.Errorf(runtime.ErrModuleNotFound, "module '%s' not found", path)
	}
	roots, rel, err := l.rootsFor(path)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		base := root
		if rel != "" {
			base = filepath.Join(root, filepath.FromSlash(rel))
		}
		if val, ok, err := l.loadCandidate(path, base); ok || err != nil {
			return val, err
		}
	}
	return nil, runtime.Errorf(runtime.ErrModuleNotFound, "module '%s' not found", path)
}

// rootsFor picks the directories to search. A path whose first segment names
// a git module is served from that checkout only.
func (l *Loader) rootsFor(path string) ([]string, string, error) {
	head, rest, _ := strings.Cut(path, "/")
	if dir, ok := l.gitRoots[head]; ok {
		return []string{dir}, rest, nil
	}
	if spec, ok := l.gitModules[head]; ok {
		result, err := l.fetcher.Fetch(head, spec)
		if err != nil {
			return nil, "", runtime.Errorf(runtime.ErrModuleNotFound, "module '%s': %v", path, err)
		}
		l.gitRoots[head] = result.Dir
		return []string{result.Dir}, rest, nil
	}
	return l.searchPaths, path, nil
}

func (l *Loader) loadCandidate(path, base string) (runtime.Value, bool, error) {
	for _, ext := range sourceExtensions {
		if file := base + ext; isFile(file) {
			val, err := l.loadSource(file)
			return val, true, err
		}
	}
	for _, ext := range dataExtensions {
		if file := base + ext; isFile(file) {
			val, err := loadData(file, ext)
			return val, true, err
		}
	}
	if info, err := os.Stat(base); err == nil && info.IsDir() {
		if file := filepath.Join(base, DirModuleFile); isFile(file) {
			val, err := l.loadSource(file)
			return val, true, err
		}
	}
	log.LogVf("module %s not under %s", path, base)
	return nil, false, nil
}

func (l *Loader) loadSource(file string) (runtime.Value, error) {
	module, err := ParseModuleFile(file)
	if err != nil {
		return nil, err
	}
	log.LogVf("evaluating module %s", file)
	return l.interp.EvaluateModuleExports(module)
}

// ParseModuleFile decodes a JSON or YAML AST module file.
func ParseModuleFile(file string) (*ast.Module, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", file, err)
	}
	var module *ast.Module
	switch {
	case strings.HasSuffix(file, ".yaml"), strings.HasSuffix(file, ".yml"):
		module, err = ast.ParseYAML(data)
	default:
		module, err = ast.ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", file, err)
	}
	return module, nil
}

func loadData(file, ext string) (runtime.Value, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", file, err)
	}
	switch ext {
	case ".json":
		return stdlib.DecodeJSON(string(data))
	case ".toml":
		return stdlib.DecodeTOML(string(data))
	default:
		return stdlib.DecodeYAML(string(data))
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
