package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/suji-lang/suji-sub002/pkg/interpreter"
)

// ConfigFileName is the project configuration file looked up by the CLI.
const ConfigFileName = "suji.yml"

// Config represents the parsed contents of suji.yml.
type Config struct {
	Path         string                    `yaml:"-"`
	LogLevel     string                    `yaml:"log_level"`
	MaxCallDepth int                       `yaml:"max_call_depth"`
	ModulePaths  []string                  `yaml:"module_paths"`
	Shell        string                    `yaml:"shell"`
	CacheDir     string                    `yaml:"cache_dir"`
	GitModules   map[string]*GitModuleSpec `yaml:"git_modules"`
}

// GitModuleSpec pins a module name to a git repository.
type GitModuleSpec struct {
	URL    string `yaml:"url"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Subdir string `yaml:"subdir"`
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the settings used when suji.yml omits a field.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "warning",
		MaxCallDepth: interpreter.DefaultMaxCallDepth,
		ModulePaths:  []string{"."},
		Shell:        "sh",
		CacheDir:     ".suji/cache",
	}
}

// LoadConfig parses suji.yml from disk and fills unset fields from
// DefaultConfig. Relative module paths and the cache directory are resolved
// against the config file's directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	if err := mergo.Merge(&cfg, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("config: apply defaults: %w", err)
	}
	cfg.Path = absPath
	cfg.resolvePaths(filepath.Dir(absPath))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindConfig walks up from start looking for suji.yml. It returns "" when
// none exists.
func FindConfig(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (c *Config) resolvePaths(root string) {
	for idx, p := range c.ModulePaths {
		if !filepath.IsAbs(p) {
			c.ModulePaths[idx] = filepath.Join(root, p)
		}
	}
	if c.CacheDir != "" && !filepath.IsAbs(c.CacheDir) {
		c.CacheDir = filepath.Join(root, c.CacheDir)
	}
}

func (c *Config) validate() error {
	var errs ValidationError
	if c.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "max_call_depth must not be negative")
	}
	for idx, p := range c.ModulePaths {
		if strings.TrimSpace(p) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("module_paths[%d] must be a non-empty string", idx))
		}
	}
	names := make([]string, 0, len(c.GitModules))
	for name := range c.GitModules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec := c.GitModules[name]
		if spec == nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("git_modules.%s must be a mapping", name))
			continue
		}
		for _, issue := range spec.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("git_modules.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (s *GitModuleSpec) validate() []string {
	var issues []string
	if strings.TrimSpace(s.URL) == "" {
		issues = append(issues, "url must be provided")
	}
	pins := 0
	for _, pin := range []string{s.Rev, s.Tag, s.Branch} {
		if strings.TrimSpace(pin) != "" {
			pins++
		}
	}
	if pins != 1 {
		issues = append(issues, "exactly one of rev, tag, or branch must be set")
	}
	if filepath.IsAbs(s.Subdir) || strings.HasPrefix(filepath.Clean(s.Subdir), "..") {
		issues = append(issues, "subdir must stay inside the repository")
	}
	return issues
}

// InterpreterOptions translates the config into interpreter options.
func (c *Config) InterpreterOptions() []interpreter.Option {
	var opts []interpreter.Option
	if c.MaxCallDepth > 0 {
		opts = append(opts, interpreter.WithMaxCallDepth(c.MaxCallDepth))
	}
	if c.Shell != "" {
		opts = append(opts, interpreter.WithShell(c.Shell))
	}
	return opts
}
