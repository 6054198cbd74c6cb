package runtime

import (
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
)

// envOverlay layers process-local changes over the OS environment. A nil
// entry marks a variable as deleted even when the OS still has it.
type envOverlay struct {
	mu      sync.RWMutex
	entries map[string]*string
}

var (
	overlayOnce sync.Once
	overlay     *envOverlay
)

func processOverlay() *envOverlay {
	overlayOnce.Do(func() {
		overlay = &envOverlay{entries: make(map[string]*string)}
	})
	return overlay
}

// EnvGet consults the overlay first, then the OS environment.
func EnvGet(name string) (string, bool) {
	o := processOverlay()
	o.mu.RLock()
	entry, ok := o.entries[name]
	o.mu.RUnlock()
	if ok {
		if entry == nil {
			return "", false
		}
		return *entry, true
	}
	return os.LookupEnv(name)
}

// EnvSet records a value in the overlay.
func EnvSet(name, value string) {
	o := processOverlay()
	o.mu.Lock()
	o.entries[name] = &value
	o.mu.Unlock()
}

// EnvUnset marks name as deleted.
func EnvUnset(name string) {
	o := processOverlay()
	o.mu.Lock()
	o.entries[name] = nil
	o.mu.Unlock()
}

// EnvNames lists visible variable names, sorted.
func EnvNames() []string {
	seen := make(map[string]struct{})
	for _, kv := range os.Environ() {
		if idx := strings.IndexByte(kv, '='); idx > 0 {
			seen[kv[:idx]] = struct{}{}
		}
	}
	o := processOverlay()
	o.mu.RLock()
	for name, entry := range o.entries {
		if entry == nil {
			delete(seen, name)
		} else {
			seen[name] = struct{}{}
		}
	}
	o.mu.RUnlock()
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyEnvOverlayToCommand replays every overlay entry onto cmd's environment.
func ApplyEnvOverlayToCommand(cmd *exec.Cmd) {
	if cmd == nil {
		return
	}
	base := cmd.Env
	if base == nil {
		base = os.Environ()
	}
	o := processOverlay()
	o.mu.RLock()
	defer o.mu.RUnlock()
	if len(o.entries) == 0 {
		cmd.Env = base
		return
	}
	env := make([]string, 0, len(base)+len(o.entries))
	for _, kv := range base {
		name := kv
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			name = kv[:idx]
		}
		if _, overridden := o.entries[name]; overridden {
			continue
		}
		env = append(env, kv)
	}
	for name, entry := range o.entries {
		if entry != nil {
			env = append(env, name+"="+*entry)
		}
	}
	cmd.Env = env
}
