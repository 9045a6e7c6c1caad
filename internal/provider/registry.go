package provider

import (
	"fmt"
	"sort"

	"github.com/Chapsvision-dev/rds-lifecycle-operator/internal/config"
)

// Factory builds a provider from the loaded configuration.
type Factory func(config.Config) (Provider, error)

var registry = map[string]Factory{}

// Register binds a provider name to its factory. Called from init().
func Register(name string, f Factory) {
	registry[name] = f
}

// New returns a provider instance by name.
func New(name string, cfg config.Config) (Provider, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s (registered: %v)", name, Names())
	}
	return f(cfg)
}

// Names lists registered providers, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
