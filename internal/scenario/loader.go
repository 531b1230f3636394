package scenario

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var scenarioFS embed.FS

// Load reads a built-in scenario config by name from the embedded YAML files
// and validates it.
func Load(name string) (*Config, error) {
	data, err := scenarioFS.ReadFile(name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("scenario %q not found (available: %s): %w",
			name, strings.Join(List(), ", "), err)
	}
	return parse(data, name)
}

// LoadPath reads a scenario config from an arbitrary YAML file and validates it.
func LoadPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return parse(data, path)
}

func parse(data []byte, origin string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse scenario %q: %w", origin, err)
	}
	if err := c.Base.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", origin, err)
	}
	for path, pr := range c.Priors {
		if _, ok := paramSetters[path]; !ok {
			return nil, fmt.Errorf("scenario %q: prior %q targets no settable parameter", origin, path)
		}
		if pr.Dist == "" || len(pr.Params) == 0 {
			return nil, fmt.Errorf("scenario %q: prior %q missing dist or params", origin, path)
		}
	}
	return &c, nil
}

// List returns the names of all embedded scenario configs, sorted.
func List() []string {
	entries, _ := scenarioFS.ReadDir(".")
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}
