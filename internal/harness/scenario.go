package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sdkloader/internal/config"
	"github.com/roach88/sdkloader/internal/loader"
)

// Scenario defines one loader session to simulate.
type Scenario struct {
	// Name uniquely identifies this scenario. It names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is the loader configuration, inline.
	Config map[string]any `yaml:"config,omitempty"`

	// ConfigFile is a CUE loader configuration, relative to the scenario
	// file. Exactly one of Config and ConfigFile is set.
	ConfigFile string `yaml:"config_file,omitempty"`

	// Page describes the page before the loader starts.
	Page PageSetup `yaml:"page"`

	// Steps drive page code and native signals, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and loader state.
	Assertions []Assertion `yaml:"assertions"`
}

// Bundle delivery modes.
const (
	// BundleServe delivers the recording SDK.
	BundleServe = "serve"
	// BundleFail makes the bundle request fail.
	BundleFail = "fail"
	// BundleEmpty delivers a script that loads but installs no SDK.
	BundleEmpty = "empty"
)

// PageSetup describes the page the loader starts on.
type PageSetup struct {
	// Scripts are page-owned script tags, in document order. The loader's
	// own tag is the first one whose src contains the public key.
	Scripts []ScriptTag `yaml:"scripts,omitempty"`

	// PriorHandlers installs counting error and rejection handlers before
	// the loader starts.
	PriorHandlers bool `yaml:"prior_handlers,omitempty"`

	// Bundle is serve (default), fail or empty.
	Bundle string `yaml:"bundle,omitempty"`
}

// ScriptTag is a script element present in the page's HTML.
type ScriptTag struct {
	Src   string            `yaml:"src"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
}

// Step is one scenario action. Exactly one field is set.
type Step struct {
	// Call is an API method name; Args are its arguments.
	Call string `yaml:"call,omitempty"`
	Args []any  `yaml:"args,omitempty"`

	// Error raises a native error with these handler arguments.
	Error []any `yaml:"error,omitempty"`

	// Reject raises an unhandled rejection with this reason. A node is
	// kept so that an explicit null reason is distinguishable from absence.
	Reject yaml.Node `yaml:"reject,omitempty"`

	OnLoad    bool `yaml:"on_load,omitempty"`
	ForceLoad bool `yaml:"force_load,omitempty"`
	Drain     bool `yaml:"drain,omitempty"`
}

// rejects reports whether the step has a reject field, null included.
func (s Step) rejects() bool {
	return s.Reject.Kind != 0
}

// kinds returns the names of the fields set on s.
func (s Step) kinds() []string {
	var out []string
	if s.Call != "" {
		out = append(out, "call")
	}
	if s.Error != nil {
		out = append(out, "error")
	}
	if s.rejects() {
		out = append(out, "reject")
	}
	if s.OnLoad {
		out = append(out, "on_load")
	}
	if s.ForceLoad {
		out = append(out, "force_load")
	}
	if s.Drain {
		out = append(out, "drain")
	}
	return out
}

// Assertion validates the trace or the loader's final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Labels is the expected order (trace_order).
	Labels []string `yaml:"labels,omitempty"`

	// Label selects events (trace_count, trace_contains, prior_calls).
	Label string `yaml:"label,omitempty"`

	// Args, when set, must equal the event's args (trace_contains).
	// Compared by canonical JSON.
	Args []any `yaml:"args,omitempty"`

	// Count is the expected number (trace_count, scripts_inserted,
	// queue_len, prior_calls).
	Count int `yaml:"count,omitempty"`

	// Expect is the expected flag (injected, loaded).
	Expect bool `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceOrder      = "trace_order"
	AssertTraceCount      = "trace_count"
	AssertTraceContains   = "trace_contains"
	AssertInjected        = "injected"
	AssertLoaded          = "loaded"
	AssertScriptsInserted = "scripts_inserted"
	AssertQueueLen        = "queue_len"
	AssertPriorCalls      = "prior_calls"
)

// LoadScenario reads and parses a scenario YAML file. A relative
// config_file is resolved against the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.ConfigFile != "" && !filepath.IsAbs(scenario.ConfigFile) {
		scenario.ConfigFile = filepath.Join(filepath.Dir(path), scenario.ConfigFile)
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict: catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoaderConfig resolves the scenario's loader configuration.
func (s *Scenario) LoaderConfig() (loader.Config, error) {
	if s.ConfigFile != "" {
		return config.Load(s.ConfigFile)
	}
	return config.FromMap(s.Config)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Config == nil && s.ConfigFile == "":
		return fmt.Errorf("config or config_file is required")
	case s.Config != nil && s.ConfigFile != "":
		return fmt.Errorf("config and config_file are mutually exclusive")
	}

	switch s.Page.Bundle {
	case "", BundleServe, BundleFail, BundleEmpty:
	default:
		return fmt.Errorf("page.bundle: unknown mode %q (want serve, fail or empty)", s.Page.Bundle)
	}
	for i, tag := range s.Page.Scripts {
		if tag.Src == "" {
			return fmt.Errorf("page.scripts[%d]: src is required", i)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		kinds := step.kinds()
		if len(kinds) != 1 {
			return fmt.Errorf("steps[%d]: exactly one action is required, got %v", i, kinds)
		}
		if step.Call != "" {
			if _, err := loader.ParseMethod(step.Call); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		} else if step.Args != nil {
			return fmt.Errorf("steps[%d]: args is only valid with call", i)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceOrder:
		if len(a.Labels) == 0 {
			return fmt.Errorf("assertions[%d]: labels list is required for trace_order", index)
		}
	case AssertTraceCount, AssertTraceContains:
		if a.Label == "" {
			return fmt.Errorf("assertions[%d]: label is required for %s", index, a.Type)
		}
	case AssertInjected, AssertLoaded, AssertScriptsInserted, AssertQueueLen:
	case AssertPriorCalls:
		switch a.Label {
		case "", "error", "rejection":
		default:
			return fmt.Errorf("assertions[%d]: prior_calls label must be error or rejection, got %q", index, a.Label)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Count < 0 {
		return fmt.Errorf("assertions[%d]: count must be non-negative", index)
	}
	return nil
}
