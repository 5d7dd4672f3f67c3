package loader

import (
	"net/url"

	"github.com/roach88/sdkloader/internal/host"
)

// Defaults for optional construction parameters.
const (
	DefaultScriptTag = host.ScriptTag
	DefaultLazyAttr  = "data-lazy"

	// LazyOptOut is the attribute value that disables lazy mode.
	LazyOptOut = "no"
)

// Config holds the construction parameters fixed at deployment.
type Config struct {
	// Namespace is the global name the Facade, and later the SDK, lives under.
	Namespace string

	// PublicKey identifies the loader's own script tag: the first script
	// whose src contains it decides lazy mode.
	PublicKey string

	// BundleURL is the SDK bundle fetched on injection.
	BundleURL string

	// ScriptTag is the element tag used to find and create scripts.
	ScriptTag string

	// ErrorHook and RejectionHook name the global slots to intercept.
	ErrorHook     host.HookKind
	RejectionHook host.HookKind

	// LazyAttr is the attribute that opts the loader's tag out of lazy mode
	// when set to LazyOptOut.
	LazyAttr string

	// Defaults is the base configuration every Init merges into.
	// It must carry an endpoint under EndpointKey.
	Defaults Options
}

// withDefaults returns c with empty optional fields filled in.
func (c Config) withDefaults() Config {
	if c.ScriptTag == "" {
		c.ScriptTag = DefaultScriptTag
	}
	if c.ErrorHook == "" {
		c.ErrorHook = host.HookError
	}
	if c.RejectionHook == "" {
		c.RejectionHook = host.HookRejection
	}
	if c.LazyAttr == "" {
		c.LazyAttr = DefaultLazyAttr
	}
	return c
}

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	c = c.withDefaults()

	required := []struct {
		field string
		value string
	}{
		{"namespace", c.Namespace},
		{"public_key", c.PublicKey},
		{"bundle_url", c.BundleURL},
	}
	for _, r := range required {
		if r.value == "" {
			return &ConfigError{Code: ErrCodeMissingField, Field: r.field, Message: "required"}
		}
	}

	u, err := url.Parse(c.BundleURL)
	if err != nil {
		return &ConfigError{Code: ErrCodeInvalidURL, Field: "bundle_url", Message: err.Error()}
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return &ConfigError{Code: ErrCodeInvalidURL, Field: "bundle_url", Message: "must be an absolute http(s) URL"}
	}

	if c.ErrorHook == c.RejectionHook {
		return &ConfigError{Code: ErrCodeDuplicateHook, Field: "rejection_hook", Message: "must differ from error_hook"}
	}

	if v, ok := c.Defaults[EndpointKey]; !ok || v == nil || v == "" {
		return &ConfigError{Code: ErrCodeMissingEndpoint, Field: "defaults." + EndpointKey, Message: "default configuration needs an endpoint"}
	}
	return nil
}
