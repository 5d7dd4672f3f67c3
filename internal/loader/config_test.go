package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sdkloader/internal/host"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   ConfigErrorCode
		field  string
	}{
		{"missing namespace", func(c *Config) { c.Namespace = "" }, ErrCodeMissingField, "namespace"},
		{"missing public key", func(c *Config) { c.PublicKey = "" }, ErrCodeMissingField, "public_key"},
		{"missing bundle", func(c *Config) { c.BundleURL = "" }, ErrCodeMissingField, "bundle_url"},
		{"relative bundle", func(c *Config) { c.BundleURL = "/bundle.min.js" }, ErrCodeInvalidURL, "bundle_url"},
		{"ftp bundle", func(c *Config) { c.BundleURL = "ftp://cdn.example/b.js" }, ErrCodeInvalidURL, "bundle_url"},
		{"unparseable bundle", func(c *Config) { c.BundleURL = "https://cdn example/%zz" }, ErrCodeInvalidURL, "bundle_url"},
		{"same hooks", func(c *Config) { c.RejectionHook = host.HookError }, ErrCodeDuplicateHook, "rejection_hook"},
		{"no defaults", func(c *Config) { c.Defaults = nil }, ErrCodeMissingEndpoint, "defaults.dsn"},
		{"empty dsn", func(c *Config) { c.Defaults = Options{"dsn": ""} }, ErrCodeMissingEndpoint, "defaults.dsn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsConfigError(err, tt.code), "got %v", err)

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestConfig_ValidAndDefaults(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.Validate())

	filled := cfg.withDefaults()
	assert.Equal(t, DefaultScriptTag, filled.ScriptTag)
	assert.Equal(t, DefaultLazyAttr, filled.LazyAttr)
	assert.Equal(t, host.HookError, filled.ErrorHook)
	assert.Equal(t, host.HookRejection, filled.RejectionHook)
}

func TestIsConfigError_OtherErrors(t *testing.T) {
	assert.False(t, IsConfigError(ErrAlreadyStarted, ErrCodeMissingField))
	assert.False(t, IsConfigError(&ConfigError{Code: ErrCodeInvalidURL}, ErrCodeMissingField))
}

func TestMerge(t *testing.T) {
	base := Options{"dsn": "X", "env": "dev"}
	opts := Options{"env": "prod", "extra": 1}

	got := Merge(base, opts)

	assert.Equal(t, Options{"dsn": "X", "env": "prod", "extra": 1}, got)
	assert.Equal(t, Options{"dsn": "X", "env": "dev"}, base, "base is not modified")
	assert.Equal(t, Options{"env": "prod", "extra": 1}, opts, "opts are not modified")

	got["dsn"] = "changed"
	assert.Equal(t, "X", base["dsn"], "result does not alias base")
}

func TestMerge_NilInputs(t *testing.T) {
	assert.Equal(t, Options{}, Merge(nil, nil))
	assert.Equal(t, Options{"a": 1}, Merge(nil, Options{"a": 1}))
	assert.Equal(t, Options{"a": 1}, Merge(Options{"a": 1}, nil))
}

func TestOptionsClone(t *testing.T) {
	orig := Options{"dsn": "X"}
	c := orig.clone()
	c["dsn"] = "changed"
	assert.Equal(t, "X", orig["dsn"], "clone does not alias the original")

	empty := Options(nil).clone()
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestEffective_ReturnsCopy(t *testing.T) {
	f := newFixture(t, nil)
	f.facade.Init(Options{"release": "1.0"})
	f.load()

	got := f.loader.Effective()
	got["dsn"] = "changed"
	assert.Equal(t, Options{"dsn": "X", "release": "1.0"}, f.loader.Effective())
}

func TestAsOptions(t *testing.T) {
	assert.Equal(t, Options{"a": 1}, asOptions(Options{"a": 1}))
	assert.Equal(t, Options{"a": 1}, asOptions(map[string]any{"a": 1}))
	assert.Nil(t, asOptions("not a map"))
	assert.Nil(t, asOptions(nil))
}
