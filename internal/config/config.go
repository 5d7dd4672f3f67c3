// Package config loads loader deployment configurations written in CUE.
//
// A configuration file holds one top-level "loader" struct. It is unified
// with an embedded schema that supplies defaults and rejects unknown fields,
// then decoded into a loader.Config and validated.
//
//	loader: {
//		public_key: "58595e0ac5744aae8c0f6498ac07d5ed"
//		bundle_url: "https://browser.sentry-cdn.com/4.6.2/bundle.min.js"
//		defaults: dsn: "https://58595e0ac5744aae8c0f6498ac07d5ed@sentry.io/1"
//	}
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/sdkloader/internal/host"
	"github.com/roach88/sdkloader/internal/loader"
)

//go:embed schema.cue
var schemaSrc []byte

// Error reports a configuration that failed to parse or did not satisfy the
// schema. Pos is set when CUE reported a source position.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// rawConfig mirrors #Loader.
type rawConfig struct {
	Namespace     string         `json:"namespace"`
	PublicKey     string         `json:"public_key"`
	BundleURL     string         `json:"bundle_url"`
	ScriptTag     string         `json:"script_tag"`
	ErrorHook     string         `json:"error_hook"`
	RejectionHook string         `json:"rejection_hook"`
	LazyAttr      string         `json:"lazy_attr"`
	Defaults      map[string]any `json:"defaults"`
}

// Load reads and parses the configuration file at path.
func Load(path string) (loader.Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return loader.Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, path)
}

// Parse parses CUE source holding a "loader" struct. filename is used in
// error positions only.
func Parse(src []byte, filename string) (loader.Config, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return loader.Config{}, formatCUEError(err)
	}

	lv := v.LookupPath(cue.ParsePath("loader"))
	if !lv.Exists() {
		return loader.Config{}, &Error{Field: "loader", Message: "no loader struct in " + filename}
	}
	return decode(ctx, v)
}

// FromMap builds a configuration from already-decoded data, such as the
// inline config block of a scenario file. The map is checked against the
// same schema as a CUE file, so defaults apply and unknown keys are errors.
func FromMap(m map[string]any) (loader.Config, error) {
	ctx := cuecontext.New()
	v := ctx.Encode(map[string]any{"loader": m})
	if err := v.Err(); err != nil {
		return loader.Config{}, formatCUEError(err)
	}
	return decode(ctx, v)
}

func decode(ctx *cue.Context, v cue.Value) (loader.Config, error) {
	schema := ctx.CompileBytes(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return loader.Config{}, fmt.Errorf("compile embedded schema: %w", err)
	}

	merged := schema.Unify(v)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return loader.Config{}, formatCUEError(err)
	}

	var raw rawConfig
	if err := merged.LookupPath(cue.ParsePath("loader")).Decode(&raw); err != nil {
		return loader.Config{}, formatCUEError(err)
	}

	cfg := loader.Config{
		Namespace:     raw.Namespace,
		PublicKey:     raw.PublicKey,
		BundleURL:     raw.BundleURL,
		ScriptTag:     raw.ScriptTag,
		ErrorHook:     host.HookKind(raw.ErrorHook),
		RejectionHook: host.HookKind(raw.RejectionHook),
		LazyAttr:      raw.LazyAttr,
		Defaults:      loader.Options(raw.Defaults),
	}
	if err := cfg.Validate(); err != nil {
		return loader.Config{}, err
	}
	return cfg, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := "cue"
	if p := first.Path(); len(p) > 0 {
		field = strings.Join(p, ".")
	}
	e := &Error{Field: field, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		e.Pos = positions[0]
	}
	return e
}
