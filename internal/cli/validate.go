package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sdkloader/internal/config"
	"github.com/roach88/sdkloader/internal/loader"
	"github.com/roach88/sdkloader/internal/trace"
)

// ConfigSummary is the effective configuration reported by validate.
type ConfigSummary struct {
	File          string         `json:"file"`
	Namespace     string         `json:"namespace"`
	PublicKey     string         `json:"public_key"`
	BundleURL     string         `json:"bundle_url"`
	ScriptTag     string         `json:"script_tag"`
	ErrorHook     string         `json:"error_hook"`
	RejectionHook string         `json:"rejection_hook"`
	LazyAttr      string         `json:"lazy_attr"`
	Defaults      loader.Options `json:"defaults"`
}

// ValidationDetails locates a configuration error.
type ValidationDetails struct {
	Field string `json:"field,omitempty"`
	Line  int    `json:"line,omitempty"`
	Code  string `json:"code,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config.cue>",
		Short: "Validate a loader configuration",
		Long: `Load a CUE loader configuration, unify it with the built-in schema
and check it. Prints the effective configuration on success.

Exit codes:
  0 - Configuration is valid
  1 - Configuration is invalid
  2 - File not found

Examples:
  sdkloader validate ./loader.cue
  sdkloader validate ./loader.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(path); err != nil {
		msg := fmt.Sprintf("config file not found: %s", path)
		if outErr := formatter.Error(ErrCodeNotFound, msg, nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitCommandError, msg)
	}

	formatter.VerboseLog("Loading %s", path)
	cfg, err := config.Load(path)
	if err != nil {
		if outErr := formatter.Error(ErrCodeConfig, err.Error(), validationDetails(err)); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "invalid configuration", err)
	}

	summary := summarize(path, cfg)
	if formatter.JSON() {
		return formatter.Success(summary)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s is valid\n", path)
	return formatter.Table([]string{"Field", "Value"}, summary.rows())
}

func summarize(path string, cfg loader.Config) ConfigSummary {
	return ConfigSummary{
		File:          path,
		Namespace:     cfg.Namespace,
		PublicKey:     cfg.PublicKey,
		BundleURL:     cfg.BundleURL,
		ScriptTag:     cfg.ScriptTag,
		ErrorHook:     string(cfg.ErrorHook),
		RejectionHook: string(cfg.RejectionHook),
		LazyAttr:      cfg.LazyAttr,
		Defaults:      cfg.Defaults,
	}
}

func (s ConfigSummary) rows() [][]string {
	defaults, err := trace.MarshalCanonical(map[string]any(s.Defaults))
	if err != nil {
		defaults = []byte(fmt.Sprint(s.Defaults))
	}
	return [][]string{
		{"namespace", s.Namespace},
		{"public_key", s.PublicKey},
		{"bundle_url", s.BundleURL},
		{"script_tag", s.ScriptTag},
		{"error_hook", s.ErrorHook},
		{"rejection_hook", s.RejectionHook},
		{"lazy_attr", s.LazyAttr},
		{"defaults", string(defaults)},
	}
}

func validationDetails(err error) *ValidationDetails {
	var cueErr *config.Error
	if errors.As(err, &cueErr) {
		d := &ValidationDetails{Field: cueErr.Field}
		if cueErr.Pos.IsValid() {
			d.Line = cueErr.Pos.Line()
		}
		return d
	}
	var cfgErr *loader.ConfigError
	if errors.As(err, &cfgErr) {
		return &ValidationDetails{Field: cfgErr.Field, Code: string(cfgErr.Code)}
	}
	return nil
}
