package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/scriptlet/internal/binder"
	"github.com/roach88/scriptlet/internal/engine"
	"github.com/roach88/scriptlet/internal/scriptlet"
)

// ResolveResult holds the resolution of one name.
type ResolveResult struct {
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
	Arity     string `json:"arity"`
	Expanded  string `json:"expanded,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name> [args...]",
		Short: "Resolve a template name or alias",
		Long: `Resolve a template name or alias to its canonical name.

For templates that carry a body (JS resources in a --catalog directory),
the body is printed with its {{k}} placeholders bound to args.

Exit codes:
  0 - Name resolved
  1 - No template or alias matches (UNKNOWN_TEMPLATE)
  2 - Command error

Examples:
  scriptlet resolve ra.js
  scriptlet resolve aopr.js --format json
  scriptlet resolve my-scriptlet.js foo bar --catalog ./catalog`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, args[0], args[1:], cmd)
		},
	}
}

func runResolve(opts *RootOptions, name string, args []string, cmd *cobra.Command) error {
	cat, err := loadCatalog(opts)
	if err != nil {
		return err
	}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	t, err := engine.New(cat, scriptlet.Builtin()).Resolve(name)
	if err != nil {
		return reportRuntimeError(formatter, err)
	}

	result := ResolveResult{Name: name, Canonical: t.Name, Arity: t.Arity.String()}
	if t.Body != "" {
		result.Expanded = binder.Expand(t.Body, binder.Bind(t, args))
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Canonical)
	if result.Expanded != "" {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprint(cmd.OutOrStdout(), result.Expanded)
	}
	return nil
}

// reportRuntimeError prints an engine RuntimeError and maps it to exit
// code 1.
func reportRuntimeError(formatter *OutputFormatter, err error) error {
	var re *engine.RuntimeError
	if errors.As(err, &re) {
		_ = formatter.Error(string(re.Code), re.Message, map[string]string{"template": re.Template})
		return WrapExitError(ExitFailure, "unresolved template", err)
	}
	return WrapExitError(ExitFailure, "invocation failed", err)
}
