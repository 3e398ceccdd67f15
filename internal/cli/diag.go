package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/scriptlet/internal/ir"
	"github.com/roach88/scriptlet/internal/store"
)

// DiagOptions holds flags for the diag command.
type DiagOptions struct {
	*RootOptions
	Template string // optional - filter to one template
	AfterSeq int64
	Limit    int
	Summary  bool // group by template and arguments
}

// DiagResult holds the diag command output.
type DiagResult struct {
	Diagnostics []ir.Diagnostic      `json:"diagnostics,omitempty"`
	Summary     []store.FaultSummary `json:"summary,omitempty"`
}

// NewDiagCommand creates the diag command.
func NewDiagCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiagOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diag <db>",
		Short: "List recorded contained faults",
		Long: `List contained-fault diagnostics recorded with --diagnostics.

Diagnostics are listed in seq order. With --summary, repeated faults of the
same template and argument list are grouped, most frequent first.

Examples:
  scriptlet diag ./faults.db
  scriptlet diag ./faults.db --template remove-attr.js --limit 20
  scriptlet diag ./faults.db --summary --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiag(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Template, "template", "", "only diagnostics of this canonical template")
	cmd.Flags().Int64Var(&opts.AfterSeq, "after", 0, "only diagnostics with seq greater than this")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of diagnostics (0 = all)")
	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "group faults by template and arguments")

	return cmd
}

func runDiag(opts *DiagOptions, dbPath string, cmd *cobra.Command) error {
	// store.Open creates missing databases; a typo should not.
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", dbPath))
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	var result DiagResult
	if opts.Summary {
		result.Summary, err = st.Summarize(ctx)
	} else {
		result.Diagnostics, err = st.ReadDiagnostics(ctx, store.DiagnosticFilter{
			Template: opts.Template,
			AfterSeq: opts.AfterSeq,
			Limit:    opts.Limit,
		})
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read diagnostics", err)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	outputDiagText(cmd.OutOrStdout(), result, opts.Summary)
	return nil
}

func outputDiagText(w io.Writer, result DiagResult, summary bool) {
	if summary {
		if len(result.Summary) == 0 {
			fmt.Fprintln(w, "No diagnostics recorded.")
			return
		}
		for _, s := range result.Summary {
			fmt.Fprintf(w, "%4d  %s  args=%s  last_seq=%d\n", s.Count, s.Template, truncateHash(s.ArgsHash), s.LastSeq)
		}
		return
	}

	if len(result.Diagnostics) == 0 {
		fmt.Fprintln(w, "No diagnostics recorded.")
		return
	}
	for _, d := range result.Diagnostics {
		recovered := ""
		if d.Recovered {
			recovered = " (recovered panic)"
		}
		fmt.Fprintf(w, "[seq=%d] %s %s%s\n", d.Seq, d.Template, d.Message, recovered)
		fmt.Fprintf(w, "         invocation=%s args=%s\n", d.InvocationID, truncateHash(d.ArgsHash))
	}
}

// truncateHash shortens a hex hash for display.
func truncateHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
