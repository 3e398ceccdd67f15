package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/scriptlet/internal/ir"
)

// TemplateEntry describes one catalog template.
type TemplateEntry struct {
	Name    string     `json:"name"`
	Aliases []string   `json:"aliases,omitempty"`
	Kind    string     `json:"kind"`
	Arity   string     `json:"arity"`
	Purpose string     `json:"purpose,omitempty"`
	Params  []ir.Param `json:"params,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog templates",
		Long: `List every template in the catalog with its aliases and arity.

Examples:
  scriptlet list
  scriptlet list --catalog ./my-catalog --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	cat, err := loadCatalog(opts)
	if err != nil {
		return err
	}

	templates := cat.List()
	entries := make([]TemplateEntry, 0, len(templates))
	for _, t := range templates {
		entries = append(entries, TemplateEntry{
			Name:    t.Name,
			Aliases: t.Aliases,
			Kind:    string(t.Kind),
			Arity:   t.Arity.String(),
			Purpose: t.Purpose,
			Params:  t.Params,
		})
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if formatter.JSON() {
		return formatter.Success(entries)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tARITY\tALIASES")
	for _, e := range entries {
		aliases := strings.Join(e.Aliases, ", ")
		if aliases == "" {
			aliases = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Arity, aliases)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if opts.Verbose {
		w := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(w, "\n%s\n", e.Name)
			if e.Purpose != "" {
				fmt.Fprintf(w, "  %s\n", e.Purpose)
			}
			for _, p := range e.Params {
				fmt.Fprintf(w, "  {{%d}} %s%s\n", p.Index, p.Name, paramNote(p))
			}
		}
	}
	return nil
}

func paramNote(p ir.Param) string {
	if p.Required {
		return " (required)"
	}
	if p.Default != "" {
		return fmt.Sprintf(" (default %q)", p.Default)
	}
	return ""
}
