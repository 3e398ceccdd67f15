package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/roach88/scriptlet/internal/host"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	HTML    string // path to the page document
	URL     string // document URL
	Script  string // path to a bootstrap script run before the invocation
	Payload string // path to a payload passed as argument 1
	Metrics bool   // print invocation metrics
}

// InvokeResult holds the outcome of one invocation.
type InvokeResult struct {
	Template     string              `json:"template"`
	InvocationID string              `json:"invocation_id"`
	Seq          int64               `json:"seq"`
	Outcome      string              `json:"outcome"`
	Result       *string             `json:"result,omitempty"`
	Fault        string              `json:"fault,omitempty"`
	Cookies      []string            `json:"cookies,omitempty"`
	Console      []host.ConsoleEntry `json:"console,omitempty"`
	HTML         string              `json:"html,omitempty"`
	Metrics      []MetricSample      `json:"metrics,omitempty"`
}

// MetricSample is one gathered counter value.
type MetricSample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <name> [args...]",
		Short: "Run one scriptlet against a page",
		Long: `Resolve, bind and run one scriptlet against a page built from --html.

Arguments are positional, exactly as a filter rule supplies them. With
--payload the file's contents become argument 1 (json-prune.js).

Faults inside the scriptlet are contained: the command still succeeds and
reports the fault. Only an unknown template name fails (exit code 1).

Examples:
  scriptlet invoke set-cookie.js consent yes 3600
  scriptlet invoke ra.js onclick button --html page.html
  scriptlet invoke json-prune.js ads data.track --payload response.json
  scriptlet invoke hide-if-contains-image.js .ad 'banner' --html page.html --url https://example.com/`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInvoke(opts, args[0], args[1:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.HTML, "html", "", "path to the page HTML")
	cmd.Flags().StringVar(&opts.URL, "url", "", "document URL (resolves relative image sources)")
	cmd.Flags().StringVar(&opts.Script, "script", "", "path to a script run on the page first")
	cmd.Flags().StringVar(&opts.Payload, "payload", "", "path to a payload passed as argument 1")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print invocation metrics")

	return cmd
}

func runInvoke(opts *InvokeOptions, name string, args []string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	page, console, err := buildPage(opts)
	if err != nil {
		return err
	}
	if opts.Payload != "" {
		payload, err := os.ReadFile(opts.Payload)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read payload", err)
		}
		args = append([]string{string(payload)}, args...)
	}

	rt, err := newSession(ctx, opts.RootOptions, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := rt.Close(); closeErr != nil {
			rt.logger.Error("error closing diagnostics", "err", closeErr)
		}
	}()

	exec, err := rt.engine.Execute(ctx, page, name, args)
	if err != nil {
		return reportRuntimeError(formatter, err)
	}

	result := InvokeResult{
		Template:     exec.Invocation.Template,
		InvocationID: exec.Invocation.ID,
		Seq:          exec.Invocation.Seq,
		Outcome:      exec.Outcome,
		Cookies:      page.CookieAssignments(),
		Console:      console.Entries(),
	}
	if exec.Result.Transformed {
		text := exec.Result.Text
		result.Result = &text
	}
	if exec.Fault != nil {
		result.Fault = exec.Fault.Cause.Error()
	}
	if opts.HTML != "" {
		html, err := page.HTML()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to render page", err)
		}
		result.HTML = html
	}
	if opts.Metrics {
		samples, err := gatherCounters(rt.registry)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to gather metrics", err)
		}
		result.Metrics = samples
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	outputInvokeText(cmd.OutOrStdout(), result)
	return nil
}

// buildPage reads the page inputs named by the flags.
func buildPage(opts *InvokeOptions) (*host.Page, *host.MemoryConsole, error) {
	var html string
	if opts.HTML != "" {
		data, err := os.ReadFile(opts.HTML)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to read html", err)
		}
		html = string(data)
	}

	console := host.NewMemoryConsole()
	pageOpts := []host.PageOption{host.WithConsole(console)}
	if opts.URL != "" {
		u, err := url.Parse(opts.URL)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "invalid --url", err)
		}
		pageOpts = append(pageOpts, host.WithURL(u))
	}
	if opts.Script != "" {
		src, err := os.ReadFile(opts.Script)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to read script", err)
		}
		pageOpts = append(pageOpts, host.WithScript(string(src)))
	}

	page, err := host.NewPage(html, pageOpts...)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to build page", err)
	}
	return page, console, nil
}

// gatherCounters flattens the counters in reg, sorted by name then labels.
func gatherCounters(reg *prometheus.Registry) ([]MetricSample, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, err
	}
	var samples []MetricSample
	for _, mf := range families {
		if mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			samples = append(samples, MetricSample{
				Name:   mf.GetName(),
				Labels: labels,
				Value:  m.GetCounter().GetValue(),
			})
		}
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Name < samples[j].Name
	})
	return samples, nil
}

func outputInvokeText(w io.Writer, r InvokeResult) {
	mark := "✓"
	if r.Fault != "" {
		mark = "!"
	}
	fmt.Fprintf(w, "%s %s (%s, seq %d)\n", mark, r.Template, r.Outcome, r.Seq)
	if r.Fault != "" {
		fmt.Fprintf(w, "  contained fault: %s\n", r.Fault)
	}
	if r.Result != nil {
		fmt.Fprintf(w, "  result: %s\n", *r.Result)
	}
	for _, c := range r.Cookies {
		fmt.Fprintf(w, "  cookie: %s\n", c)
	}
	for _, e := range r.Console {
		fmt.Fprintf(w, "  console.%s: %s\n", e.Level, e.Message)
	}
	for _, m := range r.Metrics {
		fmt.Fprintf(w, "  metric: %s%s %g\n", m.Name, formatLabels(m.Labels), m.Value)
	}
	if r.HTML != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.HTML)
	}
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, labels[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
