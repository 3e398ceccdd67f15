package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/scriptlet/internal/ir"
)

// TraceSnapshot captures what a scenario produced, for golden comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
	Cookies      []string     `json:"cookies"`
	Console      []any        `json:"console"`
}

// NewTraceSnapshot builds the snapshot of result under name.
func NewTraceSnapshot(name string, result *Result) *TraceSnapshot {
	console := make([]any, len(result.Console))
	for i, e := range result.Console {
		console[i] = map[string]any{
			"level":   e.Level,
			"message": e.Message,
		}
	}
	cookies := result.Cookies
	if cookies == nil {
		cookies = []string{}
	}
	return &TraceSnapshot{
		ScenarioName: name,
		Trace:        result.Trace,
		Cookies:      cookies,
		Console:      console,
	}
}

// toCanonicalMap converts a TraceSnapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles primitives, maps and slices.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		args := event.Args
		if args == nil {
			args = []string{}
		}
		eventMap := map[string]any{
			"step":     event.Step,
			"template": event.Template,
			"args":     args,
			"outcome":  event.Outcome,
			"seq":      event.Seq,
		}
		if event.Result != nil {
			eventMap["result"] = *event.Result
		}
		if event.Fault != "" {
			eventMap["fault"] = event.Fault
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
		"cookies":       s.Cookies,
		"console":       s.Console,
	}
}

// Marshal renders the snapshot as canonical JSON.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares the snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := NewTraceSnapshot(scenarioName, result).Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
