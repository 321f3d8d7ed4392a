package domain

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpack.dev/pkg/promptpack/internal/adapter"
	m "promptpack.dev/pkg/promptpack/internal/model"
)

// stubToolRunner replays canned results keyed by the full command line.
type stubToolRunner struct {
	tools   map[string]string
	results map[string]m.ToolResult
	calls   []string
}

func (s *stubToolRunner) Which(name string) (string, bool) {
	p, ok := s.tools[name]

	return p, ok
}

func (s *stubToolRunner) Run(_ context.Context, launchPath string, args []string, _ string, _ time.Duration) m.ToolResult {
	key := launchPath + " " + strings.Join(args, " ")
	s.calls = append(s.calls, key)

	return s.results[key]
}

func newDiagnosticsRunnerForTest(runner adapter.ToolRunnerAdapter) *DiagnosticsRunner {
	return NewDiagnosticsRunner(adapter.NewLocalSourceFSAdapter(), runner)
}

func TestDiagnosticsRunner_GoPerPackageDedupe(t *testing.T) {
	buildErr := "main.go:4:2: undefined: foo\n"

	runner := &stubToolRunner{
		tools: map[string]string{"go": "/usr/bin/go"},
		results: map[string]m.ToolResult{
			"/usr/bin/go build -gcflags=all=-e ./...":           {ExitCode: 1, Stderr: buildErr},
			"/usr/bin/go list ./...":                            {Stdout: "example.com/demo\n"},
			"/usr/bin/go build -gcflags=all=-e example.com/demo": {ExitCode: 1, Stderr: buildErr},
		},
	}

	r := newDiagnosticsRunnerForTest(runner)

	report := r.Run(context.Background(), DiagnoseArgs{
		Profile: m.ProjectProfile{Root: "/proj", Markers: []string{"go.mod"}, Languages: []string{"go"}},
	})

	require.Len(t, report.Languages, 1)
	lang := report.Languages[0]
	assert.Equal(t, "go", lang.Name)

	// The same finding from the whole-module and per-package builds
	// collapses to one record.
	require.Len(t, lang.Issues, 1)
	assert.Equal(t, "main.go", lang.Issues[0].File)
	assert.Equal(t, "undefined: foo", lang.Issues[0].Message)

	assert.Contains(t, runner.calls, "/usr/bin/go list ./...")
	assert.Contains(t, runner.calls, "/usr/bin/go build -gcflags=all=-e example.com/demo")
}

func TestDiagnosticsRunner_MissingToolIsWarning(t *testing.T) {
	runner := &stubToolRunner{tools: map[string]string{}}
	r := newDiagnosticsRunnerForTest(runner)

	report := r.Run(context.Background(), DiagnoseArgs{
		Profile: m.ProjectProfile{Root: "/proj", Markers: []string{"Cargo.toml"}, Languages: []string{"rust"}},
	})

	require.Len(t, report.Languages, 1)
	assert.Equal(t, "rust", report.Languages[0].Name)
	assert.Empty(t, report.Languages[0].Issues)

	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "cargo not found")
}

func TestDiagnosticsRunner_TimeoutRecorded(t *testing.T) {
	runner := &stubToolRunner{
		tools: map[string]string{"cargo": "/usr/bin/cargo"},
		results: map[string]m.ToolResult{
			"/usr/bin/cargo check --color never": {ExitCode: m.TimeoutExitCode, TimedOut: true},
		},
	}

	r := newDiagnosticsRunnerForTest(runner)

	report := r.Run(context.Background(), DiagnoseArgs{
		Profile:     m.ProjectProfile{Root: "/proj", Markers: []string{"Cargo.toml"}, Languages: []string{"rust"}},
		ToolTimeout: time.Second,
	})

	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "timed out (exit code 124)")
}

func TestDiagnosticsRunner_SwiftDispatch(t *testing.T) {
	runner := &stubToolRunner{
		tools: map[string]string{"swift": "/usr/bin/swift"},
		results: map[string]m.ToolResult{
			"/usr/bin/swift build": {
				ExitCode: 1,
				Stderr:   "Sources/App/main.swift:3:5: error: cannot find 'x' in scope\n",
			},
		},
	}

	r := newDiagnosticsRunnerForTest(runner)

	report := r.Run(context.Background(), DiagnoseArgs{
		Profile: m.ProjectProfile{Root: "/proj", Markers: []string{"Package.swift"}, Languages: []string{"swift"}},
	})

	require.Len(t, report.Languages, 1)
	lang := report.Languages[0]
	assert.Equal(t, "swift", lang.Name)
	assert.Equal(t, "swift build", lang.Tool)

	require.Len(t, lang.Issues, 1)
	assert.Equal(t, "Sources/App/main.swift", lang.Issues[0].File)
	assert.Equal(t, m.SeverityError, lang.Issues[0].Severity)
}

func TestDiagnosticsRunner_ProgressCallback(t *testing.T) {
	runner := &stubToolRunner{tools: map[string]string{"go": "/usr/bin/go"}}
	r := newDiagnosticsRunnerForTest(runner)

	var started []string

	r.Progress = func(language, tool string) {
		started = append(started, language+"/"+tool)
	}

	r.Run(context.Background(), DiagnoseArgs{
		Profile: m.ProjectProfile{Root: "/proj", Markers: []string{"go.mod"}, Languages: []string{"go"}},
	})

	assert.Equal(t, []string{"go/go build"}, started)
}

func TestDiagnosticsRunner_IgnoreGlobsFilterIssues(t *testing.T) {
	runner := &stubToolRunner{
		tools: map[string]string{"go": "/usr/bin/go"},
		results: map[string]m.ToolResult{
			"/usr/bin/go build -gcflags=all=-e ./...": {
				ExitCode: 1,
				Stderr:   "gen/api.go:1:1: syntax error\nmain.go:2:1: undefined: bar\n",
			},
		},
	}

	r := newDiagnosticsRunnerForTest(runner)

	report := r.Run(context.Background(), DiagnoseArgs{
		Profile:     m.ProjectProfile{Root: "/proj", Markers: []string{"go.mod"}, Languages: []string{"go"}},
		IgnoreGlobs: []string{"gen/**"},
	})

	require.Len(t, report.Languages, 1)
	require.Len(t, report.Languages[0].Issues, 1)
	assert.Equal(t, "main.go", report.Languages[0].Issues[0].File)
}
