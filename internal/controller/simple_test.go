package controller

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

func newCapturedUI() (*SimpleUI, *bytes.Buffer) {
	out := &bytes.Buffer{}

	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(out)

	return NewSimpleUI(cmd), out
}

func TestSimpleUI_DisplayScan(t *testing.T) {
	ui, out := newCapturedUI()

	ui.DisplayScan(context.Background(), []m.FileRef{
		{RelPath: "main.go", SizeBytes: 120},
		{RelPath: "util_test.go", SizeBytes: 80, IsTest: true},
	}, []string{"something odd"})

	output := out.String()
	assert.Contains(t, output, "main.go")
	assert.Contains(t, output, "util_test.go")
	assert.Contains(t, output, "120")
	assert.Contains(t, output, "Total Files 2")
	assert.Contains(t, output, "something odd")
}

func TestSimpleUI_DisplayDiagnostics(t *testing.T) {
	ui, out := newCapturedUI()

	line := 4

	report := m.DiagnosticsReport{
		Languages: []m.LanguageDiagnostics{
			{
				Name: "go",
				Tool: "go build",
				Issues: []m.Diagnostic{
					{File: "main.go", Line: &line, Severity: m.SeverityError, Message: "undefined: foo"},
				},
			},
		},
	}

	ui.DisplayDiagnostics(context.Background(), report, "/tmp/artifacts/DIAG_x.txt")

	output := out.String()
	assert.Contains(t, output, "go build")
	assert.Contains(t, output, "main.go:4")
	assert.Contains(t, output, "undefined: foo")
	assert.Contains(t, output, "Artifact: /tmp/artifacts/DIAG_x.txt")
}

func TestSimpleUI_DisplayTestPlan_AllCovered(t *testing.T) {
	ui, out := newCapturedUI()

	report := m.TestPlanReport{
		Subjects: []m.TestSubject{{File: "a.go", Name: "Add", HasTest: true}},
	}

	ui.DisplayTestPlan(context.Background(), report, "")

	assert.Contains(t, out.String(), "Every extracted subject has a companion test file")
}

func TestSimpleUI_CancelledContextIsSilent(t *testing.T) {
	ui, out := newCapturedUI()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ui.DisplayScan(ctx, []m.FileRef{{RelPath: "main.go"}}, nil)
	ui.DisplayPackSummary(ctx, m.PackReport{}, "x")

	require.Empty(t, out.String())
}
