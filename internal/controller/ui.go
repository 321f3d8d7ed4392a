// Package controller provides output adapters for displaying command results.
package controller

import (
	"context"
	"os"

	"golang.org/x/term"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// UI defines the interface for displaying run progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context) error
	Close(ctx context.Context)
	DisplayProfile(ctx context.Context, profile m.ProjectProfile)
	DisplayScan(ctx context.Context, files []m.FileRef, warnings []string)
	DisplayPackSummary(ctx context.Context, report m.PackReport, artifactPath string)
	DisplayToolStart(ctx context.Context, language string, tool string)
	DisplayToolDone(ctx context.Context, lang m.LanguageDiagnostics)
	DisplayDiagnostics(ctx context.Context, report m.DiagnosticsReport, artifactPath string)
	DisplayTestPlan(ctx context.Context, report m.TestPlanReport, artifactPath string)
	DisplayDoc(ctx context.Context, report m.DocReport, artifactPath string)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
