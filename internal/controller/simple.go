package controller

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayProfile prints the detected project profile.
func (s *SimpleUI) DisplayProfile(ctx context.Context, profile m.ProjectProfile) {
	if err := ctx.Err(); err != nil {
		return
	}

	langs := "none"
	if len(profile.Languages) > 0 {
		langs = strings.Join(profile.Languages, ", ")
	}

	s.printf("Project: %s\n", profile.Root)
	s.printf("Languages: %s\n", langs)

	if len(profile.Markers) > 0 {
		s.printf("Markers: %s\n", strings.Join(profile.Markers, ", "))
	}
}

// DisplayScan prints the included files as a table with per-extension totals.
func (s *SimpleUI) DisplayScan(ctx context.Context, files []m.FileRef, warnings []string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderScanTable(files))
	s.printWarnings(warnings)
}

func renderScanTable(files []m.FileRef) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Path", "Bytes", "Test"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_CENTER})

	var totalBytes int64

	for _, f := range files {
		test := ""
		if f.IsTest {
			test = "yes"
		}

		table.Append([]string{f.RelPath, fmt.Sprintf("%d", f.SizeBytes), test})

		totalBytes += f.SizeBytes
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(files)),
		fmt.Sprintf("%d", totalBytes),
		"",
	})

	table.Render()

	return buf.String()
}

// DisplayPackSummary prints the pack run summary and artifact location.
func (s *SimpleUI) DisplayPackSummary(ctx context.Context, report m.PackReport, artifactPath string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Packed %d of %d files (%d bytes, ~%d tokens)\n",
		report.FilesIncluded, report.FilesScanned, report.TotalBytes, report.TokenEstimate)
	s.printWarnings(report.Warnings)
	s.printArtifact(artifactPath)
}

// DisplayToolStart announces a diagnostic tool invocation.
func (s *SimpleUI) DisplayToolStart(ctx context.Context, language string, tool string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Checking %s with %s...\n", language, tool)
}

// DisplayToolDone reports one language's diagnostic outcome.
func (s *SimpleUI) DisplayToolDone(ctx context.Context, lang m.LanguageDiagnostics) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s: %s\n", lang.Name, formatIssueCount(lang))
}

// DisplayDiagnostics prints the per-language issue table and the worst issues.
func (s *SimpleUI) DisplayDiagnostics(ctx context.Context, report m.DiagnosticsReport, artifactPath string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderDiagnosticsTable(report))

	for _, lang := range report.Languages {
		for _, issue := range lang.Issues {
			if issue.Severity != m.SeverityError {
				continue
			}

			loc := issue.File
			if issue.Line != nil {
				loc = fmt.Sprintf("%s:%d", issue.File, *issue.Line)
			}

			s.printf("%s %s %s\n", errorStyle.Render("error"), loc, issue.Message)
		}
	}

	s.printWarnings(report.Warnings)
	s.printArtifact(artifactPath)
}

func renderDiagnosticsTable(report m.DiagnosticsReport) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Language", "Tool", "Errors", "Warnings"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, lang := range report.Languages {
		table.Append([]string{
			lang.Name,
			lang.Tool,
			fmt.Sprintf("%d", lang.Errors()),
			fmt.Sprintf("%d", lang.Warnings()),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Languages %d", len(report.Languages)),
		"",
		fmt.Sprintf("%d", report.TotalIssues()),
		"",
	})

	table.Render()

	return buf.String()
}

// DisplayTestPlan prints untested subjects grouped by file.
func (s *SimpleUI) DisplayTestPlan(ctx context.Context, report m.TestPlanReport, artifactPath string) {
	if err := ctx.Err(); err != nil {
		return
	}

	untested := map[string][]m.TestSubject{}

	var order []string

	for _, subject := range report.Subjects {
		if subject.HasTest {
			continue
		}

		if _, ok := untested[subject.File]; !ok {
			order = append(order, subject.File)
		}

		untested[subject.File] = append(untested[subject.File], subject)
	}

	sort.Strings(order)

	if len(order) == 0 {
		s.printf("%s\n", okStyle.Render("Every extracted subject has a companion test file."))
		s.printArtifact(artifactPath)

		return
	}

	s.printf("Untested subjects:\n")

	for _, file := range order {
		s.printf("  %s\n", file)

		for _, subject := range untested[file] {
			s.printf("    %s %s\n", faintStyle.Render(subject.Kind), subject.Name)
		}
	}

	s.printWarnings(report.Warnings)
	s.printArtifact(artifactPath)
}

// DisplayDoc prints the structure report summary.
func (s *SimpleUI) DisplayDoc(ctx context.Context, report m.DocReport, artifactPath string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if report.DirTree != "" {
		s.printf("%s\n", report.DirTree)
	}

	if len(report.ExternalCounts) > 0 {
		deps := make([]string, 0, len(report.ExternalCounts))
		for dep := range report.ExternalCounts {
			deps = append(deps, dep)
		}

		sort.Strings(deps)

		s.printf("External dependencies:\n")

		for _, dep := range deps {
			s.printf("  %s (%d)\n", dep, report.ExternalCounts[dep])
		}
	}

	if len(report.Fetched) > 0 {
		s.printf("Fetched %d page(s)\n", len(report.Fetched))
	}

	s.printWarnings(report.Warnings)
	s.printArtifact(artifactPath)
}

func (s *SimpleUI) printWarnings(warnings []string) {
	for _, w := range warnings {
		s.printf("%s %s\n", warningStyle.Render("warning:"), w)
	}
}

func (s *SimpleUI) printArtifact(artifactPath string) {
	if artifactPath == "" {
		return
	}

	s.printf("Artifact: %s\n", artifactPath)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func formatIssueCount(lang m.LanguageDiagnostics) string {
	if len(lang.Issues) == 0 {
		return okStyle.Render("clean")
	}

	return fmt.Sprintf("%s, %s",
		errorStyle.Render(fmt.Sprintf("%d error(s)", lang.Errors())),
		warningStyle.Render(fmt.Sprintf("%d warning(s)", lang.Warnings())))
}
