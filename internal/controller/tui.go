package controller

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// TUI implements UI using Bubble Tea. It animates a spinner while
// diagnostic tools run and falls back to plain printing for the
// non-interactive displays.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program in the background.
func (p *TUI) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.program = tea.NewProgram(newProgressModel(), tea.WithOutput(p.output))
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		_, _ = p.program.Run()
	}()

	return nil
}

// Close stops the progress program if it is still running.
func (p *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.finish()
}

// finish asks the program to quit and waits for the terminal to be restored.
func (p *TUI) finish() {
	if p.program == nil {
		return
	}

	p.program.Send(progressFinishMsg{})
	<-p.done
	p.program = nil
}

// DisplayProfile prints the detected project profile.
func (p *TUI) DisplayProfile(ctx context.Context, profile m.ProjectProfile) {
	if err := ctx.Err(); err != nil {
		return
	}

	langs := "none"
	if len(profile.Languages) > 0 {
		langs = strings.Join(profile.Languages, ", ")
	}

	fmt.Fprintf(p.output, "Project: %s\nLanguages: %s\n", profile.Root, langs)
}

// DisplayScan prints the included files as a table.
func (p *TUI) DisplayScan(ctx context.Context, files []m.FileRef, warnings []string) {
	if err := ctx.Err(); err != nil {
		return
	}

	fmt.Fprintf(p.output, "\n%s", renderScanTable(files))
	p.printWarnings(warnings)
}

// DisplayPackSummary prints the pack run summary.
func (p *TUI) DisplayPackSummary(ctx context.Context, report m.PackReport, artifactPath string) {
	if err := ctx.Err(); err != nil {
		return
	}

	fmt.Fprintf(p.output, "Packed %d of %d files (%d bytes, ~%d tokens)\n",
		report.FilesIncluded, report.FilesScanned, report.TotalBytes, report.TokenEstimate)
	p.printWarnings(report.Warnings)
	p.printArtifact(artifactPath)
}

// DisplayToolStart marks a diagnostic tool as running in the progress view.
func (p *TUI) DisplayToolStart(ctx context.Context, language string, tool string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if p.program != nil {
		p.program.Send(toolStartMsg{language: language, tool: tool})
	}
}

// DisplayToolDone records one language's outcome in the progress view.
func (p *TUI) DisplayToolDone(ctx context.Context, lang m.LanguageDiagnostics) {
	if err := ctx.Err(); err != nil {
		return
	}

	if p.program != nil {
		p.program.Send(toolDoneMsg{line: fmt.Sprintf("%s: %s", lang.Name, formatIssueCount(lang))})
	}
}

// DisplayDiagnostics stops the progress view and prints the final table.
func (p *TUI) DisplayDiagnostics(ctx context.Context, report m.DiagnosticsReport, artifactPath string) {
	if err := ctx.Err(); err != nil {
		return
	}

	p.finish()

	fmt.Fprintf(p.output, "\n%s", renderDiagnosticsTable(report))
	p.printWarnings(report.Warnings)
	p.printArtifact(artifactPath)
}

// DisplayTestPlan prints untested subjects grouped by file.
func (p *TUI) DisplayTestPlan(ctx context.Context, report m.TestPlanReport, artifactPath string) {
	if err := ctx.Err(); err != nil {
		return
	}

	untested := 0

	for _, subject := range report.Subjects {
		if !subject.HasTest {
			untested++
		}
	}

	fmt.Fprintf(p.output, "Subjects: %d (%d untested)\n", len(report.Subjects), untested)
	p.printWarnings(report.Warnings)
	p.printArtifact(artifactPath)
}

// DisplayDoc prints the structure report summary.
func (p *TUI) DisplayDoc(ctx context.Context, report m.DocReport, artifactPath string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if report.DirTree != "" {
		fmt.Fprintf(p.output, "%s\n", report.DirTree)
	}

	if len(report.ExternalCounts) > 0 {
		deps := make([]string, 0, len(report.ExternalCounts))
		for dep := range report.ExternalCounts {
			deps = append(deps, dep)
		}

		sort.Strings(deps)

		fmt.Fprintf(p.output, "External dependencies: %s\n", strings.Join(deps, ", "))
	}

	p.printWarnings(report.Warnings)
	p.printArtifact(artifactPath)
}

func (p *TUI) printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(p.output, "%s %s\n", warningStyle.Render("warning:"), w)
	}
}

func (p *TUI) printArtifact(artifactPath string) {
	if artifactPath == "" {
		return
	}

	fmt.Fprintf(p.output, "Artifact: %s\n", artifactPath)
}

type toolStartMsg struct {
	language string
	tool     string
}

type toolDoneMsg struct {
	line string
}

type progressFinishMsg struct{}

// progressModel renders finished tool lines above a spinner for the
// currently running tool.
type progressModel struct {
	spinner  spinner.Model
	current  string
	finished []string
	quitting bool
}

func newProgressModel() progressModel {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("12"))),
	)

	return progressModel{spinner: sp}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case toolStartMsg:
		pm.current = fmt.Sprintf("Checking %s with %s", msg.language, msg.tool)

		return pm, nil

	case toolDoneMsg:
		pm.current = ""
		pm.finished = append(pm.finished, msg.line)

		return pm, nil

	case progressFinishMsg:
		pm.quitting = true

		return pm, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			pm.quitting = true
			return pm, tea.Quit
		}

		return pm, nil

	case spinner.TickMsg:
		var cmd tea.Cmd

		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm progressModel) View() string {
	var b strings.Builder

	for _, line := range pm.finished {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if pm.quitting {
		return b.String()
	}

	if pm.current != "" {
		b.WriteString(pm.spinner.View())
		b.WriteString(" ")
		b.WriteString(pm.current)
		b.WriteString("\n")
	}

	return b.String()
}
