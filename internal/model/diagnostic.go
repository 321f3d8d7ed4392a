package model

// Severity classifies a diagnostic.
type Severity string

// Available Severity values.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a uniform record parsed from an external tool's output.
// Line and Column are nil when the tool did not report them.
type Diagnostic struct {
	Tool     string   `json:"tool"`
	Language string   `json:"language"`
	File     string   `json:"file"`
	Line     *int     `json:"line,omitempty"`
	Column   *int     `json:"column,omitempty"`
	Code     string   `json:"code,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// LanguageDiagnostics groups the diagnostics produced for one language by
// one tool invocation (or several, for multi-step builds).
type LanguageDiagnostics struct {
	Name   string       `json:"name"`
	Tool   string       `json:"tool"`
	Issues []Diagnostic `json:"issues"`
}

// Errors returns the number of error-severity issues.
func (l LanguageDiagnostics) Errors() int {
	n := 0

	for _, d := range l.Issues {
		if d.Severity == SeverityError {
			n++
		}
	}

	return n
}

// Warnings returns the number of warning-severity issues.
func (l LanguageDiagnostics) Warnings() int {
	n := 0

	for _, d := range l.Issues {
		if d.Severity == SeverityWarning {
			n++
		}
	}

	return n
}

// DiagnosticsReport is the full multi-language diagnostics result.
type DiagnosticsReport struct {
	Languages   []LanguageDiagnostics `json:"languages"`
	GeneratedAt string                `json:"generatedAt"`
	Warnings    []string              `json:"warnings,omitempty"`
}

// TotalIssues returns the issue count across all languages.
func (r DiagnosticsReport) TotalIssues() int {
	n := 0

	for _, l := range r.Languages {
		n += len(l.Issues)
	}

	return n
}

// ToolResult captures one external tool invocation. ExitCode is 124 when the
// process was killed on timeout, matching the POSIX timeout convention.
type ToolResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// TimeoutExitCode is the sentinel exit code reported for timed-out tools.
const TimeoutExitCode = 124
