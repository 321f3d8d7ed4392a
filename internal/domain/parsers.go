package domain

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// Each parser is a pure function (stdout, stderr) -> []Diagnostic for one
// tool's output format. They are best-effort regex extractors; lines that
// don't match the tool's usual shape are dropped, never errors.

var (
	goDiagRe     = regexp.MustCompile(`(?m)^(.+?\.go):(\d+)(?::(\d+))?:\s+(.*)$`)
	tscDiagRe    = regexp.MustCompile(`(?m)^(.+?\.(?:ts|tsx|js|jsx|mjs|cjs)):(\d+):(\d+)\s*-\s*(error|warning)\s*TS(\d+):\s*(.+)$`)
	unixDiagRe   = regexp.MustCompile(`(?m)^(.+?):(\d+):(\d+):\s+(.+?)\s*(?:\[(Error|Warning)(?:/([^\]]+))?\])?$`)
	rustDiagRe   = regexp.MustCompile(`(?m)^(error|warning)(?:\[(\w+)\])?:\s+(.+)$`)
	rustLocRe    = regexp.MustCompile(`(?m)^\s*-->\s+(.+?):(\d+):(\d+)\s*$`)
	pythonLocRe  = regexp.MustCompile(`(?m)File "(.+?)", line (\d+)`)
	pythonMsgRe  = regexp.MustCompile(`(?m)^(\w*Error):\s*(.+)$`)
	javacDiagRe  = regexp.MustCompile(`(?m)^(.+?\.java):(\d+):\s+(error|warning):\s+(.+)$`)
	clangDiagRe  = regexp.MustCompile(`(?m)^(.+?):(\d+):(\d+):\s+(error|warning|note):\s+(.+)$`)
)

// ParseGo extracts diagnostics from `go build -gcflags=all=-e` output. The
// Go toolchain does not label severities; everything it prints is an error.
func ParseGo(stdout, stderr string) []m.Diagnostic {
	var out []m.Diagnostic

	for _, match := range goDiagRe.FindAllStringSubmatch(stdout+"\n"+stderr, -1) {
		out = append(out, m.Diagnostic{
			Tool:     "go build",
			Language: "go",
			File:     match[1],
			Line:     atoiPtr(match[2]),
			Column:   atoiPtr(match[3]),
			Severity: m.SeverityError,
			Message:  match[4],
		})
	}

	return out
}

// ParseTypeScript extracts diagnostics from tsc's "file:line:col - severity
// TSnnnn: message" format. language distinguishes checkJs runs.
func ParseTypeScript(stdout, stderr, language, tool string) []m.Diagnostic {
	var out []m.Diagnostic

	for _, match := range tscDiagRe.FindAllStringSubmatch(stdout+"\n"+stderr, -1) {
		out = append(out, m.Diagnostic{
			Tool:     tool,
			Language: language,
			File:     match[1],
			Line:     atoiPtr(match[2]),
			Column:   atoiPtr(match[3]),
			Code:     "TS" + match[5],
			Severity: severityFromWord(match[4]),
			Message:  match[6],
		})
	}

	return out
}

// ParseUnixStyle extracts "file:line:col: message [Severity/rule]" records,
// the shape produced by `eslint -f unix` and similar linters.
func ParseUnixStyle(stdout, stderr, language, tool string) []m.Diagnostic {
	var out []m.Diagnostic

	for _, match := range unixDiagRe.FindAllStringSubmatch(stdout+"\n"+stderr, -1) {
		sev := m.SeverityError
		if match[5] != "" {
			sev = severityFromWord(match[5])
		}

		out = append(out, m.Diagnostic{
			Tool:     tool,
			Language: language,
			File:     match[1],
			Line:     atoiPtr(match[2]),
			Column:   atoiPtr(match[3]),
			Code:     match[6],
			Severity: sev,
			Message:  match[4],
		})
	}

	return out
}

// ParseRust extracts diagnostics from `cargo check` human output, pairing
// each "error[Ennnn]: message" header with the "--> file:line:col" line
// that follows it.
func ParseRust(stdout, stderr string) []m.Diagnostic {
	combined := stdout + "\n" + stderr
	lines := strings.Split(combined, "\n")

	var out []m.Diagnostic

	for i := 0; i < len(lines); i++ {
		head := rustDiagRe.FindStringSubmatch(lines[i])
		if head == nil {
			continue
		}

		// Skip cargo's trailing "error: aborting due to ..." summaries.
		if strings.HasPrefix(head[3], "aborting due to") || strings.HasPrefix(head[3], "could not compile") {
			continue
		}

		d := m.Diagnostic{
			Tool:     "cargo check",
			Language: "rust",
			Code:     head[2],
			Severity: severityFromWord(head[1]),
			Message:  head[3],
		}

		for j := i + 1; j < len(lines) && j <= i+3; j++ {
			if loc := rustLocRe.FindStringSubmatch(lines[j]); loc != nil {
				d.File = loc[1]
				d.Line = atoiPtr(loc[2])
				d.Column = atoiPtr(loc[3])

				break
			}
		}

		out = append(out, d)
	}

	return out
}

// ParsePython extracts the failure location and message from
// `python -m py_compile` tracebacks.
func ParsePython(stdout, stderr string) []m.Diagnostic {
	combined := stdout + "\n" + stderr

	locs := pythonLocRe.FindAllStringSubmatch(combined, -1)
	msgs := pythonMsgRe.FindAllStringSubmatch(combined, -1)

	if len(locs) == 0 && len(msgs) == 0 {
		return nil
	}

	d := m.Diagnostic{
		Tool:     "python -m py_compile",
		Language: "python",
		Severity: m.SeverityError,
	}

	// The last frame of the traceback names the offending file.
	if len(locs) > 0 {
		last := locs[len(locs)-1]
		d.File = last[1]
		d.Line = atoiPtr(last[2])
	}

	if len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		d.Code = last[1]
		d.Message = last[2]
	} else {
		d.Message = "compilation failed"
	}

	return []m.Diagnostic{d}
}

// ParseJava extracts diagnostics from javac-style output (direct javac,
// Maven and Gradle all surface the same "file.java:line: severity: message"
// lines).
func ParseJava(stdout, stderr string) []m.Diagnostic {
	var out []m.Diagnostic

	for _, match := range javacDiagRe.FindAllStringSubmatch(stdout+"\n"+stderr, -1) {
		out = append(out, m.Diagnostic{
			Tool:     "javac",
			Language: "java",
			File:     match[1],
			Line:     atoiPtr(match[2]),
			Severity: severityFromWord(match[3]),
			Message:  match[4],
		})
	}

	return out
}

// ParseClangLike extracts "file:line:col: severity: message" records, the
// format shared by clang, gcc and swiftc. Notes are reported as info.
func ParseClangLike(stdout, stderr, language, tool string) []m.Diagnostic {
	var out []m.Diagnostic

	for _, match := range clangDiagRe.FindAllStringSubmatch(stdout+"\n"+stderr, -1) {
		out = append(out, m.Diagnostic{
			Tool:     tool,
			Language: language,
			File:     match[1],
			Line:     atoiPtr(match[2]),
			Column:   atoiPtr(match[3]),
			Severity: severityFromWord(match[4]),
			Message:  match[5],
		})
	}

	return out
}

// SortIssuesByFile orders diagnostics by file, then line, then message for
// stable report output.
func SortIssuesByFile(issues []m.Diagnostic) []m.Diagnostic {
	sorted := make([]m.Diagnostic, len(issues))
	copy(sorted, issues)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].File != sorted[j].File {
			return sorted[i].File < sorted[j].File
		}

		li, lj := 0, 0
		if sorted[i].Line != nil {
			li = *sorted[i].Line
		}

		if sorted[j].Line != nil {
			lj = *sorted[j].Line
		}

		if li != lj {
			return li < lj
		}

		return sorted[i].Message < sorted[j].Message
	})

	return sorted
}

func severityFromWord(word string) m.Severity {
	switch strings.ToLower(word) {
	case "warning":
		return m.SeverityWarning
	case "note", "info":
		return m.SeverityInfo
	default:
		return m.SeverityError
	}
}

func atoiPtr(s string) *int {
	if s == "" {
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}

	return &n
}
