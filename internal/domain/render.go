package domain

import (
	"fmt"
	"strconv"
	"strings"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// Pseudo-XML renderers for the per-tool reports. Like the artifact
// envelope, these trade strict XML validity for prompt-friendly output.

// RenderDiagnosticsXML renders the diagnostics report with the fix prompt
// embedded.
func RenderDiagnosticsXML(r m.DiagnosticsReport, fixPrompt string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<diagnostics generatedAt=\"%s\">\n", m.EscapeAttr(r.GeneratedAt))

	for _, lang := range r.Languages {
		fmt.Fprintf(&b, "  <language name=\"%s\" tool=\"%s\">\n", m.EscapeAttr(lang.Name), m.EscapeAttr(lang.Tool))

		for _, d := range lang.Issues {
			fmt.Fprintf(&b, "    <issue file=\"%s\" line=\"%s\" column=\"%s\" severity=\"%s\" code=\"%s\">\n",
				m.EscapeAttr(d.File), intAttr(d.Line), intAttr(d.Column), string(d.Severity), m.EscapeAttr(d.Code))
			b.WriteString("      <![CDATA[" + m.CDATASafe(d.Message) + "]]>\n")
			b.WriteString("    </issue>\n")
		}

		fmt.Fprintf(&b, "    <summary count=\"%d\" errors=\"%d\" warnings=\"%d\" />\n",
			len(lang.Issues), lang.Errors(), lang.Warnings())
		b.WriteString("  </language>\n")
	}

	fmt.Fprintf(&b, "  <summary languages=\"%d\" issues=\"%d\" />\n", len(r.Languages), r.TotalIssues())

	writeWarningsXML(&b, r.Warnings)

	b.WriteString("  <fix_prompt><![CDATA[" + m.CDATASafe(fixPrompt) + "]]></fix_prompt>\n")
	b.WriteString("</diagnostics>")

	return b.String()
}

// FixPrompt renders the agent-facing instruction text for a diagnostics run.
func FixPrompt(r m.DiagnosticsReport) string {
	if r.TotalIssues() == 0 {
		return "All toolchains reported a clean build. No fixes required.\n"
	}

	var b strings.Builder

	b.WriteString("Fix the issues listed in the diagnostics report above, in this order:\n")
	b.WriteString("1. Errors before warnings.\n")
	b.WriteString("2. Within a file, top to bottom, since earlier errors often cascade.\n")
	b.WriteString("3. Re-run the named tool after each file to confirm the fix.\n\nAffected languages: ")

	var parts []string

	for _, lang := range r.Languages {
		if len(lang.Issues) > 0 {
			parts = append(parts, fmt.Sprintf("%s (%d)", lang.Name, len(lang.Issues)))
		}
	}

	b.WriteString(strings.Join(parts, ", "))
	b.WriteString("\n")

	return b.String()
}

// RenderPackXML renders the pack report summary (the context blob itself is
// carried separately in the envelope prompt/stdout).
func RenderPackXML(r m.PackReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<pack generatedAt=\"%s\" root=\"%s\">\n", m.EscapeAttr(r.GeneratedAt), m.EscapeAttr(r.Root))
	fmt.Fprintf(&b, "  <profile languages=\"%s\" isCodeProject=\"%t\" />\n",
		m.EscapeAttr(strings.Join(r.Profile.Languages, ",")), r.Profile.IsCodeProject)
	fmt.Fprintf(&b, "  <summary scanned=\"%d\" included=\"%d\" bytes=\"%d\" tokens=\"%d\" />\n",
		r.FilesScanned, r.FilesIncluded, r.TotalBytes, r.TokenEstimate)

	b.WriteString("  <files>\n")

	for _, f := range r.Files {
		fmt.Fprintf(&b, "    <file path=\"%s\" bytes=\"%d\" test=\"%t\" />\n", m.EscapeAttr(f.RelPath), f.SizeBytes, f.IsTest)
	}

	b.WriteString("  </files>\n")

	writeWarningsXML(&b, r.Warnings)

	b.WriteString("</pack>")

	return b.String()
}

// RenderDocXML renders the doc report.
func RenderDocXML(r m.DocReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<doc generatedAt=\"%s\" root=\"%s\">\n", m.EscapeAttr(r.GeneratedAt), m.EscapeAttr(r.Root))

	if r.DirTree != "" {
		b.WriteString("  <tree><![CDATA[\n" + m.CDATASafe(r.DirTree) + "]]></tree>\n")
	}

	if r.ImportGraph != "" {
		b.WriteString("  <import_graph><![CDATA[\n" + m.CDATASafe(r.ImportGraph) + "]]></import_graph>\n")
	}

	if len(r.ExternalCounts) > 0 {
		b.WriteString("  <external_dependencies>\n")

		for _, dep := range sortedCountKeys(r.ExternalCounts) {
			fmt.Fprintf(&b, "    <dependency name=\"%s\" count=\"%d\" />\n", m.EscapeAttr(dep), r.ExternalCounts[dep])
		}

		b.WriteString("  </external_dependencies>\n")
	}

	for _, outline := range r.Outlines {
		fmt.Fprintf(&b, "  <outline file=\"%s\">\n", m.EscapeAttr(outline.File))

		for _, s := range outline.Sections {
			fmt.Fprintf(&b, "    <section level=\"%d\" title=\"%s\" />\n", s.Level, m.EscapeAttr(s.Title))
		}

		b.WriteString("  </outline>\n")
	}

	for _, doc := range r.Fetched {
		fmt.Fprintf(&b, "  <fetched uri=\"%s\" title=\"%s\">\n", m.EscapeAttr(doc.URI), m.EscapeAttr(doc.Title))
		b.WriteString("    <![CDATA[" + m.CDATASafe(doc.Preview) + "]]>\n")
		b.WriteString("  </fetched>\n")
	}

	writeWarningsXML(&b, r.Warnings)

	b.WriteString("</doc>")

	return b.String()
}

// DocPrompt renders the agent-facing instruction text for a doc run.
func DocPrompt(r m.DocReport) string {
	var b strings.Builder

	b.WriteString("The report above describes the project's structure: directory tree, import graph,\n")
	b.WriteString("external dependencies and document outlines. Use it to orient yourself before\n")
	b.WriteString("reading individual files, and prefer the import graph over guessing at coupling.\n")

	return b.String()
}

// RenderTestPlanXML renders the testplan report.
func RenderTestPlanXML(r m.TestPlanReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<testplan generatedAt=\"%s\" root=\"%s\">\n", m.EscapeAttr(r.GeneratedAt), m.EscapeAttr(r.Root))

	if len(r.Frameworks) > 0 {
		b.WriteString("  <frameworks>\n")

		for _, lang := range sortedFrameworkKeys(r.Frameworks) {
			fmt.Fprintf(&b, "    <language name=\"%s\" frameworks=\"%s\" />\n",
				m.EscapeAttr(lang), m.EscapeAttr(strings.Join(r.Frameworks[lang], ",")))
		}

		b.WriteString("  </frameworks>\n")
	}

	b.WriteString("  <subjects>\n")

	for _, s := range r.Subjects {
		fmt.Fprintf(&b, "    <subject file=\"%s\" kind=\"%s\" name=\"%s\" hasTest=\"%t\" testFile=\"%s\" />\n",
			m.EscapeAttr(s.File), m.EscapeAttr(s.Kind), m.EscapeAttr(s.Name), s.HasTest, m.EscapeAttr(s.TestFile))
	}

	b.WriteString("  </subjects>\n")

	untested := 0

	for _, s := range r.Subjects {
		if !s.HasTest {
			untested++
		}
	}

	fmt.Fprintf(&b, "  <summary subjects=\"%d\" untested=\"%d\" />\n", len(r.Subjects), untested)

	writeWarningsXML(&b, r.Warnings)

	b.WriteString("</testplan>")

	return b.String()
}

func writeWarningsXML(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}

	b.WriteString("  <warnings>\n")

	for _, w := range warnings {
		b.WriteString("    <warning><![CDATA[" + m.CDATASafe(w) + "]]></warning>\n")
	}

	b.WriteString("  </warnings>\n")
}

func intAttr(n *int) string {
	if n == nil {
		return ""
	}

	return strconv.Itoa(*n)
}

func sortedCountKeys(counts map[string]int) []string {
	return sortedKeys(boolKeys(counts))
}

func sortedFrameworkKeys(fw map[string][]string) []string {
	set := map[string]bool{}
	for k := range fw {
		set[k] = true
	}

	return sortedKeys(set)
}

func boolKeys(counts map[string]int) map[string]bool {
	set := map[string]bool{}
	for k := range counts {
		set[k] = true
	}

	return set
}
