package model

import "strings"

// ArtifactMeta identifies one artifact envelope.
type ArtifactMeta struct {
	Tool        string // e.g. "pack", "diagnose"
	RunID       string // uuid correlating artifact, log lines and summary
	GeneratedAt string // RFC3339Nano UTC
}

// ArtifactEnvelope is the unified payload written to PACK/DIAG/TESTPLAN/DOC
// artifact files. It bundles three views of the same run: a pseudo-XML
// report, a machine JSON report, and an agent-facing prompt text.
type ArtifactEnvelope struct {
	Meta   ArtifactMeta
	XML    string
	JSON   string
	Prompt string
}

// Render returns the envelope as pseudo-XML text. Element names are
// app-defined and the payload is not strict XML; the CDATA sections keep it
// copy/paste-friendly for both humans and language models.
func (e ArtifactEnvelope) Render() string {
	var b strings.Builder

	b.WriteString(`<promptpack_artifact tool="`)
	b.WriteString(EscapeAttr(e.Meta.Tool))
	b.WriteString(`" id="`)
	b.WriteString(EscapeAttr(e.Meta.RunID))
	b.WriteString(`" generatedAt="`)
	b.WriteString(EscapeAttr(e.Meta.GeneratedAt))
	b.WriteString("\">\n")

	writeSection(&b, "xml", e.XML)
	writeSection(&b, "json", e.JSON)
	writeSection(&b, "prompt", e.Prompt)

	b.WriteString("</promptpack_artifact>\n")

	return b.String()
}

func writeSection(b *strings.Builder, tag, body string) {
	b.WriteString("  <")
	b.WriteString(tag)
	b.WriteString("><![CDATA[\n")

	if body != "" {
		b.WriteString(CDATASafe(body))

		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}

	b.WriteString("  ]]></")
	b.WriteString(tag)
	b.WriteString(">\n")
}

// EscapeAttr escapes a string for use inside a double-quoted XML attribute.
func EscapeAttr(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)

	return r.Replace(s)
}

// CDATASafe splits any "]]>" sequences so the surrounding CDATA section
// cannot be terminated early by its own content.
func CDATASafe(s string) string {
	return strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>")
}
