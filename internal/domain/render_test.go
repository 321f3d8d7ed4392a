package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

func TestRenderDiagnosticsXML(t *testing.T) {
	line := 12

	report := m.DiagnosticsReport{
		GeneratedAt: "2026-01-02T03:04:05Z",
		Languages: []m.LanguageDiagnostics{
			{
				Name: "go",
				Tool: "go build",
				Issues: []m.Diagnostic{
					{File: "main.go", Line: &line, Severity: m.SeverityError, Message: "undefined: foo"},
				},
			},
			{Name: "python", Tool: "python -m py_compile"},
		},
		Warnings: []string{"tsc not found, skipping typescript"},
	}

	out := RenderDiagnosticsXML(report, FixPrompt(report))

	assert.Contains(t, out, `<language name="go" tool="go build">`)
	assert.Contains(t, out, `<issue file="main.go" line="12"`)
	assert.Contains(t, out, "<![CDATA[undefined: foo]]>")
	assert.Contains(t, out, `<summary languages="2" issues="1" />`)
	assert.Contains(t, out, "tsc not found")
	assert.Contains(t, out, "<fix_prompt>")
	assert.True(t, strings.HasSuffix(out, "</diagnostics>"))
}

func TestFixPrompt(t *testing.T) {
	clean := FixPrompt(m.DiagnosticsReport{})
	assert.Contains(t, clean, "No fixes required")

	report := m.DiagnosticsReport{
		Languages: []m.LanguageDiagnostics{
			{Name: "go", Issues: []m.Diagnostic{{Message: "x"}, {Message: "y"}}},
			{Name: "rust"},
		},
	}

	prompt := FixPrompt(report)
	assert.Contains(t, prompt, "go (2)")
	assert.NotContains(t, prompt, "rust")
}

func TestRenderPackXML(t *testing.T) {
	report := m.PackReport{
		GeneratedAt:   "2026-01-02T03:04:05Z",
		Root:          "/work/demo",
		Profile:       m.ProjectProfile{Languages: []string{"go"}, IsCodeProject: true},
		FilesScanned:  3,
		FilesIncluded: 2,
		Files: []m.FileRef{
			{RelPath: "main.go", SizeBytes: 120},
			{RelPath: "util_test.go", SizeBytes: 80, IsTest: true},
		},
	}

	out := RenderPackXML(report)

	assert.Contains(t, out, `root="/work/demo"`)
	assert.Contains(t, out, `<file path="main.go" bytes="120" test="false" />`)
	assert.Contains(t, out, `<file path="util_test.go" bytes="80" test="true" />`)
	assert.Contains(t, out, `scanned="3" included="2"`)
}

func TestRenderDocXML(t *testing.T) {
	report := m.DocReport{
		GeneratedAt:    "2026-01-02T03:04:05Z",
		DirTree:        "src/\n  app.ts\n",
		ImportGraph:    "src/app.ts\n└── react (external)\n",
		ExternalCounts: map[string]int{"react": 2, "lodash": 1},
		Outlines: []m.DocOutline{
			{File: "README.md", Sections: []m.DocSection{{Level: 1, Title: "Demo"}}},
		},
		Fetched: []m.FetchedDoc{{URI: "https://docs.example.com/", Title: "Docs", Preview: "hello"}},
	}

	out := RenderDocXML(report)

	assert.Contains(t, out, "<tree><![CDATA[")
	assert.Contains(t, out, "<import_graph><![CDATA[")

	// External deps are listed sorted by name.
	lodashAt := strings.Index(out, `name="lodash"`)
	reactAt := strings.Index(out, `name="react"`)
	assert.Greater(t, reactAt, lodashAt)

	assert.Contains(t, out, `<section level="1" title="Demo" />`)
	assert.Contains(t, out, `<fetched uri="https://docs.example.com/" title="Docs">`)
}

func TestRenderTestPlanXML(t *testing.T) {
	report := m.TestPlanReport{
		GeneratedAt: "2026-01-02T03:04:05Z",
		Frameworks:  map[string][]string{"go": {"go test"}},
		Subjects: []m.TestSubject{
			{File: "a.go", Kind: "function", Name: "Add", HasTest: true, TestFile: "a_test.go"},
			{File: "b.go", Kind: "function", Name: "Sub"},
		},
	}

	out := RenderTestPlanXML(report)

	assert.Contains(t, out, `<language name="go" frameworks="go test" />`)
	assert.Contains(t, out, `<subject file="a.go" kind="function" name="Add" hasTest="true" testFile="a_test.go" />`)
	assert.Contains(t, out, `<summary subjects="2" untested="1" />`)
}
