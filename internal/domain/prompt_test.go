package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

func TestBuildContextBlob_Structure(t *testing.T) {
	blob, warnings := BuildContextBlob([]FileInput{
		{RelPath: "src/a.ts", Content: []byte("const a = 1\n")},
		{RelPath: "README.md", Content: []byte("# hi")},
	})

	assert.Empty(t, warnings)
	assert.True(t, strings.HasPrefix(blob, "<context>\n"))
	assert.True(t, strings.HasSuffix(blob, "</context>\n"))
	assert.Contains(t, blob, "<src/a.ts>\n<![CDATA[\nconst a = 1\n]]>\n</src/a.ts>")

	// Content without a trailing newline still closes its CDATA on its own line.
	assert.Contains(t, blob, "# hi\n]]>\n</README.md>")
}

func TestBuildContextBlob_SplitsCDATATerminator(t *testing.T) {
	blob, warnings := BuildContextBlob([]FileInput{
		{RelPath: "weird.xml", Content: []byte("a]]>b")},
	})

	assert.Empty(t, warnings)
	assert.Contains(t, blob, "]]]]><![CDATA[>")
	assert.NotContains(t, blob, "a]]>b")
}

func TestBuildContextBlob_SkipsNonUTF8(t *testing.T) {
	blob, warnings := BuildContextBlob([]FileInput{
		{RelPath: "data.bin", Content: []byte{0xff, 0xfe, 0x00}},
		{RelPath: "ok.txt", Content: []byte("fine\n")},
	})

	assert.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "data.bin")
	assert.NotContains(t, blob, "data.bin")
	assert.Contains(t, blob, "<ok.txt>")
}

func TestBuildContextBlob_SkipsEmptyRelPath(t *testing.T) {
	_, warnings := BuildContextBlob([]FileInput{{RelPath: "  ", Content: []byte("x")}})

	assert.Len(t, warnings, 1)
}

func TestPackPrompt(t *testing.T) {
	report := m.PackReport{
		Profile:       m.ProjectProfile{Languages: []string{"go", "typescript"}},
		FilesIncluded: 12,
	}

	prompt := PackPrompt(report)

	assert.Contains(t, prompt, "go, typescript")
	assert.Contains(t, prompt, "Files included: 12")

	empty := PackPrompt(m.PackReport{})
	assert.Contains(t, empty, "(none detected)")
}
