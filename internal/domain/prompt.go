package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// tokenEncodingModel selects the tiktoken encoding used for estimates.
const tokenEncodingModel = "gpt-4"

// FileInput is one file to embed in the <context> blob.
type FileInput struct {
	RelPath string
	Content []byte
}

// BuildContextBlob renders the pseudo-XML <context> blob:
//
//	<context>
//	<rel/path/file.ext>
//	<![CDATA[
//	...content...
//	]]>
//	</rel/path/file.ext>
//	</context>
//
// Tag names are relative paths, which is not strict XML; the format is
// optimized for pasting into a model prompt. Files with invalid UTF-8 are
// skipped with a warning and get no element at all.
func BuildContextBlob(files []FileInput) (string, []string) {
	var b strings.Builder

	b.Grow(32 * 1024)

	var warnings []string

	b.WriteString("<context>\n")

	for _, f := range files {
		if strings.TrimSpace(f.RelPath) == "" {
			warnings = append(warnings, "skipping file with empty relative path")

			continue
		}

		if !utf8.Valid(f.Content) {
			warnings = append(warnings, "skipping non-UTF-8 file: "+f.RelPath)

			continue
		}

		content := m.CDATASafe(string(f.Content))

		b.WriteString("<")
		b.WriteString(f.RelPath)
		b.WriteString(">\n<![CDATA[\n")
		b.WriteString(content)

		if !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}

		b.WriteString("]]>\n</")
		b.WriteString(f.RelPath)
		b.WriteString(">\n")
	}

	b.WriteString("</context>\n")

	return b.String(), warnings
}

// EstimateTokens returns the tiktoken token count for text. The estimate is
// best-effort: when the encoding cannot be loaded the count is 0 and the
// error is returned for the caller to record as a warning.
func EstimateTokens(text string) (int, error) {
	enc, err := tiktoken.EncodingForModel(tokenEncodingModel)
	if err != nil {
		return 0, err
	}

	return len(enc.Encode(text, nil, nil)), nil
}

// PackPrompt is the agent-facing instruction text embedded in PACK
// artifacts alongside the context blob.
func PackPrompt(report m.PackReport) string {
	var b strings.Builder

	b.WriteString("You are given the full source context of a project in the <context> block above.\n")
	b.WriteString("Treat each child element's name as the file's path relative to the project root.\n\n")
	b.WriteString("Project languages: ")

	if len(report.Profile.Languages) == 0 {
		b.WriteString("(none detected)")
	} else {
		b.WriteString(strings.Join(report.Profile.Languages, ", "))
	}

	b.WriteString("\nFiles included: ")
	b.WriteString(strconv.Itoa(report.FilesIncluded))
	b.WriteString("\n\nUse this context to answer questions about the codebase. Cite files by their relative path.\n")

	return b.String()
}
