package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

func TestMarkdownOutline(t *testing.T) {
	content := []byte(`# Demo Project

Some intro text.

## Install

    npm install

## Usage

### CLI flags
`)

	outline := MarkdownOutline("README.md", content)
	require.NotNil(t, outline)

	assert.Equal(t, "README.md", outline.File)
	assert.Equal(t, []m.DocSection{
		{Level: 1, Title: "Demo Project"},
		{Level: 2, Title: "Install"},
		{Level: 2, Title: "Usage"},
		{Level: 3, Title: "CLI flags"},
	}, outline.Sections)
}

func TestMarkdownOutline_NoHeadings(t *testing.T) {
	assert.Nil(t, MarkdownOutline("NOTES.md", []byte("just text, no headings\n")))
}

func TestMarkdownOutline_SetextHeading(t *testing.T) {
	content := []byte("Title\n=====\n\nbody\n")

	outline := MarkdownOutline("doc.md", content)
	require.NotNil(t, outline)
	assert.Equal(t, 1, outline.Sections[0].Level)
	assert.Equal(t, "Title", outline.Sections[0].Title)
}
