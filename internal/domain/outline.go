package domain

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// MarkdownOutline extracts the heading structure of a markdown document by
// walking the goldmark AST; nil is returned for documents without headings.
func MarkdownOutline(relPath string, content []byte) *m.DocOutline {
	parser := goldmark.New().Parser()
	root := parser.Parse(text.NewReader(content))

	var sections []m.DocSection

	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		heading, ok := node.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		sections = append(sections, m.DocSection{
			Level: heading.Level,
			Title: string(headingText(heading, content)),
		})

		return ast.WalkSkipChildren, nil
	})

	if len(sections) == 0 {
		return nil
	}

	return &m.DocOutline{File: relPath, Sections: sections}
}

func headingText(heading *ast.Heading, source []byte) []byte {
	var out []byte

	for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			out = append(out, textNode.Segment.Value(source)...)
		}
	}

	return out
}
