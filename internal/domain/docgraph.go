package domain

import (
	"path"
	"regexp"
	"sort"
	"strings"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

var (
	jsImportRe     = regexp.MustCompile(`(?m)^\s*import\s+(?:[^'"]*\s+from\s+)?['"]([^'"]+)['"]`)
	jsRequireRe    = regexp.MustCompile(`(?m)require\(\s*['"]([^'"]+)['"]\s*\)`)
	pyImportRe     = regexp.MustCompile(`(?m)^\s*import\s+([A-Za-z0-9_.]+)`)
	pyFromRe       = regexp.MustCompile(`(?m)^\s*from\s+([A-Za-z0-9_.]+)\s+import\s+`)
	goImportOneRe  = regexp.MustCompile(`(?m)^import\s+(?:\w+\s+)?"([^"]+)"`)
	goImportListRe = regexp.MustCompile(`(?s)import\s*\(\s*(.*?)\s*\)`)
	goQuotedRe     = regexp.MustCompile(`"([^"]+)"`)
	rustUseRe      = regexp.MustCompile(`(?m)^\s*use\s+([A-Za-z0-9_:]+)`)
	javaImportRe   = regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([A-Za-z0-9_.]+(?:\.\*)?)\s*;`)
)

// ParseImports extracts raw import targets from one source file.
func ParseImports(relPath, content string) []string {
	var out []string

	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}

	switch LanguageForPath(relPath) {
	case "typescript", "javascript":
		for _, match := range jsImportRe.FindAllStringSubmatch(content, -1) {
			add(match[1])
		}

		for _, match := range jsRequireRe.FindAllStringSubmatch(content, -1) {
			add(match[1])
		}
	case "python":
		for _, match := range pyImportRe.FindAllStringSubmatch(content, -1) {
			add(match[1])
		}

		for _, match := range pyFromRe.FindAllStringSubmatch(content, -1) {
			add(match[1])
		}
	case "go":
		for _, match := range goImportOneRe.FindAllStringSubmatch(content, -1) {
			add(match[1])
		}

		for _, block := range goImportListRe.FindAllStringSubmatch(content, -1) {
			for _, q := range goQuotedRe.FindAllStringSubmatch(block[1], -1) {
				add(q[1])
			}
		}
	case "rust":
		for _, match := range rustUseRe.FindAllStringSubmatch(content, -1) {
			add(match[1])
		}
	case "java", "kotlin":
		for _, match := range javaImportRe.FindAllStringSubmatch(content, -1) {
			add(match[1])
		}
	}

	return out
}

// BuildImportGraph extracts imports across all files, resolves internal
// targets against the scanned file set, and renders an ASCII adjacency
// listing grouped by source file. externalCounts tallies imports that did
// not resolve to a file in the tree.
func BuildImportGraph(relPaths []string, contents map[string]string) ([]m.Import, string, map[string]int) {
	exists := make(map[string]bool, len(relPaths))
	stems := map[string][]string{}

	for _, p := range relPaths {
		exists[p] = true

		stem := strings.TrimSuffix(path.Base(p), path.Ext(p))
		stems[strings.ToLower(stem)] = append(stems[strings.ToLower(stem)], p)
	}

	var imports []m.Import

	externalCounts := map[string]int{}

	for _, rel := range relPaths {
		content, ok := contents[rel]
		if !ok {
			continue
		}

		for _, raw := range ParseImports(rel, content) {
			resolved := resolveImport(rel, raw, exists, stems)

			imp := m.Import{
				File:       rel,
				Language:   LanguageForPath(rel),
				Raw:        raw,
				IsInternal: resolved != "",
			}

			if resolved != "" {
				imp.ResolvedPath = resolved
			} else {
				externalCounts[raw]++
			}

			imports = append(imports, imp)
		}
	}

	return imports, renderImportGraph(imports), externalCounts
}

// resolveImport maps a raw import to a scanned file: relative specifiers by
// path join (trying common extensions and index files), everything else by
// final-component stem lookup.
func resolveImport(fromRel, raw string, exists map[string]bool, stems map[string][]string) string {
	if strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") {
		joined := path.Join(path.Dir(fromRel), raw)

		candidates := []string{joined}
		for _, ext := range []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".py"} {
			candidates = append(candidates, joined+ext)
		}

		for _, ext := range []string{".ts", ".js"} {
			candidates = append(candidates, path.Join(joined, "index"+ext))
		}

		for _, c := range candidates {
			if exists[c] {
				return c
			}
		}

		return ""
	}

	last := raw

	for _, sep := range []string{"/", ".", "::"} {
		if idx := strings.LastIndex(last, sep); idx >= 0 {
			last = last[idx+len(sep):]
		}
	}

	matches := stems[strings.ToLower(last)]
	if len(matches) == 1 && matches[0] != fromRel {
		return matches[0]
	}

	return ""
}

func renderImportGraph(imports []m.Import) string {
	byFile := map[string][]m.Import{}

	var order []string

	for _, imp := range imports {
		if _, ok := byFile[imp.File]; !ok {
			order = append(order, imp.File)
		}

		byFile[imp.File] = append(byFile[imp.File], imp)
	}

	sort.Strings(order)

	var b strings.Builder

	for _, file := range order {
		b.WriteString(file)
		b.WriteString("\n")

		edges := byFile[file]
		for i, e := range edges {
			connector := "├── "
			if i == len(edges)-1 {
				connector = "└── "
			}

			b.WriteString(connector)

			if e.IsInternal {
				b.WriteString(e.ResolvedPath)
			} else {
				b.WriteString(e.Raw)
				b.WriteString(" (external)")
			}

			b.WriteString("\n")
		}
	}

	return b.String()
}

// RenderDirTree draws the scanned files as an indented directory tree.
func RenderDirTree(relPaths []string) string {
	sorted := make([]string, len(relPaths))
	copy(sorted, relPaths)
	sort.Strings(sorted)

	var b strings.Builder

	printed := map[string]bool{}

	for _, rel := range sorted {
		parts := strings.Split(rel, "/")

		for depth := 0; depth < len(parts)-1; depth++ {
			dir := strings.Join(parts[:depth+1], "/")
			if printed[dir] {
				continue
			}

			printed[dir] = true

			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(parts[depth])
			b.WriteString("/\n")
		}

		b.WriteString(strings.Repeat("  ", len(parts)-1))
		b.WriteString(parts[len(parts)-1])
		b.WriteString("\n")
	}

	return b.String()
}
