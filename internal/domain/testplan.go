package domain

import (
	"path"
	"regexp"
	"sort"
	"strings"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// LanguageForPath maps a relative path to the language tag used by the
// subject extractors and the import parser.
func LanguageForPath(relPath string) string {
	switch strings.ToLower(path.Ext(relPath)) {
	case ".ts", ".tsx":
		return "typescript"
	case ".js", ".jsx", ".mjs", ".cjs":
		return "javascript"
	case ".py":
		return "python"
	case ".go":
		return "go"
	case ".rs":
		return "rust"
	case ".java":
		return "java"
	case ".kt", ".kts":
		return "kotlin"
	case ".rb":
		return "ruby"
	case ".swift":
		return "swift"
	default:
		return ""
	}
}

// Per-language subject extraction. Best-effort regex matching, exactly like
// the diagnostic parsers: anything that fails to match is simply absent
// from the plan.

var (
	goFuncRe   = regexp.MustCompile(`(?m)^func\s+(?:\([^)]+\)\s+)?([A-Z]\w*)\s*\(`)
	goTypeRe   = regexp.MustCompile(`(?m)^type\s+([A-Z]\w*)\s+(?:struct|interface)\b`)
	jsFuncRe   = regexp.MustCompile(`(?m)^\s*(?:export\s+)?(?:async\s+)?function\s+(\w+)\s*\(`)
	jsConstRe  = regexp.MustCompile(`(?m)^\s*export\s+(?:const|let)\s+(\w+)\s*=\s*(?:async\s*)?\(`)
	jsClassRe  = regexp.MustCompile(`(?m)^\s*(?:export\s+)?class\s+(\w+)\b`)
	jsRouteRe  = regexp.MustCompile(`(?m)\.(get|post|put|patch|delete)\(\s*['"]([^'"]+)['"]`)
	pyDefRe    = regexp.MustCompile(`(?m)^def\s+([a-zA-Z_]\w*)\s*\(`)
	pyClassRe  = regexp.MustCompile(`(?m)^class\s+([A-Z]\w*)\b`)
	rustFnRe   = regexp.MustCompile(`(?m)^\s*pub\s+(?:async\s+)?fn\s+(\w+)\s*[(<]`)
	javaMethRe = regexp.MustCompile(`(?m)^\s*public\s+(?:static\s+)?[\w<>\[\]]+\s+(\w+)\s*\(`)
)

// ExtractSubjects pulls test-worthy symbols (exported functions, types,
// HTTP routes) out of one source file's content.
func ExtractSubjects(relPath, content string) []m.TestSubject {
	lang := LanguageForPath(relPath)
	if lang == "" || IsTestFile(relPath) {
		return nil
	}

	var subjects []m.TestSubject

	add := func(kind, name string) {
		subjects = append(subjects, m.TestSubject{
			File:     relPath,
			Language: lang,
			Kind:     kind,
			Name:     name,
		})
	}

	switch lang {
	case "go":
		for _, match := range goFuncRe.FindAllStringSubmatch(content, -1) {
			add("function", match[1])
		}

		for _, match := range goTypeRe.FindAllStringSubmatch(content, -1) {
			add("type", match[1])
		}
	case "typescript", "javascript":
		for _, match := range jsFuncRe.FindAllStringSubmatch(content, -1) {
			add("function", match[1])
		}

		for _, match := range jsConstRe.FindAllStringSubmatch(content, -1) {
			add("function", match[1])
		}

		for _, match := range jsClassRe.FindAllStringSubmatch(content, -1) {
			add("type", match[1])
		}

		for _, match := range jsRouteRe.FindAllStringSubmatch(content, -1) {
			add("route", strings.ToUpper(match[1])+" "+match[2])
		}
	case "python":
		for _, match := range pyDefRe.FindAllStringSubmatch(content, -1) {
			if !strings.HasPrefix(match[1], "_") {
				add("function", match[1])
			}
		}

		for _, match := range pyClassRe.FindAllStringSubmatch(content, -1) {
			add("type", match[1])
		}
	case "rust":
		for _, match := range rustFnRe.FindAllStringSubmatch(content, -1) {
			add("function", match[1])
		}
	case "java", "kotlin":
		for _, match := range javaMethRe.FindAllStringSubmatch(content, -1) {
			add("function", match[1])
		}
	}

	return dedupeSubjects(subjects)
}

// PairWithTests marks each subject whose source file has a companion test
// file in the scanned set, using the shared test naming heuristics.
func PairWithTests(subjects []m.TestSubject, files []m.FileRef) []m.TestSubject {
	testsByStem := map[string]string{}

	for _, f := range files {
		if !f.IsTest {
			continue
		}

		testsByStem[testStem(f.RelPath)] = f.RelPath
	}

	out := make([]m.TestSubject, len(subjects))
	copy(out, subjects)

	for i := range out {
		stem := sourceStem(out[i].File)
		if testFile, ok := testsByStem[stem]; ok {
			out[i].HasTest = true
			out[i].TestFile = testFile
		}
	}

	return out
}

// DetectFrameworks inspects manifests for known test frameworks. read is a
// root-relative reader returning (content, true) when the file exists.
func DetectFrameworks(profile m.ProjectProfile, read func(rel string) (string, bool)) map[string][]string {
	byLang := map[string][]string{}

	if content, ok := read("package.json"); ok {
		low := strings.ToLower(content)

		var found []string

		for _, fw := range []string{"jest", "vitest", "mocha", "playwright", "cypress"} {
			if strings.Contains(low, fw) {
				found = append(found, fw)
			}
		}

		if len(found) > 0 {
			byLang["javascript"] = found
			byLang["typescript"] = found
		}
	}

	for _, manifest := range []string{"pyproject.toml", "requirements.txt", "Pipfile"} {
		content, ok := read(manifest)
		if !ok {
			continue
		}

		low := strings.ToLower(content)

		for _, fw := range []string{"pytest", "unittest", "behave"} {
			if strings.Contains(low, fw) && !containsString(byLang["python"], fw) {
				byLang["python"] = append(byLang["python"], fw)
			}
		}
	}

	for _, lang := range profile.Languages {
		switch lang {
		case "go":
			byLang["go"] = []string{"go test"}
		case "rust":
			byLang["rust"] = []string{"cargo test"}
		case "java", "kotlin":
			byLang[lang] = []string{"JUnit"}
		case "swift":
			byLang["swift"] = []string{"XCTest"}
		}
	}

	return byLang
}

// TestPlanPrompt renders the agent-facing instruction text for a plan.
func TestPlanPrompt(report m.TestPlanReport) string {
	var b strings.Builder

	b.WriteString("Write tests for the untested subjects listed in the report above.\n")
	b.WriteString("Use the detected frameworks where available:\n")

	langs := make([]string, 0, len(report.Frameworks))
	for lang := range report.Frameworks {
		langs = append(langs, lang)
	}

	sort.Strings(langs)

	for _, lang := range langs {
		b.WriteString("  - ")
		b.WriteString(lang)
		b.WriteString(": ")
		b.WriteString(strings.Join(report.Frameworks[lang], ", "))
		b.WriteString("\n")
	}

	b.WriteString("Prioritize exported functions and HTTP routes without an existing companion test file.\n")

	return b.String()
}

func sourceStem(relPath string) string {
	base := path.Base(relPath)

	return strings.TrimSuffix(base, path.Ext(base))
}

// testStem strips test naming decorations so foo_test.go, foo.test.ts and
// test_foo.py all pair with foo.
func testStem(relPath string) string {
	base := path.Base(relPath)
	stem := strings.TrimSuffix(base, path.Ext(base))

	for _, suffix := range []string{"_test", "-test", ".test", ".spec", "_spec"} {
		stem = strings.TrimSuffix(stem, suffix)
	}

	stem = strings.TrimPrefix(stem, "test_")

	return stem
}

func dedupeSubjects(subjects []m.TestSubject) []m.TestSubject {
	seen := map[string]bool{}

	var out []m.TestSubject

	for _, s := range subjects {
		key := s.Kind + "\x00" + s.Name

		if seen[key] {
			continue
		}

		seen[key] = true

		out = append(out, s)
	}

	return out
}

func containsString(xs []string, target string) bool {
	for _, x := range xs {
		if x == target {
			return true
		}
	}

	return false
}
