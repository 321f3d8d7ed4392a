package domain

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"promptpack.dev/pkg/promptpack/internal/adapter"
	m "promptpack.dev/pkg/promptpack/internal/model"
	"promptpack.dev/pkg/promptpack/pkg/glob"
)

// DefaultMinSourceFiles is the extension-census threshold above which a
// directory counts as a code project even without marker files.
const DefaultMinSourceFiles = 8

// markerPatterns maps a language tag to filename patterns whose presence is
// strong evidence the project uses that language. Patterns may contain the
// restricted glob syntax and match anywhere in the tree.
var markerPatterns = map[string][]string{
	"typescript": {"tsconfig.json"},
	"javascript": {"package.json"},
	"python":     {"pyproject.toml", "requirements.txt", "Pipfile", "setup.py", "setup.cfg", "tox.ini"},
	"go":         {"go.mod"},
	"rust":       {"Cargo.toml"},
	"java":       {"pom.xml", "build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts"},
	"kotlin":     {"build.gradle.kts"},
	"csharp":     {"*.sln", "*.csproj"},
	"cpp":        {"CMakeLists.txt"},
	"php":        {"composer.json"},
	"ruby":       {"Gemfile"},
	"swift":      {"Package.swift"},
	"docker":     {"Dockerfile"},
}

// sourceExtToLang maps a file extension to the language it counts toward in
// the extension census.
var sourceExtToLang = map[string]string{
	".ts": "typescript", ".tsx": "typescript",
	".js": "javascript", ".jsx": "javascript", ".mjs": "javascript", ".cjs": "javascript",
	".py":   "python",
	".go":   "go",
	".rs":   "rust",
	".java": "java",
	".kt":   "kotlin", ".kts": "kotlin",
	".c": "cpp", ".cc": "cpp", ".cpp": "cpp", ".cxx": "cpp", ".h": "cpp", ".hpp": "cpp", ".hh": "cpp",
	".cs":    "csharp",
	".php":   "php",
	".rb":    "ruby",
	".swift": "swift",
}

// vcsDirNames are never descended into during detection.
var vcsDirNames = map[string]bool{".git": true, ".hg": true, ".svn": true}

// Detector inspects a directory tree and produces a ProjectProfile.
type Detector struct {
	fs adapter.SourceFSAdapter

	// MinSourceFiles overrides DefaultMinSourceFiles when positive.
	MinSourceFiles int
}

// NewDetector constructs a Detector backed by the given filesystem adapter.
func NewDetector(fsAdapter adapter.SourceFSAdapter) *Detector {
	return &Detector{fs: fsAdapter}
}

// Detect builds the profile for root. Marker detection and the extension
// census are independent and additive: a go.mod with zero .go files and a
// tree of .go files without go.mod both count toward detection.
func (d *Detector) Detect(root m.Path) (m.ProjectProfile, error) {
	rootAbs, err := d.fs.Abs(root)
	if err != nil {
		return m.ProjectProfile{}, fmt.Errorf("resolve root: %w", err)
	}

	info, err := d.fs.Stat(rootAbs)
	if err != nil {
		return m.ProjectProfile{}, fmt.Errorf("stat %s: %w", root, err)
	}

	if !info.IsDir() {
		return m.ProjectProfile{}, fmt.Errorf("%s: %w", root, m.ErrNotDirectory)
	}

	languages := map[string]bool{}
	markers := map[string]bool{}

	var evidence []string

	sourceFiles := 0
	prune := basePruneDirs()

	// A single walk serves both marker matching and the extension census.
	// Individual unreadable entries are tolerated; the walk continues.
	walkErr := d.fs.Walk(rootAbs, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		rel, relErr := d.fs.Rel(rootAbs, m.Path(p))
		if relErr != nil || rel == "." {
			return nil
		}

		if entry.IsDir() {
			name := entry.Name()

			// Vendored and build trees would skew the census badly.
			if vcsDirNames[name] || prune[name] || prune[strings.ToLower(name)] {
				return adapter.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		base := entry.Name()

		for lang, patterns := range markerPatterns {
			for _, pat := range patterns {
				if base != pat && !glob.Match(base, pat) {
					continue
				}

				languages[lang] = true

				if !markers[rel] {
					markers[rel] = true
					evidence = append(evidence, lang+" marker: "+rel)
				}
			}
		}

		if lang, ok := sourceExtToLang[strings.ToLower(path.Ext(base))]; ok {
			languages[lang] = true
			sourceFiles++
		}

		return nil
	})
	if walkErr != nil {
		return m.ProjectProfile{}, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	minSources := d.MinSourceFiles
	if minSources <= 0 {
		minSources = DefaultMinSourceFiles
	}

	isProject := len(markers) > 0 || sourceFiles >= minSources
	if !isProject {
		evidence = append(evidence, fmt.Sprintf("recognizable source files: %d (need %d)", sourceFiles, minSources))
	}

	sort.Strings(evidence)

	profile := m.ProjectProfile{
		Root:          rootAbs,
		Languages:     sortedKeys(languages),
		Markers:       sortedKeys(markers),
		IsCodeProject: isProject,
		Evidence:      evidence,
	}

	if !isProject {
		return profile, &m.NotCodeProjectError{Profile: profile}
	}

	return profile, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))

	for k := range set {
		if strings.TrimSpace(k) == "" {
			continue
		}

		out = append(out, k)
	}

	sort.Strings(out)

	return out
}
