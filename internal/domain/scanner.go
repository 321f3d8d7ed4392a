package domain

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"

	"promptpack.dev/pkg/promptpack/internal/adapter"
	m "promptpack.dev/pkg/promptpack/internal/model"
	"promptpack.dev/pkg/promptpack/pkg/glob"
)

// DefaultMaxFileBytes is the per-file size ceiling applied when the caller
// does not configure one.
const DefaultMaxFileBytes int64 = 1_500_000

// ScanArgs parameterizes one scan.
type ScanArgs struct {
	Profile      m.ProjectProfile
	MaxFileBytes int64

	// IgnoreNames and IgnoreGlobs extend the built-in prune rules; they come
	// from repeated --ignore flags.
	IgnoreNames []string
	IgnoreGlobs []string
}

// Scanner walks a project tree once and returns the eligible files.
type Scanner struct {
	fs adapter.SourceFSAdapter
}

// NewScanner constructs a Scanner backed by the given filesystem adapter.
func NewScanner(fsAdapter adapter.SourceFSAdapter) *Scanner {
	return &Scanner{fs: fsAdapter}
}

// Scan produces a deterministic, relative-path-sorted list of files under
// the profile root. Pruning applies to every path segment, so a pruned
// ancestor excludes all descendants even when entries are visited out of
// order. Unreadable subpaths are logged and skipped, never fatal.
func (s *Scanner) Scan(args ScanArgs) ([]m.FileRef, error) {
	rootAbs, err := s.fs.Abs(args.Profile.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	languages := map[string]bool{}
	for _, l := range args.Profile.Languages {
		languages[strings.ToLower(strings.TrimSpace(l))] = true
	}

	rules := BuildRules(languages)

	ignoreNames := nameSet(args.IgnoreNames)
	ignoreGlobs := slashGlobs(args.IgnoreGlobs)

	maxBytes := args.MaxFileBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}

	var files []m.FileRef

	walkErr := s.fs.Walk(rootAbs, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("scan: skipping unreadable path", "path", p, "error", err)

			return nil
		}

		rel, relErr := s.fs.Rel(rootAbs, m.Path(p))
		if relErr != nil || rel == "." {
			return nil
		}

		if entry.IsDir() {
			// Skipping the whole subtree here is what keeps scans fast on
			// trees with vendored checkouts.
			if pruned(rel, rules.PruneDirs, ignoreNames, ignoreGlobs) {
				return adapter.SkipDir
			}

			return nil
		}

		if pruned(rel, rules.PruneDirs, ignoreNames, ignoreGlobs) {
			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		info, infoErr := entry.Info()
		if infoErr != nil {
			slog.Warn("scan: skipping unreadable file", "path", p, "error", infoErr)

			return nil
		}

		base := strings.ToLower(entry.Name())
		ext := strings.ToLower(path.Ext(base))

		if !considered(base, ext, info.Size(), maxBytes, rules) {
			return nil
		}

		if !included(rel, base, ext, rules) {
			return nil
		}

		files = append(files, m.FileRef{
			RelPath:   rel,
			SizeBytes: info.Size(),
			IsTest:    IsTestFile(rel),
		})

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", args.Profile.Root, walkErr)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

	return files, nil
}

// pruned reports whether any path segment of rel is a prune name, or the
// relative path matches a prune glob.
func pruned(rel string, pruneDirs, ignoreNames map[string]bool, ignoreGlobs []string) bool {
	for _, part := range strings.Split(rel, "/") {
		low := strings.ToLower(part)
		if pruneDirs[part] || pruneDirs[low] || ignoreNames[part] || ignoreNames[low] {
			return true
		}
	}

	return glob.MatchAny(rel, ignoreGlobs)
}

// considered is the rejection filter applied before inclusion rules.
func considered(base, ext string, size, maxBytes int64, rules m.IncludeRules) bool {
	if strings.HasPrefix(base, ".env") {
		return false
	}

	if strings.HasSuffix(base, ".min.js") || strings.HasSuffix(base, ".min.css") {
		return false
	}

	if rules.ExcludeNames[base] || rules.ExcludeExts[ext] {
		return false
	}

	return size <= maxBytes
}

// included accepts a considered file when at least one inclusion rule holds.
// Test naming alone never bypasses the extension allow-list.
func included(rel, base, ext string, rules m.IncludeRules) bool {
	if rules.ForceIncludeNames[base] {
		return true
	}

	if glob.MatchAny(rel, rules.ForceIncludeGlobs) {
		return true
	}

	if ext == "" && (base == "dockerfile" || base == "makefile") {
		return true
	}

	if rules.AllowedExts[ext] {
		return true
	}

	if base == "readme" || base == "readme.md" {
		return true
	}

	if IsTestFile(rel) {
		return rules.AllowedExts[ext]
	}

	return false
}

func nameSet(names []string) map[string]bool {
	out := map[string]bool{}

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}

		out[n] = true
		out[strings.ToLower(n)] = true
	}

	return out
}

func slashGlobs(globs []string) []string {
	var out []string

	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}

		out = append(out, strings.ReplaceAll(g, "\\", "/"))
	}

	return out
}
