// Package domain contains the core logic of promptpack: project detection,
// include/exclude rules, tree scanning, prompt assembly, diagnostics and the
// doc/testplan generators.
package domain

import (
	m "promptpack.dev/pkg/promptpack/internal/model"
)

// The base allow/deny tables are policy data, not behavior. They were
// hand-tuned against real project trees; adjust to taste.

func baseAllowedExts() map[string]bool {
	return map[string]bool{
		// source
		".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
		".py": true, ".go": true, ".rs": true, ".java": true, ".kt": true, ".kts": true,
		".c": true, ".cc": true, ".cpp": true, ".cxx": true, ".h": true, ".hpp": true, ".hh": true,
		".cs": true, ".php": true, ".rb": true, ".swift": true,

		// configs and docs
		".yml": true, ".yaml": true, ".json": true, ".toml": true, ".ini": true, ".cfg": true, ".conf": true,
		".md": true, ".xml": true, ".sql": true, ".graphql": true, ".gql": true,
		".sh": true, ".bash": true, ".zsh": true,
		".html": true, ".css": true, ".scss": true, ".sass": true, ".less": true,
	}
}

func baseExcludeNames() map[string]bool {
	return map[string]bool{
		"package-lock.json": true,
		"pnpm-lock.yaml":    true,
		"yarn.lock":         true,
		"go.sum":            true,
		"cargo.lock":        true,
		"package.resolved":  true,
		".ds_store":         true,
		".gitignore":        true,
	}
}

func baseExcludeExts() map[string]bool {
	return map[string]bool{
		".pem": true, ".crt": true, ".key": true,
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true, ".svg": true, ".ico": true,
		".pdf": true, ".zip": true, ".tar": true, ".gz": true, ".tgz": true, ".xz": true, ".7z": true, ".rar": true,
		".so": true, ".dylib": true, ".dll": true,
		".class": true, ".jar": true, ".war": true,
		".wasm": true, ".map": true,
		".exe": true, ".bin": true,
	}
}

func baseForceIncludeNames() map[string]bool {
	return map[string]bool{
		"package.json":        true,
		"tsconfig.json":       true,
		"jsconfig.json":       true,
		"go.mod":              true,
		"cargo.toml":          true,
		"pom.xml":             true,
		"build.gradle":        true,
		"build.gradle.kts":    true,
		"settings.gradle":     true,
		"settings.gradle.kts": true,
		"pyproject.toml":      true,
		"requirements.txt":    true,
		"pipfile":             true,
		"setup.py":            true,
		"setup.cfg":           true,
		"tox.ini":             true,
		"dockerfile":          true,
		"docker-compose.yml":  true,
		"docker-compose.yaml": true,
		"makefile":            true,
		"cmakelists.txt":      true,
		".gitattributes":      true,
	}
}

func baseForceIncludeGlobs() []string {
	return []string{
		".github/workflows/*.yml",
		".github/workflows/*.yaml",
		".github/actions/**/*.yml",
		".github/actions/**/*.yaml",
		".github/dependabot.yml",
		".circleci/config.yml",
		".circleci/config.yaml",
		".gitlab-ci.yml",
		"azure-pipelines.yml",
	}
}

func basePruneDirs() map[string]bool {
	return map[string]bool{
		".git": true, ".hg": true, ".svn": true,
		"node_modules": true, ".next": true, ".nuxt": true, ".svelte-kit": true,
		".yarn": true, ".pnpm-store": true, ".parcel-cache": true, ".turbo": true,
		"build": true, "dist": true, "out": true,
		".idea": true, ".vscode": true, ".cache": true, ".history": true, ".direnv": true,
		".nyc_output": true, "coverage": true, ".coverage": true,
		".terraform": true, "terraform.d": true,
		".docusaurus": true, ".vitepress": true, ".astro": true,
		"env": true, "venv": true, ".env": true, ".venv": true,
	}
}

// languagePruneDirs are added when the named language was detected.
var languagePruneDirs = map[string][]string{
	"python": {"__pycache__", ".mypy_cache", ".pytest_cache", ".ruff_cache", ".tox", "site-packages", ".eggs"},
	"java":   {"target", ".gradle", ".m2"},
	"csharp": {"bin", "obj", "packages"},
	"cpp":    {"cmake-build-debug", "cmake-build-release", ".ccls-cache"},
	"rust":   {"target"},
	"go":     {"vendor"},
}

// BuildRules derives the scanner's include rules from the detected language
// set. The result is deterministic for a given language set.
func BuildRules(languages map[string]bool) m.IncludeRules {
	allowed := baseAllowedExts()
	prune := basePruneDirs()

	// Prefer TypeScript sources over plain JS when TypeScript is present.
	// Node config files (.mjs/.cjs) stay allowed regardless.
	if languages["typescript"] {
		delete(allowed, ".js")
		delete(allowed, ".jsx")
	}

	for lang, dirs := range languagePruneDirs {
		if !languages[lang] {
			continue
		}

		for _, d := range dirs {
			prune[d] = true
		}
	}

	return m.IncludeRules{
		AllowedExts:       allowed,
		ForceIncludeNames: baseForceIncludeNames(),
		ForceIncludeGlobs: baseForceIncludeGlobs(),
		PruneDirs:         prune,
		ExcludeNames:      baseExcludeNames(),
		ExcludeExts:       baseExcludeExts(),
	}
}
