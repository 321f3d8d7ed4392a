package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpack.dev/pkg/promptpack/internal/adapter"
	m "promptpack.dev/pkg/promptpack/internal/model"
)

func scanTestTree(t *testing.T) (string, *Scanner) {
	t.Helper()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/app.ts":                 "export const app = 1\n",
		"src/app.test.ts":            "import { app } from './app'\n",
		"src/legacy.js":              "var x = 1\n",
		"src/vendor.min.js":          "!function(){}()\n",
		"node_modules/dep/index.js":  "module.exports = {}\n",
		"assets/logo.png":            "\x89PNG\r\n",
		".env":                       "SECRET=1\n",
		"package-lock.json":          "{}\n",
		"Makefile":                   "all:\n",
		"README.md":                  "# demo\n",
		".github/workflows/ci.yml":   "on: push\n",
		"big.ts":                     strings.Repeat("x", 300),
	})

	return root, NewScanner(adapter.NewLocalSourceFSAdapter())
}

func tsProfile(root string) m.ProjectProfile {
	return m.ProjectProfile{
		Root:          m.Path(root),
		Languages:     []string{"typescript"},
		IsCodeProject: true,
	}
}

func TestScan_IncludeAndExcludeRules(t *testing.T) {
	root, scanner := scanTestTree(t)

	files, err := scanner.Scan(ScanArgs{Profile: tsProfile(root), MaxFileBytes: 200})
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}

	assert.Equal(t, []string{
		".github/workflows/ci.yml",
		"Makefile",
		"README.md",
		"src/app.test.ts",
		"src/app.ts",
	}, rels)
}

func TestScan_MarksTestFiles(t *testing.T) {
	root, scanner := scanTestTree(t)

	files, err := scanner.Scan(ScanArgs{Profile: tsProfile(root), MaxFileBytes: 200})
	require.NoError(t, err)

	byRel := map[string]m.FileRef{}
	for _, f := range files {
		byRel[f.RelPath] = f
	}

	assert.True(t, byRel["src/app.test.ts"].IsTest)
	assert.False(t, byRel["src/app.ts"].IsTest)
}

func TestScan_SizeCapExcludesLargeFiles(t *testing.T) {
	root, scanner := scanTestTree(t)

	// A generous cap lets big.ts back in.
	files, err := scanner.Scan(ScanArgs{Profile: tsProfile(root), MaxFileBytes: 10_000})
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}

	assert.Contains(t, rels, "big.ts")
}

func TestScan_JSAllowedWithoutTypeScript(t *testing.T) {
	root, scanner := scanTestTree(t)

	profile := m.ProjectProfile{
		Root:          m.Path(root),
		Languages:     []string{"javascript"},
		IsCodeProject: true,
	}

	files, err := scanner.Scan(ScanArgs{Profile: profile, MaxFileBytes: 200})
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}

	assert.Contains(t, rels, "src/legacy.js")
	assert.NotContains(t, rels, "src/vendor.min.js")
}

func TestScan_IgnoreFlags(t *testing.T) {
	root, scanner := scanTestTree(t)

	files, err := scanner.Scan(ScanArgs{
		Profile:      tsProfile(root),
		MaxFileBytes: 200,
		IgnoreGlobs:  []string{"src/**"},
		IgnoreNames:  []string{"Makefile"},
	})
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, f.RelPath)
	}

	assert.Equal(t, []string{".github/workflows/ci.yml", "README.md"}, rels)
}

func TestScan_Deterministic(t *testing.T) {
	root, scanner := scanTestTree(t)
	args := ScanArgs{Profile: tsProfile(root), MaxFileBytes: 200}

	first, err := scanner.Scan(args)
	require.NoError(t, err)

	second, err := scanner.Scan(args)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
