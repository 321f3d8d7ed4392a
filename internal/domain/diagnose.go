package domain

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"promptpack.dev/pkg/promptpack/internal/adapter"
	m "promptpack.dev/pkg/promptpack/internal/model"
)

// DiagnoseArgs parameterizes one diagnostics run.
type DiagnoseArgs struct {
	Profile      m.ProjectProfile
	Files        []m.FileRef
	ToolTimeout  time.Duration
	IncludeTests bool
	IgnoreNames  []string
	IgnoreGlobs  []string
}

// ProgressFunc is invoked before each language's toolchain runs.
type ProgressFunc func(language, tool string)

// DiagnosticsRunner shells out to each detected language's own toolchain
// and folds the parsed output into a uniform report. Tool invocations run
// sequentially; a missing tool demotes that language to a warning.
type DiagnosticsRunner struct {
	fs     adapter.SourceFSAdapter
	runner adapter.ToolRunnerAdapter

	// Progress is optional; nil means no progress reporting.
	Progress ProgressFunc
}

// NewDiagnosticsRunner constructs a DiagnosticsRunner.
func NewDiagnosticsRunner(fsAdapter adapter.SourceFSAdapter, runner adapter.ToolRunnerAdapter) *DiagnosticsRunner {
	return &DiagnosticsRunner{fs: fsAdapter, runner: runner}
}

// Run produces the diagnostics report for the profile. It never fails the
// whole run for a single tool: timeouts yield the 124 sentinel, missing
// binaries yield warnings, and parsing is best-effort.
func (r *DiagnosticsRunner) Run(ctx context.Context, args DiagnoseArgs) m.DiagnosticsReport {
	root := string(args.Profile.Root)

	var (
		langs    []m.LanguageDiagnostics
		warnings []string
	)

	if r.markerExists(args.Profile, "go.mod") {
		langs = append(langs, r.runGo(ctx, root, args, &warnings))
	}

	if r.markerExists(args.Profile, "tsconfig.json") || r.markerExists(args.Profile, "package.json") {
		langs = append(langs, r.runTypeScriptOrJS(ctx, root, args, &warnings))
	}

	if r.markerExists(args.Profile, "Cargo.toml") {
		langs = append(langs, r.runRust(ctx, root, args, &warnings))
	}

	if py := pythonFiles(args.Files); len(py) > 0 {
		langs = append(langs, r.runPython(ctx, root, py, args, &warnings))
	}

	if r.markerExists(args.Profile, "pom.xml") || r.markerExists(args.Profile, "build.gradle") || r.markerExists(args.Profile, "build.gradle.kts") {
		langs = append(langs, r.runJava(ctx, root, args, &warnings))
	}

	if r.markerExists(args.Profile, "Package.swift") {
		langs = append(langs, r.runSwift(ctx, root, args, &warnings))
	}

	// Languages detected but not buildable here still get an empty bucket
	// so the report's language list matches the profile.
	if len(langs) == 0 {
		for _, l := range args.Profile.Languages {
			langs = append(langs, m.LanguageDiagnostics{Name: l})
		}
	}

	for i := range langs {
		langs[i].Issues = SortIssuesByFile(filterIgnored(langs[i].Issues, args.IgnoreNames, args.IgnoreGlobs))
	}

	sort.Slice(langs, func(i, j int) bool { return langs[i].Name < langs[j].Name })

	return m.DiagnosticsReport{
		Languages: langs,
		Warnings:  warnings,
	}
}

func (r *DiagnosticsRunner) markerExists(profile m.ProjectProfile, name string) bool {
	for _, marker := range profile.Markers {
		if marker == name || strings.HasSuffix(marker, "/"+name) {
			return true
		}
	}

	return false
}

func (r *DiagnosticsRunner) progress(language, tool string) {
	if r.Progress != nil {
		r.Progress(language, tool)
	}
}

func (r *DiagnosticsRunner) runGo(ctx context.Context, root string, args DiagnoseArgs, warnings *[]string) m.LanguageDiagnostics {
	goPath, ok := r.runner.Which("go")
	if !ok {
		*warnings = append(*warnings, "go not found in PATH; skipping Go diagnostics")

		return m.LanguageDiagnostics{Name: "go", Tool: "go build"}
	}

	r.progress("go", "go build")

	var issues []m.Diagnostic

	res := r.runner.Run(ctx, goPath, []string{"build", "-gcflags=all=-e", "./..."}, root, args.ToolTimeout)
	issues = append(issues, ParseGo(res.Stdout, res.Stderr)...)
	recordTimeout(res, "go build", warnings)

	// Per-package builds surface errors masked by failed dependencies.
	for _, pkg := range r.listGoPackages(ctx, goPath, root, args.ToolTimeout) {
		res := r.runner.Run(ctx, goPath, []string{"build", "-gcflags=all=-e", pkg}, root, args.ToolTimeout)
		issues = append(issues, ParseGo(res.Stdout, res.Stderr)...)

		if args.IncludeTests {
			res := r.runner.Run(ctx, goPath, []string{"vet", pkg}, root, args.ToolTimeout)
			issues = append(issues, ParseGo(res.Stdout, res.Stderr)...)
		}
	}

	return m.LanguageDiagnostics{Name: "go", Tool: "go build (-gcflags=all=-e)", Issues: dedupeIssues(issues)}
}

func (r *DiagnosticsRunner) listGoPackages(ctx context.Context, goPath, root string, timeout time.Duration) []string {
	res := r.runner.Run(ctx, goPath, []string{"list", "./..."}, root, timeout)

	set := map[string]bool{}

	for _, line := range strings.Split(res.Stdout, "\n") {
		pkg := strings.TrimSpace(line)
		if pkg == "" || strings.Contains(pkg, "/vendor/") {
			continue
		}

		set[pkg] = true
	}

	var out []string
	for pkg := range set {
		out = append(out, pkg)
	}

	sort.Strings(out)

	return out
}

func (r *DiagnosticsRunner) runTypeScriptOrJS(ctx context.Context, root string, args DiagnoseArgs, warnings *[]string) m.LanguageDiagnostics {
	hasTS := r.markerExists(args.Profile, "tsconfig.json")

	language := "javascript"
	if hasTS {
		language = "typescript"
	}

	var issues []m.Diagnostic

	tool := ""

	if tscPath, ok := r.runner.Which("tsc"); ok {
		tool = "tsc"
		tscArgs := []string{"--allowJs", "--checkJs", "--noEmit"}

		if hasTS {
			tscArgs = []string{"-p", ".", "--noEmit"}
		}

		r.progress(language, tool)

		res := r.runner.Run(ctx, tscPath, tscArgs, root, args.ToolTimeout)
		issues = append(issues, ParseTypeScript(res.Stdout, res.Stderr, language, tool)...)
		recordTimeout(res, tool, warnings)
	} else if eslintPath, ok := r.runner.Which("eslint"); ok {
		tool = "eslint -f unix"

		r.progress(language, tool)

		res := r.runner.Run(ctx, eslintPath, []string{"-f", "unix", "."}, root, args.ToolTimeout)
		issues = append(issues, ParseUnixStyle(res.Stdout, res.Stderr, language, "eslint")...)
		recordTimeout(res, tool, warnings)
	} else {
		*warnings = append(*warnings, "tsc and eslint not found in PATH; skipping JS/TS diagnostics")

		return m.LanguageDiagnostics{Name: language}
	}

	return m.LanguageDiagnostics{Name: language, Tool: tool, Issues: issues}
}

func (r *DiagnosticsRunner) runRust(ctx context.Context, root string, args DiagnoseArgs, warnings *[]string) m.LanguageDiagnostics {
	cargoPath, ok := r.runner.Which("cargo")
	if !ok {
		*warnings = append(*warnings, "cargo not found in PATH; skipping Rust diagnostics")

		return m.LanguageDiagnostics{Name: "rust", Tool: "cargo check"}
	}

	r.progress("rust", "cargo check")

	var issues []m.Diagnostic

	res := r.runner.Run(ctx, cargoPath, []string{"check", "--color", "never"}, root, args.ToolTimeout)
	issues = append(issues, ParseRust(res.Stdout, res.Stderr)...)
	recordTimeout(res, "cargo check", warnings)

	if args.IncludeTests {
		res := r.runner.Run(ctx, cargoPath, []string{"test", "--no-run", "--color", "never"}, root, args.ToolTimeout)
		issues = append(issues, ParseRust(res.Stdout, res.Stderr)...)
	}

	return m.LanguageDiagnostics{Name: "rust", Tool: "cargo check", Issues: issues}
}

func (r *DiagnosticsRunner) runPython(ctx context.Context, root string, pyFiles []string, args DiagnoseArgs, warnings *[]string) m.LanguageDiagnostics {
	pyPath, ok := r.runner.Which("python3")
	if !ok {
		pyPath, ok = r.runner.Which("python")
	}

	if !ok {
		*warnings = append(*warnings, "python3/python not found in PATH; skipping Python diagnostics")

		return m.LanguageDiagnostics{Name: "python", Tool: "python -m py_compile"}
	}

	r.progress("python", "python -m py_compile")

	perFileTimeout := args.ToolTimeout
	if perFileTimeout > 30*time.Second || perFileTimeout <= 0 {
		perFileTimeout = 30 * time.Second
	}

	var issues []m.Diagnostic

	for _, rel := range pyFiles {
		abs := string(r.fs.Join(root, rel))

		res := r.runner.Run(ctx, pyPath, []string{"-m", "py_compile", abs}, root, perFileTimeout)
		issues = append(issues, ParsePython(res.Stdout, res.Stderr)...)
		recordTimeout(res, "py_compile "+rel, warnings)
	}

	return m.LanguageDiagnostics{Name: "python", Tool: "python -m py_compile", Issues: issues}
}

func (r *DiagnosticsRunner) runJava(ctx context.Context, root string, args DiagnoseArgs, warnings *[]string) m.LanguageDiagnostics {
	if r.markerExists(args.Profile, "pom.xml") {
		if mvnPath, ok := r.runner.Which("mvn"); ok {
			goal := "compile"
			if args.IncludeTests {
				goal = "test-compile"
			}

			r.progress("java", "mvn "+goal)

			res := r.runner.Run(ctx, mvnPath, []string{"-q", "-DskipTests", goal}, root, args.ToolTimeout)
			recordTimeout(res, "mvn "+goal, warnings)

			return m.LanguageDiagnostics{Name: "java", Tool: "mvn " + goal, Issues: ParseJava(res.Stdout, res.Stderr)}
		}

		*warnings = append(*warnings, "mvn not found in PATH; skipping Maven diagnostics")
	}

	gradlePath := ""

	if _, err := r.fs.Stat(r.fs.Join(root, "gradlew")); err == nil {
		gradlePath = string(r.fs.Join(root, "gradlew"))
	} else if p, ok := r.runner.Which("gradle"); ok {
		gradlePath = p
	}

	if gradlePath == "" {
		*warnings = append(*warnings, "no Maven or Gradle found; skipping Java diagnostics")

		return m.LanguageDiagnostics{Name: "java", Tool: "javac"}
	}

	task := "classes"
	if args.IncludeTests {
		task = "testClasses"
	}

	r.progress("java", "gradle "+task)

	res := r.runner.Run(ctx, gradlePath, []string{"-q", task}, root, args.ToolTimeout)
	recordTimeout(res, "gradle "+task, warnings)

	return m.LanguageDiagnostics{Name: "java", Tool: "gradle " + task, Issues: ParseJava(res.Stdout, res.Stderr)}
}

func (r *DiagnosticsRunner) runSwift(ctx context.Context, root string, args DiagnoseArgs, warnings *[]string) m.LanguageDiagnostics {
	swiftPath, ok := r.runner.Which("swift")
	if !ok {
		*warnings = append(*warnings, "swift not found in PATH; skipping Swift diagnostics")

		return m.LanguageDiagnostics{Name: "swift", Tool: "swift build"}
	}

	r.progress("swift", "swift build")

	buildArgs := []string{"build"}
	if args.IncludeTests {
		buildArgs = []string{"build", "--build-tests"}
	}

	res := r.runner.Run(ctx, swiftPath, buildArgs, root, args.ToolTimeout)
	recordTimeout(res, "swift build", warnings)

	return m.LanguageDiagnostics{
		Name:   "swift",
		Tool:   "swift build",
		Issues: ParseClangLike(res.Stdout, res.Stderr, "swift", "swift build"),
	}
}

func pythonFiles(files []m.FileRef) []string {
	var out []string

	for _, f := range files {
		if strings.HasSuffix(f.RelPath, ".py") {
			out = append(out, f.RelPath)
		}
	}

	return out
}

func recordTimeout(res m.ToolResult, tool string, warnings *[]string) {
	if res.TimedOut {
		slog.Warn("tool timed out", "tool", tool)
		*warnings = append(*warnings, tool+" timed out (exit code 124)")
	}
}

func filterIgnored(issues []m.Diagnostic, ignoreNames, ignoreGlobs []string) []m.Diagnostic {
	if len(ignoreNames) == 0 && len(ignoreGlobs) == 0 {
		return issues
	}

	names := nameSet(ignoreNames)
	globs := slashGlobs(ignoreGlobs)

	var out []m.Diagnostic

	for _, d := range issues {
		if d.File != "" && pruned(strings.ReplaceAll(d.File, "\\", "/"), names, nil, globs) {
			continue
		}

		out = append(out, d)
	}

	return out
}

func dedupeIssues(issues []m.Diagnostic) []m.Diagnostic {
	seen := map[string]bool{}

	var out []m.Diagnostic

	for _, d := range issues {
		line := 0
		if d.Line != nil {
			line = *d.Line
		}

		key := d.File + "\x00" + strconv.Itoa(line) + "\x00" + d.Message

		if seen[key] {
			continue
		}

		seen[key] = true

		out = append(out, d)
	}

	return out
}
