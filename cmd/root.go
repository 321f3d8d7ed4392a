// Package cmd provides the root command and CLI setup for promptpack.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"promptpack.dev/pkg/promptpack/internal/adapter"
	"promptpack.dev/pkg/promptpack/internal/controller"
	"promptpack.dev/pkg/promptpack/internal/domain"
	m "promptpack.dev/pkg/promptpack/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var toolRunner adapter.ToolRunnerAdapter
var artifactStore adapter.ArtifactStore
var systemClipboard adapter.Clipboard
var detector *domain.Detector
var scanner *domain.Scanner
var diagnostics *domain.DiagnosticsRunner
var ui controller.UI

// artifactsOutputDirFlag is a root-level flag shared by commands that write artifacts.
var artifactsOutputDirFlag string

// ignorePatterns is a root-level flag that filters files for applicable commands.
var ignorePatterns []string

// maxFileBytesFlag caps the size of files embedded in artifacts.
var maxFileBytesFlag int64

// forceFlag proceeds even when the target does not look like a code project.
var forceFlag bool

var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = newUI(rootCmd)
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	toolRunner = adapter.NewLocalToolRunnerAdapter()
	artifactStore = adapter.NewLocalArtifactStore()
	systemClipboard = adapter.NewSystemClipboard()
	detector = domain.NewDetector(fsAdapter)
	scanner = domain.NewScanner(fsAdapter)
	diagnostics = domain.NewDiagnosticsRunner(fsAdapter, toolRunner)
}

func newUI(cmd *cobra.Command) controller.UI {
	if controller.IsTTY(os.Stdout) {
		return controller.NewTUI(cmd.OutOrStdout())
	}

	return controller.NewSimpleUI(cmd)
}

const rootLongDescription = `Promptpack turns a project tree into language-model-ready artifacts: a
single megaprompt with every relevant source file, compiler diagnostics
collected across languages, a heuristic test plan and a structural
overview with import graph and doc outlines.

All commands accept an optional path argument (default: current directory)
and write timestamped artifacts plus a _latest pointer into the output
directory.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promptpack",
		Short: "Project-to-prompt packing toolkit",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&artifactsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for generated artifacts",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringArrayVarP(&ignorePatterns, ignoreFlagName, "x", viper.GetStringSlice(ignoreConfigKey), "ignore files matching name or glob (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(ignoreFlagName), ignoreConfigKey)

	cmd.PersistentFlags().Int64Var(&maxFileBytesFlag, maxFileBytesFlagName, viper.GetInt64(maxFileBytesConfigKey), "maximum size of a single file to embed, in bytes")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(maxFileBytesFlagName), maxFileBytesConfigKey)

	cmd.PersistentFlags().BoolVar(&forceFlag, forceFlagName, false, "proceed even when the target does not look like a code project")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default "+defaultLogFilename+")")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func targetRoot(args []string) m.Path {
	if len(args) > 0 {
		return m.Path(args[0])
	}

	return m.Path(".")
}

// detectProfile runs project detection; --force downgrades the
// not-a-code-project rejection to a warning and proceeds anyway.
func detectProfile(root m.Path) (m.ProjectProfile, error) {
	detector.MinSourceFiles = viper.GetInt(minSourceFilesConfigKey)

	profile, err := detector.Detect(root)
	if err == nil {
		return profile, nil
	}

	var notCode *m.NotCodeProjectError
	if errors.As(err, &notCode) && forceFlag {
		return notCode.Profile, nil
	}

	return profile, err
}

func scanProfile(profile m.ProjectProfile) ([]m.FileRef, error) {
	return scanner.Scan(domain.ScanArgs{
		Profile:      profile,
		MaxFileBytes: viper.GetInt64(maxFileBytesConfigKey),
		IgnoreNames:  viper.GetStringSlice(ignoreConfigKey),
		IgnoreGlobs:  viper.GetStringSlice(ignoreConfigKey),
	})
}

// newArtifactMeta stamps a run with a fresh id and the current UTC time.
func newArtifactMeta(tool string) (m.ArtifactMeta, time.Time) {
	now := time.Now().UTC()

	return m.ArtifactMeta{
		Tool:        tool,
		RunID:       uuid.NewString(),
		GeneratedAt: now.Format(time.RFC3339Nano),
	}, now
}

// writeArtifact marshals the report, wraps everything in the envelope and
// persists it under the configured output directory. It returns the path of
// the timestamped artifact file. A write failure is logged but does not stop
// the run; the remaining output still reaches the user.
func writeArtifact(prefix string, meta m.ArtifactMeta, at time.Time, xmlBody string, report any, prompt string) string {
	jsonBody, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		slog.Error("failed to encode report", "tool", meta.Tool, "error", err)
		return ""
	}

	env := m.ArtifactEnvelope{
		Meta:   meta,
		XML:    xmlBody,
		JSON:   string(jsonBody),
		Prompt: prompt,
	}

	path, _, err := artifactStore.Write(viper.GetString(outputFlagName), prefix, env, at)
	if err != nil {
		slog.Error("failed to write artifact", "tool", meta.Tool, "error", err)
		return ""
	}

	return path
}
