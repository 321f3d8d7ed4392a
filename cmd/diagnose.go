package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptpack.dev/pkg/promptpack/internal/domain"
)

const diagArtifactPrefix = "DIAG"

var diagIncludeTestsFlag bool
var diagToolTimeoutFlag time.Duration

// diagnoseCmd represents the diagnose command.
var diagnoseCmd = newDiagnoseCmd()

func newDiagnoseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose [path]",
		Short: "Run each language's own toolchain and collect diagnostics",
		Long: `Shell out to the compilers and checkers of every detected language
(go build, tsc, cargo check, py_compile, javac via the build tool) and
fold their output into a uniform DIAG artifact with a fix prompt.

A missing tool demotes its language to a warning; a tool that exceeds
the timeout is recorded with exit code 124. The command itself only
fails on filesystem errors, never on findings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			profile, err := detectProfile(targetRoot(args))
			if err != nil {
				return err
			}

			files, err := scanProfile(profile)
			if err != nil {
				return err
			}

			if err := ui.Start(ctx); err != nil {
				return err
			}
			defer ui.Close(ctx)

			diagnostics.Progress = func(language, tool string) {
				ui.DisplayToolStart(ctx, language, tool)
			}

			meta, now := newArtifactMeta("diagnose")

			report := diagnostics.Run(ctx, domain.DiagnoseArgs{
				Profile:      profile,
				Files:        files,
				ToolTimeout:  viper.GetDuration(toolTimeoutConfigKey),
				IncludeTests: viper.GetBool(includeTestsConfigKey),
				IgnoreNames:  viper.GetStringSlice(ignoreConfigKey),
				IgnoreGlobs:  viper.GetStringSlice(ignoreConfigKey),
			})
			report.GeneratedAt = meta.GeneratedAt

			for _, lang := range report.Languages {
				ui.DisplayToolDone(ctx, lang)
			}

			prompt := domain.FixPrompt(report)

			path := writeArtifact(diagArtifactPrefix, meta, now, domain.RenderDiagnosticsXML(report, prompt), report, prompt)

			ui.DisplayDiagnostics(ctx, report, path)

			return nil
		},
	}

	cmd.Flags().BoolVar(&diagIncludeTestsFlag, "include-tests", viper.GetBool(includeTestsConfigKey), "also diagnose test files")
	bindFlagToConfig(cmd.Flags().Lookup("include-tests"), includeTestsConfigKey)

	cmd.Flags().DurationVarP(&diagToolTimeoutFlag, "tool-timeout", "t", viper.GetDuration(toolTimeoutConfigKey), "per-tool timeout")
	bindFlagToConfig(cmd.Flags().Lookup("tool-timeout"), toolTimeoutConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}
