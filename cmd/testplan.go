package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptpack.dev/pkg/promptpack/internal/domain"
	m "promptpack.dev/pkg/promptpack/internal/model"
)

const testplanArtifactPrefix = "TESTPLAN"

// testplanCmd represents the testplan command.
var testplanCmd = newTestplanCmd()

func newTestplanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "testplan [path]",
		Short: "Extract test-worthy subjects and pair them with existing tests",
		Long: `Pull exported functions, types and HTTP routes out of the scanned
sources, mark the ones whose file already has a companion test, detect
the project's test frameworks and write everything as a TESTPLAN
artifact with a test-writing prompt.`,
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

			meta, now := newArtifactMeta("testplan")
			report := buildTestPlanReport(profile, files, meta.GeneratedAt)

			prompt := domain.TestPlanPrompt(report)

			path := writeArtifact(testplanArtifactPrefix, meta, now, domain.RenderTestPlanXML(report), report, prompt)

			ui.DisplayTestPlan(ctx, report, path)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(testplanCmd)
}

func buildTestPlanReport(profile m.ProjectProfile, files []m.FileRef, generatedAt string) m.TestPlanReport {
	report := m.TestPlanReport{
		GeneratedAt: generatedAt,
		Root:        string(profile.Root),
		Profile:     profile,
	}

	var subjects []m.TestSubject

	for _, f := range files {
		if f.IsTest {
			continue
		}

		content, err := fsAdapter.ReadFile(fsAdapter.Join(string(profile.Root), f.RelPath), viper.GetInt64(maxFileBytesConfigKey))
		if err != nil {
			slog.Warn("skipping unreadable file", "path", f.RelPath, "error", err)
			report.Warnings = append(report.Warnings, "unreadable file skipped: "+f.RelPath)

			continue
		}

		subjects = append(subjects, domain.ExtractSubjects(f.RelPath, string(content))...)
	}

	report.Subjects = domain.PairWithTests(subjects, files)
	report.Frameworks = domain.DetectFrameworks(profile, func(rel string) (string, bool) {
		content, err := fsAdapter.ReadFile(fsAdapter.Join(string(profile.Root), rel), viper.GetInt64(maxFileBytesConfigKey))
		if err != nil {
			return "", false
		}

		return string(content), true
	})

	return report
}
