package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptpack.dev/pkg/promptpack/internal/domain"
	m "promptpack.dev/pkg/promptpack/internal/model"
)

const packArtifactPrefix = "PACK"

var packCopyFlag bool

// packCmd represents the pack command.
var packCmd = newPackCmd()

func newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack [path]",
		Short: "Concatenate the project into a megaprompt artifact",
		Long: `Scan the project, embed every included file in a single pseudo-XML
context blob with a token estimate, and write the result as a PACK
artifact.`,
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

			meta, now := newArtifactMeta("pack")
			report, blob := buildPackReport(profile, files, meta.GeneratedAt)

			prompt := domain.PackPrompt(report) + "\n" + blob

			path := writeArtifact(packArtifactPrefix, meta, now, domain.RenderPackXML(report), report, prompt)

			if packCopyFlag {
				if err := systemClipboard.Copy(prompt); err != nil {
					slog.Warn("clipboard copy failed", "error", err)
					report.Warnings = append(report.Warnings, "clipboard copy failed: "+err.Error())
				}
			}

			ui.DisplayPackSummary(ctx, report, path)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&packCopyFlag, "copy", "c", false, "copy the megaprompt to the system clipboard")

	return cmd
}

func init() {
	rootCmd.AddCommand(packCmd)
}

// buildPackReport reads every scanned file and assembles the report plus
// the rendered context blob.
func buildPackReport(profile m.ProjectProfile, files []m.FileRef, generatedAt string) (m.PackReport, string) {
	report := m.PackReport{
		GeneratedAt:  generatedAt,
		Root:         string(profile.Root),
		Profile:      profile,
		FilesScanned: len(files),
	}

	inputs := make([]domain.FileInput, 0, len(files))

	for _, f := range files {
		content, err := fsAdapter.ReadFile(fsAdapter.Join(string(profile.Root), f.RelPath), viper.GetInt64(maxFileBytesConfigKey))
		if err != nil {
			slog.Warn("skipping unreadable file", "path", f.RelPath, "error", err)
			report.Warnings = append(report.Warnings, "unreadable file skipped: "+f.RelPath)

			continue
		}

		inputs = append(inputs, domain.FileInput{RelPath: f.RelPath, Content: content})

		report.Files = append(report.Files, f)
		report.TotalBytes += f.SizeBytes
	}

	blob, blobWarnings := domain.BuildContextBlob(inputs)
	report.Warnings = append(report.Warnings, blobWarnings...)
	report.FilesIncluded = len(report.Files)

	tokens, err := domain.EstimateTokens(blob)
	if err != nil {
		slog.Warn("token estimation failed", "error", err)
		report.Warnings = append(report.Warnings, "token estimate unavailable: "+err.Error())
	}

	report.TokenEstimate = tokens

	return report, blob
}
