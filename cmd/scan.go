package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

var scanJSONFlag bool

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "List the files a pack run would include",
		Long: `Detect the project's languages and list every file the include rules
would embed in a megaprompt, without writing an artifact.`,
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

			if scanJSONFlag {
				return printScanJSON(cmd, profile, files)
			}

			ui.DisplayProfile(ctx, profile)
			ui.DisplayScan(ctx, files, nil)

			return nil
		},
	}

	cmd.Flags().BoolVar(&scanJSONFlag, "json", false, "print the scan result as JSON")

	return cmd
}

func printScanJSON(cmd *cobra.Command, profile m.ProjectProfile, files []m.FileRef) error {
	result := struct {
		Profile m.ProjectProfile `json:"profile"`
		Files   []m.FileRef      `json:"files"`
	}{Profile: profile, Files: files}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	cmd.Println(string(out))

	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
