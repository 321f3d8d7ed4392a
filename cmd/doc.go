package cmd

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptpack.dev/pkg/promptpack/internal/adapter"
	"promptpack.dev/pkg/promptpack/internal/domain"
	m "promptpack.dev/pkg/promptpack/internal/model"
)

const docArtifactPrefix = "DOC"

var docFetchFlag string
var docNetFlag bool
var docAllowDomains []string
var docDepthFlag int

// docCmd represents the doc command.
var docCmd = newDocCmd()

func newDocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc [path]",
		Short: "Map the project's structure, imports and documentation",
		Long: `Build a structural overview of the project: directory tree, per-file
import graph with external dependency tallies, and heading outlines of
markdown documents.

With --fetch the command instead crawls a documentation site, following
same-host links up to --depth. Network access stays off unless --net is
given, and --allow-domain restricts which hosts may be contacted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			meta, now := newArtifactMeta("doc")

			var report m.DocReport

			if docFetchFlag != "" {
				report = buildFetchReport(docFetchFlag, meta.GeneratedAt)
			} else {
				profile, err := detectProfile(targetRoot(args))
				if err != nil {
					return err
				}

				files, err := scanProfile(profile)
				if err != nil {
					return err
				}

				report = buildDocReport(profile, files, meta.GeneratedAt)
			}

			prompt := domain.DocPrompt(report)

			path := writeArtifact(docArtifactPrefix, meta, now, domain.RenderDocXML(report), report, prompt)

			ui.DisplayDoc(ctx, report, path)

			return nil
		},
	}

	cmd.Flags().StringVar(&docFetchFlag, "fetch", "", "crawl a documentation site starting at this URL instead of scanning locally")
	cmd.Flags().BoolVar(&docNetFlag, "net", false, "allow network access for --fetch")
	cmd.Flags().StringArrayVar(&docAllowDomains, "allow-domain", viper.GetStringSlice(allowDomainsConfigKey), "restrict --fetch to these domains (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup("allow-domain"), allowDomainsConfigKey)

	cmd.Flags().IntVar(&docDepthFlag, "depth", viper.GetInt(fetchDepthConfigKey), "link-following depth for --fetch")
	bindFlagToConfig(cmd.Flags().Lookup("depth"), fetchDepthConfigKey)

	return cmd
}

func init() {
	rootCmd.AddCommand(docCmd)
}

func buildDocReport(profile m.ProjectProfile, files []m.FileRef, generatedAt string) m.DocReport {
	report := m.DocReport{
		GeneratedAt: generatedAt,
		Root:        string(profile.Root),
		Profile:     profile,
	}

	relPaths := make([]string, 0, len(files))
	contents := make(map[string]string, len(files))

	for _, f := range files {
		relPaths = append(relPaths, f.RelPath)

		content, err := fsAdapter.ReadFile(fsAdapter.Join(string(profile.Root), f.RelPath), viper.GetInt64(maxFileBytesConfigKey))
		if err != nil {
			slog.Warn("skipping unreadable file", "path", f.RelPath, "error", err)
			report.Warnings = append(report.Warnings, "unreadable file skipped: "+f.RelPath)

			continue
		}

		contents[f.RelPath] = string(content)

		if strings.HasSuffix(strings.ToLower(f.RelPath), ".md") {
			if outline := domain.MarkdownOutline(f.RelPath, content); outline != nil {
				report.Outlines = append(report.Outlines, *outline)
			}
		}
	}

	report.DirTree = domain.RenderDirTree(relPaths)
	report.Imports, report.ImportGraph, report.ExternalCounts = domain.BuildImportGraph(relPaths, contents)

	return report
}

func buildFetchReport(startURL, generatedAt string) m.DocReport {
	report := m.DocReport{GeneratedAt: generatedAt}

	fetcher := adapter.NewHTTPDocFetcher(m.NetworkPolicy{
		Enabled:      docNetFlag,
		AllowDomains: viper.GetStringSlice(allowDomainsConfigKey),
	})

	docs, err := fetcher.Fetch(startURL, viper.GetInt(fetchDepthConfigKey))
	if err != nil {
		report.Warnings = append(report.Warnings, "fetch failed: "+err.Error())
	}

	report.Fetched = docs

	return report
}
