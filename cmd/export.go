package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/export"
)

var (
	format    string
	outputDir string
	folderID  string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [notebook-id...]",
	Short: "Export notebooks to files",
	Long: `Export notebooks with their notes to various formats (jsonl, md, yaml, json).

You can export specific notebooks by ID, every notebook in a folder with
--folder, or every notebook you own when no ID is given.
Use 'smartnotes list' to see available IDs.`,
	Example: `  smartnotes export 12 -f md
  smartnotes export --folder 3 -o ./backup
  smartnotes export -f json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Create exporter first so a bad format fails without touching the network
		exporter, err := export.NewExporter(format, nil)
		if err != nil {
			return err
		}

		return withApp(cmd, true, func(a *app) error {
			exporter, _ = export.NewExporter(format, a.extractor)

			var (
				ids     []internal.ID
				exports []*internal.NotebookExport
			)
			for _, arg := range args {
				ids = append(ids, internal.ID(arg))
			}

			steps := []internal.ProgressStep{
				{
					Message: "Collecting notebooks",
					Fn: func(ctx context.Context) error {
						if len(ids) > 0 {
							return nil
						}
						var err error
						ids, err = collectNotebookIDs(ctx, a, internal.ID(folderID))
						return err
					},
				},
				{
					Message: "Loading notes",
					Fn: func(ctx context.Context) error {
						for _, id := range ids {
							nbExport, err := a.client.NotebookExport(ctx, id)
							if err != nil {
								return fmt.Errorf("notebook %s: %w", id, err)
							}
							exports = append(exports, nbExport)
						}
						return nil
					},
				},
			}
			if err := internal.ShowProgressWithSteps(cmd.Context(), steps); err != nil {
				return err
			}

			if len(exports) == 0 {
				internal.PrintWarning("No notebooks to export")
				return nil
			}

			// Ensure output directory exists
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			var failed int
			err := internal.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %d notebook(s) to %s", len(exports), outputDir), func(ctx context.Context) error {
				for _, nbExport := range exports {
					if err := writeExport(exporter, nbExport, outputDir); err != nil {
						internal.LogError("%v", err)
						failed++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d notebook(s) failed to export", failed, len(exports))
			}

			internal.PrintSuccess(fmt.Sprintf("Export complete: %d notebook(s) exported to %s", len(exports), outputDir))
			return nil
		})
	},
}

// collectNotebookIDs lists the notebooks of one folder, or of every folder when folder is empty
func collectNotebookIDs(ctx context.Context, a *app, folder internal.ID) ([]internal.ID, error) {
	folders := []internal.ID{folder}
	if folder == "" {
		all, err := a.client.ListFolders(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list folders: %w", err)
		}
		folders = folders[:0]
		for _, f := range all {
			folders = append(folders, f.ID)
		}
	}

	var ids []internal.ID
	for _, f := range folders {
		notebooks, err := a.client.ListNotebooks(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("failed to list notebooks of folder %s: %w", f, err)
		}
		for _, nb := range notebooks {
			ids = append(ids, nb.ID)
		}
	}
	return ids, nil
}

func writeExport(exporter export.Exporter, nbExport *internal.NotebookExport, dir string) error {
	filename := fmt.Sprintf("notebook_%s.%s", nbExport.Notebook.ID, exporter.Extension())
	path := filepath.Join(dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := exporter.Export(nbExport, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	if err := file.Close(); err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	internal.LogDebug("Wrote %s", path)
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", "./exports", "Output directory")
	exportCmd.Flags().StringVar(&folderID, "folder", "", "Export every notebook in this folder")
}
