package cmd

import (
	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal/browser"
	"github.com/iksnae/smartnotes/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive folder, notebook and note browser",
	Long: `Browse folders, notebooks and notes in three columns.

Keys:
  ↑/↓ or k/j   move
  enter or →   open the folder, notebook or note under the cursor
  ← or esc     go back
  r            retry a column that failed to load
  q            quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			b := browser.New(a.client)
			defer b.Close()
			return tui.Run(cmd.Context(), b, a.extractor)
		})
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
