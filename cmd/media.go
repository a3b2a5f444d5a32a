package cmd

import (
	"context"
	"fmt"
	"path"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage files attached to notes",
}

var mediaListCmd = &cobra.Command{
	Use:   "list <note-id>",
	Short: "List a note's attachments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			media, err := a.client.ListMedia(cmd.Context(), internal.ID(args[0]))
			if err != nil {
				return fmt.Errorf("failed to list media: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(media) == 0 {
				_, _ = fmt.Fprintln(out, headerStyle.Render("📎 No attachments"))
				return nil
			}
			_, _ = fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📎 %d attachment(s)", len(media))))

			w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
			_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("File")+"\t"+titleStyle.Render("Type")+"\t"+titleStyle.Render("Size")+"\t")
			for _, m := range media {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", idStyle.Render(m.ID.String()), path.Base(m.FileURL), m.FileType, countStyle.Render(m.FileSize))
			}
			return w.Flush()
		})
	},
}

var mediaUploadCmd = &cobra.Command{
	Use:     "upload <note-id> <file>",
	Short:   "Attach a file to a note",
	Example: `  smartnotes media upload 42 photo.jpg`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			var m *internal.Media
			err := internal.ShowProgress(cmd.Context(), "Uploading "+args[1], func(ctx context.Context) error {
				var err error
				m, err = a.client.UploadMedia(ctx, internal.ID(args[0]), args[1])
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to upload: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				successStyle.Render("✓ Uploaded "+path.Base(m.FileURL)), idStyle.Render("(id "+m.ID.String()+")"))
			return nil
		})
	},
}

var mediaDeleteCmd = &cobra.Command{
	Use:   "delete <media-id>",
	Short: "Remove an attachment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			id := internal.ID(args[0])
			if err := a.client.DeleteMedia(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete media: %w", err)
			}
			printDeleted(cmd, "attachment", id)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mediaCmd)
	mediaCmd.AddCommand(mediaListCmd, mediaUploadCmd, mediaDeleteCmd)
}
