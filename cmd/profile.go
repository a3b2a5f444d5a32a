package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or change your profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			p, err := a.client.GetProfile(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}
			printProfile(cmd, p)
			return nil
		})
	},
}

var profileNameCmd = &cobra.Command{
	Use:   "set-name <name>",
	Short: "Change your display name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			p, err := a.client.UpdateProfile(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Name changed to "+p.Name))
			return nil
		})
	},
}

var profilePictureCmd = &cobra.Command{
	Use:   "set-picture <image>",
	Short: "Upload a new profile picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, true, func(a *app) error {
			if _, err := a.client.UpdateProfilePicture(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to update profile picture: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Profile picture updated"))
			return nil
		})
	},
}

func printProfile(cmd *cobra.Command, p *internal.Profile) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, sectionStyle.Render("Profile"))
	_, _ = fmt.Fprintf(out, "  Name:    %s\n", titleStyle.Render(p.Name))
	_, _ = fmt.Fprintf(out, "  Email:   %s\n", p.Email)
	_, _ = fmt.Fprintf(out, "  User ID: %s\n", idStyle.Render(p.UserID))
	if p.ProfilePicID != "" {
		_, _ = fmt.Fprintf(out, "  Picture: %s\n", idStyle.Render(p.ProfilePicID))
	}
	if !p.CreatedAt.IsZero() {
		_, _ = fmt.Fprintf(out, "  Joined:  %s\n", p.CreatedAt.Local().Format("2006-01-02"))
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileNameCmd, profilePictureCmd)
}
