package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/api"
	"github.com/iksnae/smartnotes/internal/session"
)

var (
	healthcheckDetails bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, local storage and Data Provider access",
	Long: `Check the health of smartnotes by verifying:
  • Storage path detection
  • Configuration loading
  • Credential database access
  • Data Provider reachability
  • Stored session validity

This command is useful for debugging connection and login problems.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		say := func(a ...any) { _, _ = fmt.Fprintln(out, a...) }
		detail := func(format string, a ...any) {
			if healthcheckDetails {
				_, _ = fmt.Fprintf(out, "   "+format+"\n", a...)
			}
		}
		ctx := cmd.Context()

		say(sectionStyle.Render("🔍 Smart Notes Health Check"))
		say()

		say(infoStyle.Render("Step 1: Loading configuration..."))
		paths, cfg, err := loadConfig(cmd)
		if err != nil {
			say(errorStyle.Render("❌ Failed to load configuration:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		say(successStyle.Render("✅ Configuration loaded"))
		detail("Config file: %s", resolvedConfigPath(paths))
		detail("Data directory: %s", cfg.DataDir)
		detail("Data Provider: %s", cfg.APIBaseURL)
		detail("Request timeout: %s", cfg.RequestTimeout)
		say()

		say(infoStyle.Render("Step 2: Opening credential database..."))
		dbPath := filepath.Join(cfg.DataDir, internal.CredentialDBName)
		store, err := internal.OpenCredentialStore(dbPath)
		if err != nil {
			say(errorStyle.Render("❌ Failed to open credential database:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer store.Close()
		say(successStyle.Render("✅ Credential database accessible"))
		detail("Database: %s", dbPath)
		stored, err := store.Load()
		if err != nil {
			say(warningStyle.Render("⚠️  Could not read stored session:"), err)
		}
		hasStored := stored != ""
		say()

		say(infoStyle.Render("Step 3: Contacting Data Provider..."))
		sess := session.New(store)
		client, err := api.New(api.Options{BaseURL: cfg.APIBaseURL, Timeout: cfg.RequestTimeout}, sess)
		if err != nil {
			say(errorStyle.Render("❌ Invalid Data Provider URL:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		latency, err := client.Ping(ctx)
		if err != nil {
			say(errorStyle.Render("❌ Data Provider unreachable"))
			detail("%v", err)
			say()
			say(sectionStyle.Render("📊 Summary"))
			say(errorStyle.Render("❌ Health check failed"))
			say("   • Cannot reach " + cfg.APIBaseURL)
			say("   • Check --api-url or SMARTNOTES_API_BASE_URL")
			return fmt.Errorf("health check failed: %w", err)
		}
		say(successStyle.Render(fmt.Sprintf("✅ Data Provider reachable (%s)", latency.Round(time.Millisecond))))
		say()

		say(infoStyle.Render("Step 4: Checking stored session..."))
		loggedIn := false
		if !hasStored {
			say(warningStyle.Render("⚠️  No stored session"))
		} else {
			sess.Restore(ctx, client)
			loggedIn = sess.Status().IsAuthenticated
			if loggedIn {
				say(successStyle.Render("✅ Stored session is valid"))
				if user, err := sess.Subject(); err == nil {
					detail("User: %s", user)
				}
			} else {
				say(warningStyle.Render("⚠️  Stored session could not be restored"))
			}
		}
		say()

		// Summary
		say(sectionStyle.Render("📊 Summary"))
		say()
		if loggedIn {
			say(successStyle.Render("✅ Health check passed!"))
			say(successStyle.Render("   • Data Provider: reachable"))
			say(successStyle.Render("   • Session: logged in"))
			return nil
		}
		say(warningStyle.Render("⚠️  Data Provider reachable but not logged in"))
		say("   • Run 'smartnotes login' to start a session")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckDetails, "details", "d", false, "Show detailed diagnostic information")
}
