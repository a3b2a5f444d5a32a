package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/api"
)

var (
	authEmail         string
	authPassword      string
	authPasswordStdin bool
	signupName        string
	signupImage       string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the Data Provider",
	Long: `Log in with your email and password.

The refresh credential is stored in the local credential database so later
commands start already logged in. The password is prompted for when it is not
given with --password or --password-stdin.`,
	Example: `  smartnotes login --email you@example.com
  echo "$PASSWORD" | smartnotes login --email you@example.com --password-stdin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(a *app) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			resp, err := a.client.SignIn(cmd.Context(), authEmail, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			a.session.Login(resp)

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Logged in as "+authEmail))
			return nil
		})
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and log in",
	Example: `  smartnotes signup --name "Ada Lovelace" --email ada@example.com
  smartnotes signup --name Ada --email ada@example.com --image avatar.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(a *app) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			resp, err := a.client.SignUp(cmd.Context(), api.SignUpRequest{
				Name:     signupName,
				Email:    authEmail,
				Password: password,
				Image:    signupImage,
			})
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}
			a.session.Login(resp)

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Account created for "+authEmail))
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(a *app) error {
			out := cmd.OutOrStdout()
			if !a.session.Status().IsAuthenticated {
				a.session.Logout()
				_, _ = fmt.Fprintln(out, infoStyle.Render("Not logged in"))
				return nil
			}

			// The local logout happens regardless of what the server says
			if err := a.client.SignOut(cmd.Context()); err != nil {
				internal.LogWarn("Server sign-out failed: %v", err)
			}
			a.session.Logout()

			_, _ = fmt.Fprintln(out, successStyle.Render("✓ Logged out"))
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a session is active",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, false, func(a *app) error {
			out := cmd.OutOrStdout()
			st := a.session.Status()

			_, _ = fmt.Fprintln(out, sectionStyle.Render("Session"))
			_, _ = fmt.Fprintf(out, "  Data Provider: %s\n", a.client.BaseURL())
			_, _ = fmt.Fprintf(out, "  Credentials:   %s\n", a.store.Path())

			if !st.IsAuthenticated {
				_, _ = fmt.Fprintf(out, "  Status:        %s\n", warningStyle.Render("logged out"))
				return nil
			}
			_, _ = fmt.Fprintf(out, "  Status:        %s\n", successStyle.Render("logged in"))
			if user, err := a.session.Subject(); err == nil {
				_, _ = fmt.Fprintf(out, "  User:          %s\n", user)
			}
			if exp := a.session.Expiry(); !exp.IsZero() {
				_, _ = fmt.Fprintf(out, "  Expires:       %s (in %s)\n",
					exp.Local().Format("2006-01-02 15:04"), time.Until(exp).Round(time.Second))
			}
			return nil
		})
	},
}

// readPassword takes the password from the flag, from stdin, or from a prompt
func readPassword(cmd *cobra.Command) (string, error) {
	if authPassword != "" {
		return authPassword, nil
	}

	in := cmd.InOrStdin()
	if authPasswordStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", &internal.ValidationError{Field: "password", Reason: "use --password or --password-stdin when not on a terminal"}
	}
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pw, err := term.ReadPassword(int(f.Fd()))
	_, _ = fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, statusCmd)

	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
		c.Flags().StringVarP(&authPassword, "password", "p", "", "Account password (prefer the prompt or --password-stdin)")
		c.Flags().BoolVar(&authPasswordStdin, "password-stdin", false, "Read the password from stdin")
		_ = c.MarkFlagRequired("email")
	}
	signupCmd.Flags().StringVarP(&signupName, "name", "n", "", "Display name")
	signupCmd.Flags().StringVar(&signupImage, "image", "", "Profile picture to upload")
	_ = signupCmd.MarkFlagRequired("name")
}
