package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/testutil"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "correct horse"
)

// cli runs commands against a FakeAPI with an isolated data directory
type cli struct {
	t       *testing.T
	fake    *testutil.FakeAPI
	userID  string
	dataDir string
	config  string
	stdin   io.Reader
	// apiURL overrides the FakeAPI address when set
	apiURL string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	fake := testutil.NewFakeAPI(t)
	dir := t.TempDir()
	return &cli{
		t:       t,
		fake:    fake,
		userID:  fake.AddUser("Ada", testEmail, testPassword),
		dataDir: filepath.Join(dir, "data"),
		config:  filepath.Join(dir, "config.yaml"),
	}
}

// run executes args and returns what the command wrote to its output
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	stdin := c.stdin
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	c.stdin = nil

	url := c.apiURL
	if url == "" {
		url = c.fake.URL()
	}
	full := append(args, "--api-url", url, "--data-dir", c.dataDir, "--config", c.config)
	rootCmd.SetArgs(full)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// mustRun is run that fails the test on error
func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "smartnotes %s", strings.Join(args, " "))
	return out
}

// login signs in through the CLI so the refresh token lands in the credential database
func (c *cli) login() {
	c.t.Helper()
	c.mustRun("login", "--email", testEmail, "--password", testPassword)
}

func (c *cli) credentialDB() string {
	return filepath.Join(c.dataDir, internal.CredentialDBName)
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between command runs
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
