package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iksnae/smartnotes/internal"
	"github.com/iksnae/smartnotes/internal/api"
	"github.com/iksnae/smartnotes/internal/config"
	"github.com/iksnae/smartnotes/internal/session"
	"github.com/iksnae/smartnotes/internal/telemetry"
)

// app bundles everything a command needs to talk to the Data Provider
type app struct {
	paths     internal.StoragePaths
	cfg       *config.Config
	store     *internal.CredentialStore
	session   *session.Manager
	client    *api.Client
	extractor *internal.Extractor
	shutdown  telemetry.Shutdown
}

// loadConfig resolves storage paths and layers flags over the loaded configuration
func loadConfig(cmd *cobra.Command) (internal.StoragePaths, *config.Config, error) {
	paths, err := internal.DetectStoragePaths()
	if err != nil {
		return paths, nil, err
	}

	path := configPath
	if path == "" {
		path = paths.ConfigFile()
	}
	cfg, err := config.Load(cmd.Context(), paths, config.Options{Path: path, EnvFile: ".env"})
	if err != nil {
		return paths, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.APIBaseURL = apiURL
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = timeout
	}
	if err := cfg.Validate(); err != nil {
		return paths, nil, err
	}

	if !verbose {
		internal.SetLogLevel(internal.ParseLogLevel(cfg.LogLevel))
	}
	return paths, cfg, nil
}

// openApp wires config, credential store, session and client, then restores
// any stored session. Callers must close the returned app.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	paths, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	shutdown, err := telemetry.Init(ctx, telemetry.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		internal.LogWarn("Tracing disabled: %v", err)
		shutdown = func(context.Context) error { return nil }
	}

	store, err := internal.OpenCredentialStore(filepath.Join(cfg.DataDir, internal.CredentialDBName))
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	sess := session.New(store)
	client, err := api.New(api.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.RequestTimeout,
		UserAgent: "smartnotes/" + version,
	}, sess)
	if err != nil {
		store.Close()
		_ = shutdown(ctx)
		return nil, err
	}

	sess.Restore(ctx, client)

	return &app{
		paths:     paths,
		cfg:       cfg,
		store:     store,
		session:   sess,
		client:    client,
		extractor: internal.NewExtractor(cfg.TitleCap, cfg.PreviewCap),
		shutdown:  shutdown,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		internal.LogWarn("Failed to close credential store: %v", err)
	}
	if err := a.shutdown(context.Background()); err != nil {
		internal.LogWarn("Failed to flush traces: %v", err)
	}
}

// requireLogin fails early when no session could be restored
func (a *app) requireLogin() error {
	if !a.session.Status().IsAuthenticated {
		return fmt.Errorf("not logged in, run 'smartnotes login' first: %w", internal.ErrUnauthorized)
	}
	return nil
}

// withApp opens the app, optionally requires a session, and runs fn
func withApp(cmd *cobra.Command, needLogin bool, fn func(a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if needLogin {
		if err := a.requireLogin(); err != nil {
			return err
		}
	}
	err = fn(a)
	if errors.Is(err, internal.ErrUnauthorized) && needLogin {
		return fmt.Errorf("session expired, run 'smartnotes login' again: %w", err)
	}
	return err
}
