// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli implements courtctl, the operator command line for the
case-management API.

The CLI keeps its session in a bbolt file under the user's config directory,
so one login serves many invocations. Commands that touch case data resolve
that session through the same [session.Guard] the console server uses.
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taibuivan/courtdesk/internal/audit"
	"github.com/taibuivan/courtdesk/internal/platform/config"
	"github.com/taibuivan/courtdesk/internal/platform/constants"
	"github.com/taibuivan/courtdesk/internal/platform/ctxutil"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/session"
	"github.com/taibuivan/courtdesk/internal/upstream"
)

// ErrNotLoggedIn is returned by protected commands without a valid session.
var ErrNotLoggedIn = errors.New("not logged in: run 'courtctl login' first")

const (
	annotationAuth       = "auth"
	annotationPermission = "permission"
	sessionFileName      = "session.db"
)

// app is the state shared by one invocation.
type app struct {
	cfg      *config.CLIConfig
	logger   *slog.Logger
	storage  *session.BoltStorage
	client   *upstream.Client
	auth     *upstream.AuthClient
	manager  *session.Manager
	recorder audit.Recorder

	// readPassword prompts for a secret on the terminal.
	readPassword func(prompt string) (string, error)
}

// newRootCommand builds the courtctl command tree over state.
func newRootCommand(state *app) *cobra.Command {
	root := &cobra.Command{
		Use:           constants.CLIName,
		Short:         "Operate the court case-management system from a terminal",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := state.open(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return state.authorize(cmd)
		},
	}

	root.AddCommand(
		newLoginCommand(state),
		newLogoutCommand(state),
		newWhoamiCommand(state),
		newCasesCommand(state),
		newBatchesCommand(state),
		newNotificationsCommand(state),
	)
	return root
}

// Execute runs the command tree with ctx and reports the first error.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	state := &app{recorder: audit.NopRecorder{}, readPassword: promptPassword}
	defer func() {
		if err := state.close(); err != nil {
			fmt.Fprintf(stderr, "close session file: %v\n", err)
		}
	}()

	root := newRootCommand(state)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// # Lifecycle

// open loads configuration and the persisted session.
func (state *app) open(stderr io.Writer) error {
	cfg, err := config.LoadCLI()
	if err != nil {
		return err
	}
	state.cfg = cfg

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}
	state.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.CLIName))

	path, err := sessionPath(cfg.SessionFile)
	if err != nil {
		return err
	}
	state.storage, err = session.OpenBoltStorage(path)
	if err != nil {
		return err
	}

	state.client = upstream.NewClient(cfg.UpstreamURL, cfg.UpstreamTimeout, state.logger)
	state.auth = upstream.NewAuthClient(state.client)
	state.manager = session.NewManager(state.auth, state.storage, state.logger)
	return nil
}

// authorize resolves the session for commands annotated as protected and
// makes it the outbound credentials.
func (state *app) authorize(cmd *cobra.Command) error {
	if cmd.Annotations[annotationAuth] == "" {
		return nil
	}

	ctx := cmd.Context()
	guard := session.NewGuard(state.manager)
	if guard.Resolve(ctx) != session.GuardAuthenticated {
		if err := guard.Err(); err != nil {
			return fmt.Errorf("read session: %w", err)
		}
		return ErrNotLoggedIn
	}

	current := guard.Session()
	if required := cmd.Annotations[annotationPermission]; required != "" {
		if !current.Permissions.Has(sec.Permission(required)) {
			return fmt.Errorf("permission denied: %s (role %s)", required, current.Role.Label())
		}
	}

	ctx = ctxutil.WithLogger(ctx, state.logger.With(slog.String("user_id", current.UserID)))
	ctx = ctxutil.WithSession(ctx, current)
	ctx = ctxutil.WithCredentials(ctx, state.manager)
	cmd.SetContext(ctx)
	return nil
}

func (state *app) close() error {
	if state.manager != nil {
		state.manager.Close()
	}
	if state.storage == nil {
		return nil
	}
	err := state.storage.Close()
	state.storage = nil
	return err
}

// protected marks cmd as requiring a session granting permission.
func protected(cmd *cobra.Command, permission sec.Permission) *cobra.Command {
	cmd.Annotations = map[string]string{
		annotationAuth:       "required",
		annotationPermission: string(permission),
	}
	return cmd
}

// sessionPath resolves the session file, creating its directory.
func sessionPath(configured string) (string, error) {
	path := configured
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locate config directory: %w", err)
		}
		path = filepath.Join(dir, constants.CLIName, sessionFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create session directory: %w", err)
	}
	return path, nil
}
