// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taibuivan/courtdesk/internal/users/auth"
)

func newLoginCommand(state *app) *cobra.Command {
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and keep the session for later commands",
		Long: `Sign in to the case-management API.

The password is prompted on the terminal, or read from the first line of
standard input with --password-stdin.

Examples:
  courtctl login clerk.nguyen
  echo "$PASSWORD" | courtctl login clerk.nguyen --password-stdin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// 1. Read the password
			var (
				password string
				err      error
			)
			if passwordStdin {
				password, err = readLine(cmd.InOrStdin())
			} else {
				password, err = state.readPassword("Password: ")
			}
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			// 2. Remember the token being replaced
			var previousToken string
			if previous, err := state.manager.Rehydrate(ctx); err == nil {
				previousToken = previous.Token
			}

			// 3. Sign in
			service := auth.NewService(state.recorder, state.logger)
			current, err := service.Login(ctx, state.manager, nil, args[0], password)
			if err != nil {
				return err
			}

			// 4. Retire the replaced token
			if previousToken != "" && previousToken != current.Token {
				if err := state.auth.Invalidate(ctx, previousToken); err != nil {
					state.logger.Warn("previous_token_invalidate_failed", slog.Any("error", err))
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", current.Username, current.Role.Label())
			return nil
		},
	}

	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from standard input")
	return cmd
}

func newLogoutCommand(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := auth.NewService(state.recorder, state.logger)
			if err := service.Logout(cmd.Context(), state.manager); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and granted permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile := auth.ProfileOf(state.manager.Current())

			out := newTable(cmd.OutOrStdout())
			out.row("User ID", profile.ID)
			out.row("Username", profile.Username)
			out.row("Email", profile.Email)
			out.row("Role", profile.RoleLabel)
			for index, permission := range profile.Permissions {
				label := ""
				if index == 0 {
					label = "Permissions"
				}
				out.row(label, string(permission))
			}
			return out.flush()
		},
	}
	cmd.Annotations = map[string]string{annotationAuth: "required"}
	return cmd
}

// # Input

// promptPassword reads a secret without echo.
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("standard input is not a terminal; use --password-stdin")
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// readLine returns the first line of reader without its line ending.
func readLine(reader io.Reader) (string, error) {
	line, err := bufio.NewReader(reader).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
