package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			_, manager, err := ctx.ensureClient()
			if err != nil {
				return err
			}

			prompt := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			user := strings.TrimSpace(username)
			if user == "" {
				user = cfg.Session.Username
			}
			if user == "" {
				user, err = prompt.line("Username: ")
				if err != nil {
					return promptError(err)
				}
				user = strings.TrimSpace(user)
			}
			if user == "" {
				return errors.New("username is required")
			}
			password, err := prompt.secret("Password: ")
			if err != nil {
				return promptError(err)
			}

			if !manager.Login(cmd.Context(), user, password) {
				return errors.New("login failed; check your credentials and server")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username (defaults to session.username)")
	return cmd
}

func newLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, manager, err := ctx.ensureClient()
			if err != nil {
				return err
			}
			wasLoggedIn := manager.LoggedIn()
			if err := manager.Logout(); err != nil {
				return err
			}
			if wasLoggedIn {
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "No stored session")
			}
			return nil
		},
	}
}

func promptError(err error) error {
	if errors.Is(err, io.EOF) {
		return errors.New("input ended before credentials were entered")
	}
	return err
}
