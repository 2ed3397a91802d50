package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/franfreezy/abdata/pkg/apiclient"
	"github.com/franfreezy/abdata/pkg/authgw"
)

func newLoginCommand() *Command {
	cmd := &Command{
		Name:        "login",
		Description: "Log in to the AB DATA backend and save the token",
		Flags:       flag.NewFlagSet("login", flag.ExitOnError),
		Run:         runLogin,
	}

	cmd.Flags.String("username", "", "Account username")
	cmd.Flags.String("password", "", "Account password")
	cmd.Flags.String("backend", apiclient.DefaultBaseURL, "Backend URL")
	cmd.Flags.String("credentials", "", "Credentials file path (default: ~/.config/abdata/credentials.json)")

	return cmd
}

func runLogin(args []string) error {
	cmd := newLoginCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	username := cmd.Flags.Lookup("username").Value.String()
	password := cmd.Flags.Lookup("password").Value.String()
	backend := cmd.Flags.Lookup("backend").Value.String()
	credentials := cmd.Flags.Lookup("credentials").Value.String()

	if username == "" || password == "" {
		return fmt.Errorf("username and password are required")
	}

	store, err := credentialStore(credentials)
	if err != nil {
		return err
	}

	out := authgw.NewGateway(backend, store).Login(context.Background(), username, password)
	if !out.OK() {
		return fmt.Errorf("login failed: %s", out.Err.Message)
	}

	fmt.Printf("Logged in as %s\n", out.Value.Username)
	return nil
}

func newLogoutCommand() *Command {
	cmd := &Command{
		Name:        "logout",
		Description: "Discard the saved token",
		Flags:       flag.NewFlagSet("logout", flag.ExitOnError),
		Run:         runLogout,
	}

	cmd.Flags.String("credentials", "", "Credentials file path (default: ~/.config/abdata/credentials.json)")

	return cmd
}

func runLogout(args []string) error {
	cmd := newLogoutCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	store, err := credentialStore(cmd.Flags.Lookup("credentials").Value.String())
	if err != nil {
		return err
	}

	if err := store.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	fmt.Println("Logged out")
	return nil
}
