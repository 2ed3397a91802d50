package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/franfreezy/abdata/pkg/credstore"
)

// Command represents a CLI command
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
	Subcommands map[string]*Command
	Flags       *flag.FlagSet
}

// NewRootCommand creates the root command
func NewRootCommand() *Command {
	root := &Command{
		Name:        "abdata",
		Description: "AB DATA - Agricultural data platform CLI",
		Subcommands: make(map[string]*Command),
		Flags:       flag.NewFlagSet("abdata", flag.ExitOnError),
	}

	root.Subcommands["login"] = newLoginCommand()
	root.Subcommands["logout"] = newLogoutCommand()
	root.Subcommands["files"] = newFilesCommand()
	root.Subcommands["upload"] = newUploadCommand()
	root.Subcommands["reports"] = newReportsCommand()
	root.Subcommands["stats"] = newStatsCommand()

	return root
}

// Execute runs the command
func (c *Command) Execute() error {
	args := os.Args[1:]
	if len(args) == 0 {
		return c.usage()
	}

	if args[0] == "-h" || args[0] == "--help" {
		return c.usage()
	}

	if subcmd, ok := c.Subcommands[args[0]]; ok {
		return subcmd.Run(args[1:])
	}

	return fmt.Errorf("unknown command: %s", args[0])
}

// usage prints the command usage
func (c *Command) usage() error {
	fmt.Printf("Usage: %s <command> [args]\n\n", c.Name)
	fmt.Printf("Commands:\n")
	for name, cmd := range c.Subcommands {
		fmt.Printf("  %-15s %s\n", name, cmd.Description)
	}
	return nil
}

// credentialStore opens the file-backed credential store, honoring an
// explicit -credentials flag value.
func credentialStore(path string) (*credstore.FileStore, error) {
	if path == "" {
		defaultPath, err := credstore.DefaultCredentialsPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate credentials file: %w", err)
		}
		path = defaultPath
	}
	return credstore.NewFileStore(path), nil
}
