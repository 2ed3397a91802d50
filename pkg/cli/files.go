package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/franfreezy/abdata/pkg/apiclient"
)

func newFilesCommand() *Command {
	cmd := &Command{
		Name:        "files",
		Description: "List uploaded files, or delete one with -delete",
		Flags:       flag.NewFlagSet("files", flag.ExitOnError),
		Run:         runFiles,
	}

	cmd.Flags.String("backend", apiclient.DefaultBaseURL, "Backend URL")
	cmd.Flags.String("credentials", "", "Credentials file path (default: ~/.config/abdata/credentials.json)")
	cmd.Flags.Int64("delete", 0, "Delete the file with this ID instead of listing")

	return cmd
}

func runFiles(args []string) error {
	cmd := newFilesCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	backend := cmd.Flags.Lookup("backend").Value.String()
	credentials := cmd.Flags.Lookup("credentials").Value.String()
	deleteID, _ := strconv.ParseInt(cmd.Flags.Lookup("delete").Value.String(), 10, 64)

	store, err := credentialStore(credentials)
	if err != nil {
		return err
	}
	client := apiclient.New(backend, store)
	ctx := context.Background()

	if deleteID > 0 {
		if out := client.DeleteFile(ctx, deleteID); !out.OK() {
			return fmt.Errorf("delete failed: %s", out.Err.Message)
		}
		fmt.Printf("Deleted file %d\n", deleteID)
		return nil
	}

	out := client.ListFiles(ctx)
	if !out.OK() {
		return fmt.Errorf("list failed: %s", out.Err.Message)
	}

	if len(out.Value) == 0 {
		fmt.Println("No files uploaded")
		return nil
	}
	fmt.Printf("%-6s %-40s %-12s %-10s %s\n", "ID", "NAME", "STATUS", "SIZE", "UPLOADED")
	for _, f := range out.Value {
		fmt.Printf("%-6d %-40s %-12s %-10d %s\n", f.ID, f.Filename, f.Status, f.Size, f.UploadedAt)
	}
	return nil
}

func newUploadCommand() *Command {
	cmd := &Command{
		Name:        "upload",
		Description: "Upload a dataset file",
		Flags:       flag.NewFlagSet("upload", flag.ExitOnError),
		Run:         runUpload,
	}

	cmd.Flags.String("file", "", "Path of the file to upload")
	cmd.Flags.String("backend", apiclient.DefaultBaseURL, "Backend URL")
	cmd.Flags.String("credentials", "", "Credentials file path (default: ~/.config/abdata/credentials.json)")

	return cmd
}

func runUpload(args []string) error {
	cmd := newUploadCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	path := cmd.Flags.Lookup("file").Value.String()
	backend := cmd.Flags.Lookup("backend").Value.String()
	credentials := cmd.Flags.Lookup("credentials").Value.String()

	if path == "" {
		return fmt.Errorf("file is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	store, err := credentialStore(credentials)
	if err != nil {
		return err
	}

	out := apiclient.New(backend, store).Upload(context.Background(), filepath.Base(path), f)
	if !out.OK() {
		return fmt.Errorf("upload failed: %s", out.Err.Message)
	}

	fmt.Printf("Uploaded %s (id %d)\n", out.Value.Name, out.Value.ID)
	return nil
}
