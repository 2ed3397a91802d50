package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/franfreezy/abdata/pkg/apiclient"
)

func newReportsCommand() *Command {
	cmd := &Command{
		Name:        "reports",
		Description: "List reports, or download one with -download",
		Flags:       flag.NewFlagSet("reports", flag.ExitOnError),
		Run:         runReports,
	}

	cmd.Flags.String("backend", apiclient.DefaultBaseURL, "Backend URL")
	cmd.Flags.String("credentials", "", "Credentials file path (default: ~/.config/abdata/credentials.json)")
	cmd.Flags.Int64("download", 0, "Download the report with this ID instead of listing")
	cmd.Flags.String("out", "", "Output path for -download (default: the report's filename)")

	return cmd
}

func runReports(args []string) error {
	cmd := newReportsCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	backend := cmd.Flags.Lookup("backend").Value.String()
	credentials := cmd.Flags.Lookup("credentials").Value.String()
	downloadID, _ := strconv.ParseInt(cmd.Flags.Lookup("download").Value.String(), 10, 64)
	outPath := cmd.Flags.Lookup("out").Value.String()

	store, err := credentialStore(credentials)
	if err != nil {
		return err
	}
	client := apiclient.New(backend, store)
	ctx := context.Background()

	if downloadID > 0 {
		out := client.DownloadReport(ctx, downloadID)
		if !out.OK() {
			return fmt.Errorf("download failed: %s", out.Err.Message)
		}
		defer out.Value.Body.Close()

		if outPath == "" {
			outPath = out.Value.Filename
		}
		dest, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer dest.Close()

		if _, err := io.Copy(dest, out.Value.Body); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		fmt.Printf("Saved %s\n", outPath)
		return nil
	}

	out := client.ListReports(ctx)
	if !out.OK() {
		return fmt.Errorf("list failed: %s", out.Err.Message)
	}

	if len(out.Value) == 0 {
		fmt.Println("No reports available")
		return nil
	}
	fmt.Printf("%-6s %-40s %-10s %-12s %s\n", "ID", "NAME", "TYPE", "STATUS", "CREATED")
	for _, r := range out.Value {
		fmt.Printf("%-6d %-40s %-10s %-12s %s\n", r.ID, r.Name, r.Type, r.Status, r.CreatedAt)
	}
	return nil
}

func newStatsCommand() *Command {
	cmd := &Command{
		Name:        "stats",
		Description: "Show the dashboard counters",
		Flags:       flag.NewFlagSet("stats", flag.ExitOnError),
		Run:         runStats,
	}

	cmd.Flags.String("backend", apiclient.DefaultBaseURL, "Backend URL")
	cmd.Flags.String("credentials", "", "Credentials file path (default: ~/.config/abdata/credentials.json)")

	return cmd
}

func runStats(args []string) error {
	cmd := newStatsCommand()
	if err := cmd.Flags.Parse(args); err != nil {
		return err
	}

	store, err := credentialStore(cmd.Flags.Lookup("credentials").Value.String())
	if err != nil {
		return err
	}

	out := apiclient.New(cmd.Flags.Lookup("backend").Value.String(), store).GetStats(context.Background())
	if !out.OK() {
		return fmt.Errorf("stats failed: %s", out.Err.Message)
	}

	s := out.Value
	fmt.Printf("Total uploads:     %d (%+.1f%%)\n", s.TotalUploads, s.UploadsTrend)
	fmt.Printf("Uploads last week: %d\n", s.LastWeekUploads)
	fmt.Printf("Active users:      %d (%+.1f%%)\n", s.ActiveUsers, s.UsersTrend)
	fmt.Printf("Total clicks:      %d (%+.1f%%)\n", s.TotalClicks, s.ClicksTrend)
	fmt.Printf("Total forms:       %d (%+.1f%%)\n", s.TotalForms, s.FormsTrend)
	return nil
}
