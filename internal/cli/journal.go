package cli

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ferg-cod3s/rq-challenge/internal/control"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent mutations from the durable journal",
	Args:  cobra.NoArgs,
	RunE:  runJournal,
}

func init() {
	journalCmd.Flags().IntVar(&journalLimit, "limit", 20, "number of events to show")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	app, err := control.NewGateway(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("init gateway: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	events, err := app.RecentEvents(ctx, journalLimit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, "TIME\tKIND\tEMPLOYEE\tNAME")
	for _, ev := range events {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ev.At.Format(time.RFC3339), ev.Kind, ev.EmployeeID, ev.Name)
	}
	return w.Flush()
}
