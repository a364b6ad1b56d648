package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"healthsync/internal/domain"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync pass and print its record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer a.Close()

			record, err := a.orchestrator.PerformManualSync(cmd.Context())
			if record != nil {
				if werr := writeJSON(cmd.OutOrStdout(), record); werr != nil {
					return werr
				}
			}
			return err
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sync passes, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q", format)
			}

			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.orchestrator.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			return writeHistoryTable(cmd.OutOrStdout(), records)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "number of records (default from config)")
	cmd.Flags().StringVar(&format, "format", "text", "output format (text, json)")
	return cmd
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the configured gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer a.Close()

			gw, err := a.settings.Gateway(cmd.Context())
			if err != nil {
				return err
			}
			if gw == nil {
				return errors.New("no gateway configured")
			}
			if err := a.delivery.Configure(*gw); err != nil {
				return err
			}
			if err := a.delivery.TestConnection(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "gateway %s is reachable\n", gw.BaseURL)
			return nil
		},
	}
}

func newCleanupCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete synced samples older than the retention period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer a.Close()

			deleted, err := a.orchestrator.Cleanup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d samples\n", deleted)
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistoryTable(w io.Writer, records []domain.SyncRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tSTATUS\tSYNCED\tDURATION\tERROR")
	for _, r := range records {
		msg := ""
		if r.ErrorMessage != nil {
			msg = *r.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			r.Timestamp.Local().Format(time.DateTime),
			r.Status,
			r.SyncedCount,
			r.Duration.Round(time.Millisecond),
			msg,
		)
	}
	return tw.Flush()
}
