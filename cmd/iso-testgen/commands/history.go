package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/isotest/iso-testgen/internal/audit"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		runID      string
		eventTypes []string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List events from the run ledger",
		Long: `Print events recorded in the run ledger configured by logging.audit_file.

Examples:
  iso-testgen history
  iso-testgen history --type RUN_COMPLETE --limit 10
  iso-testgen history --run 4b0f3c2e-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Logging.AuditFile
			if path == "" {
				return fmt.Errorf("no run ledger configured (set logging.audit_file)")
			}

			query := audit.Query{RunID: runID, Limit: limit}
			for _, t := range eventTypes {
				query.EventTypes = append(query.EventTypes, audit.EventType(strings.ToUpper(t)))
			}

			events, err := audit.Search(path, query)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tTYPE\tRUN\tCOMMAND\tFIELD\tDETAIL")
			for _, e := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.Timestamp.Local().Format(time.RFC3339), e.Type, e.RunID, e.Command, e.Field, eventDetail(e))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "only events of this run ID")
	cmd.Flags().StringSliceVar(&eventTypes, "type", nil, "only these event types (RUN_START, FIELD_SKIPPED, RUN_COMPLETE, ERROR)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events (0 = all)")

	return cmd
}

func eventDetail(e *audit.Event) string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Checksum != "":
		return e.Checksum
	}
	return ""
}
