package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"
)

func (a *App) history(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: history [reportID]", errUsage)
	}
	if a.journal == nil {
		return errors.New("upload journal is not available")
	}

	reportID := ""
	if len(args) == 1 {
		reportID = args[0]
	}

	entries, err := a.journal.List(ctx, reportID)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "no uploads recorded")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tREPORT\tFILE\tSTATUS\tEVIDENCE\tERROR")
	for _, e := range entries {
		status := e.Status
		if e.Deleted {
			status = "deleted"
		}
		evidenceID := e.EvidenceID
		if evidenceID == "" {
			evidenceID = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime),
			e.ReportID, e.FileName, status, evidenceID, e.Error)
	}
	return tw.Flush()
}
