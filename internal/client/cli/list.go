package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"
)

func (a *App) list(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: list <reportID>", errUsage)
	}

	items, err := a.evidence.List(ctx, args[0])
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "no evidence")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSIZE\tUPLOADED")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", it.ID, it.FileName, it.MimeType, it.Size, it.UploadedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}
