package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/evidencevault/internal/common"
)

func (a *App) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete <evidenceID>", errUsage)
	}

	if err := a.evidence.Delete(ctx, args[0]); err != nil {
		return err
	}
	if a.journal != nil {
		if err := a.journal.MarkDeleted(ctx, args[0]); err != nil && !errors.Is(err, common.ErrorNotFound) {
			a.logger.Warn(ctx, "journal update failed", "evidence_id", args[0], "error", err)
		}
	}
	fmt.Fprintln(a.out, "deleted", args[0])
	return nil
}
