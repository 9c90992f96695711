package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/dmitrijs2005/evidencevault/internal/filex"
	"github.com/dmitrijs2005/evidencevault/internal/flagx"
)

var errBinaryToTerminal = errors.New("refusing to write file contents to a terminal; use -o <path>")

// outputPath returns the value of -o, or "" when absent.
func outputPath(args []string) (string, error) {
	fs := flag.NewFlagSet("output", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.String("o", "", "output path")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-o"})); err != nil {
		return "", fmt.Errorf("%w: %w", errUsage, err)
	}
	return *out, nil
}

// findItem resolves evidenceID within a report so its MIME type is known
// before anything is fetched.
func (a *App) findItem(ctx context.Context, reportID, evidenceID string) (models.EvidenceItem, error) {
	items, err := a.evidence.List(ctx, reportID)
	if err != nil {
		return models.EvidenceItem{}, err
	}
	for _, it := range items {
		if it.ID == evidenceID {
			return it, nil
		}
	}
	return models.EvidenceItem{}, fmt.Errorf("evidence %s in report %s: %w", evidenceID, reportID, common.ErrorNotFound)
}

func (a *App) get(ctx context.Context, args []string, output string, preview bool) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: get|preview <reportID> <evidenceID> [-o path]", errUsage)
	}
	if output == "-" && writesToTerminal(a.out) {
		return errBinaryToTerminal
	}

	item, err := a.findItem(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	intent := models.IntentDownload
	if preview {
		intent = models.IntentPreview
	}

	pt, err := a.evidence.Retrieve(ctx, item, intent)
	if errors.Is(err, common.ErrCannotDecrypt) {
		return fmt.Errorf("file cannot be opened: %w", err)
	}
	if err != nil {
		return err
	}

	switch output {
	case "-":
		_, err = a.out.Write(pt.Data)
		return err
	case "":
		dir, err := filex.EnsureSubdDir(a.downloadDir)
		if err != nil {
			return err
		}
		output = filex.UniquePath(dir, pt.FileName)
	}

	if err := filex.WriteFile(output, pt.Data); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "saved %s (%s, %d bytes)\n", output, pt.MimeType, len(pt.Data))
	return nil
}
