package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/evidencevault/internal/client/config"
	"github.com/dmitrijs2005/evidencevault/internal/flagx"
)

var errUsage = errors.New("usage")

const usageText = `Available commands:
  upload <reportID> <file>...             encrypt and upload files
  list <reportID>                         list evidence of a report
  get <reportID> <evidenceID> [-o path]   download and decrypt ("-o -" writes to stdout)
  preview <reportID> <evidenceID> [-o path]
  delete <evidenceID>                     remove evidence
  history [reportID]                      show uploads made from this machine
  help, exit`

// valueFlags are flags followed by a value anywhere on the command line.
var valueFlags = append([]string{"-o"}, config.ValueFlags...)

func positional(args []string) []string {
	return flagx.Positional(args, valueFlags)
}

func (a *App) execute(ctx context.Context, args []string) error {
	parts := positional(args)
	if len(parts) == 0 {
		return nil
	}
	cmd, rest := parts[0], parts[1:]

	var err error
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, usageText)
	case "upload":
		err = a.upload(ctx, rest)
	case "list", "l":
		err = a.list(ctx, rest)
	case "get", "preview":
		var output string
		if output, err = outputPath(args); err == nil {
			err = a.get(ctx, rest, output, cmd == "preview")
		}
	case "delete":
		err = a.delete(ctx, rest)
	case "history", "h":
		err = a.history(ctx, rest)
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if errors.Is(err, errUsage) {
		fmt.Fprintln(a.out, usageText)
	}
	return err
}

// Root runs the interactive prompt until EOF or "exit".
func (a *App) Root(ctx context.Context, scanner *bufio.Scanner) {
	fmt.Fprintln(a.out, "Evidence vault CLI (type 'help' for commands)")

	if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintln(a.out, "warning: server is not reachable:", err)
	}

	for {
		fmt.Fprint(a.out, "evault> ")
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		}

		if err := a.execute(ctx, parts); err != nil && !errors.Is(err, errUsage) {
			fmt.Fprintln(a.out, "Error:", err)
		}
	}
}
