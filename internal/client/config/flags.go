package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/flagx"
)

// ValueFlags lists the flags parseFlags consumes together with their values.
var ValueFlags = []string{"-a", "-t", "-j", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so subcommand arguments do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-j"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the evidence server")
	fs.StringVar(&cfg.JournalPath, "j", cfg.JournalPath, "path of the local upload journal")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
