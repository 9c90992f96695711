// Package cli implements the evidence command-line client: one-shot
// subcommands and an interactive prompt that accepts the same commands.
package cli
