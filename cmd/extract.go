package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/mileage"
	"github.com/etnz/mileage/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// extractCmd holds the flags for the 'extract' subcommand.
type extractCmd struct {
	input string
}

func (*extractCmd) Name() string     { return "extract" }
func (*extractCmd) Synopsis() string { return "extract ledger records from pasted statement text" }
func (*extractCmd) Usage() string {
	return `mqs extract [-i <file>]

  Sends free-form statement text (a pasted account page, an email) to the
  model and merges whatever it finds: flights, monthly miles activity, bonus
  points, cycle settings. Reads stdin when no file is given.

  A backup is captured before the merge; 'mqs undo' reverts it.
`
}

func (c *extractCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "File to read the statement from (defaults to stdin)")
}

func (c *extractCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	in, closeIn, err := openInput(c.input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeIn()

	text, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading statement:", err)
		return subcommands.ExitFailure
	}
	if strings.TrimSpace(string(text)) == "" {
		fmt.Fprintln(os.Stderr, "Error: empty statement, nothing to extract.")
		return subcommands.ExitUsageError
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	batch, err := agent.Extract(ctx, client, cfg.Model, string(text))
	if err != nil {
		var berr *mileage.BatchError
		if errors.As(err, &berr) {
			fmt.Fprintf(os.Stderr, "Extraction failed (%s): %s\n", berr.Code, berr.Message)
		} else {
			fmt.Fprintln(os.Stderr, "Extraction failed:", err)
		}
		return subcommands.ExitFailure
	}
	return mergeBatch(batch)
}
