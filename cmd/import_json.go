package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/etnz/mileage"
	"github.com/google/subcommands"
)

// importJSONCmd holds the flags for the 'import-json' subcommand.
type importJSONCmd struct {
	input   string
	profile string
}

func (*importJSONCmd) Name() string     { return "import-json" }
func (*importJSONCmd) Synopsis() string { return "import a JSON statement through a mapping profile" }
func (*importJSONCmd) Usage() string {
	return `mqs import-json -profile <name> [-i <file>]

  Imports a JSON statement using a jsonpath mapping profile from the config
  file. The profile names where flights and monthly records live in the
  document and how their fields map. Reads stdin when no file is given.
`
}

func (c *importJSONCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "", "File to import (defaults to stdin)")
	f.StringVar(&c.profile, "profile", "", "Import profile name from the config file")
}

func (c *importJSONCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	profile, ok := cfg.ImportProfiles[c.profile]
	if !ok {
		if len(cfg.ImportProfiles) == 0 {
			fmt.Fprintln(os.Stderr, "Error: no import profiles configured. See 'mqs topic import'.")
			return subcommands.ExitUsageError
		}
		names := make([]string, 0, len(cfg.ImportProfiles))
		for name := range cfg.ImportProfiles {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "Error: unknown import profile %q, have %v\n", c.profile, names)
		return subcommands.ExitUsageError
	}

	in, closeIn, err := openInput(c.input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeIn()

	batch, err := mileage.ImportJSON(in, profile, c.profile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return mergeBatch(batch)
}
