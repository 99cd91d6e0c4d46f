package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/mileage/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)

	known := map[string]bool{
		"help":     true,
		"flags":    true,
		"commands": true,
	}
	sub := map[string]*complete.Command{}
	for _, c := range cmd.Commands {
		commander.Register(c, "")
		known[c.Name()] = true
		sub[c.Name()] = &complete.Command{}
	}
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	// Shell completion: handled and exited here when the shell asks for it.
	completion := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.yaml"),
			"ledger-file": predict.Files("*.jsonl"),
		},
	}
	completion.Complete(name)

	flag.Parse()

	// Unknown subcommands fall through to mqs-<subcommand> extensions.
	if args := flag.Args(); len(args) > 0 && !known[args[0]] {
		if found, code := cmd.RunExtension(args[0], args[1:]); found {
			cmd.Shutdown()
			os.Exit(code)
		}
	}

	code := int(commander.Execute(context.Background()))
	cmd.Shutdown()
	os.Exit(code)
}
