// Command wsnap tracks a personal net worth: cash, stocks and fixed deposits
// valued in HKD, with one snapshot per month.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/cmd"
	"github.com/etnz/wealth/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// exits when invoked by the shell for completion
	completion().Complete(name)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the commands and their flags for shell completion.
func completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"state-file": predict.Files("*.json"),
			"v":          predict.Nothing,
		},
	}
	var currencies predict.Set
	for _, c := range wealth.Currencies {
		currencies = append(currencies, string(c))
	}
	topics, _ := docs.List()

	for _, cmds := range cmd.Commands() {
		for _, c := range cmds {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: map[string]complete.Predictor{}}
			fs.VisitAll(func(f *flag.Flag) {
				switch {
				case f.Name == "currency":
					sub.Flags[f.Name] = currencies
				case isBool(f):
					sub.Flags[f.Name] = predict.Nothing
				default:
					sub.Flags[f.Name] = predict.Something
				}
			})
			switch c.Name() {
			case "topic":
				sub.Args = predict.Set(topics)
			case "scan":
				sub.Args = predict.Files("*")
			}
			root.Sub[c.Name()] = sub
		}
	}
	return root
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
