package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/wealth"
	"github.com/etnz/wealth/agent"
	"github.com/google/subcommands"
)

type assistCmd struct {
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "chat with an advisor about your wealth" }
func (*assistCmd) Usage() string {
	return `wsnap assist [-model <model>] [<question>...]

  Starts an interactive session with an advisor that reads your portfolio
  and can search the web for market news. Type 'bye' to exit.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", agent.ChatModel, "Gemini model of the advisor")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, ok := setup()
	if !ok {
		return subcommands.ExitFailure
	}
	client, err := cfg.Client(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	e := cfg.Engine()
	source := func(context.Context) (wealth.Portfolio, error) { return store(cfg).Load() }
	a := agent.New(os.Stdout, os.Stdin, c.model,
		agent.NewAccountant(c.model, e, source),
		agent.NewMarketAnalyst(c.model),
	)
	a.Print = func(_ io.Writer, md string) { printMarkdown(md) }

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
