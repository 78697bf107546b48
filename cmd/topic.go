package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/divyield/docs"
	"github.com/google/subcommands"
)

// topicCmd only uses the output streams of its session.
type topicCmd struct {
	session

	raw bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `divyield topic [-raw] [<topic>...]

  Shows the documentation of the given topics, or the list of topics. '*' shows them all.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "raw", false, "Print the markdown source instead of rendering it.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.name = c.Name()
	c.streams()

	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{docs.Index}
	}

	doc, err := docs.Read(topics...)
	if err != nil {
		c.errorf("%v", err)
		return subcommands.ExitUsageError
	}
	if c.raw {
		fmt.Fprint(c.stdout, doc)
		return subcommands.ExitSuccess
	}
	if err := printMarkdown(c.stdout, doc); err != nil {
		c.errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
