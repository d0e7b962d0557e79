package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/bhuisgen/recall/pkg/cache"
)

// replayCommand implements the replay command.
type replayCommand struct {
	flagset *flag.FlagSet
	w       io.Writer
	name    string
}

// NewReplayCommand creates a new replay command.
func NewReplayCommand(w io.Writer) *replayCommand {
	c := replayCommand{w: w}
	c.flagset = flag.NewFlagSet("replay", flag.ContinueOnError)
	c.flagset.SetOutput(w)
	c.flagset.Usage = func() {
		fmt.Fprintln(w, "Usage: recall replay [NAME]")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Print the recorded calls of an operation (default %s).\n", cache.StoreName)
		fmt.Fprintln(w)
	}

	return &c
}

// Name returns the command name.
func (c *replayCommand) Name() string {
	return c.flagset.Name()
}

// Description returns the command description.
func (c *replayCommand) Description() string {
	return "Replay the call history"
}

// Parse parses the command arguments.
func (c *replayCommand) Parse(args []string) error {
	if err := c.flagset.Parse(args); err != nil {
		return errors.New("parse arguments")
	}
	switch len(c.flagset.Args()) {
	case 0:
		c.name = cache.StoreName
	case 1:
		c.name = c.flagset.Arg(0)
	default:
		c.flagset.Usage()
		return errors.New("check arguments")
	}
	return nil
}

// Execute executes the command.
func (c *replayCommand) Execute(ctx context.Context) error {
	a, err := openApp(ctx, c.w, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Replay(ctx, c.name, c.w); err != nil {
		fmt.Fprintf(c.w, "Failed to replay calls: %v\n", err)
		return err
	}

	return nil
}

var _ command = (*replayCommand)(nil)
