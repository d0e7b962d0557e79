package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/bhuisgen/recall/pkg/cache"
)

// getCommand implements the get command.
type getCommand struct {
	flagset   *flag.FlagSet
	w         io.Writer
	kind      string
	jsonPath  string
	key       string
	transform cache.Transform
}

// NewGetCommand creates a new get command.
func NewGetCommand(w io.Writer) *getCommand {
	c := getCommand{w: w}
	c.flagset = flag.NewFlagSet("get", flag.ContinueOnError)
	c.flagset.SetOutput(w)
	c.flagset.StringVar(&c.kind, "kind", cache.KindBytes.String(), "Value kind (string, bytes, int, float)")
	c.flagset.StringVar(&c.jsonPath, "jsonpath", "", "Evaluate a JSONPath expression over the value")
	c.flagset.Usage = func() {
		fmt.Fprintln(w, "Usage: recall get [OPTIONS] KEY")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the value stored under a key.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		c.flagset.PrintDefaults()
		fmt.Fprintln(w)
	}

	return &c
}

// Name returns the command name.
func (c *getCommand) Name() string {
	return c.flagset.Name()
}

// Description returns the command description.
func (c *getCommand) Description() string {
	return "Get a value"
}

// Parse parses the command arguments.
func (c *getCommand) Parse(args []string) error {
	if err := c.flagset.Parse(args); err != nil {
		return errors.New("parse arguments")
	}
	if len(c.flagset.Args()) != 1 {
		c.flagset.Usage()
		return errors.New("check arguments")
	}
	c.key = c.flagset.Arg(0)

	if c.jsonPath != "" {
		c.transform = cache.JSONPath(c.jsonPath)
		return nil
	}
	kind, err := cache.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(c.w, "Invalid kind: %v\n", err)
		return err
	}
	c.transform = kind.Transform()
	return nil
}

// Execute executes the command.
func (c *getCommand) Execute(ctx context.Context) error {
	a, err := openApp(ctx, c.w, true)
	if err != nil {
		return err
	}
	defer a.Close()

	v, ok, err := a.Cache().Get(ctx, c.key, c.transform)
	if err != nil {
		fmt.Fprintf(c.w, "Failed to get value: %v\n", err)
		return err
	}
	if !ok {
		fmt.Fprintln(c.w, "(nil)")
		return nil
	}

	fmt.Fprintln(c.w, v.String())

	return nil
}

var _ command = (*getCommand)(nil)
