package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/bhuisgen/recall/pkg/web"
)

// pageCommand implements the page command.
type pageCommand struct {
	flagset *flag.FlagSet
	w       io.Writer
	title   bool
	url     string
}

// NewPageCommand creates a new page command.
func NewPageCommand(w io.Writer) *pageCommand {
	c := pageCommand{w: w}
	c.flagset = flag.NewFlagSet("page", flag.ContinueOnError)
	c.flagset.SetOutput(w)
	c.flagset.BoolVar(&c.title, "title", false, "Print the page title instead of the content")
	c.flagset.Usage = func() {
		fmt.Fprintln(w, "Usage: recall page [OPTIONS] URL")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fetch a page through the cache and print it with its access count.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		c.flagset.PrintDefaults()
		fmt.Fprintln(w)
	}

	return &c
}

// Name returns the command name.
func (c *pageCommand) Name() string {
	return c.flagset.Name()
}

// Description returns the command description.
func (c *pageCommand) Description() string {
	return "Fetch a cached page"
}

// Parse parses the command arguments.
func (c *pageCommand) Parse(args []string) error {
	if err := c.flagset.Parse(args); err != nil {
		return errors.New("parse arguments")
	}
	if len(c.flagset.Args()) != 1 {
		c.flagset.Usage()
		return errors.New("check arguments")
	}
	c.url = c.flagset.Arg(0)
	return nil
}

// Execute executes the command.
func (c *pageCommand) Execute(ctx context.Context) error {
	a, err := openApp(ctx, c.w, true)
	if err != nil {
		return err
	}
	defer a.Close()

	content, err := a.Page(ctx, c.url)
	if err != nil {
		fmt.Fprintf(c.w, "Failed to get page: %v\n", err)
		return err
	}
	count, err := a.AccessCount(ctx, c.url)
	if err != nil {
		fmt.Fprintf(c.w, "Failed to get access count: %v\n", err)
		return err
	}

	if c.title {
		fmt.Fprintln(c.w, web.Title(content))
	} else {
		fmt.Fprintln(c.w, content)
	}
	fmt.Fprintf(c.w, "%s accessed %d times\n", c.url, count)

	return nil
}

var _ command = (*pageCommand)(nil)
