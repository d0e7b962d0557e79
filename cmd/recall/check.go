package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/bhuisgen/recall/internal/app/recall"
)

// checkCommand implements the check command.
type checkCommand struct {
	flagset *flag.FlagSet
	w       io.Writer
	verbose bool
}

// NewCheckCommand creates a new check command.
func NewCheckCommand(w io.Writer) *checkCommand {
	c := checkCommand{w: w}
	c.flagset = flag.NewFlagSet("check", flag.ContinueOnError)
	c.flagset.SetOutput(w)
	c.flagset.BoolVar(&c.verbose, "verbose", false, "Use verbose output")
	c.flagset.Usage = func() {
		fmt.Fprintln(w, "Usage: recall check [OPTIONS]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check the configuration and the store connection.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		c.flagset.PrintDefaults()
		fmt.Fprintln(w)
	}

	return &c
}

// Name returns the command name.
func (c *checkCommand) Name() string {
	return c.flagset.Name()
}

// Description returns the command description.
func (c *checkCommand) Description() string {
	return "Check the configuration"
}

// Parse parses the command arguments.
func (c *checkCommand) Parse(args []string) error {
	if err := c.flagset.Parse(args); err != nil {
		return errors.New("parse arguments")
	}
	if len(c.flagset.Args()) > 0 {
		return errors.New("check arguments")
	}
	return nil
}

// Execute executes the command.
func (c *checkCommand) Execute(ctx context.Context) error {
	e, err := recall.LoadEnv()
	if err != nil {
		fmt.Fprintf(c.w, "Failed to read environment: %v\n", err)
		return err
	}
	if c.verbose {
		fmt.Fprintf(c.w, "Configuration file: %s\n", e.ConfigFile)
		fmt.Fprintf(c.w, "Available storages: %s\n", strings.Join(recall.Storages(), ", "))
	}

	a, err := openApp(ctx, c.w, true)
	if err != nil {
		fmt.Fprintln(c.w, "Configuration is not valid")
		return fmt.Errorf("check: %w", err)
	}
	defer a.Close()

	fmt.Fprintln(c.w, "Configuration is valid")

	return nil
}

var _ command = (*checkCommand)(nil)
