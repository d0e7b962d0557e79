package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/bhuisgen/recall/internal/app/recall"
)

// versionCommand implements the version command.
type versionCommand struct {
	flagset *flag.FlagSet
	w       io.Writer
}

var (
	Commit string = "-"
	Date   string = "-"
)

// NewVersionCommand creates a new version command.
func NewVersionCommand(w io.Writer) *versionCommand {
	c := versionCommand{w: w}
	c.flagset = flag.NewFlagSet("version", flag.ContinueOnError)
	c.flagset.SetOutput(w)
	c.flagset.Usage = func() {
		fmt.Fprintln(w, "Usage: recall version")
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Show the %s version information.\n", recall.Name)
		fmt.Fprintln(w)
	}

	return &c
}

// Name returns the command name.
func (c *versionCommand) Name() string {
	return c.flagset.Name()
}

// Description returns the command description.
func (c *versionCommand) Description() string {
	return "Show version information"
}

// Parse parses the command arguments.
func (c *versionCommand) Parse(args []string) error {
	if err := c.flagset.Parse(args); err != nil {
		return errors.New("parse arguments")
	}
	if len(c.flagset.Args()) > 0 {
		return errors.New("check arguments")
	}
	return nil
}

// Execute executes the command.
func (c *versionCommand) Execute(ctx context.Context) error {
	fmt.Fprintf(c.w, "%s\n", recall.Name)
	fmt.Fprintf(c.w, " %-19s%s\n", "Version:", recall.Version)
	fmt.Fprintf(c.w, " %-19s%s\n", "Commit:", Commit)
	fmt.Fprintf(c.w, " %-19s%s\n", "Built:", Date)
	fmt.Fprintf(c.w, " %-19s%s\n", "OS/Arch:", strings.Join([]string{runtime.GOOS, runtime.GOARCH}, "/"))
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		fmt.Fprintf(c.w, " %-19s%s\n", "Go version:", buildInfo.GoVersion)
	}

	return nil
}

var _ command = (*versionCommand)(nil)
