// Copyright 2022-2024 Boris HUISGEN. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/bhuisgen/recall/internal/app/recall"
)

// command
type command interface {
	Name() string
	Description() string
	Parse(args []string) error
	Execute(ctx context.Context) error
}

// main is the entrypoint.
func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout)
	if err != nil {
		os.Exit(1)
	}
}

// run parses and executes the command line.
func run(ctx context.Context, args []string, w io.Writer) error {
	commands := []command{
		NewStoreCommand(w),
		NewGetCommand(w),
		NewReplayCommand(w),
		NewPageCommand(w),
		NewCheckCommand(w),
		NewVersionCommand(w),
	}

	flagset := flag.NewFlagSet("recall", flag.ContinueOnError)
	flagset.SetOutput(w)
	var version bool
	flagset.BoolVar(&version, "v", false, "Print version information and quit")
	flagset.Usage = func() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Usage: recall [OPTIONS] COMMAND")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		flagset.PrintDefaults()
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Commands:")
		for _, c := range commands {
			fmt.Fprintf(w, "  %-16s %s\n", c.Name(), c.Description())
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'recall COMMAND --help' for more information on a command.")
	}
	if err := flagset.Parse(args); err != nil {
		return err
	}

	if version {
		fmt.Fprintf(w, "%s version %s\n", recall.Name, recall.Version)
		return nil
	}

	if len(flagset.Args()) == 0 {
		flagset.Usage()
		return nil
	}

	for _, c := range commands {
		if c.Name() != flagset.Arg(0) {
			continue
		}
		if err := c.Parse(flagset.Args()[1:]); err != nil {
			return err
		}
		if err := c.Execute(ctx); err != nil {
			return err
		}
		return nil
	}

	flagset.Usage()
	return errors.New("invalid command")
}

// openApp loads the environment and the configuration and returns the
// application. The store flush is disabled when keepData is set.
func openApp(ctx context.Context, w io.Writer, keepData bool) (*recall.App, error) {
	e, err := recall.LoadEnv()
	if err != nil {
		fmt.Fprintf(w, "Failed to read environment: %v\n", err)
		return nil, err
	}
	config, err := recall.LoadConfig(e)
	if err != nil {
		fmt.Fprintf(w, "Failed to load configuration: %v\n", err)
		return nil, fmt.Errorf("load config: %w", err)
	}
	if keepData && config.Store != nil {
		config.Store["flush"] = false
	}
	a, err := recall.New(ctx, config, e)
	if err != nil {
		fmt.Fprintf(w, "Failed to open store: %v\n", err)
		return nil, err
	}
	return a, nil
}
