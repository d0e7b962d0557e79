package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/bhuisgen/recall/pkg/cache"
)

// storeCommand implements the store command.
type storeCommand struct {
	flagset *flag.FlagSet
	w       io.Writer
	kind    string
	value   cache.Value
}

// NewStoreCommand creates a new store command.
func NewStoreCommand(w io.Writer) *storeCommand {
	c := storeCommand{w: w}
	c.flagset = flag.NewFlagSet("store", flag.ContinueOnError)
	c.flagset.SetOutput(w)
	c.flagset.StringVar(&c.kind, "kind", cache.KindString.String(), "Value kind (string, bytes, int, float)")
	c.flagset.Usage = func() {
		fmt.Fprintln(w, "Usage: recall store [OPTIONS] VALUE")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Store a value under a new random key and print the key.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		c.flagset.PrintDefaults()
		fmt.Fprintln(w)
	}

	return &c
}

// Name returns the command name.
func (c *storeCommand) Name() string {
	return c.flagset.Name()
}

// Description returns the command description.
func (c *storeCommand) Description() string {
	return "Store a value"
}

// Parse parses the command arguments.
func (c *storeCommand) Parse(args []string) error {
	if err := c.flagset.Parse(args); err != nil {
		return errors.New("parse arguments")
	}
	if len(c.flagset.Args()) != 1 {
		c.flagset.Usage()
		return errors.New("check arguments")
	}
	kind, err := cache.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(c.w, "Invalid kind: %v\n", err)
		return err
	}
	c.value, err = parseValue(kind, c.flagset.Arg(0))
	if err != nil {
		fmt.Fprintf(c.w, "Invalid value: %v\n", err)
		return err
	}
	return nil
}

// Execute executes the command.
func (c *storeCommand) Execute(ctx context.Context) error {
	a, err := openApp(ctx, c.w, false)
	if err != nil {
		return err
	}
	defer a.Close()

	key, err := a.Cache().Store(ctx, c.value)
	if err != nil {
		fmt.Fprintf(c.w, "Failed to store value: %v\n", err)
		return err
	}

	fmt.Fprintln(c.w, key)

	return nil
}

// parseValue parses the command line text of a value.
func parseValue(kind cache.Kind, s string) (cache.Value, error) {
	switch kind {
	case cache.KindString:
		return cache.String(s), nil
	case cache.KindBytes:
		return cache.Bytes([]byte(s)), nil
	case cache.KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return cache.Value{}, err
		}
		return cache.Int(i), nil
	case cache.KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return cache.Value{}, err
		}
		return cache.Float(f), nil
	}
	return cache.Value{}, fmt.Errorf("invalid kind '%s'", kind)
}

var _ command = (*storeCommand)(nil)
