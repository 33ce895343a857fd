package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rob-gra/go-bufr/bufr"
	"github.com/rob-gra/go-bufr/clog"
	"github.com/rob-gra/go-bufr/decoder"
	"github.com/rob-gra/go-bufr/table"
)

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	tf := bindTableFlags(fs)
	verbose := fs.Bool("v", false, "enable debug/warn logging to stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("decode: expected exactly one file argument")
	}

	if *verbose {
		clog.Log.LogMode(true)
	}

	r, err := openInput(fs.Arg(0))
	if err != nil {
		return err
	}
	if closer, ok := r.(io.Closer); ok {
		defer closer.Close()
	}

	mgr := table.NewManager()
	msg, err := decoder.Decode(r, mgr, tf.tables)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	return printMessage(msg)
}

func openInput(name string) (io.Reader, error) {
	if name == "-" {
		return os.Stdin, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("decode: opening %s: %w", name, err)
	}
	return f, nil
}

// printMessage renders the decoded message as indented JSON; the JSON
// shape is a plain reporting view, not a wire format.
func printMessage(msg *bufr.Message) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summarizeMessage(msg))
}
