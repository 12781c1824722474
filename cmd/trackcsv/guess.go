package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/trackcsv/internal/csvimport"
	"github.com/banshee-data/trackcsv/internal/fsutil"
)

func handleGuess(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("guess", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("expected <input.csv>, got %d arguments", fs.NArg())
	}
	path := fs.Arg(0)

	md, err := csvimport.ParseMetadataFile(fsutil.OSFileSystem{}, path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	h, err := csvimport.ReadHeader(f, csvimport.PointDialect)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if len(md) > 0 {
		fmt.Fprintln(stdout, "Metadata:")
		fmt.Fprint(stdout, md.String())
	}
	fmt.Fprintln(stdout, "Columns:")
	for i, name := range h.Columns {
		fmt.Fprintf(stdout, "  %2d  %s\n", i, name)
	}
	m := csvimport.GuessMapping(h.Names())
	fmt.Fprintln(stdout, "Guessed mapping:")
	for _, r := range csvimport.Roles() {
		fmt.Fprintf(stdout, "  %-8s %s\n", r, m.Get(r))
	}
	return nil
}
