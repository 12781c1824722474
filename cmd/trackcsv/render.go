package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/banshee-data/trackcsv/internal/fsutil"
	"github.com/banshee-data/trackcsv/internal/render"
)

func handleRender(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	runID := fs.String("run", "", "Run ID to render from a project database (default: latest)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return usagef("expected <project> <output>, got %d arguments", fs.NArg())
	}
	input, output := fs.Arg(0), fs.Arg(1)
	if !render.Supported(output) {
		return usagef("cannot render to %s: want .html, .png, .svg or .pdf", output)
	}

	p, err := readProject(input, *runID)
	if err != nil {
		return err
	}
	if err := render.WriteFile(fsutil.OSFileSystem{}, output, p); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "rendered run %s (%d spots) to %s\n", p.Settings.RunID, p.Graph.Spots.NSpots(false), output)
	return nil
}
