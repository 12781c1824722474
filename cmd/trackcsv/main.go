// Command trackcsv imports CSV tables of spots or outlines into trajectory
// graphs and stores, renders or serves them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/trackcsv/internal/csvimport"
	"github.com/banshee-data/trackcsv/internal/monitoring"
	"github.com/banshee-data/trackcsv/internal/version"
)

// errUsage marks a command-line mistake; run prints usage and exits 2.
var errUsage = errors.New("usage error")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	log.SetOutput(stderr)
	monitoring.SetLogger(log.New(stderr, "", 0).Printf)
	csvimport.SetLogWriters(csvimport.LogWriters{Ops: stderr})

	command, rest := args[0], args[1:]
	var err error
	switch command {
	case "guess":
		err = handleGuess(rest, stdout, stderr)
	case "import":
		err = handleImport(rest, csvimport.FormatPoints, stdout, stderr)
	case "roi":
		err = handleImport(rest, csvimport.FormatROI, stdout, stderr)
	case "render":
		err = handleRender(rest, stdout, stderr)
	case "serve":
		err = handleServe(rest, stderr)
	case "version":
		fmt.Fprintln(stdout, version.String())
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", command)
		printUsage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "trackcsv %s: %v\n", command, err)
		return 2
	default:
		fmt.Fprintf(stderr, "trackcsv %s: %v\n", command, err)
		return 1
	}
}

func usagef(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), errUsage)
}

// parseFlags parses args into fs, reporting bad flags as usage errors.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%v: %w", err, errUsage)
	}
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `trackcsv - import CSV spot tables into trajectory graphs

Usage: trackcsv <command> [options]

Commands:
  guess    Print the header and the guessed column mapping of a CSV file
  import   Import a point CSV file and write the project
  roi      Import a polygon (ROI) CSV file and write the project
  render   Render a saved project to HTML, PNG, SVG or PDF
  serve    Serve a project database with debug and chart pages
  version  Show version information
  help     Show this help message

Outputs are chosen by extension:
  .db, .sqlite           SQLite project store (appends a new run)
  .tmz                   compressed project bundle
  .html                  interactive chart page
  .png, .svg, .pdf       static track plot

Examples:
  trackcsv guess tracks.csv
  trackcsv import tracks.csv tracks.tmz
  trackcsv import -x 0 -y 1 -frame 3 -track 4 -radius 2.5 tracks.csv projects.db
  trackcsv import -config import.json tracks.csv view.html
  trackcsv roi -skip-first-line -frame-interval 0.5 outlines.csv outlines.db
  trackcsv render -run <run-id> projects.db tracks.png
  trackcsv serve -db projects.db -listen :8080

Run 'trackcsv <command> -h' for the options of a command.
`)
}
