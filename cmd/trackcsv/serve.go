package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/trackcsv/internal/bundle"
	"github.com/banshee-data/trackcsv/internal/db"
	"github.com/banshee-data/trackcsv/internal/fsutil"
	"github.com/banshee-data/trackcsv/internal/httputil"
	"github.com/banshee-data/trackcsv/internal/model"
	"github.com/banshee-data/trackcsv/internal/render"
	"github.com/banshee-data/trackcsv/internal/security"
)

func handleServe(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	listen := fs.String("listen", ":8080", "Listen address")
	dbPath := fs.String("db", "", "Project database to serve (required)")
	bundleDir := fs.String("bundles", "", "Directory of .tmz bundles to serve under /bundle")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *dbPath == "" {
		return usagef("-db is required")
	}
	if *listen == "" {
		return usagef("listen address is required")
	}
	if _, err := os.Stat(*dbPath); err != nil {
		return err
	}

	pdb, err := db.Open(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer pdb.Close()

	mux, err := newServeMux(pdb, *bundleDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr: *listen,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("got request %q", r.URL.Path)
			mux.ServeHTTP(w, r)
		}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("serving %s on %s", *dbPath, *listen)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
			if err := server.Close(); err != nil {
				log.Printf("HTTP server force close error: %v", err)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Printf("Graceful shutdown complete")
	return nil
}

// newServeMux mounts the chart pages and the database debug routes.
// bundleDir may be empty to disable /bundle.
func newServeMux(pdb *db.ProjectDB, bundleDir string) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := pdb.AttachAdminRoutes(mux); err != nil {
		return nil, err
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httputil.NotFound(w, "no such page")
			return
		}
		if p, ok := loadForRequest(w, r, pdb); ok {
			writeHTML(w, p)
		}
	})
	mux.HandleFunc("/plot.png", func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadForRequest(w, r, pdb)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := render.WritePNG(w, p.Graph, p.Settings.SourcePath); err != nil {
			log.Printf("render png: %v", err)
		}
	})
	mux.HandleFunc("/download", func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadForRequest(w, r, pdb)
		if !ok {
			return
		}
		name := security.SanitizeFilename(strings.TrimSuffix(filepath.Base(p.Settings.SourcePath), filepath.Ext(p.Settings.SourcePath)))
		w.Header().Set("Content-Type", "application/zstd")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s%s", name, bundle.Ext))
		if err := bundle.Write(w, p); err != nil {
			log.Printf("write bundle: %v", err)
		}
	})
	if bundleDir != "" {
		mux.HandleFunc("/bundle", func(w http.ResponseWriter, r *http.Request) {
			handleBundle(w, r, bundleDir)
		})
	}
	return mux, nil
}

// handleBundle renders the bundle named by the "file" query parameter,
// which must resolve inside dir.
func handleBundle(w http.ResponseWriter, r *http.Request, dir string) {
	name := r.URL.Query().Get("file")
	if name == "" || !strings.EqualFold(filepath.Ext(name), bundle.Ext) {
		httputil.BadRequest(w, "file must name a "+bundle.Ext+" bundle")
		return
	}
	path := filepath.Join(dir, name)
	if err := security.ValidatePathWithinDirectory(path, dir); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	p, err := bundle.ReadFile(fsutil.OSFileSystem{}, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		httputil.NotFound(w, "no such bundle: "+name)
		return
	case err != nil:
		httputil.InternalServerError(w, fmt.Sprintf("Failed to read bundle: %v", err))
		return
	}
	writeHTML(w, p)
}

func writeHTML(w http.ResponseWriter, p *model.Project) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.WriteHTML(w, p.Graph, p.Settings.SourcePath); err != nil {
		log.Printf("render html: %v", err)
	}
}

// loadForRequest loads the project named by the "run" query parameter, or
// the latest one. It writes the error response itself.
func loadForRequest(w http.ResponseWriter, r *http.Request, pdb *db.ProjectDB) (*model.Project, bool) {
	var (
		p   *model.Project
		err error
	)
	if runID := r.URL.Query().Get("run"); runID != "" {
		p, err = pdb.LoadProject(runID)
	} else {
		p, err = pdb.LatestProject()
	}
	switch {
	case errors.Is(err, db.ErrProjectNotFound):
		httputil.NotFound(w, err.Error())
		return nil, false
	case err != nil:
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load project: %v", err))
		return nil, false
	}
	return p, true
}
