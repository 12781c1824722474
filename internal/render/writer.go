package render

import (
	"fmt"
	"path/filepath"

	"github.com/banshee-data/trackcsv/internal/fsutil"
	"github.com/banshee-data/trackcsv/internal/model"
)

// Supported reports whether path has an extension WriteFile can render.
func Supported(path string) bool {
	_, err := formatFor(path)
	return err == nil
}

// WriteFile renders p to path, choosing the output from its extension.
func WriteFile(fsys fsutil.FileSystem, path string, p *model.Project) error {
	if p == nil || p.Graph == nil {
		return fmt.Errorf("render %s: nil project", path)
	}
	format, err := formatFor(path)
	if err != nil {
		return err
	}
	title := "Imported tracks"
	if p.Settings != nil && p.Settings.SourcePath != "" {
		title = filepath.Base(p.Settings.SourcePath)
	}

	out, err := fsys.Create(path)
	if err != nil {
		return err
	}
	var werr error
	if format == "html" {
		werr = WriteHTML(out, p.Graph, title)
	} else {
		werr = WritePlot(out, p.Graph, title, format)
	}
	if werr != nil {
		out.Close()
		return werr
	}
	return out.Close()
}

// Writer displays projects by rendering them to a file. A nil FS writes
// to the OS.
type Writer struct {
	FS fsutil.FileSystem
}

// WriteProject implements csvimport.ProjectWriter.
func (w Writer) WriteProject(path string, p *model.Project) error {
	fsys := w.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	return WriteFile(fsys, path, p)
}
