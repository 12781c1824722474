package db

import (
	"fmt"
	"os"

	"github.com/banshee-data/trackcsv/internal/model"
)

// Writer saves projects into the database file named by the target path.
type Writer struct{}

// WriteProject opens (or creates) path, stores p and closes the file.
func (Writer) WriteProject(path string, p *model.Project) error {
	db, err := Open(path)
	if err != nil {
		return fmt.Errorf("open project database: %w", err)
	}
	defer db.Close()
	return db.SaveProject(p)
}

// ReadProject loads runID from the database at path, or the newest project
// when runID is empty.
func ReadProject(path, runID string) (*model.Project, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project database: %w", err)
	}
	defer db.Close()
	if runID == "" {
		return db.LatestProject()
	}
	return db.LoadProject(runID)
}
