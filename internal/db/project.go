package db

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/banshee-data/trackcsv/internal/model"
)

// ProjectSummary is one row of ListProjects.
type ProjectSummary struct {
	RunID      string    `json:"run_id"`
	SourcePath string    `json:"source_path"`
	Format     string    `json:"format"`
	CreatedAt  time.Time `json:"created_at"`
	Spots      int       `json:"spots"`
	Edges      int       `json:"edges"`
	Tracks     int       `json:"tracks"`
}

// SaveProject stores p in one transaction. A project with the same run ID
// is replaced.
func (db *ProjectDB) SaveProject(p *model.Project) error {
	if p == nil || p.Graph == nil || p.Settings == nil {
		return errors.New("save project: graph and settings are required")
	}
	s := p.Settings
	if s.RunID == "" {
		return errors.New("save project: settings have no run ID")
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM projects WHERE run_id = ?`, s.RunID); err != nil {
		return fmt.Errorf("replace project %s: %w", s.RunID, err)
	}
	cal := s.Calibration
	_, err = tx.Exec(`
		INSERT INTO projects (
			run_id, source_path, image_name, format, space_unit, time_unit,
			frame_interval, pixel_width, pixel_height, voxel_depth,
			origin_x, origin_y, origin_z, radius, frame_index_base,
			tracks_imported, initial_view, importer_version, created_unix_nanos, log
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.SourcePath, s.ImageName, s.Format, p.Graph.SpaceUnit, p.Graph.TimeUnit,
		cal.FrameInterval, cal.PixelWidth, cal.PixelHeight, cal.VoxelDepth,
		s.Origin.X, s.Origin.Y, s.Origin.Z, s.Radius, s.FrameIndexBase,
		boolInt(s.TracksImported), s.InitialView, s.ImporterVersion, s.CreatedAt.UnixNano(), p.Log,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	for role, ref := range s.Columns {
		if _, err := tx.Exec(`INSERT INTO project_columns (run_id, role, column_ref) VALUES (?, ?, ?)`,
			s.RunID, role, ref); err != nil {
			return fmt.Errorf("insert column %s: %w", role, err)
		}
	}
	for k, v := range p.Metadata {
		if _, err := tx.Exec(`INSERT INTO project_metadata (run_id, key, value) VALUES (?, ?, ?)`,
			s.RunID, k, v); err != nil {
			return fmt.Errorf("insert metadata %s: %w", k, err)
		}
	}

	seqOf, err := insertSpots(tx, s.RunID, p.Graph.Spots.All())
	if err != nil {
		return err
	}
	for _, t := range p.Graph.Tracks {
		for pos, sp := range t.Spots {
			if _, err := tx.Exec(`INSERT INTO track_spots (run_id, track_id, position, seq) VALUES (?, ?, ?, ?)`,
				s.RunID, t.ID, pos, seqOf[sp]); err != nil {
				return fmt.Errorf("insert track %d: %w", t.ID, err)
			}
		}
	}
	for i, e := range p.Graph.Edges {
		src, ok1 := seqOf[e.Source]
		dst, ok2 := seqOf[e.Target]
		if !ok1 || !ok2 {
			return fmt.Errorf("edge %d: %w", i, model.ErrUnknownSpot)
		}
		if _, err := tx.Exec(`
			INSERT INTO edges (run_id, edge_index, track_id, source_seq, target_seq, weight)
			VALUES (?, ?, ?, ?, ?, ?)`, s.RunID, i, e.TrackID, src, dst, e.Weight); err != nil {
			return fmt.Errorf("insert edge %d: %w", i, err)
		}
	}
	return tx.Commit()
}

func insertSpots(tx *sql.Tx, runID string, spots []*model.Spot) (map[*model.Spot]int, error) {
	stmt, err := tx.Prepare(`
		INSERT INTO spots (run_id, seq, spot_id, forced_id, frame, t, x, y, z, radius, quality, name, visible)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	seqOf := make(map[*model.Spot]int, len(spots))
	for seq, sp := range spots {
		seqOf[sp] = seq
		if _, err := stmt.Exec(runID, seq, sp.ID, boolInt(sp.Identity.IsForced()), sp.Frame, sp.Time,
			sp.Position.X, sp.Position.Y, sp.Position.Z, sp.Radius, sp.Quality, sp.Name, boolInt(sp.Visible)); err != nil {
			return nil, fmt.Errorf("insert spot %s: %w", sp, err)
		}
		if sp.Polygon == nil {
			continue
		}
		for vi, v := range sp.Polygon.Vertices {
			if _, err := tx.Exec(`INSERT INTO spot_vertices (run_id, seq, vertex_index, x, y) VALUES (?, ?, ?, ?, ?)`,
				runID, seq, vi, v.X, v.Y); err != nil {
				return nil, fmt.Errorf("insert vertex of spot %s: %w", sp, err)
			}
		}
	}
	return seqOf, nil
}

// LoadProject rebuilds the project stored under runID.
func (db *ProjectDB) LoadProject(runID string) (*model.Project, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	s := &model.Settings{RunID: runID, Columns: map[string]string{}}
	var (
		spaceUnit, timeUnit string
		tracksImported      int
		createdNanos        int64
		logText             string
	)
	err = tx.QueryRow(`
		SELECT source_path, image_name, format, space_unit, time_unit,
		       frame_interval, pixel_width, pixel_height, voxel_depth,
		       origin_x, origin_y, origin_z, radius, frame_index_base,
		       tracks_imported, initial_view, importer_version, created_unix_nanos, log
		FROM projects WHERE run_id = ?`, runID).Scan(
		&s.SourcePath, &s.ImageName, &s.Format, &spaceUnit, &timeUnit,
		&s.Calibration.FrameInterval, &s.Calibration.PixelWidth, &s.Calibration.PixelHeight, &s.Calibration.VoxelDepth,
		&s.Origin.X, &s.Origin.Y, &s.Origin.Z, &s.Radius, &s.FrameIndexBase,
		&tracksImported, &s.InitialView, &s.ImporterVersion, &createdNanos, &logText,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", runID, ErrProjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", runID, err)
	}
	s.Calibration.SpaceUnit = spaceUnit
	s.Calibration.TimeUnit = timeUnit
	s.TracksImported = tracksImported != 0
	s.CreatedAt = time.Unix(0, createdNanos).UTC()

	if err := scanPairs(tx, `SELECT role, column_ref FROM project_columns WHERE run_id = ?`, runID, s.Columns); err != nil {
		return nil, err
	}
	md := map[string]string{}
	if err := scanPairs(tx, `SELECT key, value FROM project_metadata WHERE run_id = ?`, runID, md); err != nil {
		return nil, err
	}

	bySeq, err := loadSpots(tx, runID)
	if err != nil {
		return nil, err
	}
	seqs := make([]int, 0, len(bySeq))
	for seq := range bySeq {
		seqs = append(seqs, seq)
	}
	sort.Ints(seqs)
	spots := model.NewSpotCollection()
	for _, seq := range seqs {
		spots.Add(bySeq[seq])
	}
	g := model.NewGraph(spots, spaceUnit, timeUnit)

	if err := loadTracks(tx, runID, bySeq, g); err != nil {
		return nil, err
	}
	if err := loadEdges(tx, runID, bySeq, g); err != nil {
		return nil, err
	}
	return &model.Project{Graph: g, Settings: s, Metadata: md, Log: logText}, nil
}

func scanPairs(tx *sql.Tx, query, runID string, into map[string]string) error {
	rows, err := tx.Query(query, runID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}
		into[k] = v
	}
	return rows.Err()
}

func loadSpots(tx *sql.Tx, runID string) (map[int]*model.Spot, error) {
	rows, err := tx.Query(`
		SELECT seq, spot_id, forced_id, frame, t, x, y, z, radius, quality, name, visible
		FROM spots WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	bySeq := make(map[int]*model.Spot)
	for rows.Next() {
		var (
			seq, id, forced, frame, visible int
			t, x, y, z, radius, quality     float64
			name                            string
		)
		if err := rows.Scan(&seq, &id, &forced, &frame, &t, &x, &y, &z, &radius, &quality, &name, &visible); err != nil {
			rows.Close()
			return nil, err
		}
		var sp *model.Spot
		if forced != 0 {
			sp = model.NewSpotWithID(id)
			sp.SetPosition(x, y, z)
			sp.Radius = radius
			sp.Quality = quality
			sp.Name = name
		} else {
			sp = model.NewSpot(x, y, z, radius, quality, name)
			sp.ID = id
		}
		sp.Frame = frame
		sp.Time = t
		sp.Visible = visible != 0
		bySeq[seq] = sp
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	vrows, err := tx.Query(`SELECT seq, x, y FROM spot_vertices WHERE run_id = ? ORDER BY seq, vertex_index`, runID)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()
	for vrows.Next() {
		var (
			seq  int
			x, y float64
		)
		if err := vrows.Scan(&seq, &x, &y); err != nil {
			return nil, err
		}
		sp, ok := bySeq[seq]
		if !ok {
			return nil, fmt.Errorf("vertex for unknown spot seq %d", seq)
		}
		if sp.Polygon == nil {
			sp.Polygon = &model.Polygon{}
		}
		sp.Polygon.Vertices = append(sp.Polygon.Vertices, model.Vertex{X: x, Y: y})
	}
	return bySeq, vrows.Err()
}

func loadTracks(tx *sql.Tx, runID string, bySeq map[int]*model.Spot, g *model.Graph) error {
	rows, err := tx.Query(`SELECT track_id, seq FROM track_spots WHERE run_id = ? ORDER BY track_id, position`, runID)
	if err != nil {
		return err
	}
	defer rows.Close()
	var cur *model.Track
	for rows.Next() {
		var id, seq int
		if err := rows.Scan(&id, &seq); err != nil {
			return err
		}
		if cur == nil || cur.ID != id {
			if cur != nil {
				g.AddTrack(*cur)
			}
			cur = &model.Track{ID: id}
		}
		cur.Spots = append(cur.Spots, bySeq[seq])
	}
	if cur != nil {
		g.AddTrack(*cur)
	}
	return rows.Err()
}

func loadEdges(tx *sql.Tx, runID string, bySeq map[int]*model.Spot, g *model.Graph) error {
	rows, err := tx.Query(`
		SELECT track_id, source_seq, target_seq, weight
		FROM edges WHERE run_id = ? ORDER BY edge_index`, runID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			trackID, src, dst int
			w                 float64
		)
		if err := rows.Scan(&trackID, &src, &dst, &w); err != nil {
			return err
		}
		if err := g.AddEdge(model.Edge{Source: bySeq[src], Target: bySeq[dst], Weight: w, TrackID: trackID}); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ListProjects returns every stored project, newest first.
func (db *ProjectDB) ListProjects() ([]ProjectSummary, error) {
	rows, err := db.Query(`
		SELECT p.run_id, p.source_path, p.format, p.created_unix_nanos,
		       (SELECT COUNT(*) FROM spots s WHERE s.run_id = p.run_id),
		       (SELECT COUNT(*) FROM edges e WHERE e.run_id = p.run_id),
		       (SELECT COUNT(DISTINCT track_id) FROM track_spots ts WHERE ts.run_id = p.run_id)
		FROM projects p
		ORDER BY p.created_unix_nanos DESC, p.run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProjectSummary
	for rows.Next() {
		var (
			ps    ProjectSummary
			nanos int64
		)
		if err := rows.Scan(&ps.RunID, &ps.SourcePath, &ps.Format, &nanos, &ps.Spots, &ps.Edges, &ps.Tracks); err != nil {
			return nil, err
		}
		ps.CreatedAt = time.Unix(0, nanos).UTC()
		out = append(out, ps)
	}
	return out, rows.Err()
}

// LatestProject loads the most recently created project.
func (db *ProjectDB) LatestProject() (*model.Project, error) {
	var runID string
	err := db.QueryRow(`SELECT run_id FROM projects ORDER BY created_unix_nanos DESC, run_id LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return db.LoadProject(runID)
}

// DeleteProject removes a project and everything that references it.
func (db *ProjectDB) DeleteProject(runID string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	// spot_vertices cascades through spots.
	res, err := tx.Exec(`DELETE FROM projects WHERE run_id = ?`, runID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", runID, ErrProjectNotFound)
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
