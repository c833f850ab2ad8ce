// Package archive keeps superseded checklists in SQLite. A release cycle ends by archiving
// its table, never by deleting it.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/idilsaglam/relcheck/internal/checklist"
	"github.com/idilsaglam/relcheck/internal/model"
)

var (
	// ErrReleaseNotFound is returned when no archived release matches an id.
	ErrReleaseNotFound = errors.New("release not found")
	// ErrAmbiguousID is returned when an id prefix matches more than one release.
	ErrAmbiguousID = errors.New("ambiguous release id")
)

// Release is the summary of one archived checklist.
type Release struct {
	ID         string
	Name       string
	Version    string
	ArchivedAt time.Time
	Stats      model.Stats
	Verdict    model.Verdict
}

// ItemRecord aggregates one checklist row across every archived release.
type ItemRecord struct {
	Description string `db:"description"`
	Releases    int    `db:"releases"`
	Failed      int    `db:"failed"`
	Todo        int    `db:"todo"`
}

type releaseRow struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	Version    string `db:"version"`
	ArchivedAt int64  `db:"archived_at"`
	Passed     int    `db:"passed"`
	Failed     int    `db:"failed"`
	Todo       int    `db:"todo"`
	Verdict    string `db:"verdict"`
	Document   string `db:"document"`
}

func (r releaseRow) release() Release {
	return Release{
		ID:         r.ID,
		Name:       r.Name,
		Version:    r.Version,
		ArchivedAt: time.UnixMilli(r.ArchivedAt),
		Stats:      model.Stats{Passed: r.Passed, Failed: r.Failed, Todo: r.Todo, Total: r.Passed + r.Failed + r.Todo},
		Verdict:    model.Verdict(r.Verdict),
	}
}

// Store implements the archive on SQLite.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// New opens (creating if needed) the archive database at path and makes sure the schema exists.
func New(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to set WAL mode: %w (also failed to close db: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Printf("[DEBUG] archive opened at %s", path)
	return s, nil
}

func (s *Store) initialize(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS releases (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			version TEXT NOT NULL DEFAULT '',
			archived_at INTEGER NOT NULL,
			passed INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0,
			todo INTEGER NOT NULL DEFAULT 0,
			verdict TEXT NOT NULL,
			document TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			release_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL,
			remark TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (release_id, position),
			FOREIGN KEY (release_id) REFERENCES releases(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_releases_archived_at ON releases(archived_at)`,
		`CREATE INDEX IF NOT EXISTS idx_items_description ON items(description)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Close the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Archive stores c as a superseded release named name. An empty name falls back to the
// release name from the checklist metadata, then to the archive date.
func (s *Store) Archive(ctx context.Context, name string, c *model.Checklist) (Release, error) {
	doc, err := checklist.RenderString(c)
	if err != nil {
		return Release{}, err
	}

	ts := s.now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.Meta.Release
	}
	if name == "" {
		name = ts.Format("2006-01-02")
	}
	st := c.Stats()
	row := releaseRow{
		ID:         uuid.NewString(),
		Name:       name,
		Version:    c.Meta.Version,
		ArchivedAt: ts.UnixMilli(),
		Passed:     st.Passed,
		Failed:     st.Failed,
		Todo:       st.Todo,
		Verdict:    string(c.Verdict()),
		Document:   doc,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return Release{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO releases (id, name, version, archived_at, passed, failed, todo, verdict, document)
		VALUES (:id, :name, :version, :archived_at, :passed, :failed, :todo, :verdict, :document)`, row)
	if err != nil {
		return Release{}, fmt.Errorf("failed to save release %s: %w", name, err)
	}

	for idx, it := range c.Items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (release_id, position, description, status, remark) VALUES (?, ?, ?, ?, ?)`,
			row.ID, idx, it.Description, it.Status, it.Remark)
		if err != nil {
			return Release{}, fmt.Errorf("failed to save item %d of %s: %w", idx+1, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Release{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	log.Printf("[INFO] archived release %q as %s, verdict %s", name, row.ID, row.Verdict)
	return row.release(), nil
}

// List returns archived releases, newest first.
func (s *Store) List(ctx context.Context) ([]Release, error) {
	var rows []releaseRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, version, archived_at, passed, failed, todo, verdict, document
		FROM releases ORDER BY archived_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query releases: %w", err)
	}
	res := make([]Release, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.release())
	}
	return res, nil
}

// Get looks a release up by full id or unique id prefix and returns it with its checklist.
func (s *Store) Get(ctx context.Context, id string) (Release, *model.Checklist, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Release{}, nil, ErrReleaseNotFound
	}

	var rows []releaseRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, version, archived_at, passed, failed, todo, verdict, document
		FROM releases WHERE id = ? OR id LIKE ? ORDER BY archived_at DESC`, id, stripWildcards(id)+"%")
	if err != nil {
		return Release{}, nil, fmt.Errorf("failed to query release %s: %w", id, err)
	}

	var row releaseRow
	switch len(rows) {
	case 0:
		return Release{}, nil, fmt.Errorf("%w: %s", ErrReleaseNotFound, id)
	case 1:
		row = rows[0]
	default:
		found := false
		for _, r := range rows {
			if r.ID == id {
				row, found = r, true
				break
			}
		}
		if !found {
			return Release{}, nil, fmt.Errorf("%w: %s matches %d releases", ErrAmbiguousID, id, len(rows))
		}
	}

	c, err := checklist.ParseString(row.Document)
	if err != nil {
		return Release{}, nil, fmt.Errorf("archived document %s: %w", row.ID, err)
	}
	return row.release(), c, nil
}

// Items aggregates every archived row by description: how many releases carried it and how
// often it was left failed or todo when the release was superseded. Most failures first.
func (s *Store) Items(ctx context.Context) ([]ItemRecord, error) {
	var res []ItemRecord
	err := s.db.SelectContext(ctx, &res, `
		SELECT description,
			COUNT(*) AS releases,
			SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END) AS failed,
			SUM(CASE WHEN status = 'todo' THEN 1 ELSE 0 END) AS todo
		FROM items GROUP BY description ORDER BY failed DESC, todo DESC, description ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	return res, nil
}

func stripWildcards(s string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(s)
}
