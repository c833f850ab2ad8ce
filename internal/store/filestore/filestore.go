package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/gofrs/flock"

	"github.com/idilsaglam/relcheck/internal/checklist"
	"github.com/idilsaglam/relcheck/internal/model"
)

// Markdown-backed storage. Single file, human-readable, reviewable in a pull request.
// Writers serialize on an advisory <file>.lock so the CLI and the TUI can't clobber each other.

// DefaultFileName is used when no path is configured.
const DefaultFileName = "RELEASE_CHECKLIST.md"

// ErrNotFound is returned by Load when the checklist file does not exist.
var ErrNotFound = errors.New("checklist file not found")

const lockRetry = 50 * time.Millisecond

// Store reads and writes one checklist file.
type Store struct {
	path string
	lock *flock.Flock
}

// DefaultPath returns DefaultFileName in the working directory.
func DefaultPath() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, DefaultFileName), nil
}

// New makes a Store for path; the file does not need to exist yet.
func New(path string) *Store {
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// Path of the checklist file.
func (s *Store) Path() string { return s.path }

// Exists reports whether the checklist file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load parses the checklist file under a shared lock.
func (s *Store) Load(ctx context.Context) (*model.Checklist, error) {
	ok, err := s.lock.TryRLockContext(ctx, lockRetry)
	if err != nil || !ok {
		return nil, fmt.Errorf("lock %s: %w", s.path, lockErr(err))
	}
	defer s.unlock()
	return s.load()
}

// Save writes c, replacing the file atomically.
func (s *Store) Save(ctx context.Context, c *model.Checklist) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil || !ok {
		return fmt.Errorf("lock %s: %w", s.path, lockErr(err))
	}
	defer s.unlock()
	return s.save(c)
}

// Update runs fn on the current checklist and saves the result, all under one exclusive lock.
// Nothing is written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(c *model.Checklist) error) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil || !ok {
		return fmt.Errorf("lock %s: %w", s.path, lockErr(err))
	}
	defer s.unlock()

	c, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(c); err != nil {
		return err
	}
	return s.save(c)
}

func (s *Store) load() (*model.Checklist, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	c, err := checklist.Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	log.Printf("[DEBUG] loaded %d items from %s", c.Len(), s.path)
	return c, nil
}

func (s *Store) save(c *model.Checklist) error {
	var buf bytes.Buffer
	if err := checklist.Render(&buf, c); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".relcheck-*.md")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	log.Printf("[DEBUG] saved %d items to %s", c.Len(), s.path)
	return nil
}

func (s *Store) unlock() {
	if err := s.lock.Unlock(); err != nil {
		log.Printf("[WARN] can't release lock for %s, %v", s.path, err)
	}
}

func lockErr(err error) error {
	if err != nil {
		return err
	}
	return errors.New("lock not acquired")
}
