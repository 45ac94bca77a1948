package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"

	"github.com/nliven/airsync/internal/airport"
	"github.com/nliven/airsync/internal/logger"
)

// ErrNotFound is returned when a lookup misses.
var ErrNotFound = errors.New("airport not found")

// JSONStore keeps the airport collection in a JSON file on disk with an
// in-memory cached copy for reads. Writes go through an atomic
// temp-file+rename sequence so the file is never observed half-written.
type JSONStore struct {
	path      string
	dir       string
	base      string
	validator *validator.Validate

	mu  sync.RWMutex
	doc Document
}

// NewJSONStore creates a store backed by the given JSON file path.
// A missing file is treated as an empty collection (first run).
func NewJSONStore(path string) (*JSONStore, error) {
	if path == "" {
		return nil, errors.New("data file path is required")
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "" || dir == "." {
		dir = "."
	}

	s := &JSONStore{
		path:      path,
		dir:       dir,
		base:      base,
		validator: validator.New(),
	}

	doc, err := s.loadFromDisk()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		doc = &Document{}
	}
	doc.ApplyDefaults()
	s.doc = *doc

	return s, nil
}

// All returns a copy of the current persisted collection. Order is the
// insertion order of the most recent replace.
func (s *JSONStore) All(_ context.Context) ([]airport.Airport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAirports(s.doc.Airports)
}

// Get looks up a single record by code. The returned record is a
// copy; writing through its pointer fields does not touch the cache.
func (s *JSONStore) Get(_ context.Context, code string) (airport.Airport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.doc.Airports {
		if a.Code == code {
			cloned, err := cloneAirports([]airport.Airport{a})
			if err != nil {
				return airport.Airport{}, err
			}
			return cloned[0], nil
		}
	}
	return airport.Airport{}, ErrNotFound
}

// DeleteAll removes every record and persists the empty collection.
func (s *JSONStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.doc.Airports
	s.doc.Airports = []airport.Airport{}
	if err := s.saveUnlocked(ctx); err != nil {
		s.doc.Airports = prev
		return err
	}
	return nil
}

// Insert upserts one record by code and persists the collection.
func (s *JSONStore) Insert(ctx context.Context, a airport.Airport) error {
	cloned, err := cloneAirports([]airport.Airport{a})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.doc.Airports
	next, err := cloneAirports(prev)
	if err != nil {
		return err
	}

	replaced := false
	for i := range next {
		if next[i].Code == cloned[0].Code {
			next[i] = cloned[0]
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, cloned[0])
	}

	s.doc.Airports = next
	if err := s.saveUnlocked(ctx); err != nil {
		s.doc.Airports = prev
		return err
	}
	return nil
}

// ReplaceAll swaps the whole collection in one lock-hold and one
// durable write. On error the previous collection remains in place,
// both in memory and on disk.
func (s *JSONStore) ReplaceAll(ctx context.Context, airports []airport.Airport) error {
	cloned, err := cloneAirports(airports)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.doc.Airports
	s.doc.Airports = cloned
	if err := s.saveUnlocked(ctx); err != nil {
		s.doc.Airports = prev
		return err
	}
	return nil
}

// loadFromDisk reads the JSON file, parses and validates it.
func (s *JSONStore) loadFromDisk() (*Document, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode data file: %w", err)
	}

	doc.ApplyDefaults()

	if s.validator != nil {
		if err := s.validator.Struct(&doc); err != nil {
			return nil, fmt.Errorf("validate data file: %w", err)
		}
	}

	return &doc, nil
}

// saveUnlocked writes the cached document to disk (caller holds the lock).
func (s *JSONStore) saveUnlocked(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.doc.Metadata.LastUpdate = time.Now().UnixMilli()

	payload, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, s.base+".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.Write(payload); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	return nil
}

// StartWatcher listens for external changes to the data file and
// reloads the cached document when the disk copy is newer. It watches
// the parent directory (not the file) so atomic replace sequences
// (temp+rename) are still observed on Linux and Windows. Events are
// filtered by basename and debounced to avoid double reloads on
// write+chmod/rename cycles. The caller owns the provided context:
// cancel it to stop the goroutine and close the watcher cleanly.
func (s *JSONStore) StartWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch dir: %w", err)
	}

	go func() {
		defer watcher.Close()

		// debounce coalesces bursty fsnotify events (write+chmod/rename)
		// into a single reload.
		var debounce *time.Timer
		schedule := func() {
			if debounce != nil {
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
			}
			debounce = time.AfterFunc(200*time.Millisecond, s.reloadFromDisk)
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != s.base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithComponent("json-store").Errorf("watcher error: %v", err)
			}
		}
	}()

	return nil
}

// reloadFromDisk replaces the cached document when the disk copy is
// strictly newer. A corrupt or invalid file is logged and skipped; the
// cached collection stays intact.
func (s *JSONStore) reloadFromDisk() {
	diskDoc, err := s.loadFromDisk()
	if err != nil {
		logger.WithComponent("json-store").Errorf("watch reload failed: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if diskDoc.Metadata.LastUpdate <= s.doc.Metadata.LastUpdate {
		logger.WithComponent("json-store").Debugf("disk version is not newer than cache: disk=%d cache=%d",
			diskDoc.Metadata.LastUpdate, s.doc.Metadata.LastUpdate)
		return
	}

	s.doc = *diskDoc
	logger.WithComponent("json-store").Info("airport collection reloaded from newer disk version")
}
