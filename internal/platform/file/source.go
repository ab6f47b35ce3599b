// Package file serves the directory dataset from a JSON file on disk.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"company-directory/internal/core"
)

// Source keeps the last successfully parsed copy of a JSON file.
type Source struct {
	path   string
	logger *zap.Logger

	mu        sync.RWMutex
	companies []core.Company
	loadErr   error
}

// NewSource reads path once. A read or parse failure is not fatal: the
// source reports it from List and Ping until a later Reload succeeds.
func NewSource(path string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Source{path: path, logger: logger}
	if err := s.Reload(); err != nil {
		logger.Warn("Initial dataset load failed", zap.String("path", path), zap.Error(err))
	}
	return s
}

// List returns a copy of the current dataset.
func (s *Source) List(ctx context.Context) ([]core.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.companies == nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSourceUnavailable, s.loadErr)
	}
	out := make([]core.Company, len(s.companies))
	copy(out, s.companies)
	return out, nil
}

// Ping reports whether a dataset is available.
func (s *Source) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.companies == nil {
		return fmt.Errorf("%w: %v", core.ErrSourceUnavailable, s.loadErr)
	}
	return nil
}

// Reload re-reads the file. On failure the previous dataset is kept.
func (s *Source) Reload() error {
	companies, err := readFile(s.path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.loadErr = err
		return err
	}
	s.companies = companies
	s.loadErr = nil
	return nil
}

func readFile(path string) ([]core.Company, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var companies []core.Company
	if err := json.Unmarshal(data, &companies); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if companies == nil {
		companies = []core.Company{}
	}
	if err := core.ValidateSet(companies); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return companies, nil
}

// Watch reloads the file whenever it is written, created or renamed into
// place, until ctx is done. The parent directory is watched so editors that
// replace the file atomically are handled.
func (s *Source) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				s.logger.Warn("Dataset reload failed, keeping previous copy", zap.String("path", s.path), zap.Error(err))
				continue
			}
			s.logger.Info("Dataset reloaded", zap.String("path", s.path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("Watcher error", zap.Error(err))
		}
	}
}
