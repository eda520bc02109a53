// Package jsonstore persists all users in a single JSON document, keyed by
// stringified user id. The layout is the one the bot has always used:
//
//	{"12345": {"profile": {...}, "days": {"2026-08-31": {...}}}}
//
// Documents written by older builds may lack newer fields; decoding fills
// those with zero values instead of failing.
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/Pablo-o-plomo/food-ai-bot/internal/model"
	"github.com/Pablo-o-plomo/food-ai-bot/internal/store"
)

func init() {
	store.Register(store.BackendJSON, func(path string) (store.Store, error) {
		return Open(path)
	})
}

type Store struct {
	mu   sync.Mutex
	path string
}

func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("json store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &Store{path: path}
	// Fail early on a corrupt document rather than on the first write.
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) View(userID int64, fn func(*model.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	u := db[key(userID)]
	if u == nil {
		u = &model.User{}
	}
	return fn(u)
}

func (s *Store) Update(userID int64, fn func(*model.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	u := db[key(userID)]
	if u == nil {
		u = &model.User{}
	}
	if err := fn(u); err != nil {
		return err
	}
	db[key(userID)] = u
	return s.save(db)
}

func (s *Store) Users() ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(db))
	for k := range db {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("non-numeric user key %q in users db", k)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) Close() error { return nil }

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *Store) load() (map[string]*model.User, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]*model.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users db: %w", err)
	}
	if len(raw) == 0 {
		return map[string]*model.User{}, nil
	}
	db := map[string]*model.User{}
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("decode users db: %w", err)
	}
	return db, nil
}

// save writes the full document to a sibling temp file and renames it over
// the target, so a crash mid-write never leaves a partial document.
func (s *Store) save(db map[string]*model.User) error {
	raw, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users db: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".users-*.json")
	if err != nil {
		return fmt.Errorf("create temp users db: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp users db: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp users db: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace users db: %w", err)
	}
	return nil
}
