// Copyright 2025 Binaek Sarkar
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package catversion is the catalogue versioning state machine:
// initial -> v0 -> v1 -> ... Each version is a self-contained directory
// pair (rules.toml + mappings.toml); a root manifest names the current
// version and the full history. save() writes the new version directory
// first, then atomically replaces the manifest — write-new-then-swap, so a
// crash mid-save never leaves the manifest pointing at a half-written
// version.
package catversion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/perch"
	"github.com/civitas-sh/civitas/xerr"
)

const (
	rulesFileName    = "rules.toml"
	mappingsFileName = "mappings.toml"
	manifestFileName = "manifest.toml"
)

// HistoryEntry records one version's metadata in the manifest.
type HistoryEntry struct {
	ID        string    `toml:"id"`
	CreatedAt time.Time `toml:"created_at"`
	Note      string    `toml:"note,omitempty"`
}

// Manifest is the root document naming the current version and full history.
// No version is ever removed from History — rollback only moves
// CurrentVersion, never deletes a history entry.
type Manifest struct {
	CurrentVersion string         `toml:"current_version"`
	History        []HistoryEntry `toml:"history"`
}

// LoadedVersion is the parsed (rules, mappings) pair for one version.
type LoadedVersion struct {
	ID        string
	Catalogue *catalogue.Catalogue
	Mappings  map[string]string // rule id -> explanation template id
}

// Store is the durable, single-writer catalogue version store rooted at Dir.
type Store struct {
	Dir string

	mu    sync.Mutex // single writer per catalogue store
	cache *perch.Perch[*LoadedVersion]
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, cache: perch.New[*LoadedVersion](64)}
}

func (s *Store) manifestPath() string { return filepath.Join(s.Dir, manifestFileName) }
func (s *Store) versionDir(id string) string { return filepath.Join(s.Dir, id) }

// Init creates the store's v0 baseline if the manifest does not already
// exist. v0 is immutable once created.
func (s *Store) Init(ctx context.Context, cat *catalogue.Catalogue, mappings map[string]string) error {
	if _, err := os.Stat(s.manifestPath()); err == nil {
		return nil // already initialized
	}
	return s.writeVersion(ctx, "v0", cat, mappings, "baseline", nil)
}

// Save creates a new version from cat/mappings, appends it to history, and
// atomically makes it current.
func (s *Store) Save(ctx context.Context, cat *catalogue.Catalogue, mappings map[string]string, note string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readManifest()
	if err != nil {
		return "", err
	}

	id := nextVersionID(m)
	if err := s.writeVersion(ctx, id, cat, mappings, note, m); err != nil {
		return "", err
	}
	return id, nil
}

// Rollback moves CurrentVersion to an existing version id without deleting
// anything, appending a history record of the rollback itself.
func (s *Store) Rollback(ctx context.Context, toID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.readManifest()
	if err != nil {
		return err
	}
	if !containsVersion(m, toID) {
		return xerr.ErrNotFound("catalogue_version", toID)
	}
	m.CurrentVersion = toID
	m.History = append(m.History, HistoryEntry{ID: toID, CreatedAt: time.Now().UTC(), Note: "rollback"})
	if err := s.atomicWriteManifest(m); err != nil {
		return err
	}
	s.cache = perch.New[*LoadedVersion](64) // invalidate process-wide cache on any save/rollback
	return nil
}

// Load reads and parses a version's rules/mappings, using the process-wide
// cache keyed by version id.
func (s *Store) Load(ctx context.Context, id string) (*LoadedVersion, error) {
	return s.cache.Get(ctx, id, 10*time.Minute, func(ctx context.Context, id string) (*LoadedVersion, error) {
		dir := s.versionDir(id)
		if _, err := os.Stat(dir); err != nil {
			return nil, xerr.ErrNotFound("catalogue_version", id)
		}
		rb, err := os.ReadFile(filepath.Join(dir, rulesFileName))
		if err != nil {
			return nil, errors.Wrap(err, "read rules")
		}
		cat, _ := catalogue.LoadAll([][]byte{rb})

		mb, err := os.ReadFile(filepath.Join(dir, mappingsFileName))
		mappings := map[string]string{}
		if err == nil {
			_ = toml.Unmarshal(mb, &mappings)
		}
		return &LoadedVersion{ID: id, Catalogue: cat, Mappings: mappings}, nil
	})
}

func (s *Store) Current(ctx context.Context) (*LoadedVersion, error) {
	m, err := s.readManifest()
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, m.CurrentVersion)
}

func (s *Store) History() ([]HistoryEntry, error) {
	m, err := s.readManifest()
	if err != nil {
		return nil, err
	}
	return m.History, nil
}

func (s *Store) readManifest() (*Manifest, error) {
	b, err := os.ReadFile(s.manifestPath())
	if err != nil {
		return nil, xerr.ErrInvariantViolation("catalogue_manifest_present", "manifest missing: "+err.Error())
	}
	var m Manifest
	if err := toml.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}
	return &m, nil
}

func (s *Store) writeVersion(ctx context.Context, id string, cat *catalogue.Catalogue, mappings map[string]string, note string, existing *Manifest) error {
	dir := s.versionDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return xerr.ErrResourceExhausted("create version directory", err)
	}

	rulesBytes, err := toml.Marshal(struct {
		Rules []catalogue.Rule `toml:"rules"`
	}{Rules: cat.Rules()})
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, rulesFileName), rulesBytes); err != nil {
		return xerr.ErrResourceExhausted("write rules", err)
	}

	mappingBytes, err := toml.Marshal(mappings)
	if err != nil {
		return err
	}
	if err := writeFile(filepath.Join(dir, mappingsFileName), mappingBytes); err != nil {
		return xerr.ErrResourceExhausted("write mappings", err)
	}

	m := existing
	if m == nil {
		m = &Manifest{}
	}
	m.CurrentVersion = id
	m.History = append(m.History, HistoryEntry{ID: id, CreatedAt: time.Now().UTC(), Note: note})

	if err := s.atomicWriteManifest(m); err != nil {
		return err
	}
	s.cache = perch.New[*LoadedVersion](64)
	return nil
}

// atomicWriteManifest writes a temp file then renames it over the manifest,
// so a crash mid-write never leaves a partially-written manifest behind.
func (s *Store) atomicWriteManifest(m *Manifest) error {
	b, err := toml.Marshal(m)
	if err != nil {
		return err
	}
	tmp := s.manifestPath() + ".tmp"
	if err := writeFile(tmp, b); err != nil {
		return xerr.ErrResourceExhausted("write manifest temp", err)
	}
	if err := os.Rename(tmp, s.manifestPath()); err != nil {
		return xerr.ErrResourceExhausted("rename manifest", err)
	}
	return nil
}

func writeFile(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}

func containsVersion(m *Manifest, id string) bool {
	for _, h := range m.History {
		if h.ID == id {
			return true
		}
	}
	return false
}

func nextVersionID(m *Manifest) string {
	n := len(m.History)
	return fmt.Sprintf("v%d", n)
}
