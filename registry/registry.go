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

// Package registry is the model registry: append-only version
// records with per-version epoch history, plus a parent-lineage DAG so
// multiple retrains can share a parent.
package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/civitas-sh/civitas/dag"
	"github.com/civitas-sh/civitas/train"
	"github.com/civitas-sh/civitas/xerr"
)

// VersionID is a model version's identity; its String method is what lets
// it live as a dag.G node.
type VersionID string

func (v VersionID) String() string { return string(v) }

// Version is one append-only registry record.
type Version struct {
	ID             VersionID     `json:"id"`
	ParentID       VersionID     `json:"parent_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	Epochs         []train.Epoch `json:"epochs"`
	IsBest         bool          `json:"is_best"`
	CheckpointPath string        `json:"checkpoint_path"`
}

// Registry holds the append-only version list plus the lineage DAG derived
// from each version's ParentID. Single-writer-locked, matching the
// catalogue store's concurrency model.
type Registry struct {
	Path string

	mu       sync.Mutex
	versions map[VersionID]*Version
	order    []VersionID
	lineage  dag.G[VersionID]
}

func New(path string) *Registry {
	return &Registry{
		Path:     path,
		versions: make(map[VersionID]*Version),
		lineage:  dag.New[VersionID](),
	}
}

// Open loads an existing registry file, or returns an empty registry if one
// doesn't exist yet.
func Open(path string) (*Registry, error) {
	r := New(path)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, err
	}
	var versions []*Version
	if err := json.Unmarshal(b, &versions); err != nil {
		return nil, err
	}
	for _, v := range versions {
		r.versions[v.ID] = v
		r.order = append(r.order, v.ID)
		r.lineage.AddNode(v.ID)
		if v.ParentID != "" {
			if err := r.lineage.AddEdge(v.ParentID, v.ID); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Register appends a new version record. It is append-only: existing
// records are never mutated except for the is_best flag flip in MarkBest.
func (r *Registry) Register(ctx context.Context, id, parentID VersionID, epochs []train.Epoch, checkpointPath string) (*Version, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.versions[id]; exists {
		return nil, xerr.ErrConflict("model version", string(id), "already registered")
	}

	v := &Version{
		ID:             id,
		ParentID:       parentID,
		CreatedAt:      time.Now(),
		Epochs:         epochs,
		CheckpointPath: checkpointPath,
	}

	r.versions[id] = v
	r.order = append(r.order, id)
	r.lineage.AddNode(id)
	if parentID != "" {
		if err := r.lineage.AddEdge(parentID, id); err != nil {
			return nil, err
		}
	}

	if err := r.flush(ctx); err != nil {
		return nil, err
	}
	return v, nil
}

// MarkBest flips id's is_best flag on and every other version's off,
// transactionally under the registry's single-writer lock: exactly one
// version is ever best at a time.
func (r *Registry) MarkBest(ctx context.Context, id VersionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.versions[id]; !ok {
		return xerr.ErrNotFound("model version", string(id))
	}

	for vid, v := range r.versions {
		v.IsBest = vid == id
	}

	return r.flush(ctx)
}

// AncestorsOf returns id's parent lineage, nearest first.
func (r *Registry) AncestorsOf(id VersionID) ([]VersionID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lineage.AncestorsOf(id)
}

func (r *Registry) Get(id VersionID) (*Version, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id]
	return v, ok
}

func (r *Registry) Best() (*Version, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if v := r.versions[id]; v.IsBest {
			return v, true
		}
	}
	return nil, false
}

func (r *Registry) List() []*Version {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Version, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.versions[id])
	}
	return out
}

func (r *Registry) flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return xerr.ErrCancelled("registry write", err)
	}
	versions := make([]*Version, 0, len(r.order))
	for _, id := range r.order {
		versions = append(versions, r.versions[id])
	}
	b, err := json.MarshalIndent(versions, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.Path), 0o755); err != nil {
		return xerr.ErrResourceExhausted("registry write", err)
	}
	tmp := r.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return xerr.ErrResourceExhausted("registry write", err)
	}
	if err := os.Rename(tmp, r.Path); err != nil {
		return xerr.ErrResourceExhausted("registry write", err)
	}
	return nil
}
