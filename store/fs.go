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

// Package store defines a storage surface for the durable files in this
// module: catversion's manifest, dataset's sample file, train's
// checkpoints, registry's version list. Those writers call os directly,
// each with the same write-temp-then-rename discipline; FS is the minimal
// surface that discipline needs. No package in the module imports store.
package store

import (
	"os"
	"path/filepath"
)

// FS is a filesystem-like read/write/rename/list/atomic-replace surface.
// The local-disk implementation is the only one shipped — a distributed or
// object-storage backend is out of scope.
type FS interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte, perm os.FileMode) error
	Rename(oldPath, newPath string) error
	List(dir string) ([]string, error)
	// ReplaceAtomic writes data to a temp file alongside path, then renames
	// it into place — the copy-on-write-then-swap discipline every durable
	// writer in this module uses.
	ReplaceAtomic(path string, data []byte, perm os.FileMode) error
}

// LocalFS is the only FS implementation shipped: plain os calls rooted at
// the local disk.
type LocalFS struct{}

func NewLocalFS() LocalFS { return LocalFS{} }

func (LocalFS) Read(path string) ([]byte, error) { return os.ReadFile(path) }

func (LocalFS) Write(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, perm)
}

func (LocalFS) Rename(oldPath, newPath string) error { return os.Rename(oldPath, newPath) }

func (LocalFS) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}

func (fs LocalFS) ReplaceAtomic(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := fs.Write(tmp, data, perm); err != nil {
		return err
	}
	return fs.Rename(tmp, path)
}
