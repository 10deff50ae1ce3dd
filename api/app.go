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

package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/civitas-sh/civitas/catversion"
	"github.com/civitas-sh/civitas/dataset"
	"github.com/civitas-sh/civitas/extractconfig"
	"github.com/civitas-sh/civitas/ifcmodel"
	"github.com/civitas-sh/civitas/registry"
	"github.com/civitas-sh/civitas/scripting"
)

// App wires every component the HTTP surface exposes. Graphs are held
// server-side for the lifetime of the process — there is no cross-process
// graph store.
type App struct {
	Catalogue    *catversion.Store
	Samples      *dataset.Store
	Vocab        *dataset.Vocab
	Models       *registry.Registry
	ExtractCfg   *extractconfig.Config
	Scripts      *scripting.Pool
	ModelDir     string

	mu     sync.Mutex
	graphs map[string]*ifcmodel.Graph
}

func NewApp(cat *catversion.Store, samples *dataset.Store, vocab *dataset.Vocab, models *registry.Registry, cfg *extractconfig.Config, scripts *scripting.Pool) *App {
	return &App{
		Catalogue:  cat,
		Samples:    samples,
		Vocab:      vocab,
		Models:     models,
		ExtractCfg: cfg,
		Scripts:    scripts,
		graphs:     make(map[string]*ifcmodel.Graph),
	}
}

func (a *App) PutGraph(g *ifcmodel.Graph) string {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.graphs[g.ID] = g
	return g.ID
}

func (a *App) Graph(id string) (*ifcmodel.Graph, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	g, ok := a.graphs[id]
	return g, ok
}
