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

// Package graphbuild is the graph builder. It finalizes the elements
// produced by one or more extraction passes into a single queryable Graph:
// resolving spatial containment links (declared separately from the
// elements they apply to, in the usual IFC relationship pattern), stamping
// the extraction timestamp, and preserving insertion order per class —
// ordered slices alongside a map index, for fast lookup with deterministic
// iteration.
package graphbuild

import (
	"time"

	"github.com/civitas-sh/civitas/ifcmodel"
)

// Containment declares that an element (by id) is spatially contained in a
// storey and/or building (also by id). IFC represents this as a separate
// relationship entity, not an inline field on the element, so it is resolved
// as a second pass after elements are collected.
type Containment struct {
	ElementID  string
	StoreyID   string
	BuildingID string
}

// Builder accumulates elements across one or more extraction passes before
// producing a finalized Graph.
type Builder struct {
	graph        *ifcmodel.Graph
	containments []Containment
}

func NewBuilder(graphID string) *Builder {
	return &Builder{graph: ifcmodel.NewGraph(graphID)}
}

// AddGraph merges every element of g into the builder, preserving the
// per-class insertion order of each source graph in turn.
func (b *Builder) AddGraph(g *ifcmodel.Graph) {
	if b.graph.SourceFile == "" {
		b.graph.SourceFile = g.SourceFile
	}
	if b.graph.ConfigRevision == "" {
		b.graph.ConfigRevision = g.ConfigRevision
	}
	for class, ids := range g.ByClass {
		for _, id := range ids {
			b.graph.Add(g.Elements[id])
		}
		_ = class
	}
}

// AddContainment records a spatial containment link to apply when Build runs.
func (b *Builder) AddContainment(c Containment) {
	b.containments = append(b.containments, c)
}

// Build resolves containment links and stamps the extraction timestamp,
// returning the finalized graph. now is passed in rather than taken from
// time.Now() internally so callers can keep graph construction deterministic
// in tests.
func (b *Builder) Build(now time.Time) *ifcmodel.Graph {
	for _, c := range b.containments {
		el, ok := b.graph.Elements[c.ElementID]
		if !ok {
			continue
		}
		if c.StoreyID != "" {
			el.StoreyID = c.StoreyID
		}
		if c.BuildingID != "" {
			el.BuildingID = c.BuildingID
		}
	}
	b.graph.ExtractedAt = now
	return b.graph
}
