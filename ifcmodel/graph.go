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

package ifcmodel

import "time"

// Graph is the full extracted element set for one IFC source, grouped by
// normalized class tag. Elements keep insertion order within a class bucket,
// alongside a map index, for fast lookup with deterministic iteration.
type Graph struct {
	ID string

	// ByClass groups element ids by normalized IFC class tag, insertion order
	// preserved.
	ByClass map[string][]string

	// Elements indexes every element by id for O(1) lookup.
	Elements map[string]*Element

	SourceFile string
	ExtractedAt time.Time

	// ConfigRevision is the content-hash of the extraction config that
	// produced this graph — two runs of an unchanged config hash identically.
	ConfigRevision string
}

func NewGraph(id string) *Graph {
	return &Graph{
		ID:       id,
		ByClass:  make(map[string][]string),
		Elements: make(map[string]*Element),
	}
}

// Add inserts an element into the graph, appending to its class bucket.
func (g *Graph) Add(e *Element) {
	g.Elements[e.ID] = e
	g.ByClass[e.Class] = append(g.ByClass[e.Class], e.ID)
}

// ClassElements returns the elements of a class in insertion order.
func (g *Graph) ClassElements(class string) []*Element {
	ids := g.ByClass[class]
	out := make([]*Element, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.Elements[id])
	}
	return out
}

func (g *Graph) Len() int {
	return len(g.Elements)
}
