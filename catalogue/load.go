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

package catalogue

import (
	"log/slog"

	"github.com/pelletier/go-toml/v2"
)

// Catalogue is an ordered collection of rules, insertion order preserved so
// iteration is deterministic across runs.
type Catalogue struct {
	Order []string
	ByID  map[string]Rule
}

func New() *Catalogue {
	return &Catalogue{ByID: make(map[string]Rule)}
}

// Put inserts or overwrites a rule. On id conflict the later write wins and
// a warning is recorded.
func (c *Catalogue) Put(r Rule) {
	if _, exists := c.ByID[r.ID]; exists {
		slog.Warn("catalogue: rule id conflict, later source wins", "rule_id", r.ID)
	} else {
		c.Order = append(c.Order, r.ID)
	}
	c.ByID[r.ID] = r
}

func (c *Catalogue) Rules() []Rule {
	out := make([]Rule, 0, len(c.Order))
	for _, id := range c.Order {
		out = append(out, c.ByID[id])
	}
	return out
}

func (c *Catalogue) Len() int { return len(c.Order) }

// document is the three shapes a TOML rule file may take: a flat list under
// [[rules]], a keyed id->Rule mapping, or the bare top-level map itself
// (when the file has no wrapper key at all). All three are tolerated.
type document struct {
	Rules []Rule          `toml:"rules"`
	Byid  map[string]Rule `toml:"-"`
}

// LoadBytes parses a single source's rule bytes, isolating per-rule schema
// failures rather than aborting the whole load.
func LoadBytes(b []byte) (rules []Rule, skipped []error) {
	// Shape 1: {rules: [...]}
	var wrapped struct {
		Rules []Rule `toml:"rules"`
	}
	if err := toml.Unmarshal(b, &wrapped); err == nil && len(wrapped.Rules) > 0 {
		return validateAll(wrapped.Rules)
	}

	// Shape 2: keyed id -> Rule mapping
	var keyed map[string]Rule
	if err := toml.Unmarshal(b, &keyed); err == nil && len(keyed) > 0 {
		list := make([]Rule, 0, len(keyed))
		for id, r := range keyed {
			if r.ID == "" {
				r.ID = id
			}
			list = append(list, r)
		}
		return validateAll(list)
	}

	// Shape 3: flat top-level list
	var flat []Rule
	if err := toml.Unmarshal(b, &flat); err == nil && len(flat) > 0 {
		return validateAll(flat)
	}

	return nil, nil
}

func validateAll(rules []Rule) (ok []Rule, skipped []error) {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			slog.Warn("catalogue: skipping invalid rule", "error", err)
			skipped = append(skipped, err)
			continue
		}
		ok = append(ok, r)
	}
	return ok, skipped
}

// LoadAll loads rules from multiple sources (e.g. multiple files within a
// catalogue version directory) into a single Catalogue, applying id-conflict
// semantics across sources in the order given.
func LoadAll(sources [][]byte) (*Catalogue, []error) {
	cat := New()
	var allSkipped []error
	for _, src := range sources {
		rules, skipped := LoadBytes(src)
		allSkipped = append(allSkipped, skipped...)
		for _, r := range rules {
			cat.Put(r)
		}
	}
	return cat, allSkipped
}
