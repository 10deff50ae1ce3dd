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

// Package catsync is the catalogue<->mapping synchronizer. It enforces
// the invariant that the mapping id-set is exactly the catalogue id-set, by
// removing orphaned mapping entries and synthesizing a default explanation
// template for any rule missing one. Sync is idempotent: running it twice
// in a row produces no further change.
package catsync

import (
	"fmt"
	"sort"

	"github.com/civitas-sh/civitas/catalogue"
)

// Result reports what a Sync call changed.
type Result struct {
	OrphansRemoved   []string
	TemplatesAdded   []string
	Unchanged        bool
}

// Sync mutates mappings in place so that its key set is exactly the set of
// rule ids in cat: orphaned mapping entries (ids no longer present in the
// catalogue) are removed, and rules with no mapping entry get a synthesized
// default template. Sync never touches the catalogue itself — version
// immutability is enforced one layer up, at the version store.
func Sync(cat *catalogue.Catalogue, mappings map[string]string) Result {
	ruleIDs := make(map[string]struct{}, cat.Len())
	for _, r := range cat.Rules() {
		ruleIDs[r.ID] = struct{}{}
	}

	var res Result

	// Remove orphans: mapping entries whose rule no longer exists.
	var orphanKeys []string
	for id := range mappings {
		if _, ok := ruleIDs[id]; !ok {
			orphanKeys = append(orphanKeys, id)
		}
	}
	sort.Strings(orphanKeys)
	for _, id := range orphanKeys {
		delete(mappings, id)
		res.OrphansRemoved = append(res.OrphansRemoved, id)
	}

	// Synthesize missing templates.
	var missing []string
	for _, r := range cat.Rules() {
		if _, ok := mappings[r.ID]; !ok {
			missing = append(missing, r.ID)
		}
	}
	sort.Strings(missing)
	for _, id := range missing {
		mappings[id] = defaultTemplate(cat.ByID[id])
		res.TemplatesAdded = append(res.TemplatesAdded, id)
	}

	res.Unchanged = len(res.OrphansRemoved) == 0 && len(res.TemplatesAdded) == 0
	return res
}

// Validate reports whether the mapping id-set currently matches the
// catalogue id-set, without mutating anything.
func Validate(cat *catalogue.Catalogue, mappings map[string]string) bool {
	if len(mappings) != cat.Len() {
		return false
	}
	for _, r := range cat.Rules() {
		if _, ok := mappings[r.ID]; !ok {
			return false
		}
	}
	return true
}

func defaultTemplate(r catalogue.Rule) string {
	if r.ShortTemplate != "" {
		return r.ShortTemplate
	}
	return fmt.Sprintf("%s failed on {guid}: {lhs} %s {rhs}", r.Name, r.Condition.Comparator)
}
