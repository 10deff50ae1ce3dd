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

package evaluate

import (
	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/ifcmodel"
	"github.com/civitas-sh/civitas/ifcval"
)

// resolve walks the five value-source kinds against one element: a
// document-shaped value addressed by (source, set, field). A missing value
// propagates as a plain false rather than panicking.
func resolve(src catalogue.ValueSource, el *ifcmodel.Element, params map[string]any) (ifcval.Value, bool) {
	switch src.Kind {
	case catalogue.SourceLiteral:
		return ifcval.FromAny(src.Literal), true

	case catalogue.SourceParameter:
		v, ok := params[src.Field]
		if !ok {
			return ifcval.Null(), false
		}
		return ifcval.FromAny(v), true

	case catalogue.SourceAttribute:
		return el.Get("attribute", "", src.Field)

	case catalogue.SourcePSet:
		return el.Get("pset", src.Set, src.Field)

	case catalogue.SourceQTO:
		return el.Get("qto", src.Set, src.Field)
	}
	return ifcval.Null(), false
}

// matchesFilters reports whether el satisfies every AND-ed filter predicate
// on a rule's target. An unresolvable predicate operand makes the filter
// fail closed (element excluded), since a target filter that can't evaluate
// shouldn't silently widen the target set.
func matchesFilters(filters []catalogue.FilterPredicate, el *ifcmodel.Element, params map[string]any) bool {
	for _, f := range filters {
		lhs, ok1 := resolve(f.Source, el, params)
		rhs, ok2 := resolve(f.Value, el, params)
		if !ok1 || !ok2 {
			return false
		}
		if !compare(f.Comparator, lhs, rhs) {
			return false
		}
	}
	return true
}
