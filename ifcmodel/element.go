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

// Package ifcmodel holds the extracted element graph: the normalized,
// queryable shape that extraction produces and rule evaluation and sample
// building consume. Elements never
// reference each other by pointer — only by id — so the graph stays a plain
// value that can be serialized, diffed, and held across a request lifetime
// without pinning unrelated memory.
package ifcmodel

import "github.com/civitas-sh/civitas/ifcval"

// Element is a single extracted IFC entity.
type Element struct {
	ID   string
	GUID string
	// SyntheticID is true when no GUID was present on the source entity and
	// ID was instead derived as a content hash (see extract.Extractor).
	SyntheticID bool

	// Class is the normalized IFC class tag used for rule targeting, e.g.
	// "IfcWall", "IfcDoor".
	Class string

	// PropertySets holds the raw, unmodified property-set bag keyed by
	// pset name then property name, preserved for downstream selectors that
	// a static resolution strategy doesn't cover.
	PropertySets map[string]map[string]ifcval.Value

	// QuantitySets holds quantity-set values the same way.
	QuantitySets map[string]map[string]ifcval.Value

	// Attributes holds direct IFC entity attributes (Name, Tag, ObjectType...).
	Attributes map[string]ifcval.Value

	// Containment identifies the spatial structure element belongs to.
	BuildingID string
	StoreyID   string

	// SourceFile is the path the entity was read from.
	SourceFile string
}

// Get resolves a (source, set, field) reference against the element, used by
// value-source resolution in the evaluator: Get("pset", "Pset_WallCommon",
// "IsExternal"). setName is ignored for the "attribute" source.
func (e *Element) Get(source, setName, field string) (ifcval.Value, bool) {
	switch source {
	case "attribute":
		v, ok := e.Attributes[field]
		return v, ok
	case "pset", "property-set":
		set, ok := e.PropertySets[setName]
		if !ok {
			return ifcval.Null(), false
		}
		v, ok := set[field]
		return v, ok
	case "qto", "quantity-set":
		set, ok := e.QuantitySets[setName]
		if !ok {
			return ifcval.Null(), false
		}
		v, ok := set[field]
		return v, ok
	}
	return ifcval.Null(), false
}
