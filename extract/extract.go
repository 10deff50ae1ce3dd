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

// Package extract is the element extractor: it walks raw IFC entities
// and, guided by an extractconfig.Config, produces a normalized
// ifcmodel.Graph. Unknown classes are skipped silently; a failing resolution
// strategy is logged and falls through to the next; fields absent from every
// strategy stay null. The raw property/quantity bag is preserved unmodified
// on the element for selectors the config doesn't cover.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/civitas-sh/civitas/constraints"
	"github.com/civitas-sh/civitas/extractconfig"
	"github.com/civitas-sh/civitas/ifcmodel"
	"github.com/civitas-sh/civitas/ifcval"
	"github.com/civitas-sh/civitas/scripting"
	"github.com/civitas-sh/civitas/trinary"
	"github.com/mitchellh/hashstructure/v2"
)

// RawEntity is one IFC entity as read off the source file, before
// normalization. Property/quantity sets are raw decoded values (any), not
// yet coerced into ifcval.Value.
type RawEntity struct {
	GUID         string
	Class        string
	Attributes   map[string]any
	PropertySets map[string]map[string]any
	QuantitySets map[string]map[string]any
	BuildingID   string
	StoreyID     string
}

// Diagnostic records a non-fatal issue surfaced during extraction: a
// failing resolution strategy, a failed id synthesis, a constraint
// violation, or cancellation. Unknown classes are skipped without one.
type Diagnostic struct {
	EntityGUID string
	Class      string
	Field      string
	Message    string
}

// Extractor builds a Graph from a stream of raw entities.
type Extractor struct {
	Config  *extractconfig.Config
	Scripts *scripting.Pool
	Source  string
}

func New(cfg *extractconfig.Config, scripts *scripting.Pool, sourceFile string) *Extractor {
	return &Extractor{Config: cfg, Scripts: scripts, Source: sourceFile}
}

// Extract consumes every entity from entities and produces a Graph. It never
// aborts on a single bad entity: the entity is isolated and a Diagnostic is
// recorded instead.
func (ex *Extractor) Extract(ctx context.Context, graphID string, entities []RawEntity) (*ifcmodel.Graph, []Diagnostic) {
	graph := ifcmodel.NewGraph(graphID)
	graph.SourceFile = ex.Source

	cfgHash, _ := hashstructure.Hash(ex.Config, hashstructure.FormatV2, nil)
	graph.ConfigRevision = itoa(cfgHash)

	var diags []Diagnostic
	for _, raw := range entities {
		if ctx.Err() != nil {
			diags = append(diags, Diagnostic{Class: raw.Class, Message: "extraction cancelled"})
			break
		}

		spec, ok := ex.Config.ClassSpecFor(raw.Class)
		if !ok {
			// Unknown class: skipped silently per the extraction contract.
			continue
		}

		el, entityDiags := ex.buildElement(ctx, raw, spec)
		diags = append(diags, entityDiags...)
		graph.Add(el)
	}

	return graph, diags
}

func (ex *Extractor) buildElement(ctx context.Context, raw RawEntity, spec extractconfig.ClassSpec) (*ifcmodel.Element, []Diagnostic) {
	var diags []Diagnostic

	el := &ifcmodel.Element{
		Class:        raw.Class,
		GUID:         raw.GUID,
		Attributes:   wrapDoc(raw.Attributes),
		PropertySets: wrapDocs(raw.PropertySets),
		QuantitySets: wrapDocs(raw.QuantitySets),
		BuildingID:   raw.BuildingID,
		StoreyID:     raw.StoreyID,
		SourceFile:   ex.Source,
	}

	if raw.GUID == "" {
		h, err := hashstructure.Hash(raw, hashstructure.FormatV2, nil)
		if err != nil {
			diags = append(diags, Diagnostic{Class: raw.Class, Message: "failed to synthesize id: " + err.Error()})
		} else {
			el.ID = itoa(h)
			el.SyntheticID = true
		}
	} else {
		el.ID = raw.GUID
	}

	for _, f := range spec.Fields {
		v, diag := ex.resolveField(ctx, raw, f)
		if diag != nil {
			diags = append(diags, *diag)
		}
		if v.IsNull() {
			continue
		}
		// fields resolve into the attribute bag so evaluate/dataset can find
		// them uniformly alongside raw attributes.
		if el.Attributes == nil {
			el.Attributes = map[string]ifcval.Value{}
		}
		el.Attributes[f.Field] = v

		for _, violation := range checkConstraints(ctx, v, f.Constraints) {
			diags = append(diags, Diagnostic{Class: raw.Class, Field: f.Field, Message: violation})
		}
	}

	return el, diags
}

// checkConstraints runs every configured constraint against a resolved
// value, dispatching to the checker registry matching its kind. A
// constraint that doesn't apply to the value's kind is reported as a
// violation rather than silently skipped, since it signals a config/data
// mismatch worth surfacing.
func checkConstraints(ctx context.Context, v ifcval.Value, specs []extractconfig.ConstraintSpec) []string {
	var violations []string
	for _, spec := range specs {
		var err error
		switch v.Kind {
		case ifcval.KindFloat:
			def, ok := constraints.NumberContraintCheckers[spec.Name]
			if !ok {
				err = fmt.Errorf("unknown number constraint %q", spec.Name)
				break
			}
			f, _ := v.AsFloat()
			err = def.Checker(ctx, f, spec.Args)
		case ifcval.KindInt:
			def, ok := constraints.IntContraintCheckers[spec.Name]
			if !ok {
				err = fmt.Errorf("unknown int constraint %q", spec.Name)
				break
			}
			i, _ := v.AsInt()
			err = def.Checker(ctx, i, spec.Args)
		case ifcval.KindString:
			def, ok := constraints.StringContraintCheckers[spec.Name]
			if !ok {
				err = fmt.Errorf("unknown string constraint %q", spec.Name)
				break
			}
			str, _ := v.AsString()
			err = def.Checker(ctx, str, spec.Args)
		case ifcval.KindBool:
			def, ok := constraints.BoolConstraintCheckers[spec.Name]
			if !ok {
				err = fmt.Errorf("unknown bool constraint %q", spec.Name)
				break
			}
			b, _ := v.AsBool()
			err = def.Checker(ctx, trinary.From(b), spec.Args)
		case ifcval.KindTrinary:
			def, ok := constraints.TrinaryConstraintCheckers[spec.Name]
			if !ok {
				err = fmt.Errorf("unknown trinary constraint %q", spec.Name)
				break
			}
			err = def.Checker(ctx, v.AsTrinary(), spec.Args)
		default:
			err = fmt.Errorf("constraint %q does not apply to kind %s", spec.Name, v.Kind)
		}
		if err != nil {
			violations = append(violations, fmt.Sprintf("constraint %q: %v", spec.Name, err))
		}
	}
	return violations
}

// resolveField walks f.Strategies in order, returning the first strategy's
// non-null value (converted to the field's target unit). A strategy that
// finds nothing falls through to the next one, and so does a script that
// fails: the failure is logged and returned as a Diagnostic alongside
// whatever a later strategy resolves. An unrecognized strategy name, or a
// script strategy with no script pool, stops the chain immediately with a
// Diagnostic rather than trying what comes after it.
func (ex *Extractor) resolveField(ctx context.Context, raw RawEntity, f extractconfig.FieldSpec) (ifcval.Value, *Diagnostic) {
	var failed *Diagnostic
	for _, strategy := range f.Strategies {
		switch strategy {
		case extractconfig.StrategyAttribute:
			if v, ok := raw.Attributes[f.Source]; ok {
				return ex.convertFieldUnit(ifcval.FromAny(v), f), failed
			}

		case extractconfig.StrategyPropertySet:
			if set, ok := raw.PropertySets[f.Set]; ok {
				if v, ok := set[f.Source]; ok {
					return ex.convertFieldUnit(ifcval.FromAny(v), f), failed
				}
			}

		case extractconfig.StrategyQuantitySet:
			if set, ok := raw.QuantitySets[f.Set]; ok {
				if v, ok := set[f.Source]; ok {
					return ex.convertFieldUnit(ifcval.FromAny(v), f), failed
				}
			}

		case extractconfig.StrategyScript:
			if ex.Scripts == nil {
				return ifcval.Null(), &Diagnostic{Class: raw.Class, Field: f.Field, Message: "script strategy configured but no script pool available"}
			}
			bag := map[string]any{
				"attributes": raw.Attributes,
				"psets":      raw.PropertySets,
				"qsets":      raw.QuantitySets,
			}
			out, err := ex.Scripts.Eval(ctx, &scripting.Source{Path: f.Field + ".js", Body: f.Script}, bag)
			if err != nil {
				slog.DebugContext(ctx, "extraction script failed, trying next strategy", "field", f.Field, "class", raw.Class, "error", err)
				failed = &Diagnostic{Class: raw.Class, Field: f.Field, Message: "script failed: " + err.Error()}
				continue
			}
			return ex.convertFieldUnit(ifcval.FromAny(out), f), failed

		default:
			return ifcval.Null(), &Diagnostic{Class: raw.Class, Field: f.Field, Message: "unknown resolution strategy " + string(strategy)}
		}
	}

	return ifcval.Null(), failed
}

// convertFieldUnit converts a numeric value from f.SourceUnit to f.TargetUnit
// when both are declared. Non-numeric values and specs with no declared
// units pass through unchanged; an inconvertible unit pair is left
// unconverted too — a unit mismatch at extraction time is a config problem,
// surfaced later as an UNABLE verdict once a rule actually compares it.
func (ex *Extractor) convertFieldUnit(v ifcval.Value, f extractconfig.FieldSpec) ifcval.Value {
	if f.SourceUnit == "" || f.TargetUnit == "" || f.SourceUnit == f.TargetUnit {
		return v
	}
	raw, ok := v.AsFloat()
	if !ok {
		return v
	}
	converted, ok := ifcval.ConvertUnit(raw, f.SourceUnit, f.TargetUnit)
	if !ok {
		return v
	}
	return ifcval.Float(converted)
}

func wrapDoc(m map[string]any) map[string]ifcval.Value {
	if m == nil {
		return nil
	}
	out := make(map[string]ifcval.Value, len(m))
	for k, v := range m {
		out[k] = ifcval.FromAny(v)
	}
	return out
}

func wrapDocs(m map[string]map[string]any) map[string]map[string]ifcval.Value {
	if m == nil {
		return nil
	}
	out := make(map[string]map[string]ifcval.Value, len(m))
	for k, v := range m {
		out[k] = wrapDoc(v)
	}
	return out
}

func itoa(h uint64) string {
	const digits = "0123456789abcdef"
	if h == 0 {
		return "0"
	}
	var buf [16]byte
	i := len(buf)
	for h > 0 {
		i--
		buf[i] = digits[h&0xf]
		h >>= 4
	}
	return string(buf[i:])
}
