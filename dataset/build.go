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

package dataset

import (
	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/evaluate"
	"github.com/civitas-sh/civitas/ifcmodel"
	"github.com/civitas-sh/civitas/ifcval"
)

// Builder constructs Samples from (element, rule, verdict) triples.
type Builder struct {
	Vocab *Vocab
}

func NewBuilder(vocab *Vocab) *Builder {
	if vocab == nil {
		vocab = NewVocab()
	}
	return &Builder{Vocab: vocab}
}

// Build assembles the 320-dim feature vector for one (element, rule)
// verdict. Every required numeric element field is read from the live
// element, and a missing one fails hard rather than defaulting to 0.5.
func (b *Builder) Build(el *ifcmodel.Element, rule catalogue.Rule, v evaluate.Verdict) (Sample, error) {
	features := make([]float64, 0, TotalDims)

	elemFeatures, err := b.elementFeatures(el)
	if err != nil {
		return Sample{}, err
	}
	features = append(features, elemFeatures...)
	features = append(features, b.ruleFeatures(rule)...)
	features = append(features, b.contextFeatures(el, rule, v)...)

	return Sample{
		ElementID: el.ID,
		RuleID:    rule.ID,
		Label:     v.Status,
		Features:  features,
	}, nil
}

func (b *Builder) elementFeatures(el *ifcmodel.Element) ([]float64, error) {
	out := make([]float64, ElementDims)

	for i, field := range requiredElementFields {
		val, ok := anyQuantity(el, field)
		if !ok {
			val, ok = el.Get("attribute", "", field)
		}
		f, fok := val.AsFloat()
		if !ok || !fok {
			return nil, ErrMissingRequiredField(el.ID, field)
		}
		out[i] = f
	}

	// Remaining element slots: a material/usage vocabulary embedding index,
	// normalized into the vector's float range.
	if material, ok := el.Get("attribute", "", "Material"); ok {
		if s, ok := material.AsString(); ok {
			idx := b.Vocab.Index(s)
			out[len(requiredElementFields)] = float64(idx) / float64(VocabCap)
		}
	}

	return out, nil
}

// anyQuantity searches every quantity set on el for field, since the
// required fields (Length, Width, Height, Area, Volume) live under a
// class-specific Qto_* set name the builder doesn't otherwise know.
func anyQuantity(el *ifcmodel.Element, field string) (ifcval.Value, bool) {
	for _, set := range el.QuantitySets {
		if v, ok := set[field]; ok {
			return v, true
		}
	}
	return ifcval.Value{}, false
}

func (b *Builder) ruleFeatures(rule catalogue.Rule) []float64 {
	out := make([]float64, RuleDims)
	out[0] = severityWeight(rule.Severity)
	out[1] = comparatorWeight(rule.Condition.Comparator)
	idx := b.Vocab.Index("rule:" + rule.Target.Class)
	out[2] = float64(idx) / float64(VocabCap)
	return out
}

// contextFeatures never reads v.Status: that is the label the model is
// trained to predict, and leaking it into the input would let the network
// fit an identity function instead of learning from element/rule data.
// Instead it encodes element/rule-target compatibility, which data-source
// kind backs each condition operand, and a handful of boolean indicators
// about the rule's shape.
func (b *Builder) contextFeatures(el *ifcmodel.Element, rule catalogue.Rule, v evaluate.Verdict) []float64 {
	out := make([]float64, ContextDims)

	if el.Class == rule.Target.Class {
		out[0] = 1
	}
	if el.SyntheticID {
		out[1] = 1
	}

	sourceKindOneHot(out[2:7], rule.Condition.LHS.Kind)
	sourceKindOneHot(out[7:12], rule.Condition.RHS.Kind)

	if len(rule.Target.Filters) > 0 {
		out[12] = 1
	}
	if rule.OnPassTemplate != "" {
		out[13] = 1
	}
	if rule.OnFailTemplate != "" {
		out[14] = 1
	}

	return out
}

// sourceKindIndex fixes a stable ordinal for each ValueSourceKind, used to
// one-hot encode which data source backs a condition operand.
func sourceKindIndex(k catalogue.ValueSourceKind) int {
	switch k {
	case catalogue.SourceQTO:
		return 0
	case catalogue.SourcePSet:
		return 1
	case catalogue.SourceAttribute:
		return 2
	case catalogue.SourceParameter:
		return 3
	case catalogue.SourceLiteral:
		return 4
	default:
		return -1
	}
}

// sourceKindOneHot sets slot[sourceKindIndex(k)] to 1, leaving the rest of
// slot untouched (the caller passes a zero-valued sub-slice).
func sourceKindOneHot(slot []float64, k catalogue.ValueSourceKind) {
	if idx := sourceKindIndex(k); idx >= 0 && idx < len(slot) {
		slot[idx] = 1
	}
}

func severityWeight(s catalogue.Severity) float64 {
	switch s {
	case catalogue.SeverityCritical:
		return 1.0
	case catalogue.SeverityError:
		return 0.75
	case catalogue.SeverityWarning:
		return 0.5
	case catalogue.SeverityInfo:
		return 0.25
	}
	return 0
}

func comparatorWeight(c catalogue.Comparator) float64 {
	switch c {
	case catalogue.CmpEQ, catalogue.CmpNE:
		return 1
	default:
		return 0.5
	}
}

