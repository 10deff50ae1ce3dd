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

// Package dataset is the sample builder: it turns an (element, rule,
// verdict) triple into a fixed 320-dim feature vector (128 element + 128
// rule + 64 context) for the reasoning layer, and persists samples in an
// append-only, deduplicated store.
package dataset

import (
	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/evaluate"
	"github.com/civitas-sh/civitas/ifcmodel"
	"gonum.org/v1/gonum/mat"
)

const (
	ElementDims = 128
	RuleDims    = 128
	ContextDims = 64
	TotalDims   = ElementDims + RuleDims + ContextDims
)

// Sample is one training record: the built feature vector plus the label it
// was built from.
type Sample struct {
	ElementID string         `json:"element_id"`
	RuleID    string         `json:"rule_id"`
	Label     evaluate.Status `json:"label"`
	Features  []float64      `json:"features"`
}

// AsVector exposes the sample's features as a gonum vector for the
// reasoning layer.
func (s Sample) AsVector() *mat.VecDense {
	return mat.NewVecDense(len(s.Features), append([]float64(nil), s.Features...))
}

// requiredElementFields lists the numeric element fields a sample requires
// to be present. Builder.Build fails hard (ErrMissingRequiredField) rather
// than defaulting a missing one to a placeholder value — this is a sample
// construction precondition, not a rule evaluation, so there is no UNABLE
// to fall back to.
var requiredElementFields = []string{"Length", "Width", "Height", "Area", "Volume"}
