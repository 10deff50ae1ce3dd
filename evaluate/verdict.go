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

// Package evaluate is the rule evaluator: for every rule and every
// element matching its target, resolve both sides of the condition and
// produce a Verdict. Verdict.Status rides directly on trinary.Value — the
// same three-state logic already models PASS/FAIL/UNABLE, so there is no
// separate parallel enum.
package evaluate

import (
	"time"

	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/trinary"
)

// Status is a thin, named wrapper over trinary.Value for the verdict
// vocabulary: PASS/FAIL/UNABLE instead of True/False/Unknown.
type Status = trinary.Value

const (
	Pass   Status = trinary.True
	Fail   Status = trinary.False
	Unable Status = trinary.Unknown
)

// Verdict is the result of evaluating one rule against one element.
type Verdict struct {
	RuleID      string
	ElementID   string
	Status      Status
	Severity    catalogue.Severity
	LHS, RHS    string // rendered operand values, for explanation substitution
	Unit        string
	DataSource  catalogue.ValueSourceKind // LHS provenance
	Explanation string
	Reason      string // populated when Status == Unable
	Timestamp   time.Time
}
