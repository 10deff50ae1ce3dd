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
	"math"

	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/ifcval"
)

// numericTolerance is the epsilon used for floating-point comparisons, so a
// quantity computed two different ways (e.g. unit conversion rounding)
// doesn't spuriously fail a rule.
const numericTolerance = 1e-6

// comparators is table-driven: one entry per operator, over ifcval.Value
// rather than bare float64 so string/bool operands compare correctly too.
var comparators = map[catalogue.Comparator]func(lhs, rhs ifcval.Value) (bool, bool){
	catalogue.CmpGE: func(l, r ifcval.Value) (bool, bool) { return numeric(l, r, func(a, b float64) bool { return a >= b-numericTolerance }) },
	catalogue.CmpGT: func(l, r ifcval.Value) (bool, bool) { return numeric(l, r, func(a, b float64) bool { return a > b+numericTolerance }) },
	catalogue.CmpLE: func(l, r ifcval.Value) (bool, bool) { return numeric(l, r, func(a, b float64) bool { return a <= b+numericTolerance }) },
	catalogue.CmpLT: func(l, r ifcval.Value) (bool, bool) { return numeric(l, r, func(a, b float64) bool { return a < b-numericTolerance }) },
	catalogue.CmpEQ: func(l, r ifcval.Value) (bool, bool) { return l.Equal(r), true },
	catalogue.CmpNE: func(l, r ifcval.Value) (bool, bool) { return !l.Equal(r), true },
}

func numeric(l, r ifcval.Value, cmp func(a, b float64) bool) (bool, bool) {
	lf, ok1 := l.AsFloat()
	rf, ok2 := r.AsFloat()
	if !ok1 || !ok2 {
		return false, false
	}
	if math.IsNaN(lf) || math.IsNaN(rf) {
		return false, false
	}
	return cmp(lf, rf), true
}

// compare applies a comparator, treating an unresolvable comparison as false
// (used by filter matching, which fails closed). Evaluation of a rule
// condition itself uses evalRule, which distinguishes false from unable.
func compare(c catalogue.Comparator, lhs, rhs ifcval.Value) bool {
	fn, ok := comparators[c]
	if !ok {
		return false
	}
	result, resolvable := fn(lhs, rhs)
	return resolvable && result
}

// reconcileUnits brings rhs into lhs's unit before a condition is compared.
// Equal or blank units pass through unchanged. Units from different
// families, or a symbol ifcval doesn't recognize, report ok=false — the
// caller must treat that as UNABLE rather than silently comparing
// mismatched units.
func reconcileUnits(lhsUnit, rhsUnit string, lhs, rhs ifcval.Value) (ifcval.Value, ifcval.Value, bool) {
	if !ifcval.UnitsCompatible(lhsUnit, rhsUnit) {
		return lhs, rhs, false
	}
	if lhsUnit == "" || rhsUnit == "" || lhsUnit == rhsUnit {
		return lhs, rhs, true
	}

	rf, ok := rhs.AsFloat()
	if !ok {
		return lhs, rhs, false
	}
	converted, ok := ifcval.ConvertUnit(rf, rhsUnit, lhsUnit)
	if !ok {
		return lhs, rhs, false
	}
	return lhs, ifcval.Float(converted), true
}
