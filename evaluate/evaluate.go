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
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/structs"

	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/ifcmodel"
)

// explanationContext is flattened via fatih/structs into a map for
// placeholder substitution, the same struct-to-map flattening idiom used
// elsewhere for VM argument marshaling, repurposed here for template
// rendering.
type explanationContext struct {
	Guid string
	Lhs  string
	Rhs  string
	Unit string
}

// Evaluate runs every rule in cat against every matching element of graph,
// returning verdicts ordered by (rule id, element id) — stable across runs.
// Cancellation is checked between rules, per the concurrency model.
func Evaluate(ctx context.Context, graph *ifcmodel.Graph, cat *catalogue.Catalogue) ([]Verdict, error) {
	var verdicts []Verdict

	for _, rule := range cat.Rules() {
		if err := ctx.Err(); err != nil {
			return verdicts, err
		}

		elements := graph.ClassElements(rule.Target.Class)
		for _, el := range elements {
			if !matchesFilters(rule.Target.Filters, el, rule.Parameters) {
				continue
			}
			verdicts = append(verdicts, evalRule(rule, el))
		}
	}

	sort.Slice(verdicts, func(i, j int) bool {
		if verdicts[i].RuleID != verdicts[j].RuleID {
			return verdicts[i].RuleID < verdicts[j].RuleID
		}
		return verdicts[i].ElementID < verdicts[j].ElementID
	})

	return verdicts, nil
}

func evalRule(rule catalogue.Rule, el *ifcmodel.Element) Verdict {
	v := Verdict{
		RuleID:     rule.ID,
		ElementID:  el.ID,
		Severity:   rule.Severity,
		DataSource: rule.Condition.LHS.Kind,
		Timestamp:  time.Now().UTC(),
	}

	lhs, lok := resolve(rule.Condition.LHS, el, rule.Parameters)
	rhs, rok := resolve(rule.Condition.RHS, el, rule.Parameters)

	if !lok || !rok {
		v.Status = Unable
		v.Reason = "value-source resolved to null"
		v.Explanation = renderFor(rule, v.Status, explanationContext{Guid: el.GUID})
		return v
	}

	lhs, rhs, unitsOK := reconcileUnits(rule.Condition.LHS.Unit, rule.Condition.RHS.Unit, lhs, rhs)
	if !unitsOK {
		v.Status = Unable
		v.Reason = "unit mismatch"
		v.LHS = lhs.String()
		v.RHS = rhs.String()
		v.Explanation = renderFor(rule, v.Status, explanationContext{Guid: el.GUID, Lhs: v.LHS, Rhs: v.RHS})
		return v
	}
	v.Unit = firstNonEmpty(rule.Condition.LHS.Unit, rule.Condition.RHS.Unit)

	fn, ok := comparators[rule.Condition.Comparator]
	if !ok {
		v.Status = Unable
		v.Reason = "unrecognized comparator"
		return v
	}

	result, resolvable := fn(lhs, rhs)
	v.LHS = lhs.String()
	v.RHS = rhs.String()

	if !resolvable {
		v.Status = Unable
		v.Reason = "comparator kind mismatch or non-numeric operand"
	} else if result {
		v.Status = Pass
	} else {
		v.Status = Fail
	}

	v.Explanation = renderFor(rule, v.Status, explanationContext{
		Guid: el.GUID,
		Lhs:  v.LHS,
		Rhs:  v.RHS,
		Unit: v.Unit,
	})
	return v
}

// templateFor selects the explanation template matching status: a PASS or
// FAIL verdict prefers the status-specific template, falling back to
// ShortTemplate when one wasn't configured; every other status (UNABLE)
// always uses ShortTemplate.
func templateFor(rule catalogue.Rule, status Status) string {
	switch status {
	case Pass:
		if rule.OnPassTemplate != "" {
			return rule.OnPassTemplate
		}
	case Fail:
		if rule.OnFailTemplate != "" {
			return rule.OnFailTemplate
		}
	}
	return rule.ShortTemplate
}

func renderFor(rule catalogue.Rule, status Status, ctx explanationContext) string {
	return render(templateFor(rule, status), rule.Parameters, ctx)
}

// render substitutes {field} placeholders in tpl from ctx's flattened field
// map (case-insensitive field names: {guid}, {lhs}, {rhs}, {unit}), then
// from the rule's parameter bag, so a condition referencing {min_width} can
// surface that same value in its explanation.
func render(tpl string, params map[string]any, ctx explanationContext) string {
	if tpl == "" {
		return ""
	}
	fields := structs.Map(ctx)
	out := tpl
	for k, v := range fields {
		placeholder := "{" + strings.ToLower(k) + "}"
		out = strings.ReplaceAll(out, placeholder, toString(v))
	}
	for k, v := range params {
		placeholder := "{" + strings.ToLower(k) + "}"
		out = strings.ReplaceAll(out, placeholder, toString(v))
	}
	return out
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
