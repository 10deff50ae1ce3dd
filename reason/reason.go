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

package reason

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// MaxSteps is the hard ceiling on refinement steps.
	MaxSteps = 16

	// ConvergenceEpsilon and ConvergenceStreak implement the early-stop rule:
	// stop early once |Δconfidence| < ε holds for two consecutive steps, and
	// only once at least 3 steps have run.
	ConvergenceEpsilon = 0.01
	ConvergenceStreak  = 2
	MinStepsBeforeStop = 3
)

// Step is one refinement step's externally visible outcome.
type Step struct {
	Index      int
	Logit      float64
	Confidence float64
	Comparator string
}

// Result is the outcome of a full Reason call.
type Result struct {
	Prediction float64
	Confidence float64
	Steps      []Step
	Trace      *Node
}

// Reason runs the refinement loop for up to MaxSteps, stopping early once
// confidence has converged. dominantComparator, when non-nil, is consulted
// per step to annotate the trace with which rule comparator is driving the
// current hypothesis — purely descriptive, it does not affect the math.
func Reason(ctx context.Context, net *Net, x *mat.VecDense, dominantComparator func(step int) string) (Result, error) {
	root, doneRoot := New("refinement-step", "root", nil)
	defer doneRoot()

	h := mat.NewVecDense(HiddenDims, nil)
	var steps []Step
	var lastConf float64
	streak := 0

	var logit, confidence float64

	for i := 0; i < MaxSteps; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		comparator := ""
		if dominantComparator != nil {
			comparator = dominantComparator(i)
		}

		node, done := New("refinement-step", comparator, map[string]any{"step": i})

		var nextH *mat.VecDense
		nextH, logit, confidence = net.Step(x, h)
		h = nextH

		node.SetResult(map[string]float64{"prediction": logit, "confidence": confidence})
		done()
		root.Attach(node)

		steps = append(steps, Step{Index: i, Logit: logit, Confidence: confidence, Comparator: comparator})

		if i+1 >= MinStepsBeforeStop {
			if math.Abs(confidence-lastConf) < ConvergenceEpsilon {
				streak++
			} else {
				streak = 0
			}
			if streak >= ConvergenceStreak {
				break
			}
		}
		lastConf = confidence
	}

	return Result{
		Prediction: logit,
		Confidence: confidence,
		Steps:      steps,
		Trace:      root,
	}, nil
}
