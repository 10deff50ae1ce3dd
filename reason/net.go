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

// Package reason is the recursive classifier: a two-block gated dense
// network refined over a bounded number of steps, each step narrowing a
// running (prediction, confidence) hypothesis rather than producing one in
// a single pass.
package reason

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const HiddenDims = 64

// Net holds the two dense blocks' weights as plain gonum matrices. The
// first block gates the input against the running hidden state; the
// second projects the gated state down to a (logit, confidence) pair.
type Net struct {
	Wx, Wh *mat.Dense // HiddenDims x InputDims, HiddenDims x HiddenDims
	B      *mat.VecDense

	Wo *mat.Dense // 2 x HiddenDims
	Bo *mat.VecDense
}

// NewNet allocates a zero-valued network of the given input width. Weights
// are left at zero — callers either load a trained checkpoint or seed them
// before use.
func NewNet(inputDims int) *Net {
	return &Net{
		Wx: mat.NewDense(HiddenDims, inputDims, nil),
		Wh: mat.NewDense(HiddenDims, HiddenDims, nil),
		B:  mat.NewVecDense(HiddenDims, nil),
		Wo: mat.NewDense(2, HiddenDims, nil),
		Bo: mat.NewVecDense(2, nil),
	}
}

// Step computes the next hidden state from input x and the previous hidden
// state h, then projects it to a (logit, confidence) pair via the second
// dense block.
func (n *Net) Step(x, h *mat.VecDense) (next *mat.VecDense, logit, confidence float64) {
	pre := mat.NewVecDense(HiddenDims, nil)
	pre.MulVec(n.Wx, x)

	hPart := mat.NewVecDense(HiddenDims, nil)
	hPart.MulVec(n.Wh, h)
	pre.AddVec(pre, hPart)
	pre.AddVec(pre, n.B)

	gated := mat.NewVecDense(HiddenDims, nil)
	gated.CloneFromVec(pre)
	applyGate(gated)

	out := mat.NewVecDense(2, nil)
	out.MulVec(n.Wo, gated)
	out.AddVec(out, n.Bo)

	logit = out.AtVec(0)
	confidence = sigmoid(out.AtVec(1))
	return gated, logit, confidence
}

// applyGate is the gating nonlinearity: a sigmoid gate elementwise
// multiplied against a tanh candidate, the same GRU-style gate shape used
// to keep the refinement loop numerically stable across K steps.
func applyGate(v *mat.VecDense) {
	for i := 0; i < v.Len(); i++ {
		x := v.AtVec(i)
		gate := sigmoid(x)
		candidate := math.Tanh(x)
		v.SetVec(i, gate*candidate)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
