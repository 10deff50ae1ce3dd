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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Gradients accumulates the partial derivatives of a loss with respect to
// every weight tensor in a Net, shaped identically to it. A single
// Gradients value is meant to be shared across every sample in a
// mini-batch: Backprop adds into it rather than overwriting it.
type Gradients struct {
	Wx, Wh, Wo *mat.Dense
	B, Bo      *mat.VecDense
}

func NewGradients(inputDims int) *Gradients {
	return &Gradients{
		Wx: mat.NewDense(HiddenDims, inputDims, nil),
		Wh: mat.NewDense(HiddenDims, HiddenDims, nil),
		Wo: mat.NewDense(2, HiddenDims, nil),
		B:  mat.NewVecDense(HiddenDims, nil),
		Bo: mat.NewVecDense(2, nil),
	}
}

// Backprop runs the refinement recurrence forward for enough steps to cover
// the highest index in supervisedSteps, then walks it backward through time,
// adding the loss gradient for every weight tensor into dst. It returns the
// sum of squared residuals at the supervised steps, the same quantity
// Step's forward pass is being fit against.
//
// The confidence output (out[1]) is trained against a secondary target —
// confTarget, how close the residual is to zero — folded into the same
// backward pass so Wo's second row and Bo[1] receive gradient too; that
// term never contributes to the returned loss, which stays the plain
// logit-regression residual the caller reports as the epoch loss.
func (n *Net) Backprop(x *mat.VecDense, label float64, supervisedSteps []int, dst *Gradients) float64 {
	steps := 0
	for _, idx := range supervisedSteps {
		if idx+1 > steps {
			steps = idx + 1
		}
	}
	if steps == 0 {
		return 0
	}

	supervised := make(map[int]bool, len(supervisedSteps))
	for _, idx := range supervisedSteps {
		if idx >= 0 {
			supervised[idx] = true
		}
	}

	hPrev := make([]*mat.VecDense, steps)
	pre := make([]*mat.VecDense, steps)
	gate := make([]*mat.VecDense, steps)
	cand := make([]*mat.VecDense, steps)
	h := make([]*mat.VecDense, steps)
	out := make([]*mat.VecDense, steps)
	confidence := make([]float64, steps)

	prev := mat.NewVecDense(HiddenDims, nil)
	for t := 0; t < steps; t++ {
		hPrev[t] = prev

		p := mat.NewVecDense(HiddenDims, nil)
		p.MulVec(n.Wx, x)
		hPart := mat.NewVecDense(HiddenDims, nil)
		hPart.MulVec(n.Wh, prev)
		p.AddVec(p, hPart)
		p.AddVec(p, n.B)
		pre[t] = p

		g := mat.NewVecDense(HiddenDims, nil)
		c := mat.NewVecDense(HiddenDims, nil)
		ht := mat.NewVecDense(HiddenDims, nil)
		for i := 0; i < HiddenDims; i++ {
			pv := p.AtVec(i)
			gv := sigmoid(pv)
			cv := math.Tanh(pv)
			g.SetVec(i, gv)
			c.SetVec(i, cv)
			ht.SetVec(i, gv*cv)
		}
		gate[t] = g
		cand[t] = c
		h[t] = ht

		o := mat.NewVecDense(2, nil)
		o.MulVec(n.Wo, ht)
		o.AddVec(o, n.Bo)
		out[t] = o
		confidence[t] = sigmoid(o.AtVec(1))

		prev = ht
	}

	var loss float64
	dhNext := mat.NewVecDense(HiddenDims, nil)

	for t := steps - 1; t >= 0; t-- {
		dOut := mat.NewVecDense(2, nil)
		if supervised[t] {
			residual := out[t].AtVec(0) - label
			loss += residual * residual
			dOut.SetVec(0, 2*residual)

			confTarget := clamp01(1 - math.Abs(residual)/2)
			conf := confidence[t]
			dOut.SetVec(1, 2*(conf-confTarget)*conf*(1-conf))
		}

		addOuter(dst.Wo, dOut, h[t])
		dst.Bo.AddVec(dst.Bo, dOut)

		dh := mat.NewVecDense(HiddenDims, nil)
		dh.MulVec(n.Wo.T(), dOut)
		dh.AddVec(dh, dhNext)

		dPre := mat.NewVecDense(HiddenDims, nil)
		for i := 0; i < HiddenDims; i++ {
			gv := gate[t].AtVec(i)
			cv := cand[t].AtVec(i)
			dhv := dh.AtVec(i)
			dGate := dhv * cv
			dCand := dhv * gv
			dPre.SetVec(i, dGate*gv*(1-gv)+dCand*(1-cv*cv))
		}

		addOuter(dst.Wx, dPre, x)
		addOuter(dst.Wh, dPre, hPrev[t])
		dst.B.AddVec(dst.B, dPre)

		dhNext = mat.NewVecDense(HiddenDims, nil)
		dhNext.MulVec(n.Wh.T(), dPre)
	}

	return loss
}

// addOuter adds the outer product a*bᵀ into dst elementwise, matching the
// manual-loop style the rest of the package updates matrices with rather
// than gonum's fluent Outer.
func addOuter(dst *mat.Dense, a, b *mat.VecDense) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		av := a.AtVec(i)
		for j := 0; j < c; j++ {
			dst.Set(i, j, dst.At(i, j)+av*b.AtVec(j))
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
