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

package train

import "gonum.org/v1/gonum/mat"

func toRows(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = append([]float64(nil), m.RawRowView(i)...)
	}
	_ = c
	return out
}

func fromRows(m *mat.Dense, rows [][]float64) {
	for i, row := range rows {
		for j, v := range row {
			m.Set(i, j, v)
		}
	}
}

func toSlice(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

func fromSlice(v *mat.VecDense, vals []float64) {
	for i, x := range vals {
		v.SetVec(i, x)
	}
}

// scaleAndAdd implements dst = decay*dst + (1-decay)*src elementwise, the
// EMA update shared by every weight tensor in the network.
func scaleAndAddDense(dst, src *mat.Dense, decay float64) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, decay*dst.At(i, j)+(1-decay)*src.At(i, j))
		}
	}
}

func scaleAndAddVec(dst, src *mat.VecDense, decay float64) {
	for i := 0; i < dst.Len(); i++ {
		dst.SetVec(i, decay*dst.AtVec(i)+(1-decay)*src.AtVec(i))
	}
}

// applyGrad implements dst -= lr*grad elementwise, the plain SGD update
// shared by every weight tensor trainBatch adjusts.
func applyGradDense(dst, grad *mat.Dense, lr float64) {
	r, c := dst.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			dst.Set(i, j, dst.At(i, j)-lr*grad.At(i, j))
		}
	}
}

func applyGradVec(dst, grad *mat.VecDense, lr float64) {
	for i := 0; i < dst.Len(); i++ {
		dst.SetVec(i, dst.AtVec(i)-lr*grad.AtVec(i))
	}
}
