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
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"
)

type BackpropTestSuite struct {
	suite.Suite
}

func (s *BackpropTestSuite) SetupSuite() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

// seeded returns a net with every weight nudged off zero so the backward
// pass has something other than zero to propagate through.
func (s *BackpropTestSuite) seeded(inputDims int) *Net {
	n := NewNet(inputDims)
	for i := 0; i < HiddenDims; i++ {
		for j := 0; j < inputDims; j++ {
			n.Wx.Set(i, j, 0.01)
		}
		for j := 0; j < HiddenDims; j++ {
			n.Wh.Set(i, j, 0.01)
		}
		n.B.SetVec(i, 0.01)
	}
	for j := 0; j < HiddenDims; j++ {
		n.Wo.Set(0, j, 0.05)
		n.Wo.Set(1, j, -0.05)
	}
	n.Bo.SetVec(0, 0.1)
	n.Bo.SetVec(1, -0.1)
	return n
}

func nonZeroDense(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.At(i, j) != 0 {
				return true
			}
		}
	}
	return false
}

func nonZeroVec(v *mat.VecDense) bool {
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) != 0 {
			return true
		}
	}
	return false
}

func (s *BackpropTestSuite) TestBackpropPopulatesEveryWeightGradient() {
	n := s.seeded(4)
	x := mat.NewVecDense(4, []float64{0.1, 0.2, 0.3, 0.4})
	grads := NewGradients(4)

	loss := n.Backprop(x, 1.0, []int{0, 3}, grads)

	s.Greater(loss, 0.0)
	s.True(nonZeroDense(grads.Wx), "Wx gradient should be populated")
	s.True(nonZeroDense(grads.Wh), "Wh gradient should be populated")
	s.True(nonZeroDense(grads.Wo), "Wo gradient should be populated")
	s.True(nonZeroVec(grads.B), "B gradient should be populated")
	s.True(nonZeroVec(grads.Bo), "Bo gradient should be populated")
	s.NotEqual(0.0, grads.Bo.AtVec(1), "confidence output should receive gradient too")
}

func (s *BackpropTestSuite) TestBackpropAccumulatesAcrossCalls() {
	n := s.seeded(4)
	x := mat.NewVecDense(4, []float64{0.1, 0.2, 0.3, 0.4})
	grads := NewGradients(4)

	n.Backprop(x, 1.0, []int{0}, grads)
	first := grads.Bo.AtVec(0)
	n.Backprop(x, 1.0, []int{0}, grads)
	second := grads.Bo.AtVec(0)

	s.InDelta(2*first, second, 1e-9)
}

func (s *BackpropTestSuite) TestBackpropWithNoSupervisedStepsReturnsZero() {
	n := s.seeded(4)
	x := mat.NewVecDense(4, []float64{0.1, 0.2, 0.3, 0.4})
	grads := NewGradients(4)

	loss := n.Backprop(x, 1.0, nil, grads)
	s.Equal(0.0, loss)
}

func TestBackpropTestSuite(t *testing.T) {
	suite.Run(t, new(BackpropTestSuite))
}
