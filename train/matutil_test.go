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

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"
)

type MatutilTestSuite struct {
	suite.Suite
}

func (s *MatutilTestSuite) SetupSuite() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *MatutilTestSuite) TestRowsRoundTrip() {
	m := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	rows := toRows(m)
	s.Equal([][]float64{{1, 2, 3}, {4, 5, 6}}, rows)

	out := mat.NewDense(2, 3, nil)
	fromRows(out, rows)
	s.True(mat.Equal(m, out))
}

func (s *MatutilTestSuite) TestSliceRoundTrip() {
	v := mat.NewVecDense(3, []float64{1, 2, 3})
	sl := toSlice(v)
	s.Equal([]float64{1, 2, 3}, sl)

	out := mat.NewVecDense(3, nil)
	fromSlice(out, sl)
	s.True(mat.EqualApprox(v, out, 1e-12))
}

func (s *MatutilTestSuite) TestScaleAndAddDenseMovesTowardSource() {
	dst := mat.NewDense(1, 1, []float64{0})
	src := mat.NewDense(1, 1, []float64{1})

	scaleAndAddDense(dst, src, 0.5)
	s.InDelta(0.5, dst.At(0, 0), 1e-9)

	scaleAndAddDense(dst, src, 0.5)
	s.InDelta(0.75, dst.At(0, 0), 1e-9)
}

func (s *MatutilTestSuite) TestScaleAndAddVecMovesTowardSource() {
	dst := mat.NewVecDense(1, []float64{0})
	src := mat.NewVecDense(1, []float64{2})

	scaleAndAddVec(dst, src, 0.9)
	s.InDelta(0.2, dst.AtVec(0), 1e-9)
}

func TestMatutilTestSuite(t *testing.T) {
	suite.Run(t, new(MatutilTestSuite))
}
