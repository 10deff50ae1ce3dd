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
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"
)

type ReasonTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ReasonTestSuite) SetupSuite() {
	s.ctx = context.Background()
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *ReasonTestSuite) TestReasonStopsEarlyOnZeroNet() {
	net := NewNet(4)
	x := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	result, err := Reason(s.ctx, net, x, nil)
	s.Require().NoError(err)

	// A zero-weighted net produces a constant confidence every step, so the
	// convergence streak should trip well before MaxSteps.
	s.LessOrEqual(len(result.Steps), MaxSteps)
	s.GreaterOrEqual(len(result.Steps), MinStepsBeforeStop)
	s.NotNil(result.Trace)
	s.Equal("refinement-step", result.Trace.Kind)
	s.Len(result.Trace.Children, len(result.Steps))
}

func (s *ReasonTestSuite) TestReasonRespectsCancellation() {
	net := NewNet(4)
	x := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := Reason(ctx, net, x, nil)
	s.Error(err)
}

func (s *ReasonTestSuite) TestReasonAnnotatesDominantComparator() {
	net := NewNet(4)
	x := mat.NewVecDense(4, []float64{1, 2, 3, 4})

	calls := 0
	dominant := func(step int) string {
		calls++
		return ">="
	}

	result, err := Reason(s.ctx, net, x, dominant)
	s.Require().NoError(err)
	s.Equal(len(result.Steps), calls)
	for _, step := range result.Steps {
		s.Equal(">=", step.Comparator)
	}
}

func (s *ReasonTestSuite) TestStepProjectsToTwoOutputs() {
	net := NewNet(3)
	x := mat.NewVecDense(3, []float64{1, 0, 0})
	h := mat.NewVecDense(HiddenDims, nil)

	next, logit, confidence := net.Step(x, h)
	s.Equal(HiddenDims, next.Len())
	// Zero weights mean a zero pre-activation, gate(0)=0.5*tanh(0)=0, so the
	// logit and confidence collapse to the bias-only case.
	s.Equal(0.0, logit)
	s.InDelta(0.5, confidence, 1e-9)
}

func TestReasonTestSuite(t *testing.T) {
	suite.Run(t, new(ReasonTestSuite))
}
