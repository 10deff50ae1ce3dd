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

package scripting

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type PoolTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *PoolTestSuite) SetupSuite() {
	s.ctx = context.Background()
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *PoolTestSuite) TestEvalRunsJSAgainstBag() {
	pool, err := NewPool(2)
	s.Require().NoError(err)
	defer pool.Close()

	out, err := pool.Eval(s.ctx, &Source{Path: "expr.js", Body: "width * 2"}, map[string]any{"width": 1.5})
	s.Require().NoError(err)
	s.Equal(int64(3), out)
}

func (s *PoolTestSuite) TestEvalTranspilesTypeScript() {
	pool, err := NewPool(1)
	s.Require().NoError(err)
	defer pool.Close()

	out, err := pool.Eval(s.ctx, &Source{Path: "expr.ts", Body: "const w: number = width; w + 1"}, map[string]any{"width": 2})
	s.Require().NoError(err)
	s.Equal(int64(3), out)
}

func (s *PoolTestSuite) TestEvalReturnsErrorOnThrow() {
	pool, err := NewPool(1)
	s.Require().NoError(err)
	defer pool.Close()

	_, err = pool.Eval(s.ctx, &Source{Path: "expr.js", Body: "throw new Error('boom')"}, nil)
	s.Error(err)
}

func (s *PoolTestSuite) TestEvalReturnsNilForUndefined() {
	pool, err := NewPool(1)
	s.Require().NoError(err)
	defer pool.Close()

	out, err := pool.Eval(s.ctx, &Source{Path: "expr.js", Body: "undefined"}, nil)
	s.Require().NoError(err)
	s.Nil(out)
}

func (s *PoolTestSuite) TestEvalRespectsCancellation() {
	pool, err := NewPool(1)
	s.Require().NoError(err)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()

	_, err = pool.Eval(ctx, &Source{Path: "expr.js", Body: "while(true){}"}, nil)
	s.Error(err)
}

func TestPoolTestSuite(t *testing.T) {
	suite.Run(t, new(PoolTestSuite))
}
