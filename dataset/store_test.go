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

package dataset

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/civitas-sh/civitas/evaluate"
)

type StoreTestSuite struct {
	suite.Suite
}

func (s *StoreTestSuite) SetupSuite() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *StoreTestSuite) newSample(elementID, ruleID string, status evaluate.Status) Sample {
	return Sample{
		ElementID: elementID,
		RuleID:    ruleID,
		Label:     status,
		Features:  make([]float64, TotalDims),
	}
}

func (s *StoreTestSuite) TestOpenStoreMissingFileIsEmpty() {
	st, err := OpenStore(filepath.Join(s.T().TempDir(), "missing.jsonl"))
	s.Require().NoError(err)
	s.Equal(0, st.Len())
}

func (s *StoreTestSuite) TestAddAppendsAndPersists() {
	path := filepath.Join(s.T().TempDir(), "samples.jsonl")
	st, err := OpenStore(path)
	s.Require().NoError(err)

	s.Require().NoError(st.Add(s.newSample("e1", "r1", evaluate.Pass)))
	s.Require().NoError(st.Add(s.newSample("e2", "r1", evaluate.Fail)))
	s.Equal(2, st.Len())

	reopened, err := OpenStore(path)
	s.Require().NoError(err)
	s.Equal(2, reopened.Len())
}

func (s *StoreTestSuite) TestAddDedupsOnElementRulePair() {
	path := filepath.Join(s.T().TempDir(), "samples.jsonl")
	st, err := OpenStore(path)
	s.Require().NoError(err)

	s.Require().NoError(st.Add(s.newSample("e1", "r1", evaluate.Pass)))
	s.Require().NoError(st.Add(s.newSample("e1", "r1", evaluate.Fail)))

	s.Equal(1, st.Len())
	samples := st.Samples()
	s.Equal(evaluate.Fail, samples[0].Label)
}

func (s *StoreTestSuite) TestPutPreservesPositionOnUpdate() {
	path := filepath.Join(s.T().TempDir(), "samples.jsonl")
	st, err := OpenStore(path)
	s.Require().NoError(err)

	s.Require().NoError(st.Add(s.newSample("e1", "r1", evaluate.Pass)))
	s.Require().NoError(st.Add(s.newSample("e2", "r1", evaluate.Pass)))
	s.Require().NoError(st.Add(s.newSample("e1", "r1", evaluate.Fail))) // update first entry

	samples := st.Samples()
	s.Len(samples, 2)
	s.Equal("e1", samples[0].ElementID)
	s.Equal(evaluate.Fail, samples[0].Label)
	s.Equal("e2", samples[1].ElementID)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
