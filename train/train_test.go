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
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/civitas-sh/civitas/dataset"
	"github.com/civitas-sh/civitas/evaluate"
)

type TrainTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *TrainTestSuite) SetupSuite() {
	s.ctx = context.Background()
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *TrainTestSuite) sample(elementID string, status evaluate.Status) dataset.Sample {
	features := make([]float64, 4)
	features[0] = 1
	return dataset.Sample{ElementID: elementID, RuleID: "r1", Label: status, Features: features}
}

func (s *TrainTestSuite) TestNewTrainerGivesDistinctNetAndEMA() {
	trainer := NewTrainer(DefaultConfig(""), 4)
	s.NotSame(trainer.Net, trainer.EMA)
}

func (s *TrainTestSuite) TestDeepSupervisionStepsAreWithinRange() {
	steps := deepSupervisionSteps()
	for _, idx := range steps {
		s.GreaterOrEqual(idx, 0)
	}
}

func (s *TrainTestSuite) TestTrainProducesEpochHistoryAndCheckpoints() {
	dir := s.T().TempDir()
	cfg := Config{
		Epochs:        3,
		BatchSize:     2,
		LearningRate:  0.01,
		EMADecay:      0.9,
		Patience:      10,
		CheckpointDir: dir,
	}
	trainer := NewTrainer(cfg, 4)

	trainSamples := []dataset.Sample{
		s.sample("e1", evaluate.Pass),
		s.sample("e2", evaluate.Fail),
	}
	valSamples := []dataset.Sample{s.sample("e3", evaluate.Pass)}

	net, history, err := trainer.Train(s.ctx, trainSamples, valSamples)
	s.Require().NoError(err)
	s.Len(history, cfg.Epochs)
	s.Same(trainer.EMA, net)

	entries, err := os.ReadDir(dir)
	s.Require().NoError(err)
	s.Len(entries, cfg.Epochs)
}

func (s *TrainTestSuite) TestTrainStopsEarlyOnPatienceExhaustion() {
	cfg := Config{
		Epochs:       20,
		BatchSize:    2,
		LearningRate: 0, // zero learning rate: val loss never improves after epoch 0
		EMADecay:     0.9,
		Patience:     2,
	}
	trainer := NewTrainer(cfg, 4)

	trainSamples := []dataset.Sample{s.sample("e1", evaluate.Pass)}
	valSamples := []dataset.Sample{s.sample("e2", evaluate.Fail)}

	_, history, err := trainer.Train(s.ctx, trainSamples, valSamples)
	s.Require().NoError(err)
	s.Less(len(history), cfg.Epochs)
}

func (s *TrainTestSuite) TestTrainRespectsCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	trainer := NewTrainer(DefaultConfig(""), 4)
	_, _, err := trainer.Train(ctx, nil, nil)
	s.Error(err)
}

func (s *TrainTestSuite) TestCheckpointWriteFailureIsSurfaced() {
	// Point CheckpointDir at a path that collides with an existing file,
	// which os.MkdirAll cannot turn into a directory.
	dir := s.T().TempDir()
	blocker := filepath.Join(dir, "blocker")
	s.Require().NoError(os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := Config{Epochs: 1, BatchSize: 1, LearningRate: 0.01, EMADecay: 0.9, Patience: 1, CheckpointDir: blocker}
	trainer := NewTrainer(cfg, 4)

	_, _, err := trainer.Train(s.ctx, []dataset.Sample{s.sample("e1", evaluate.Pass)}, nil)
	s.Error(err)
}

func TestTrainTestSuite(t *testing.T) {
	suite.Run(t, new(TrainTestSuite))
}
