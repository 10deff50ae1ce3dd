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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/civitas-sh/civitas/reason"
)

type CheckpointTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *CheckpointTestSuite) SetupSuite() {
	s.ctx = context.Background()
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *CheckpointTestSuite) TestSnapshotCapturesNetShape() {
	net := reason.NewNet(4)
	ck := snapshot(net, 3, 0.5, 0.4)
	s.Equal(3, ck.Epoch)
	s.Equal(0.5, ck.Loss)
	s.Equal(0.4, ck.ValLoss)
	s.Equal(4, ck.InputDims)
	s.Len(ck.Wx, reason.HiddenDims)
}

func (s *CheckpointTestSuite) TestWriteAndLoadRoundTrip() {
	net := reason.NewNet(4)
	net.Bo.SetVec(0, 1.25)
	ck := snapshot(net, 1, 0.1, 0.2)

	path := filepath.Join(s.T().TempDir(), "nested", "epoch-1.json")
	s.Require().NoError(writeCheckpoint(s.ctx, path, ck))

	loaded, loadedCk, err := LoadCheckpoint(path)
	s.Require().NoError(err)
	s.Equal(1, loadedCk.Epoch)
	s.InDelta(1.25, loaded.Bo.AtVec(0), 1e-9)
}

func (s *CheckpointTestSuite) TestWriteCreatesMissingDirectories() {
	net := reason.NewNet(2)
	ck := snapshot(net, 0, 0, 0)
	path := filepath.Join(s.T().TempDir(), "a", "b", "c", "epoch-0.json")

	s.Require().NoError(writeCheckpoint(s.ctx, path, ck))
	_, _, err := LoadCheckpoint(path)
	s.NoError(err)
}

func (s *CheckpointTestSuite) TestLoadCheckpointMissingFileErrors() {
	_, _, err := LoadCheckpoint(filepath.Join(s.T().TempDir(), "missing.json"))
	s.Error(err)
}

func TestCheckpointTestSuite(t *testing.T) {
	suite.Run(t, new(CheckpointTestSuite))
}
