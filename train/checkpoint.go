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

// Package train is the trainer: mini-batch optimization of a
// reason.Net over a dataset.Store, with deep supervision at a fixed set of
// refinement steps and an EMA shadow of the trained weights.
package train

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/civitas-sh/civitas/reason"
	"github.com/civitas-sh/civitas/xerr"
)

// Checkpoint is the on-disk snapshot of one epoch's trained weights.
type Checkpoint struct {
	Epoch      int       `json:"epoch"`
	Loss       float64   `json:"loss"`
	ValLoss    float64   `json:"val_loss"`
	InputDims  int       `json:"input_dims"`
	Wx, Wh, Wo [][]float64
	B, Bo      []float64
	CreatedAt  time.Time `json:"created_at"`
}

func snapshot(net *reason.Net, epoch int, loss, valLoss float64) Checkpoint {
	return Checkpoint{
		Epoch:     epoch,
		Loss:      loss,
		ValLoss:   valLoss,
		InputDims: net.Wx.RawMatrix().Cols,
		Wx:        toRows(net.Wx),
		Wh:        toRows(net.Wh),
		Wo:        toRows(net.Wo),
		B:         toSlice(net.B),
		Bo:        toSlice(net.Bo),
		CreatedAt: time.Now(),
	}
}

// writeCheckpoint persists ck atomically (write-temp-then-rename), retrying
// transient failures (ENOSPC/EBUSY on the storage substrate) a bounded
// number of times before surfacing a resource-exhausted error.
func writeCheckpoint(ctx context.Context, path string, ck Checkpoint) error {
	op := func() (struct{}, error) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		b, err := json.MarshalIndent(ck, "", "  ")
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, b, 0o644); err != nil {
			return struct{}{}, err
		}
		if err := os.Rename(tmp, path); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, op, backoff.WithMaxTries(5), backoff.WithBackOff(backoff.NewExponentialBackOff()))
	if err != nil {
		return xerr.ErrResourceExhausted("checkpoint write", err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint back into a usable Net.
func LoadCheckpoint(path string) (*reason.Net, Checkpoint, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, Checkpoint{}, err
	}
	var ck Checkpoint
	if err := json.Unmarshal(b, &ck); err != nil {
		return nil, Checkpoint{}, err
	}
	net := reason.NewNet(ck.InputDims)
	fromRows(net.Wx, ck.Wx)
	fromRows(net.Wh, ck.Wh)
	fromRows(net.Wo, ck.Wo)
	fromSlice(net.B, ck.B)
	fromSlice(net.Bo, ck.Bo)
	return net, ck, nil
}
