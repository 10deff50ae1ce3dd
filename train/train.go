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
	"math"
	"math/rand"

	"github.com/civitas-sh/civitas/dataset"
	"github.com/civitas-sh/civitas/evaluate"
	"github.com/civitas-sh/civitas/reason"
	"github.com/civitas-sh/civitas/xerr"
)

// Config is the trainer's hyperparameter set.
type Config struct {
	Epochs        int
	BatchSize     int
	LearningRate  float64
	EMADecay      float64 // typically 0.999
	Patience      int     // consecutive non-improving epochs before early stop
	CheckpointDir string
}

func DefaultConfig(checkpointDir string) Config {
	return Config{
		Epochs:        50,
		BatchSize:     32,
		LearningRate:  0.01,
		EMADecay:      0.999,
		Patience:      5,
		CheckpointDir: checkpointDir,
	}
}

// deepSupervisionSteps returns the fixed set of refinement-step indices
// (0-based) that contribute to the training loss: {1, K/4, K/2, K},
// converted to 0-based indices into reason.Result.Steps.
func deepSupervisionSteps() []int {
	k := reason.MaxSteps
	return []int{0, k/4 - 1, k/2 - 1, k - 1}
}

// Trainer runs mini-batch optimization over a dataset.Store, evaluating a
// held-out validation split each epoch for early stopping.
type Trainer struct {
	Config Config
	Net    *reason.Net
	EMA    *reason.Net
}

func NewTrainer(cfg Config, inputDims int) *Trainer {
	net := reason.NewNet(inputDims)
	ema := reason.NewNet(inputDims)
	// Seed Wx/Wh/Wo with small deterministic weights (the EMA shadow starts
	// from the same values): a zero net gives gradient to Bo alone.
	rng := rand.New(rand.NewSource(1))
	seed := func(i, j int, v float64) float64 { return (rng.Float64()*2 - 1) * 0.1 }
	net.Wx.Apply(seed, net.Wx)
	net.Wh.Apply(seed, net.Wh)
	net.Wo.Apply(seed, net.Wo)
	ema.Wx.Copy(net.Wx)
	ema.Wh.Copy(net.Wh)
	ema.Wo.Copy(net.Wo)
	return &Trainer{Config: cfg, Net: net, EMA: ema}
}

// Epoch is the per-epoch result surfaced to the registry.
type Epoch struct {
	Index   int
	Loss    float64
	ValLoss float64
}

// Train runs the full training loop, checkpointing after every epoch and
// stopping early once validation loss fails to improve for Patience
// consecutive epochs. It returns the EMA-smoothed network, since that is
// the one meant to be registered.
func (t *Trainer) Train(ctx context.Context, train, val []dataset.Sample) (*reason.Net, []Epoch, error) {
	var history []Epoch
	bestVal := math.Inf(1)
	stale := 0

	for epoch := 0; epoch < t.Config.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, history, xerr.ErrCancelled("training", err)
		}

		loss := t.runEpoch(train)
		valLoss := t.evaluate(val)

		t.updateEMA()

		history = append(history, Epoch{Index: epoch, Loss: loss, ValLoss: valLoss})

		if t.Config.CheckpointDir != "" {
			ck := snapshot(t.EMA, epoch, loss, valLoss)
			path := t.Config.CheckpointDir + "/epoch-" + itoa(epoch) + ".json"
			if err := writeCheckpoint(ctx, path, ck); err != nil {
				return nil, history, err
			}
		}

		if valLoss < bestVal-1e-9 {
			bestVal = valLoss
			stale = 0
		} else {
			stale++
			if stale >= t.Config.Patience {
				break
			}
		}
	}

	return t.EMA, history, nil
}

func (t *Trainer) runEpoch(samples []dataset.Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var total float64
	batches := batch(samples, t.Config.BatchSize)
	for _, b := range batches {
		total += t.trainBatch(b)
	}
	return total / float64(len(batches))
}

// trainBatch runs deep-supervised backpropagation through every sample's
// refinement unroll and applies one SGD step, averaged over the batch, to
// every weight tensor in the network.
func (t *Trainer) trainBatch(samples []dataset.Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	supervised := deepSupervisionSteps()

	_, inputDims := t.Net.Wx.Dims()
	grads := reason.NewGradients(inputDims)

	var batchLoss float64
	for _, s := range samples {
		label := labelTarget(s.Label)
		batchLoss += t.Net.Backprop(s.AsVector(), label, supervised, grads)
	}

	n := float64(len(samples) * len(supervised))
	if n == 0 {
		return 0
	}
	batchLoss /= n

	lr := t.Config.LearningRate / n
	applyGradDense(t.Net.Wx, grads.Wx, lr)
	applyGradDense(t.Net.Wh, grads.Wh, lr)
	applyGradDense(t.Net.Wo, grads.Wo, lr)
	applyGradVec(t.Net.B, grads.B, lr)
	applyGradVec(t.Net.Bo, grads.Bo, lr)

	return batchLoss
}

func (t *Trainer) evaluate(samples []dataset.Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var total float64
	for _, s := range samples {
		result, err := reason.Reason(context.Background(), t.Net, s.AsVector(), nil)
		if err != nil {
			continue
		}
		label := labelTarget(s.Label)
		diff := result.Prediction - label
		total += diff * diff
	}
	return total / float64(len(samples))
}

// updateEMA folds the live network's weights into the EMA shadow via
// elementwise scale-and-add, decay 0.999 by default.
func (t *Trainer) updateEMA() {
	d := t.Config.EMADecay
	scaleAndAddDense(t.EMA.Wx, t.Net.Wx, d)
	scaleAndAddDense(t.EMA.Wh, t.Net.Wh, d)
	scaleAndAddDense(t.EMA.Wo, t.Net.Wo, d)
	scaleAndAddVec(t.EMA.B, t.Net.B, d)
	scaleAndAddVec(t.EMA.Bo, t.Net.Bo, d)
}

// labelTarget maps a verdict status to the regression target the output
// logit is trained against.
func labelTarget(s evaluate.Status) float64 {
	switch s {
	case evaluate.Pass:
		return 1
	case evaluate.Fail:
		return -1
	default:
		return 0
	}
}

func batch(samples []dataset.Sample, size int) [][]dataset.Sample {
	if size <= 0 {
		size = 1
	}
	var out [][]dataset.Sample
	for i := 0; i < len(samples); i += size {
		end := i + size
		if end > len(samples) {
			end = len(samples)
		}
		out = append(out, samples[i:end])
	}
	return out
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
