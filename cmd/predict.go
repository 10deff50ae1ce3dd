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

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/binaek/cling"
	"gonum.org/v1/gonum/mat"

	"github.com/civitas-sh/civitas/dataset"
	"github.com/civitas-sh/civitas/reason"
	"github.com/civitas-sh/civitas/registry"
	"github.com/civitas-sh/civitas/train"
)

func addPredictCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("predict", predictCmd).
			WithArgument(cling.NewStringCmdInput("features-file").
				WithDescription("JSON file holding a 320-element feature vector").
				AsArgument(),
			).
			WithFlag(cling.
				NewStringCmdInput("registry-file").
				WithDefault("./state/models.json").
				WithDescription("Model registry file").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("model-version").
				WithDefault("").
				WithDescription("Model version to run (defaults to the registry's current best)").
				AsFlag(),
			),
	)
}

type predictCmdArgs struct {
	FeaturesFile string `cling-name:"features-file"`
	RegistryFile string `cling-name:"registry-file"`
	ModelVersion string `cling-name:"model-version"`
}

func predictCmd(ctx context.Context, args []string) error {
	input := predictCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	models, err := registry.Open(input.RegistryFile)
	if err != nil {
		return err
	}

	var v *registry.Version
	if input.ModelVersion != "" {
		found, ok := models.Get(registry.VersionID(input.ModelVersion))
		if !ok {
			return fmt.Errorf("model version %q not found", input.ModelVersion)
		}
		v = found
	} else {
		best, ok := models.Best()
		if !ok {
			return fmt.Errorf("no model version is marked best")
		}
		v = best
	}

	b, err := os.ReadFile(input.FeaturesFile)
	if err != nil {
		return err
	}
	var features []float64
	if err := json.Unmarshal(b, &features); err != nil {
		return err
	}
	if len(features) != dataset.TotalDims {
		return fmt.Errorf("expected a %d-dim feature vector, got %d", dataset.TotalDims, len(features))
	}

	net, _, err := train.LoadCheckpoint(v.CheckpointPath)
	if err != nil {
		return err
	}

	x := mat.NewVecDense(len(features), features)
	result, err := reason.Reason(ctx, net, x, nil)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"model_version": v.ID,
		"prediction":    result.Prediction,
		"confidence":    result.Confidence,
		"steps":         len(result.Steps),
		"trace":         result.Trace,
	})
}
