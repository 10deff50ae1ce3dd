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
	"strconv"

	"github.com/binaek/cling"
	"github.com/google/uuid"

	"github.com/civitas-sh/civitas/constants"
	"github.com/civitas-sh/civitas/dataset"
	"github.com/civitas-sh/civitas/registry"
	"github.com/civitas-sh/civitas/train"
)

func addTrainCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("train", trainCmd).
			WithFlag(cling.
				NewStringCmdInput("dataset-file").
				WithDefault("./state/samples.jsonl").
				WithDescription("Sample dataset store to train over").
				AsFlag().
				FromEnv([]string{constants.EnvDatasetDir}),
			).
			WithFlag(cling.
				NewStringCmdInput("model-dir").
				WithDefault("./state/models").
				WithDescription("Directory to write epoch checkpoints to").
				AsFlag().
				FromEnv([]string{constants.EnvModelDir}),
			).
			WithFlag(cling.
				NewStringCmdInput("registry-file").
				WithDefault("./state/models.json").
				WithDescription("Model registry file").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("parent-version").
				WithDefault("").
				WithDescription("Parent model version id, if retraining from one").
				AsFlag(),
			).
			WithFlag(cling.
				NewIntCmdInput("epochs").
				WithDefault(50).
				WithDescription("Number of training epochs").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("val-split").
				WithDefault("0.2").
				WithDescription("Fraction of samples held out for validation").
				AsFlag(),
			),
	)
}

type trainCmdArgs struct {
	DatasetFile   string `cling-name:"dataset-file"`
	ModelDir      string `cling-name:"model-dir"`
	RegistryFile  string `cling-name:"registry-file"`
	ParentVersion string `cling-name:"parent-version"`
	Epochs        int    `cling-name:"epochs"`
	ValSplit      string `cling-name:"val-split"`
}

func trainCmd(ctx context.Context, args []string) error {
	input := trainCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	store, err := dataset.OpenStore(input.DatasetFile)
	if err != nil {
		return err
	}
	samples := store.Samples()
	if len(samples) == 0 {
		return fmt.Errorf("dataset store %s is empty", input.DatasetFile)
	}

	split, err := strconv.ParseFloat(input.ValSplit, 64)
	if err != nil || split <= 0 || split >= 1 {
		split = 0.2
	}
	cut := int(float64(len(samples)) * (1 - split))
	if cut <= 0 || cut >= len(samples) {
		cut = len(samples) - 1
	}
	trainSet, valSet := samples[:cut], samples[cut:]

	cfg := train.DefaultConfig(input.ModelDir)
	cfg.Epochs = input.Epochs

	trainer := train.NewTrainer(cfg, dataset.TotalDims)
	_, epochs, err := trainer.Train(ctx, trainSet, valSet)
	if err != nil {
		return err
	}

	models, err := registry.Open(input.RegistryFile)
	if err != nil {
		return err
	}

	versionID := registry.VersionID(uuid.NewString())
	checkpointPath := ""
	if len(epochs) > 0 {
		checkpointPath = fmt.Sprintf("%s/epoch-%d.json", input.ModelDir, epochs[len(epochs)-1].Index)
	}
	v, err := models.Register(ctx, versionID, registry.VersionID(input.ParentVersion), epochs, checkpointPath)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
