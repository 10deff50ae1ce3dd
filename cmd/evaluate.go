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
	"os"

	"github.com/binaek/cling"

	"github.com/civitas-sh/civitas/catversion"
	"github.com/civitas-sh/civitas/constants"
	"github.com/civitas-sh/civitas/evaluate"
	"github.com/civitas-sh/civitas/extract"
	"github.com/civitas-sh/civitas/extractconfig"
	"github.com/civitas-sh/civitas/scripting"
)

func addEvaluateCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("evaluate", evaluateCmd).
			WithArgument(cling.NewStringCmdInput("entities-file").
				WithDescription("JSON file holding an array of raw extracted entities").
				AsArgument(),
			).
			WithFlag(cling.
				NewStringCmdInput("extract-config-root").
				WithDefault(".").
				WithDescription("Directory to locate extraction.toml in (searched upward)").
				AsFlag().
				FromEnv([]string{constants.EnvExtractRoot}),
			).
			WithFlag(cling.
				NewStringCmdInput("catalogue-dir").
				WithDefault("./state/catalogue").
				WithDescription("Catalogue version store directory").
				AsFlag().
				FromEnv([]string{constants.EnvCatalogueDir}),
			).
			WithFlag(cling.
				NewStringCmdInput("catalogue-version").
				WithDefault("").
				WithDescription("Catalogue version to evaluate against (defaults to the current version)").
				AsFlag(),
			),
	)
}

type evaluateCmdArgs struct {
	EntitiesFile      string `cling-name:"entities-file"`
	ExtractConfigRoot string `cling-name:"extract-config-root"`
	CatalogueDir      string `cling-name:"catalogue-dir"`
	CatalogueVersion  string `cling-name:"catalogue-version"`
}

func evaluateCmd(ctx context.Context, args []string) error {
	input := evaluateCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	cfg, err := extractconfig.Load(ctx, input.ExtractConfigRoot)
	if err != nil {
		return err
	}

	entities, err := loadEntities(input.EntitiesFile)
	if err != nil {
		return err
	}

	scripts, err := scripting.NewPool(4)
	if err != nil {
		return err
	}
	defer scripts.Close()

	ex := extract.New(cfg, scripts, input.EntitiesFile)
	graph, _ := ex.Extract(ctx, "", entities)

	store := catversion.NewStore(input.CatalogueDir)
	var loaded *catversion.LoadedVersion
	if input.CatalogueVersion == "" {
		loaded, err = store.Current(ctx)
	} else {
		loaded, err = store.Load(ctx, input.CatalogueVersion)
	}
	if err != nil {
		return err
	}

	verdicts, err := evaluate.Evaluate(ctx, graph, loaded.Catalogue)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(verdicts)
}
