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

	"github.com/civitas-sh/civitas/constants"
	"github.com/civitas-sh/civitas/extract"
	"github.com/civitas-sh/civitas/extractconfig"
	"github.com/civitas-sh/civitas/scripting"
)

func addExtractCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("extract", extractCmd).
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
				NewStringCmdInput("graph-id").
				WithDefault("").
				WithDescription("Identifier to assign the resulting graph").
				AsFlag(),
			),
	)
}

type extractCmdArgs struct {
	EntitiesFile      string `cling-name:"entities-file"`
	ExtractConfigRoot string `cling-name:"extract-config-root"`
	GraphID           string `cling-name:"graph-id"`
}

func extractCmd(ctx context.Context, args []string) error {
	input := extractCmdArgs{}
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
	graph, diags := ex.Extract(ctx, input.GraphID, entities)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"graph":       graph,
		"diagnostics": diags,
	})
}

func loadEntities(path string) ([]extract.RawEntity, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entities []extract.RawEntity
	if err := json.Unmarshal(b, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}
