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
	"strings"

	"github.com/binaek/cling"

	"github.com/civitas-sh/civitas/registry"
)

func addModelsCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("models", modelsCmd).
			WithArgument(cling.NewStringCmdInput("action").
				WithDescription("One of: list, compare, mark-best").
				WithValidator(cling.NewEnumValidator("list", "compare", "mark-best")).
				AsArgument(),
			).
			WithFlag(cling.
				NewStringCmdInput("registry-file").
				WithDefault("./state/models.json").
				WithDescription("Model registry file").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("version").
				WithDefault("").
				WithDescription("Model version id, for 'mark-best'").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("ids").
				WithDefault("").
				WithDescription("Comma-separated version ids, for 'compare'").
				AsFlag(),
			),
	)
}

type modelsCmdArgs struct {
	Action       string `cling-name:"action"`
	RegistryFile string `cling-name:"registry-file"`
	Version      string `cling-name:"version"`
	IDs          string `cling-name:"ids"`
}

func modelsCmd(ctx context.Context, args []string) error {
	input := modelsCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	models, err := registry.Open(input.RegistryFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	switch input.Action {
	case "list":
		return enc.Encode(models.List())

	case "mark-best":
		if input.Version == "" {
			return fmt.Errorf("--version is required for mark-best")
		}
		if err := models.MarkBest(ctx, registry.VersionID(input.Version)); err != nil {
			return err
		}
		return enc.Encode(map[string]string{"best_version": input.Version})

	case "compare":
		out := make(map[string]any)
		for _, id := range strings.Split(input.IDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if v, ok := models.Get(registry.VersionID(id)); ok {
				out[id] = v
			} else {
				out[id] = nil
			}
		}
		return enc.Encode(out)
	}

	return fmt.Errorf("unknown models action %q", input.Action)
}
