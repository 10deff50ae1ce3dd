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
	"github.com/pelletier/go-toml/v2"

	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/catsync"
	"github.com/civitas-sh/civitas/catversion"
	"github.com/civitas-sh/civitas/constants"
)

func addCatalogueCmd(cli *cling.CLI) {
	cli.WithCommand(
		cling.NewCommand("catalogue", catalogueCmd).
			WithArgument(cling.NewStringCmdInput("action").
				WithDescription("One of: list-versions, save, rollback, compare, sync").
				WithValidator(cling.NewEnumValidator("list-versions", "save", "rollback", "compare", "sync")).
				AsArgument(),
			).
			WithFlag(cling.
				NewStringCmdInput("catalogue-dir").
				WithDefault("./state/catalogue").
				WithDescription("Catalogue version store directory").
				AsFlag().
				FromEnv([]string{constants.EnvCatalogueDir}),
			).
			WithFlag(cling.
				NewStringCmdInput("rules-file").
				WithDefault("").
				WithDescription("TOML file holding the rule list, for 'save'").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("mappings-file").
				WithDefault("").
				WithDescription("TOML file mapping rule id to explanation template id, for 'save'").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("note").
				WithDefault("").
				WithDescription("Note to attach to a saved version").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("version").
				WithDefault("").
				WithDescription("Version id, for 'rollback'").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("a").
				WithDefault("").
				WithDescription("First version id, for 'compare'").
				AsFlag(),
			).
			WithFlag(cling.
				NewStringCmdInput("b").
				WithDefault("").
				WithDescription("Second version id, for 'compare'").
				AsFlag(),
			),
	)
}

type catalogueCmdArgs struct {
	Action       string `cling-name:"action"`
	CatalogueDir string `cling-name:"catalogue-dir"`
	RulesFile    string `cling-name:"rules-file"`
	MappingsFile string `cling-name:"mappings-file"`
	Note         string `cling-name:"note"`
	Version      string `cling-name:"version"`
	A            string `cling-name:"a"`
	B            string `cling-name:"b"`
}

func catalogueCmd(ctx context.Context, args []string) error {
	input := catalogueCmdArgs{}
	if err := cling.Hydrate(ctx, args, &input); err != nil {
		return err
	}

	store := catversion.NewStore(input.CatalogueDir)
	if err := store.Init(ctx, catalogue.New(), map[string]string{}); err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	switch input.Action {
	case "list-versions":
		history, err := store.History()
		if err != nil {
			return err
		}
		return enc.Encode(history)

	case "save":
		return catalogueSave(ctx, store, input, enc)

	case "rollback":
		if input.Version == "" {
			return fmt.Errorf("--version is required for rollback")
		}
		if err := store.Rollback(ctx, input.Version); err != nil {
			return err
		}
		return enc.Encode(map[string]string{"current_version": input.Version})

	case "compare":
		if input.A == "" || input.B == "" {
			return fmt.Errorf("--a and --b are required for compare")
		}
		va, err := store.Load(ctx, input.A)
		if err != nil {
			return err
		}
		vb, err := store.Load(ctx, input.B)
		if err != nil {
			return err
		}
		return enc.Encode(diffCatalogueVersions(va, vb))

	case "sync":
		loaded, err := store.Current(ctx)
		if err != nil {
			return err
		}
		return enc.Encode(catsync.Sync(loaded.Catalogue, loaded.Mappings))
	}

	return fmt.Errorf("unknown catalogue action %q", input.Action)
}

func catalogueSave(ctx context.Context, store *catversion.Store, input catalogueCmdArgs, enc *json.Encoder) error {
	if input.RulesFile == "" {
		return fmt.Errorf("--rules-file is required for save")
	}

	rb, err := os.ReadFile(input.RulesFile)
	if err != nil {
		return err
	}
	cat, skipped := catalogue.LoadAll([][]byte{rb})
	if len(skipped) > 0 {
		return fmt.Errorf("rules file has %d invalid rule(s): %v", len(skipped), skipped[0])
	}

	mappings := map[string]string{}
	if input.MappingsFile != "" {
		mb, err := os.ReadFile(input.MappingsFile)
		if err != nil {
			return err
		}
		if err := toml.Unmarshal(mb, &mappings); err != nil {
			return err
		}
	}

	result := catsync.Sync(cat, mappings)

	id, err := store.Save(ctx, cat, mappings, input.Note)
	if err != nil {
		return err
	}

	return enc.Encode(map[string]any{
		"version_id": id,
		"sync":       result,
	})
}

func diffCatalogueVersions(a, b *catversion.LoadedVersion) map[string]any {
	added := []string{}
	removed := []string{}
	changed := []string{}

	for id, rule := range b.Catalogue.ByID {
		if old, ok := a.Catalogue.ByID[id]; !ok {
			added = append(added, id)
		} else if old.ShortTemplate != rule.ShortTemplate || old.OnPassTemplate != rule.OnPassTemplate ||
			old.OnFailTemplate != rule.OnFailTemplate || old.Severity != rule.Severity {
			changed = append(changed, id)
		}
	}
	for id := range a.Catalogue.ByID {
		if _, ok := b.Catalogue.ByID[id]; !ok {
			removed = append(removed, id)
		}
	}

	return map[string]any{
		"added":   added,
		"removed": removed,
		"changed": changed,
	}
}
