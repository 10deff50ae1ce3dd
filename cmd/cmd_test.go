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
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CmdTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *CmdTestSuite) SetupSuite() {
	s.ctx = context.Background()
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *CmdTestSuite) run(args ...string) error {
	cli := Setup(s.ctx, "test")
	return Execute(s.ctx, cli, append([]string{"civitas"}, args...))
}

func (s *CmdTestSuite) TestCatalogueListVersionsInitializesBaseline() {
	dir := filepath.Join(s.T().TempDir(), "catalogue")
	s.NoError(s.run("catalogue", "list-versions", "--catalogue-dir", dir))

	entries, err := os.ReadDir(dir)
	s.Require().NoError(err)
	s.NotEmpty(entries)
}

func (s *CmdTestSuite) TestCatalogueRejectsUnknownAction() {
	dir := filepath.Join(s.T().TempDir(), "catalogue")
	s.Error(s.run("catalogue", "not-a-real-action", "--catalogue-dir", dir))
}

func (s *CmdTestSuite) TestCatalogueRollbackRequiresVersionFlag() {
	dir := filepath.Join(s.T().TempDir(), "catalogue")
	s.Error(s.run("catalogue", "rollback", "--catalogue-dir", dir))
}

func (s *CmdTestSuite) TestCatalogueSaveRequiresRulesFile() {
	dir := filepath.Join(s.T().TempDir(), "catalogue")
	s.Error(s.run("catalogue", "save", "--catalogue-dir", dir))
}

func (s *CmdTestSuite) TestCatalogueSaveAndCompareRoundTrip() {
	dir := filepath.Join(s.T().TempDir(), "catalogue")
	rulesPath := filepath.Join(s.T().TempDir(), "rules.toml")
	s.Require().NoError(os.WriteFile(rulesPath, []byte(`
[[rules]]
id = "width-min"
target = { class = "IfcDoor" }
condition = { lhs = { kind = "qto", set = "Qto_DoorBaseQuantities", field = "Width" }, op = ">=", rhs = { kind = "literal", literal = 0.8 } }
severity = "error"
`), 0o644))

	s.NoError(s.run("catalogue", "save", "--catalogue-dir", dir, "--rules-file", rulesPath, "--note", "initial"))
	s.NoError(s.run("catalogue", "compare", "--catalogue-dir", dir, "--a", "v0", "--b", "v1"))
}

func (s *CmdTestSuite) writeExtractConfig(dir string) {
	s.Require().NoError(os.WriteFile(filepath.Join(dir, "extraction.toml"), []byte(`
schema_version = "1.0.0"

[[classes]]
class = "IfcDoor"

[[classes.fields]]
field = "Width"
strategy = ["quantity-set"]
set = "Qto_DoorBaseQuantities"
source = "Width"
`), 0o644))
}

func (s *CmdTestSuite) writeEntities(path string) {
	s.Require().NoError(os.WriteFile(path, []byte(`
[
  {"GUID": "door-1", "Class": "IfcDoor", "QuantitySets": {"Qto_DoorBaseQuantities": {"Width": 0.7}}}
]
`), 0o644))
}

func (s *CmdTestSuite) TestExtractProducesGraph() {
	dir := s.T().TempDir()
	s.writeExtractConfig(dir)
	entitiesPath := filepath.Join(dir, "entities.json")
	s.writeEntities(entitiesPath)

	s.NoError(s.run("extract", entitiesPath, "--extract-config-root", dir))
}

func (s *CmdTestSuite) TestExtractMissingConfigErrors() {
	dir := s.T().TempDir()
	entitiesPath := filepath.Join(dir, "entities.json")
	s.writeEntities(entitiesPath)

	s.Error(s.run("extract", entitiesPath, "--extract-config-root", dir))
}

func (s *CmdTestSuite) TestEvaluateAgainstCurrentCatalogueVersion() {
	dir := s.T().TempDir()
	s.writeExtractConfig(dir)
	entitiesPath := filepath.Join(dir, "entities.json")
	s.writeEntities(entitiesPath)

	catDir := filepath.Join(dir, "catalogue")
	rulesPath := filepath.Join(dir, "rules.toml")
	s.Require().NoError(os.WriteFile(rulesPath, []byte(`
[[rules]]
id = "width-min"
target = { class = "IfcDoor" }
condition = { lhs = { kind = "qto", set = "Qto_DoorBaseQuantities", field = "Width" }, op = ">=", rhs = { kind = "literal", literal = 0.8 } }
severity = "error"
`), 0o644))
	s.Require().NoError(s.run("catalogue", "save", "--catalogue-dir", catDir, "--rules-file", rulesPath, "--note", "initial"))

	s.NoError(s.run("evaluate", entitiesPath, "--extract-config-root", dir, "--catalogue-dir", catDir))
}

func (s *CmdTestSuite) TestSetupReturnsNonNilCLI() {
	cli := Setup(s.ctx, "test")
	s.NotNil(cli)
}

func TestCmdTestSuite(t *testing.T) {
	suite.Run(t, new(CmdTestSuite))
}
