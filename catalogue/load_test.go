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

package catalogue

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LoadTestSuite struct {
	suite.Suite
}

func (s *LoadTestSuite) SetupSuite() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *LoadTestSuite) TestLoadBytesWrappedShape() {
	src := []byte(`
[[rules]]
id = "r1"
name = "Rule One"
severity = "error"
[rules.target]
class = "IfcWall"
[rules.condition]
op = "="
[rules.condition.lhs]
kind = "attribute"
field = "Name"
[rules.condition.rhs]
kind = "literal"
literal = "x"
`)
	rules, skipped := LoadBytes(src)
	s.Empty(skipped)
	s.Len(rules, 1)
	s.Equal("r1", rules[0].ID)
}

func (s *LoadTestSuite) TestLoadBytesKeyedShape() {
	src := []byte(`
[r2]
name = "Rule Two"
severity = "warning"
[r2.target]
class = "IfcDoor"
[r2.condition]
op = ">="
[r2.condition.lhs]
kind = "qto"
set = "Qto_DoorBaseQuantities"
field = "Width"
[r2.condition.rhs]
kind = "literal"
literal = 0.9
`)
	rules, skipped := LoadBytes(src)
	s.Empty(skipped)
	s.Len(rules, 1)
	s.Equal("r2", rules[0].ID)
}

func (s *LoadTestSuite) TestLoadBytesSkipsInvalidRule() {
	src := []byte(`
[[rules]]
id = ""
name = "Missing ID"
severity = "error"
[rules.target]
class = "IfcWall"
[rules.condition]
op = "="
`)
	rules, skipped := LoadBytes(src)
	s.Empty(rules)
	s.Len(skipped, 1)
}

func (s *LoadTestSuite) TestCatalogueOrderPreserved() {
	cat := New()
	cat.Put(Rule{ID: "a", Target: Target{Class: "IfcWall"}, Condition: Condition{Comparator: CmpEQ}})
	cat.Put(Rule{ID: "b", Target: Target{Class: "IfcDoor"}, Condition: Condition{Comparator: CmpEQ}})
	cat.Put(Rule{ID: "c", Target: Target{Class: "IfcSlab"}, Condition: Condition{Comparator: CmpEQ}})

	s.Equal(3, cat.Len())
	rules := cat.Rules()
	s.Equal([]string{"a", "b", "c"}, []string{rules[0].ID, rules[1].ID, rules[2].ID})
}

func (s *LoadTestSuite) TestCatalogueConflictLaterWins() {
	cat := New()
	cat.Put(Rule{ID: "a", Name: "first", Target: Target{Class: "IfcWall"}})
	cat.Put(Rule{ID: "a", Name: "second", Target: Target{Class: "IfcWall"}})

	s.Equal(1, cat.Len())
	s.Equal("second", cat.ByID["a"].Name)
	// insertion order only records the id once
	s.Equal([]string{"a"}, cat.Order)
}

func (s *LoadTestSuite) TestLoadAllMergesMultipleSources() {
	src1 := []byte(`
[[rules]]
id = "a"
severity = "error"
[rules.target]
class = "IfcWall"
[rules.condition]
op = "="
`)
	src2 := []byte(`
[[rules]]
id = "b"
severity = "warning"
[rules.target]
class = "IfcDoor"
[rules.condition]
op = "!="
`)
	cat, skipped := LoadAll([][]byte{src1, src2})
	s.Empty(skipped)
	s.Equal(2, cat.Len())
}

func TestLoadTestSuite(t *testing.T) {
	suite.Run(t, new(LoadTestSuite))
}
