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

package graphbuild

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/civitas-sh/civitas/ifcmodel"
)

type BuildTestSuite struct {
	suite.Suite
}

func (s *BuildTestSuite) SetupSuite() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *BuildTestSuite) TestAddGraphMergesElementsPreservingOrder() {
	b := NewBuilder("g1")

	g1 := ifcmodel.NewGraph("src1")
	g1.SourceFile = "model-a.ifc"
	g1.Add(&ifcmodel.Element{ID: "e1", Class: "IfcWall"})
	g1.Add(&ifcmodel.Element{ID: "e2", Class: "IfcWall"})

	g2 := ifcmodel.NewGraph("src2")
	g2.Add(&ifcmodel.Element{ID: "e3", Class: "IfcWall"})

	b.AddGraph(g1)
	b.AddGraph(g2)

	built := b.Build(time.Unix(0, 0))
	ids := built.ByClass["IfcWall"]
	s.Equal([]string{"e1", "e2", "e3"}, ids)
	s.Equal("model-a.ifc", built.SourceFile)
}

func (s *BuildTestSuite) TestBuildResolvesContainment() {
	b := NewBuilder("g1")
	g := ifcmodel.NewGraph("src1")
	g.Add(&ifcmodel.Element{ID: "e1", Class: "IfcDoor"})
	b.AddGraph(g)

	b.AddContainment(Containment{ElementID: "e1", StoreyID: "storey-1", BuildingID: "building-1"})

	built := b.Build(time.Unix(0, 0))
	el := built.Elements["e1"]
	s.Equal("storey-1", el.StoreyID)
	s.Equal("building-1", el.BuildingID)
}

func (s *BuildTestSuite) TestBuildIgnoresContainmentForUnknownElement() {
	b := NewBuilder("g1")
	b.AddContainment(Containment{ElementID: "ghost", StoreyID: "storey-1"})

	// Should not panic even though the element was never added.
	built := b.Build(time.Unix(0, 0))
	s.Equal(0, built.Len())
}

func (s *BuildTestSuite) TestBuildStampsExtractedAt() {
	b := NewBuilder("g1")
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	built := b.Build(now)
	s.Equal(now, built.ExtractedAt)
}

func TestBuildTestSuite(t *testing.T) {
	suite.Run(t, new(BuildTestSuite))
}
