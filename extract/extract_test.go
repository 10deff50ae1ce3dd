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

package extract

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/civitas-sh/civitas/extractconfig"
)

type ExtractTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *ExtractTestSuite) SetupSuite() {
	s.ctx = context.Background()
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *ExtractTestSuite) doorConfig() *extractconfig.Config {
	return &extractconfig.Config{
		Classes: []extractconfig.ClassSpec{
			{
				Class: "IfcDoor",
				Fields: []extractconfig.FieldSpec{
					{Field: "Width", Strategies: []extractconfig.Strategy{extractconfig.StrategyQuantitySet}, Set: "Qto_DoorBaseQuantities", Source: "Width"},
					{Field: "Material", Strategies: []extractconfig.Strategy{extractconfig.StrategyAttribute}, Source: "Material"},
				},
			},
		},
	}
}

func (s *ExtractTestSuite) TestExtractResolvesConfiguredFields() {
	ex := New(s.doorConfig(), nil, "model.ifc")
	entities := []RawEntity{
		{
			GUID:       "guid-1",
			Class:      "IfcDoor",
			Attributes: map[string]any{"Material": "timber"},
			QuantitySets: map[string]map[string]any{
				"Qto_DoorBaseQuantities": {"Width": 0.9},
			},
		},
	}

	graph, diags := ex.Extract(s.ctx, "g1", entities)
	s.Empty(diags)
	s.Equal(1, graph.Len())

	el := graph.Elements["guid-1"]
	s.Require().NotNil(el)
	width, ok := el.Attributes["Width"]
	s.True(ok)
	f, _ := width.AsFloat()
	s.Equal(0.9, f)
}

func (s *ExtractTestSuite) TestExtractSkipsUnknownClassSilently() {
	ex := New(s.doorConfig(), nil, "model.ifc")
	entities := []RawEntity{{GUID: "guid-2", Class: "IfcFurniture"}}

	graph, diags := ex.Extract(s.ctx, "g1", entities)
	s.Empty(diags)
	s.Equal(0, graph.Len())
}

func (s *ExtractTestSuite) TestExtractSynthesizesIDWhenGUIDMissing() {
	ex := New(s.doorConfig(), nil, "model.ifc")
	entities := []RawEntity{{Class: "IfcDoor", Attributes: map[string]any{"Material": "steel"}}}

	graph, _ := ex.Extract(s.ctx, "g1", entities)
	s.Equal(1, graph.Len())
	for _, el := range graph.Elements {
		s.True(el.SyntheticID)
		s.NotEmpty(el.ID)
	}
}

func (s *ExtractTestSuite) TestExtractMissingFieldStaysNull() {
	ex := New(s.doorConfig(), nil, "model.ifc")
	entities := []RawEntity{{GUID: "guid-3", Class: "IfcDoor"}}

	graph, diags := ex.Extract(s.ctx, "g1", entities)
	s.Empty(diags)
	el := graph.Elements["guid-3"]
	_, ok := el.Attributes["Width"]
	s.False(ok)
}

func (s *ExtractTestSuite) TestExtractScriptStrategyWithoutPoolRecordsDiagnostic() {
	cfg := &extractconfig.Config{
		Classes: []extractconfig.ClassSpec{
			{
				Class: "IfcDoor",
				Fields: []extractconfig.FieldSpec{
					{Field: "Computed", Strategies: []extractconfig.Strategy{extractconfig.StrategyScript}, Script: "1"},
				},
			},
		},
	}
	ex := New(cfg, nil, "model.ifc")
	entities := []RawEntity{{GUID: "guid-4", Class: "IfcDoor"}}

	_, diags := ex.Extract(s.ctx, "g1", entities)
	s.Len(diags, 1)
	s.Equal("Computed", diags[0].Field)
}

func (s *ExtractTestSuite) TestExtractRecordsConstraintViolationAsDiagnostic() {
	cfg := &extractconfig.Config{
		Classes: []extractconfig.ClassSpec{
			{
				Class: "IfcDoor",
				Fields: []extractconfig.FieldSpec{
					{
						Field:      "Width",
						Strategies: []extractconfig.Strategy{extractconfig.StrategyQuantitySet},
						Set:        "Qto_DoorBaseQuantities",
						Source:     "Width",
						Constraints: []extractconfig.ConstraintSpec{
							{Name: "min", Args: []any{1.0}},
						},
					},
				},
			},
		},
	}
	ex := New(cfg, nil, "model.ifc")
	entities := []RawEntity{
		{
			GUID:  "guid-6",
			Class: "IfcDoor",
			QuantitySets: map[string]map[string]any{
				"Qto_DoorBaseQuantities": {"Width": 0.5},
			},
		},
	}

	graph, diags := ex.Extract(s.ctx, "g1", entities)
	s.Equal(1, graph.Len())
	s.Len(diags, 1)
	s.Equal("Width", diags[0].Field)
}

func (s *ExtractTestSuite) TestExtractStopsOnCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	ex := New(s.doorConfig(), nil, "model.ifc")
	entities := []RawEntity{{GUID: "guid-5", Class: "IfcDoor"}}

	graph, diags := ex.Extract(ctx, "g1", entities)
	s.Equal(0, graph.Len())
	s.Len(diags, 1)
}

func TestExtractTestSuite(t *testing.T) {
	suite.Run(t, new(ExtractTestSuite))
}
