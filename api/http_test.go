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

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/catversion"
	"github.com/civitas-sh/civitas/dataset"
	"github.com/civitas-sh/civitas/extractconfig"
	"github.com/civitas-sh/civitas/registry"
)

type HTTPTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *HTTPTestSuite) SetupSuite() {
	s.ctx = context.Background()
	slog.SetDefault(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func (s *HTTPTestSuite) newServer() (*httptest.Server, *App) {
	dir := s.T().TempDir()

	catStore := catversion.NewStore(filepath.Join(dir, "catalogue"))
	cat := catalogue.New()
	cat.Put(catalogue.Rule{
		ID:     "width-min",
		Target: catalogue.Target{Class: "IfcDoor"},
		Condition: catalogue.Condition{
			LHS:        catalogue.ValueSource{Kind: catalogue.SourceQTO, Set: "Qto_DoorBaseQuantities", Field: "Width"},
			Comparator: catalogue.CmpGE,
			RHS:        catalogue.ValueSource{Kind: catalogue.SourceLiteral, Literal: 0.8},
		},
		Severity: catalogue.SeverityError,
	})
	s.Require().NoError(catStore.Init(s.ctx, cat, map[string]string{"width-min": "tpl-1"}))

	samples, err := dataset.OpenStore(filepath.Join(dir, "samples.jsonl"))
	s.Require().NoError(err)
	vocab := dataset.NewVocab()
	models := registry.New(filepath.Join(dir, "models.json"))

	extractCfg := &extractconfig.Config{
		Classes: []extractconfig.ClassSpec{
			{Class: "IfcDoor", Fields: []extractconfig.FieldSpec{
				{Field: "Width", Strategies: []extractconfig.Strategy{extractconfig.StrategyQuantitySet}, Set: "Qto_DoorBaseQuantities", Source: "Width"},
			}},
		},
	}

	app := NewApp(catStore, samples, vocab, models, extractCfg, nil)
	api := NewHTTPAPI(app)

	mux := http.NewServeMux()
	mux.Handle("POST /graphs", http.HandlerFunc(api.handleUploadGraph))
	mux.Handle("POST /graphs/{graph_id}/evaluate", http.HandlerFunc(api.handleEvaluateGraph))
	mux.Handle("POST /graphs/{graph_id}/samples", http.HandlerFunc(api.handleAddSamples))
	mux.Handle("GET /catalogue/versions", http.HandlerFunc(api.handleListCatalogueVersions))
	mux.Handle("POST /catalogue/versions", http.HandlerFunc(api.handleSaveCatalogueVersion))
	mux.Handle("GET /catalogue/versions/{id}", http.HandlerFunc(api.handleGetCatalogueVersion))
	mux.Handle("POST /catalogue/rollback/{id}", http.HandlerFunc(api.handleRollbackCatalogue))
	mux.Handle("GET /catalogue/compare", http.HandlerFunc(api.handleCompareCatalogue))
	mux.Handle("POST /catalogue/sync", http.HandlerFunc(api.handleSyncCatalogue))
	mux.Handle("GET /models/versions", http.HandlerFunc(api.handleListModelVersions))
	mux.Handle("POST /models/versions/{id}/mark-best", http.HandlerFunc(api.handleMarkBest))
	mux.Handle("GET /models/compare", http.HandlerFunc(api.handleCompareModels))
	mux.Handle("GET /health", http.HandlerFunc(api.handleHealth))

	return httptest.NewServer(mux), app
}

func (s *HTTPTestSuite) postJSON(srv *httptest.Server, path string, body any) *http.Response {
	b, err := json.Marshal(body)
	s.Require().NoError(err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(b))
	s.Require().NoError(err)
	return resp
}

func (s *HTTPTestSuite) TestHealth() {
	srv, _ := s.newServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *HTTPTestSuite) TestUploadGraphAndEvaluate() {
	srv, _ := s.newServer()
	defer srv.Close()

	uploadResp := s.postJSON(srv, "/graphs", map[string]any{
		"entities": []map[string]any{
			{
				"GUID":  "door-1",
				"Class": "IfcDoor",
				"QuantitySets": map[string]any{
					"Qto_DoorBaseQuantities": map[string]any{"Width": 0.7},
				},
			},
		},
	})
	defer uploadResp.Body.Close()
	s.Equal(http.StatusCreated, uploadResp.StatusCode)

	var uploaded uploadGraphResponse
	s.Require().NoError(json.NewDecoder(uploadResp.Body).Decode(&uploaded))
	s.Equal(1, uploaded.ElementCount)

	evalResp, err := http.Post(srv.URL+"/graphs/"+uploaded.GraphID+"/evaluate", "application/json", nil)
	s.Require().NoError(err)
	defer evalResp.Body.Close()
	s.Equal(http.StatusOK, evalResp.StatusCode)

	var verdicts []map[string]any
	s.Require().NoError(json.NewDecoder(evalResp.Body).Decode(&verdicts))
	s.Len(verdicts, 1)
	s.Equal("false", verdicts[0]["Status"])
}

func (s *HTTPTestSuite) TestEvaluateUnknownGraphReturnsNotFound() {
	srv, _ := s.newServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/graphs/missing/evaluate", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HTTPTestSuite) TestCatalogueVersionsListAndGet() {
	srv, _ := s.newServer()
	defer srv.Close()

	listResp, err := http.Get(srv.URL + "/catalogue/versions")
	s.Require().NoError(err)
	defer listResp.Body.Close()
	s.Equal(http.StatusOK, listResp.StatusCode)

	getResp, err := http.Get(srv.URL + "/catalogue/versions/v0")
	s.Require().NoError(err)
	defer getResp.Body.Close()
	s.Equal(http.StatusOK, getResp.StatusCode)
}

func (s *HTTPTestSuite) TestCatalogueVersionNotFound() {
	srv, _ := s.newServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/catalogue/versions/does-not-exist")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HTTPTestSuite) TestModelVersionsEmptyList() {
	srv, _ := s.newServer()
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/models/versions")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var versions []map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&versions))
	s.Empty(versions)
}

func (s *HTTPTestSuite) TestMarkBestUnknownVersionReturnsNotFound() {
	srv, _ := s.newServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/models/versions/missing/mark-best", "application/json", nil)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func TestHTTPTestSuite(t *testing.T) {
	suite.Run(t, new(HTTPTestSuite))
}
