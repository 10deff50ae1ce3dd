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
	"encoding/json"
	"net/http"

	"github.com/civitas-sh/civitas/catversion"
	"github.com/civitas-sh/civitas/dataset"
	"github.com/civitas-sh/civitas/evaluate"
	"github.com/civitas-sh/civitas/extract"
)

// uploadGraphRequest carries a pre-parsed entity stream. Parsing the raw IFC
// file format is an external collaborator's job and out of scope here: this
// endpoint consumes whatever entity-query result that parser already
// produced.
type uploadGraphRequest struct {
	GraphID  string               `json:"graph_id,omitempty"`
	Entities []extract.RawEntity  `json:"entities"`
}

type uploadGraphResponse struct {
	GraphID     string              `json:"graph_id"`
	ElementCount int                `json:"element_count"`
	Diagnostics []extract.Diagnostic `json:"diagnostics,omitempty"`
}

// handleUploadGraph handles POST /graphs: extract + build in one step.
func (api *HTTPAPI) handleUploadGraph(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "graphs.upload")
	defer span.End()

	if api.app.ExtractCfg == nil {
		api.writeErrorResponse(w, r, http.StatusServiceUnavailable, "Extraction Not Configured", "no extraction config loaded on this server")
		return
	}

	var req uploadGraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	ex := extract.New(api.app.ExtractCfg, api.app.Scripts, req.GraphID)
	graph, diags := ex.Extract(ctx, req.GraphID, req.Entities)

	id := api.app.PutGraph(graph)
	writeJSON(w, http.StatusCreated, uploadGraphResponse{
		GraphID:      id,
		ElementCount: graph.Len(),
		Diagnostics:  diags,
	})
}

// handleEvaluateGraph handles POST /graphs/{graph_id}/evaluate?catalogue_version=
func (api *HTTPAPI) handleEvaluateGraph(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "graphs.evaluate")
	defer span.End()

	graphID := r.PathValue("graph_id")
	graph, ok := api.app.Graph(graphID)
	if !ok {
		api.writeErrorResponse(w, r, http.StatusNotFound, "Graph Not Found", "no graph with id "+graphID)
		return
	}

	versionID := r.URL.Query().Get("catalogue_version")
	var (
		loaded *catversion.LoadedVersion
		err    error
	)
	if versionID == "" {
		loaded, err = api.app.Catalogue.Current(ctx)
		if err != nil {
			api.writeErrorResponse(w, r, http.StatusFailedDependency, "Catalogue Unavailable", err.Error())
			return
		}
	} else {
		loaded, err = api.app.Catalogue.Load(ctx, versionID)
		if err != nil {
			api.writeErrorResponse(w, r, http.StatusNotFound, "Catalogue Version Not Found", err.Error())
			return
		}
	}

	verdicts, err := evaluate.Evaluate(ctx, graph, loaded.Catalogue)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusInternalServerError, "Evaluation Failed", err.Error())
		return
	}

	if span.SpanContext().HasTraceID() {
		w.Header().Set("X-Civitas-Trace-Id", span.SpanContext().TraceID().String())
	}
	writeJSON(w, http.StatusOK, verdicts)
}

type addSamplesRequest struct {
	Verdicts []evaluate.Verdict `json:"verdicts"`
}

// handleAddSamples handles POST /graphs/{graph_id}/samples: builds and
// persists one dataset.Sample per verdict given.
func (api *HTTPAPI) handleAddSamples(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graph_id")
	graph, ok := api.app.Graph(graphID)
	if !ok {
		api.writeErrorResponse(w, r, http.StatusNotFound, "Graph Not Found", "no graph with id "+graphID)
		return
	}

	var req addSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	loaded, err := api.app.Catalogue.Current(r.Context())
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusFailedDependency, "Catalogue Unavailable", err.Error())
		return
	}

	builder := dataset.NewBuilder(api.app.Vocab)
	var added int
	var failed []string
	for _, v := range req.Verdicts {
		el, ok := graph.Elements[v.ElementID]
		if !ok {
			failed = append(failed, v.ElementID+"/"+v.RuleID+": element not found")
			continue
		}
		rule, ok := loaded.Catalogue.ByID[v.RuleID]
		if !ok {
			failed = append(failed, v.ElementID+"/"+v.RuleID+": rule not found")
			continue
		}
		sample, err := builder.Build(el, rule, v)
		if err != nil {
			failed = append(failed, v.ElementID+"/"+v.RuleID+": "+err.Error())
			continue
		}
		if err := api.app.Samples.Add(sample); err != nil {
			api.writeErrorResponse(w, r, http.StatusInsufficientStorage, "Sample Write Failed", err.Error())
			return
		}
		added++
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"added":  added,
		"failed": failed,
	})
}
