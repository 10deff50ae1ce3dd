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
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/civitas-sh/civitas/dataset"
	"github.com/civitas-sh/civitas/reason"
	"github.com/civitas-sh/civitas/registry"
	"github.com/civitas-sh/civitas/train"
)

type trainRequest struct {
	ParentVersion string       `json:"parent_version,omitempty"`
	Config        *train.Config `json:"config,omitempty"`
	ValSplit      float64      `json:"val_split"`
}

// handleTrainModel handles POST /models/train: trains over every sample
// currently in the dataset store and registers the resulting version.
func (api *HTTPAPI) handleTrainModel(w http.ResponseWriter, r *http.Request) {
	var req trainRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON", err.Error())
			return
		}
	}

	samples := api.app.Samples.Samples()
	if len(samples) == 0 {
		api.writeErrorResponse(w, r, http.StatusUnprocessableEntity, "No Training Data", "dataset store is empty")
		return
	}

	split := req.ValSplit
	if split <= 0 || split >= 1 {
		split = 0.2
	}
	cut := int(float64(len(samples)) * (1 - split))
	if cut <= 0 || cut >= len(samples) {
		cut = len(samples) - 1
	}
	trainSet, valSet := samples[:cut], samples[cut:]

	cfg := train.DefaultConfig(api.app.ModelDir)
	if req.Config != nil {
		cfg = *req.Config
	}

	trainer := train.NewTrainer(cfg, dataset.TotalDims)
	_, epochs, err := trainer.Train(r.Context(), trainSet, valSet)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusInternalServerError, "Training Failed", err.Error())
		return
	}

	versionID := registry.VersionID(uuid.NewString())
	checkpointPath := ""
	if cfg.CheckpointDir != "" && len(epochs) > 0 {
		checkpointPath = fmt.Sprintf("%s/epoch-%d.json", cfg.CheckpointDir, epochs[len(epochs)-1].Index)
	}
	v, err := api.app.Models.Register(r.Context(), versionID, registry.VersionID(req.ParentVersion), epochs, checkpointPath)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusConflict, "Registration Failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

// handlePredict handles POST /models/predict against the registry's
// current best model.
func (api *HTTPAPI) handlePredict(w http.ResponseWriter, r *http.Request) {
	best, ok := api.app.Models.Best()
	if !ok {
		api.writeErrorResponse(w, r, http.StatusNotFound, "No Best Model", "no model version is marked best")
		return
	}

	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}
	if len(req.Features) != dataset.TotalDims {
		api.writeErrorResponse(w, r, http.StatusUnprocessableEntity, "Wrong Feature Dimension", "expected a 320-dim feature vector")
		return
	}

	net, _, err := train.LoadCheckpoint(best.CheckpointPath)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusFailedDependency, "Checkpoint Unavailable", err.Error())
		return
	}

	x := mat.NewVecDense(len(req.Features), req.Features)
	result, err := reason.Reason(context.Background(), net, x, nil)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusInternalServerError, "Inference Failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"model_version": best.ID,
		"prediction":    result.Prediction,
		"confidence":    result.Confidence,
		"steps":         len(result.Steps),
		"trace":         result.Trace,
	})
}

func (api *HTTPAPI) handleListModelVersions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.app.Models.List())
}

func (api *HTTPAPI) handleMarkBest(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := api.app.Models.MarkBest(r.Context(), registry.VersionID(id)); err != nil {
		api.writeErrorResponse(w, r, http.StatusNotFound, "Mark Best Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"best_version": id})
}

func (api *HTTPAPI) handleCompareModels(w http.ResponseWriter, r *http.Request) {
	ids := strings.Split(r.URL.Query().Get("ids"), ",")
	out := make(map[string]any, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if v, ok := api.app.Models.Get(registry.VersionID(id)); ok {
			out[id] = v
		} else {
			out[id] = nil
		}
	}
	writeJSON(w, http.StatusOK, out)
}
