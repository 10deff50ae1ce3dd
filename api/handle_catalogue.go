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

	"github.com/civitas-sh/civitas/catalogue"
	"github.com/civitas-sh/civitas/catsync"
	"github.com/civitas-sh/civitas/catversion"
)

func (api *HTTPAPI) handleListCatalogueVersions(w http.ResponseWriter, r *http.Request) {
	history, err := api.app.Catalogue.History()
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusFailedDependency, "Catalogue Unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, history)
}

type saveCatalogueRequest struct {
	Rules    []catalogue.Rule  `json:"rules"`
	Mappings map[string]string `json:"mappings"`
	Note     string            `json:"note"`
}

func (api *HTTPAPI) handleSaveCatalogueVersion(w http.ResponseWriter, r *http.Request) {
	var req saveCatalogueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	cat := catalogue.New()
	for _, rule := range req.Rules {
		if err := rule.Validate(); err != nil {
			api.writeErrorResponse(w, r, http.StatusUnprocessableEntity, "Invalid Rule", err.Error())
			return
		}
		cat.Put(rule)
	}

	result := catsync.Sync(cat, req.Mappings)

	id, err := api.app.Catalogue.Save(r.Context(), cat, req.Mappings, req.Note)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusInsufficientStorage, "Catalogue Write Failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"version_id": id,
		"sync":       result,
	})
}

func (api *HTTPAPI) handleGetCatalogueVersion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	loaded, err := api.app.Catalogue.Load(r.Context(), id)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusNotFound, "Catalogue Version Not Found", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, loaded)
}

func (api *HTTPAPI) handleRollbackCatalogue(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := api.app.Catalogue.Rollback(r.Context(), id); err != nil {
		api.writeErrorResponse(w, r, http.StatusNotFound, "Rollback Failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"current_version": id})
}

func (api *HTTPAPI) handleCompareCatalogue(w http.ResponseWriter, r *http.Request) {
	a := r.URL.Query().Get("a")
	b := r.URL.Query().Get("b")
	if a == "" || b == "" {
		api.writeErrorResponse(w, r, http.StatusBadRequest, "Missing Parameters", "both a and b query parameters are required")
		return
	}

	va, err := api.app.Catalogue.Load(r.Context(), a)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusNotFound, "Catalogue Version Not Found", err.Error())
		return
	}
	vb, err := api.app.Catalogue.Load(r.Context(), b)
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusNotFound, "Catalogue Version Not Found", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, diffCatalogues(va, vb))
}

func diffCatalogues(a, b *catversion.LoadedVersion) map[string]any {
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

func (api *HTTPAPI) handleSyncCatalogue(w http.ResponseWriter, r *http.Request) {
	loaded, err := api.app.Catalogue.Current(r.Context())
	if err != nil {
		api.writeErrorResponse(w, r, http.StatusFailedDependency, "Catalogue Unavailable", err.Error())
		return
	}
	result := catsync.Sync(loaded.Catalogue, loaded.Mappings)
	writeJSON(w, http.StatusOK, result)
}
