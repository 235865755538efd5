// internal/api/configs.go
//
// Admin CRUD handlers for the per-language config collection.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// configInput is the create/update body: a language code (ignored on
// update, where the code comes from the path) and an opaque document.
type configInput struct {
	Language string          `json:"language"`
	Data     json.RawMessage `json:"data"`
}

func (a *API) listConfigs(w http.ResponseWriter, r *http.Request) {
	id, err := domainID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := a.configs.List(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) createConfig(w http.ResponseWriter, r *http.Request) {
	id, err := domainID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in configInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	rec, err := a.configs.Create(r.Context(), id, in.Language, in.Data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) getConfig(w http.ResponseWriter, r *http.Request) {
	id, err := domainID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := a.configs.Get(r.Context(), id, chi.URLParam(r, "language"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) updateConfig(w http.ResponseWriter, r *http.Request) {
	id, err := domainID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in configInput
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	rec, err := a.configs.Update(r.Context(), id, chi.URLParam(r, "language"), in.Data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) deleteConfig(w http.ResponseWriter, r *http.Request) {
	id, err := domainID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.configs.Delete(r.Context(), id, chi.URLParam(r, "language")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
