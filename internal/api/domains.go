// internal/api/domains.go
//
// Admin CRUD handlers for the domain collection.
package api

import (
	"net/http"
	"strings"

	"github.com/yanizio/domainconf/internal/service"
)

func (a *API) listDomains(w http.ResponseWriter, r *http.Request) {
	activeOnly := strings.EqualFold(r.URL.Query().Get("active_only"), "true")
	rows, err := a.domains.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) createDomain(w http.ResponseWriter, r *http.Request) {
	var in service.DomainCreate
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	rec, err := a.domains.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (a *API) getDomain(w http.ResponseWriter, r *http.Request) {
	id, err := domainID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec, err := a.domains.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) updateDomain(w http.ResponseWriter, r *http.Request) {
	id, err := domainID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var in service.DomainUpdate
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	rec, err := a.domains.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (a *API) deleteDomain(w http.ResponseWriter, r *http.Request) {
	id, err := domainID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := a.domains.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
