// internal/api/query.go
//
// Public query handlers.
//
// The Result JSON shape (domain, actual_domain, language,
// requested_language, is_fallback, is_domain_fallback, data) is a stable
// contract consumed by front-end applications; see internal/resolver.
package api

import (
	"net/http"

	"github.com/yanizio/domainconf/internal/errs"
)

func (a *API) queryLanguage(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		writeError(w, errs.Validationf("missing required parameter: domain"))
		return
	}
	res, err := a.queries.ResolveLanguage(r.Context(), domain, r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (a *API) queryDefault(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		writeError(w, errs.Validationf("missing required parameter: domain"))
		return
	}
	res, err := a.queries.ResolveDefault(r.Context(), domain)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
