// internal/api/api.go
//
// HTTP surface: router construction, JSON rendering, and error mapping.
//
// Context
// -------
// Two audiences share one chi router:
//
//   - Public read API, never authenticated:
//       GET /api/query/language?domain=&lang=
//       GET /api/query/default?domain=
//       GET /api/health
//   - Admin CRUD under /api/domains, gated by the shared admin password.
//
// Every error leaving a handler is one of the typed failures in
// internal/errs and maps to a fixed status: ValidationError 400,
// NotFoundError 404, DuplicateError 409.  Anything else is a 500 with the
// detail logged, not leaked.  The envelope shape is
// {"error":{"code":"…","message":"…"}}.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/domainconf/internal/errs"
	"github.com/yanizio/domainconf/internal/middleware"
	"github.com/yanizio/domainconf/internal/service"
)

// API bundles the services behind the HTTP surface.
type API struct {
	domains *service.Domains
	configs *service.Configs
	queries *service.Queries

	adminPassword string
}

// New constructs the API.  An empty adminPassword disables admin auth.
func New(domains *service.Domains, configs *service.Configs, queries *service.Queries, adminPassword string) *API {
	return &API{
		domains:       domains,
		configs:       configs,
		queries:       queries,
		adminPassword: adminPassword,
	}
}

// Router builds the chi handler for the whole API.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Security)

	r.Get("/api/health", a.health)
	r.Route("/api/query", func(r chi.Router) {
		r.Get("/language", a.queryLanguage)
		r.Get("/default", a.queryDefault)
	})

	r.Route("/api/domains", func(r chi.Router) {
		r.Use(middleware.AdminAuth(a.adminPassword))

		r.Get("/", a.listDomains)
		r.Post("/", a.createDomain)
		r.Route("/{domainID}", func(r chi.Router) {
			r.Get("/", a.getDomain)
			r.Put("/", a.updateDomain)
			r.Delete("/", a.deleteDomain)

			r.Route("/configs", func(r chi.Router) {
				r.Get("/", a.listConfigs)
				r.Post("/", a.createConfig)
				r.Get("/{language}", a.getConfig)
				r.Put("/{language}", a.updateConfig)
				r.Delete("/{language}", a.deleteConfig)
			})
		})
	})

	return r
}

func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// domainID pulls the {domainID} path parameter.
func domainID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "domainID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.Validationf("invalid domain id %q", raw)
	}
	return id, nil
}

// decode unmarshals a JSON request body into dst.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Validationf("malformed JSON body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("response encode failed", zap.Error(err))
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeError maps a typed failure onto its status code and envelope.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errs.IsValidation(err):
		writeJSON(w, http.StatusBadRequest,
			errorEnvelope{errorBody{Code: "VALIDATION_ERROR", Message: err.Error()}})
	case errs.IsNotFound(err):
		writeJSON(w, http.StatusNotFound,
			errorEnvelope{errorBody{Code: "NOT_FOUND", Message: err.Error()}})
	case errs.IsDuplicate(err):
		writeJSON(w, http.StatusConflict,
			errorEnvelope{errorBody{Code: "DUPLICATE_ENTRY", Message: err.Error()}})
	default:
		zap.L().Error("internal error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError,
			errorEnvelope{errorBody{Code: "INTERNAL_ERROR", Message: "internal server error"}})
	}
}
