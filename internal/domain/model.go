// internal/domain/model.go
//
// Domain record model and name admission.
//
// Context
// -------
// A Domain is the tenant key (typically a hostname) under which site
// configuration is organized.  Each row may carry a language-agnostic
// `default_config` JSON document and an optional one-hop fallback pointer
// to another Domain.  The fallback relation must stay acyclic; the walk
// that enforces this lives in the service layer, before any write.
//
// Notes
// -----
// • `parseTime=true` must be set on the MySQL DSN so the timestamp columns
//   scan into time.Time.
// • Oxford commas, two spaces after periods.
package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/yanizio/domainconf/internal/errs"
)

// MaxNameLen caps the normalized domain name length.
const MaxNameLen = 255

// Record mirrors one row in the persistent `domain` table.
type Record struct {
	ID               uint64          `db:"id"                 json:"id"`
	Name             string          `db:"name"               json:"name"`
	Description      string          `db:"description"        json:"description"`
	IsActive         bool            `db:"is_active"          json:"is_active"`
	DefaultConfig    json.RawMessage `db:"default_config"     json:"default_config,omitempty"`
	FallbackDomainID *uint64         `db:"fallback_domain_id" json:"fallback_domain_id"`
	CreatedAt        time.Time       `db:"created_at"         json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"         json:"updated_at"`
}

// HasDefaultConfig reports whether the record carries a non-empty
// default_config document.  A NULL column, an empty string, and a bare
// "{}" all count as empty.
func (r *Record) HasDefaultConfig() bool {
	return !emptyDocument(r.DefaultConfig)
}

func emptyDocument(doc json.RawMessage) bool {
	s := strings.TrimSpace(string(doc))
	return s == "" || s == "{}" || s == "null"
}

// NormalizeName trims and lower-cases a candidate domain name.  Empty or
// over-long names fail with a ValidationError.
func NormalizeName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", errs.Validationf("domain name must not be empty")
	}
	if len(name) > MaxNameLen {
		return "", errs.Validationf("domain name exceeds %d characters", MaxNameLen)
	}
	return name, nil
}
