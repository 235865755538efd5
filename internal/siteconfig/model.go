// internal/siteconfig/model.go
//
// Language-scoped configuration record.
//
// One row per (domain_id, language) pair; `data` is an opaque JSON
// document of language-specific overrides.  The payload content is never
// validated beyond being structured JSON.
package siteconfig

import (
	"encoding/json"
	"time"
)

// Record mirrors one row in the persistent `config` table.
type Record struct {
	ID        uint64          `db:"id"         json:"id"`
	DomainID  uint64          `db:"domain_id"  json:"domain_id"`
	Language  string          `db:"language"   json:"language"`
	Data      json.RawMessage `db:"data"       json:"data"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
