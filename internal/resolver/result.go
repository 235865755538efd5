// internal/resolver/result.go
//
// The Result contract returned to query clients.
//
// Field names and presence are a stable wire contract: the default-query
// variant carries `requested_language: null` and the literal language
// value "default".  A Result never leaks domains or languages that were
// probed but not used.
package resolver

import "encoding/json"

// DefaultLanguageValue is the `language` field value for default-query
// results.
const DefaultLanguageValue = "default"

// Result is the ephemeral unit of resolution, cached per (domain, variant)
// and returned to callers verbatim.
type Result struct {
	Domain            string          `json:"domain"`
	ActualDomain      string          `json:"actual_domain"`
	Language          string          `json:"language"`
	RequestedLanguage *string         `json:"requested_language"`
	IsFallback        bool            `json:"is_fallback"`
	IsDomainFallback  bool            `json:"is_domain_fallback"`
	Data              json.RawMessage `json:"data"`
}
