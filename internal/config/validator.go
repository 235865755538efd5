// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing configuration.
//
// Beyond the tag rules, one cross-field invariant is enforced here: the
// default language code must be a member of the supported set, because
// the resolution engine substitutes it for blank input unconditionally.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var v = validator.New()

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if !contains(c.Languages.Supported, c.Languages.Default) {
		return fmt.Errorf("languages.default %q is not in languages.supported", c.Languages.Default)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		c.Cache.TTL = time.Hour
	}
	return nil
}

func contains(set []string, s string) bool {
	for _, m := range set {
		if m == s {
			return true
		}
	}
	return false
}
