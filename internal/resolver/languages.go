// internal/resolver/languages.go
//
// Supported-language admission.
//
// The supported set and the default code are process-wide configuration,
// fixed at startup.  Admission trims the input, maps blank to the default,
// and rejects anything outside the set with a ValidationError.
package resolver

import (
	"strings"

	"github.com/yanizio/domainconf/internal/errs"
)

// Languages holds the process-wide language configuration.
type Languages struct {
	Default   string
	Supported []string
}

// IsSupported reports whether code is a member of the supported set.
func (l Languages) IsSupported(code string) bool {
	for _, s := range l.Supported {
		if s == code {
			return true
		}
	}
	return false
}

// Normalize trims the requested code, substitutes the default for blank
// input, and rejects unsupported codes.
func (l Languages) Normalize(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return l.Default, nil
	}
	if !l.IsSupported(code) {
		return "", errs.Validationf("unsupported language %q", code)
	}
	return code, nil
}
