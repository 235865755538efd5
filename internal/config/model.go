// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                              – dotenv values,
//   • `conf/global.yaml`                           – primary static file,
//   • `DOMAINCONF_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client after unmarshalling, so consumers never see
// Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.
package config

import "time"

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

// Database holds the control-plane DSN.  The DSN (or just its password
// segment) may be a `vault:` reference.
type Database struct {
	DSN string `koanf:"dsn" validate:"required"`
}

// Cache tunes the resolution-result cache.  Disabled means every lookup
// is a guaranteed miss and every populate or invalidate is a no-op.
type Cache struct {
	Enabled bool          `koanf:"enabled"`
	TTL     time.Duration `koanf:"ttl"`
}

// Languages fixes the supported-language set and the default code for the
// process lifetime.
type Languages struct {
	Default   string   `koanf:"default"   validate:"required"`
	Supported []string `koanf:"supported" validate:"required,min=1"`
}

// Admin holds the management-API credential.  An empty password disables
// admin authentication (development mode).  May be a `vault:` reference.
type Admin struct {
	Password string `koanf:"password"`
}

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // DOMAINCONF_ROOT or discovered parent
}

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Database  Database  `koanf:"database"`
	Cache     Cache     `koanf:"cache"`
	Languages Languages `koanf:"languages"`
	Admin     Admin     `koanf:"admin"`
	Paths     Paths     `koanf:"-"`
}
