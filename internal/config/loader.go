// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `conf/.env` file.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `DOMAINCONF_`, where `__` maps to “.”
     (e.g., `DOMAINCONF_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs,
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.  Values written as
`vault:<path>#<key>` are resolved through the Vault client before the
config is published; the client is only constructed when at least one
reference is present, so Vault stays optional.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`, so
    `go run ./cmd/web` works from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/domainconf/internal/vault"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves DOMAINCONF_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to the executable heuristic for
// the production layout.
func rootDir() string {
	if r := os.Getenv("DOMAINCONF_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches the Config.
func Load(ctx context.Context) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: DOMAINCONF_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider("DOMAINCONF_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "DOMAINCONF_")
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, &cfg); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"cache_enabled", cfg.Cache.Enabled,
		"default_language", cfg.Languages.Default,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveSecrets swaps `vault:` references for their secret values.  The
// Vault client is constructed lazily so deployments without Vault never
// touch it.
func resolveSecrets(ctx context.Context, cfg *Config) error {
	refs := []*string{&cfg.Database.DSN, &cfg.Admin.Password}

	var cli *vault.Client
	for _, ref := range refs {
		if !vault.IsReference(*ref) {
			continue
		}
		if cli == nil {
			var err error
			if cli, err = vault.New(); err != nil {
				return err
			}
		}
		val, err := cli.Resolve(ctx, *ref)
		if err != nil {
			return err
		}
		*ref = val
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config { return current.Load() }
