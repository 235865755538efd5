// internal/vault/vault.go
//
// Minimal HashiCorp Vault KV-v2 reader.
//
// Context
// -------
// The config loader resolves values written as `vault:<path>#<key>` (for
// example the database password or the admin password) through this
// client at startup.  Only the KV read path is needed; token lifecycle
// management beyond the initial token is out of scope for a process that
// reads its secrets once at boot.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – token to use (falls back to ~/.vault-token).
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
)

// Client is safe for concurrent use.  Construct once at startup.  The zero
// value is invalid.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client from the environment.
func New() (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}

	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	return &Client{
		api:   apiCli,
		cache: make(map[string]cached),
	}, nil
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result
// is cached for that duration.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}

	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}

	return sval, nil
}

// Resolve maps a `vault:<path>#<key>` reference to its secret value.
// Plain values pass through untouched.
func (c *Client) Resolve(ctx context.Context, value string) (string, error) {
	const prefix = "vault:"
	if !strings.HasPrefix(value, prefix) {
		return value, nil
	}
	ref := strings.TrimPrefix(value, prefix)
	path, key, ok := strings.Cut(ref, "#")
	if !ok {
		return "", fmt.Errorf("malformed vault reference %q (want vault:<path>#<key>)", value)
	}
	return c.GetKV(ctx, path, key, 0)
}

// IsReference reports whether value names a Vault secret.
func IsReference(value string) bool {
	return strings.HasPrefix(value, "vault:")
}

func splitMount(p string) (mount, rel string) {
	if p == "" {
		return "", ""
	}
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
