// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `FOLIO_`, where `__` maps to “.”
     (e.g., `FOLIO_HTTP__LISTEN_ADDR → http.listen_addr`).

String leaves of the form `vault:<path>#<key>` are then replaced through
the SecretResolver.  After merging, the tree is unmarshalled into typed
structs, defaulted, validated, enriched with the runtime root path, and
cached in an `atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read, secret resolution.
  • ERROR spans: YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span: final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// EnvPrefix marks environment overrides.
const EnvPrefix = "FOLIO_"

const secretPrefix = "vault:"

var current atomic.Pointer[Config]

// SecretResolver turns a `path#key` reference into its secret value.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves FOLIO_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
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
// caches Config.  secrets may be nil when no `vault:` values are used.
func Load(ctx context.Context, secrets SecretResolver) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: FOLIO_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("config: env: %w", err)
	}

	if err := resolveSecrets(ctx, k, secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	applyDefaults(&cfg)
	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"database", cfg.Database.Enabled(),
		"forms_dir", cfg.Forms.Dir,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// envKey maps FOLIO_FORMS__MIN_FILL_TIME to forms.min_fill_time.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ToLower(strings.ReplaceAll(s, "__", "."))
}

// resolveSecrets swaps every `vault:` string leaf for its secret.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, secrets SecretResolver) error {
	all := k.All()
	keys := make([]string, 0, len(all))
	for key := range all {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		s, ok := all[key].(string)
		if !ok || !strings.HasPrefix(s, secretPrefix) {
			continue
		}
		if secrets == nil {
			return fmt.Errorf("config: %s references a secret but no resolver is configured", key)
		}
		val, err := secrets.Resolve(ctx, strings.TrimPrefix(s, secretPrefix))
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", key, err)
		}
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("config: set %s: %w", key, err)
		}
		zap.S().Debugw("config secret resolved", "key", key)
	}
	return nil
}

func applyDefaults(c *Config) {
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.Database.MaxOpen == 0 {
		c.Database.MaxOpen = 15
	}
	if c.Database.MaxIdle == 0 {
		c.Database.MaxIdle = 5
	}
	if c.Forms.Dir == "" {
		c.Forms.Dir = "conf/forms"
	}
	if c.Forms.SubmitTimeout == 0 {
		c.Forms.SubmitTimeout = 10 * time.Second
	}
	if c.Forms.MinFillTime == 0 {
		c.Forms.MinFillTime = 2 * time.Second
	}
	if c.Forms.MaxFormAge == 0 {
		c.Forms.MaxFormAge = 2 * time.Hour
	}
	if c.Content.GalleriesDir == "" {
		c.Content.GalleriesDir = "content/galleries"
	}
	if c.Content.ProjectsFile == "" {
		c.Content.ProjectsFile = "content/projects.yaml"
	}
	if c.Webhook.Timeout == 0 {
		c.Webhook.Timeout = 15 * time.Second
	}
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the last loaded Config, or nil before the first Load.
func Get() *Config { return current.Load() }

// Reload calls Load again and swaps the cached pointer on success.
func Reload(ctx context.Context, secrets SecretResolver) error {
	_, err := Load(ctx, secrets)
	return err
}
