// internal/config/model.go
//
// Typed configuration model for Folio.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                    – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `FOLIO_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with `vault:` is resolved through a
// SecretResolver *before* unmarshalling, so the model never stores Vault
// URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"path/filepath"
	"strings"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database is optional.  When DSN is empty the store action is disabled
// and forms that declare it fail to submit.
//
// DSN may carry one `%s` verb; Password (usually a `vault:` reference) is
// substituted there so credentials stay out of YAML.
type Database struct {
	DSN      string `koanf:"dsn"`
	Password string `koanf:"password"`
	MaxOpen  int    `koanf:"max_open" validate:"gte=0"`
	MaxIdle  int    `koanf:"max_idle" validate:"gte=0"`
}

// Enabled reports whether a database is configured.
func (d Database) Enabled() bool { return d.DSN != "" }

// ResolvedDSN returns DSN with Password substituted for the first `%s`.
func (d Database) ResolvedDSN() string {
	return strings.Replace(d.DSN, "%s", d.Password, 1)
}

//
// Forms section
//

// Forms configures definitions and the anti-spam guard.
type Forms struct {
	Dir           string        `koanf:"dir"            validate:"required"`
	SubmitTimeout time.Duration `koanf:"submit_timeout" validate:"gte=0"`
	CSRFKey       string        `koanf:"csrf_key"`
	MinFillTime   time.Duration `koanf:"min_fill_time"  validate:"gte=0"`
	MaxFormAge    time.Duration `koanf:"max_form_age"   validate:"gte=0"`
}

//
// Content section
//

// Content points at gallery and project definitions.
type Content struct {
	GalleriesDir string `koanf:"galleries_dir" validate:"required"`
	ProjectsFile string `koanf:"projects_file" validate:"required"`
}

//
// GeoIP section
//

// GeoIP enables country lookup when DBPath is set.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Webhook section
//

// Webhook tunes outbound webhook calls.
type Webhook struct {
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // FOLIO_ROOT or discovered parent
}

// Abs resolves p against Root unless it is already absolute.
func (p Paths) Abs(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, rel)
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Forms    Forms    `koanf:"forms"`
	Content  Content  `koanf:"content"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Webhook  Webhook  `koanf:"webhook"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
