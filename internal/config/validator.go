// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` after it unmarshals
// and defaults the merged Koanf tree.  Any validation error aborts startup,
// so the binary never runs with malformed configuration.
//
// Beyond the struct tags, one cross-field rule lives here: a database DSN
// carrying a `%s` verb needs a password to fill it.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if strings.Contains(c.Database.DSN, "%s") && c.Database.Password == "" {
		return errors.New("database.password is required when database.dsn contains %s")
	}
	return nil
}
