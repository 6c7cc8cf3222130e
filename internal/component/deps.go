// internal/component/deps.go
package component

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/config"
	"github.com/yanizio/folio/internal/message"
)

// Deps exposes process-wide resources to Components during Init.
type Deps struct {
	Config *config.Config
	DB     *sqlx.DB // nil when no database is configured
	Outbox message.Outbox
	Log    *zap.SugaredLogger
}

// Logger returns Log, or the global sugared logger when unset.
func (d Deps) Logger() *zap.SugaredLogger {
	if d.Log != nil {
		return d.Log
	}
	return zap.S()
}
