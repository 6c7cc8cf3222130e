// internal/form/store.go
//
// Folio – Forms subsystem: submission persistence.
//
// Context
//   The "store" action writes each accepted submission as one row:
//
//      form_submission (id, form_id, submitted_at, data, ip, user_agent, country)
//
//   `data` holds the sanitized field map as JSON.  The table name may be
//   overridden per action; it is validated against a strict identifier
//   pattern before it reaches the query builder.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// DefaultTable receives submissions when an action names no table.
const DefaultTable = "form_submission"

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// Meta carries request attributes recorded next to a submission.
type Meta struct {
	IP        string
	UserAgent string
	Device    string
	Country   string
}

// Submission is one accepted form post.
type Submission struct {
	ID          string
	FormID      string
	SubmittedAt time.Time
	Data        map[string]string
	Meta        Meta
}

// SubmissionStore persists submissions.
type SubmissionStore interface {
	Save(ctx context.Context, table string, s Submission) error
}

// SQLStore writes submissions through sqlx.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps db.
func NewSQLStore(db *sqlx.DB) *SQLStore { return &SQLStore{db: db} }

// Save inserts s into table (DefaultTable when empty).
func (st *SQLStore) Save(ctx context.Context, table string, s Submission) error {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return fmt.Errorf("store: invalid table name %q", table)
	}

	payload, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("store: encode data: %w", err)
	}

	query, args, err := sq.Insert(table).
		Columns("id", "form_id", "submitted_at", "data", "ip", "user_agent", "country").
		Values(s.ID, s.FormID, s.SubmittedAt, payload, s.Meta.IP, s.Meta.UserAgent, s.Meta.Country).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return fmt.Errorf("store: build insert: %w", err)
	}

	if _, err := st.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store: insert into %s: %w", table, err)
	}
	return nil
}
