package calls

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"call-scheduler/pkg/utils"
)

// Dialect captures the few places where Postgres and SQLite disagree.
type Dialect struct {
	Name string

	schema []string
	// numbered placeholders ($1, $2, ...) instead of '?'
	numbered bool
	// timeAsText stores timestamps as RFC3339 text.
	timeAsText bool
}

var (
	Postgres = Dialect{
		Name:     "postgres",
		numbered: true,
		schema: []string{
			`CREATE TABLE IF NOT EXISTS calls (
  id             BIGSERIAL PRIMARY KEY,
  contact_name   TEXT NOT NULL,
  phone_number   TEXT NOT NULL,
  scheduled_time TIMESTAMPTZ NOT NULL,
  call_type      TEXT NOT NULL CHECK (call_type IN ('VOICE_CALL','VIDEO_CALL','EMERGENCY_CALL')),
  priority       INTEGER NOT NULL CHECK (priority BETWEEN 1 AND 10),
  status         TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING','COMPLETED','MISSED')),
  details        TEXT
)`,
			`CREATE INDEX IF NOT EXISTS calls_phone_number_idx ON calls (phone_number)`,
		},
	}

	SQLite = Dialect{
		Name:       "sqlite",
		timeAsText: true,
		schema: []string{
			`CREATE TABLE IF NOT EXISTS calls (
  id             INTEGER PRIMARY KEY AUTOINCREMENT,
  contact_name   TEXT NOT NULL,
  phone_number   TEXT NOT NULL,
  scheduled_time TEXT NOT NULL,
  call_type      TEXT NOT NULL CHECK (call_type IN ('VOICE_CALL','VIDEO_CALL','EMERGENCY_CALL')),
  priority       INTEGER NOT NULL CHECK (priority BETWEEN 1 AND 10),
  status         TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING','COMPLETED','MISSED')),
  details        TEXT
)`,
			`CREATE INDEX IF NOT EXISTS calls_phone_number_idx ON calls (phone_number)`,
		},
	}
)

// rebind rewrites '?' placeholders for dialects with numbered parameters.
func (d Dialect) rebind(q string) string {
	if !d.numbered {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// textTimeLayout is fixed width so text timestamps sort chronologically.
const textTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (d Dialect) timeArg(t time.Time) any {
	if d.timeAsText {
		return t.UTC().Format(textTimeLayout)
	}
	return t.UTC()
}

// SQLRepo implements Repository on database/sql.
type SQLRepo struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLRepo(db *sql.DB, d Dialect) *SQLRepo {
	return &SQLRepo{db: db, dialect: d}
}

func NewPostgresRepo(db *sql.DB) *SQLRepo { return NewSQLRepo(db, Postgres) }

func NewSQLiteRepo(db *sql.DB) *SQLRepo { return NewSQLRepo(db, SQLite) }

// Migrate creates the calls table and its indexes if they do not exist.
func (r *SQLRepo) Migrate(ctx context.Context) error {
	err := utils.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range r.dialect.schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	return storageErr("migrate", err)
}

const callSelectCols = "id, contact_name, phone_number, scheduled_time, call_type, priority, status, details"

func (r *SQLRepo) Create(ctx context.Context, c Call) (int64, error) {
	status := c.Status
	if status == "" {
		status = StatusPending
	}
	var details sql.NullString
	if d := c.Details(); d != "" {
		details = sql.NullString{String: d, Valid: true}
	}

	q := r.dialect.rebind(`
INSERT INTO calls (contact_name, phone_number, scheduled_time, call_type, priority, status, details)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`)
	var id int64
	if err := r.db.QueryRowContext(ctx, q,
		c.ContactName,
		c.PhoneNumber,
		r.dialect.timeArg(c.ScheduledTime),
		string(c.Kind),
		c.Priority,
		string(status),
		details,
	).Scan(&id); err != nil {
		return 0, storageErr("create", err)
	}
	return id, nil
}

func (r *SQLRepo) ListAll(ctx context.Context) ([]Call, error) {
	q := "SELECT " + callSelectCols + " FROM calls ORDER BY scheduled_time ASC, id ASC"
	out, err := r.query(ctx, q)
	return out, storageErr("list", err)
}

func (r *SQLRepo) ListByPhone(ctx context.Context, phone string) ([]Call, error) {
	q := r.dialect.rebind("SELECT " + callSelectCols + " FROM calls WHERE phone_number = ? ORDER BY scheduled_time DESC, id DESC")
	out, err := r.query(ctx, q, phone)
	return out, storageErr("list_by_phone", err)
}

func (r *SQLRepo) SetStatus(ctx context.Context, id int64, status Status) error {
	q := r.dialect.rebind("UPDATE calls SET status = ? WHERE id = ?")
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return storageErr("set_status", err)
	}
	return storageErr("set_status", requireAffected(res, id))
}

func (r *SQLRepo) Delete(ctx context.Context, id int64) error {
	q := r.dialect.rebind("DELETE FROM calls WHERE id = ?")
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return storageErr("delete", err)
	}
	return storageErr("delete", requireAffected(res, id))
}

func (r *SQLRepo) query(ctx context.Context, q string, args ...any) ([]Call, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Call, 0)
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("call %d: %w", id, ErrNotFound)
	}
	return nil
}

// scanCall scans a row selected with callSelectCols.
func scanCall(scanner interface {
	Scan(dest ...any) error
}) (Call, error) {
	var (
		c       Call
		at      any
		kind    string
		status  string
		details sql.NullString
	)
	if err := scanner.Scan(&c.ID, &c.ContactName, &c.PhoneNumber, &at, &kind, &c.Priority, &status, &details); err != nil {
		return Call{}, err
	}
	t, err := parseStoredTime(at)
	if err != nil {
		return Call{}, fmt.Errorf("call %d: %w", c.ID, err)
	}
	c.ScheduledTime = t
	c.Kind = Kind(kind)
	if !c.Kind.Valid() {
		// Unknown kinds load as voice calls.
		c.Kind = KindVoice
	}
	c.Status = Status(status)
	return c.WithDetails(details.String), nil
}

var storedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseStoredTime(v any) (time.Time, error) {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s = t
	case []byte:
		s = string(t)
	case nil:
		return time.Time{}, errors.New("scheduled_time is null")
	default:
		return time.Time{}, fmt.Errorf("unsupported scheduled_time type %T", v)
	}
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable scheduled_time %q", s)
}
