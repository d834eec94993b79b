package repository

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"weathermon-server/internal/modules/session/types"
)

//go:embed sql/upsert-session.sql
var upsertSessionSQL string

//go:embed sql/get-session.sql
var getSessionSQL string

//go:embed sql/delete-expired.sql
var deleteExpiredSQL string

// SessionRepository stores ephemeral dashboard state blobs with a sliding TTL:
// every Save pushes the expiry forward by the configured TTL.
type SessionRepository interface {
	// Save writes or overwrites the state for a session id. A session holds
	// exactly one row; saving never accumulates history.
	Save(sessionID string, state []byte) error
	// Load returns the stored session, or nil when the id is unknown or the
	// session has expired. Expired rows are indistinguishable from absent ones.
	Load(sessionID string) (*types.Session, error)
	// Cleanup deletes all expired rows and reports how many were removed.
	Cleanup() (int, error)
}

type repositoryImpl struct {
	db  *sql.DB
	ttl time.Duration

	// now is swapped in tests to exercise expiry without sleeping.
	now func() time.Time
}

func NewRepository(db *sql.DB, ttl time.Duration) SessionRepository {
	return &repositoryImpl{db: db, ttl: ttl, now: time.Now}
}

const tsFormat = time.RFC3339

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(types.ErrStorageUnavailable, err))
}

func (r *repositoryImpl) Save(sessionID string, state []byte) error {
	if sessionID == "" {
		return fmt.Errorf("save session: empty session id")
	}

	now := r.now().UTC().Truncate(time.Second)
	_, err := r.db.Exec(upsertSessionSQL,
		sessionID,
		state,
		now.Format(tsFormat),
		now.Format(tsFormat),
		now.Add(r.ttl).Format(tsFormat),
	)
	if err != nil {
		return storageErr("save session", err)
	}
	return nil
}

func (r *repositoryImpl) Load(sessionID string) (*types.Session, error) {
	now := r.now().UTC().Truncate(time.Second)
	row := r.db.QueryRow(getSessionSQL, sessionID, now.Format(tsFormat))

	var s types.Session
	var createdAt, updatedAt, expiresAt string
	err := row.Scan(&s.ID, &s.State, &createdAt, &updatedAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("load session", err)
	}

	if s.CreatedAt, err = parseTS(createdAt); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = parseTS(updatedAt); err != nil {
		return nil, err
	}
	if s.ExpiresAt, err = parseTS(expiresAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repositoryImpl) Cleanup() (int, error) {
	now := r.now().UTC().Truncate(time.Second)
	res, err := r.db.Exec(deleteExpiredSQL, now.Format(tsFormat))
	if err != nil {
		return 0, storageErr("cleanup sessions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr("cleanup sessions: rows affected", err)
	}
	return int(n), nil
}

func parseTS(s string) (time.Time, error) {
	t, err := time.Parse(tsFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
