// Package credentials persists the authenticated session (bearer token and
// user record) in the local database so it survives restarts.
//
// The token and user live under two fixed keys and are always written and
// removed together in one transaction. Strict reads (Load) report a store
// holding only one of them as ErrCorruptSession; the lenient LoadUser never
// fails and logs instead.
package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/flock/internal/dbx"
	"github.com/dmitrijs2005/flock/internal/logging"
)

const (
	tokenKey = "token"
	userKey  = "user"
)

var (
	// ErrIncompleteSession is returned by Save for a session missing its
	// token or user.
	ErrIncompleteSession = errors.New("session must have both token and user")

	// ErrCorruptSession is returned by Load when the persisted entries
	// cannot form a session.
	ErrCorruptSession = errors.New("persisted session is corrupt")
)

// StorageError wraps a failed read or write of the local database.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("credential store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is the SQLite-backed credential store.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger.With("module", "credentials")}
}

func (s *Store) repo(tx dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(tx)
}

// Save persists both halves of session atomically.
func (s *Store) Save(ctx context.Context, session *models.Session) error {
	if !session.Complete() {
		return ErrIncompleteSession
	}

	user, err := json.Marshal(session.User)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, tokenKey, []byte(session.Token)); err != nil {
			return err
		}
		return r.Set(ctx, userKey, user)
	})
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// Load returns the persisted session, or (nil, nil) if there is none.
func (s *Store) Load(ctx context.Context) (*models.Session, error) {
	r := s.repo(s.db)

	token, err := r.Get(ctx, tokenKey)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	rawUser, err := r.Get(ctx, userKey)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}

	switch {
	case len(token) == 0 && len(rawUser) == 0:
		return nil, nil
	case len(token) == 0 || len(rawUser) == 0:
		return nil, ErrCorruptSession
	}

	var user models.User
	if err := json.Unmarshal(rawUser, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSession, err)
	}

	return &models.Session{Token: string(token), User: &user}, nil
}

// LoadUser returns the persisted user record. Absent, corrupt, and
// unreadable data all yield (nil, false); failures are logged.
func (s *Store) LoadUser(ctx context.Context) (*models.User, bool) {
	raw, err := s.repo(s.db).Get(ctx, userKey)
	if err != nil {
		s.logger.Warn(ctx, "failed to read persisted user", "error", err)
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		s.logger.Warn(ctx, "persisted user is not valid JSON", "error", err)
		return nil, false
	}
	return &user, true
}

// Token returns the persisted token, or "" if none.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.repo(s.db).Get(ctx, tokenKey)
	if err != nil {
		return "", &StorageError{Op: "token", Err: err}
	}
	return string(token), nil
}

// Clear removes both entries. Clearing an empty store succeeds.
func (s *Store) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Delete(ctx, tokenKey, userKey)
	})
	if err != nil {
		return &StorageError{Op: "clear", Err: err}
	}
	return nil
}
