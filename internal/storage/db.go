package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/influxdata/influxdb/pkg/snowflake"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/groovix/groovix/internal/config"
	"github.com/groovix/groovix/internal/storage/db"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// validateEmail checks the minimal shape of an address: a single @ with a
// non-empty local part and domain. Anything stricter is the mail system's
// problem, not ours.
func validateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// DB is a [Store] backed by a SQLite database.
type DB struct {
	ids     *snowflake.Generator
	db      *sql.DB
	queries queries
}

// NewDB initializes a DB with the given config and logger.
func NewDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, cfg.DBFilepath)
	if err != nil {
		return nil, err
	}
	return &DB{
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:      handle,
		queries: queries{handle},
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// CreateUser satisfies the [Users] interface.
func (d *DB) CreateUser(ctx context.Context, user db.User) (db.User, error) {
	if !validateEmail(user.Email) {
		return user, ErrInvalidEmail
	}
	if user.ID == 0 {
		user.ID = d.ids.Next()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	err := d.queries.insertUser(ctx, user)
	if isUniqueViolation(err) {
		return user, ErrAlreadyExists
	}
	return user, err
}

// ListUsers satisfies the [Users] interface.
func (d *DB) ListUsers(ctx context.Context) ([]db.User, error) {
	return d.queries.listUsers(ctx)
}

// GetUser satisfies the [Users] interface.
func (d *DB) GetUser(ctx context.Context, userID uint64) (db.User, error) {
	user, err := d.queries.getUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	return user, err
}

// GetUserByEmail satisfies the [Users] interface.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (db.User, error) {
	user, err := d.queries.getUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	return user, err
}

// UpdateUser satisfies the [Users] interface.
func (d *DB) UpdateUser(ctx context.Context, params UpdateUserParams) error {
	if params.Email != nil && !validateEmail(*params.Email) {
		return ErrInvalidEmail
	}
	affected, err := d.queries.updateUser(ctx, params)
	switch {
	case isUniqueViolation(err):
		return ErrAlreadyExists
	case err != nil:
		return err
	case affected == 0:
		return ErrNotFound
	default:
		return nil
	}
}

// DeleteUser satisfies the [Users] interface.
func (d *DB) DeleteUser(ctx context.Context, userID uint64) error {
	return d.queries.deleteUser(ctx, userID)
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

var _ Store = (*DB)(nil)
