package storage

import (
	"context"
	"database/sql"

	"github.com/groovix/groovix/internal/storage/db"
)

// queries holds the SQL statements backing [DB]. All statements operate on a
// single users table; see internal/storage/db/migrations for the schema.
type queries struct {
	db *sql.DB
}

const insertUserSQL = `
insert into users (id, email, name, password_hash, active, created_at)
values (?, ?, ?, ?, ?, ?)`

func (q queries) insertUser(ctx context.Context, user db.User) error {
	_, err := q.db.ExecContext(ctx, insertUserSQL,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Active, user.CreatedAt,
	)
	return err
}

const listUsersSQL = `
select id, email, name, password_hash, active, created_at
from users
order by created_at desc, id desc`

func (q queries) listUsers(ctx context.Context) ([]db.User, error) {
	rows, err := q.db.QueryContext(ctx, listUsersSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []db.User
	for rows.Next() {
		var user db.User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Active, &user.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

const getUserSQL = `
select id, email, name, password_hash, active, created_at
from users
where id = ?`

func (q queries) getUser(ctx context.Context, userID uint64) (user db.User, err error) {
	err = q.db.QueryRowContext(ctx, getUserSQL, userID).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Active, &user.CreatedAt,
	)
	return user, err
}

const getUserByEmailSQL = `
select id, email, name, password_hash, active, created_at
from users
where email = ?`

func (q queries) getUserByEmail(ctx context.Context, email string) (user db.User, err error) {
	err = q.db.QueryRowContext(ctx, getUserByEmailSQL, email).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.Active, &user.CreatedAt,
	)
	return user, err
}

const updateUserSQL = `
update users
set email = coalesce(?, email),
    name = coalesce(?, name),
    active = coalesce(?, active)
where id = ?`

func (q queries) updateUser(ctx context.Context, params UpdateUserParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateUserSQL,
		params.Email, params.Name, params.Active, params.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteUserSQL = `delete from users where id = ?`

func (q queries) deleteUser(ctx context.Context, userID uint64) error {
	_, err := q.db.ExecContext(ctx, deleteUserSQL, userID)
	return err
}
