// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/accounts/internal/platform/database/schema"
	"github.com/taibuivan/accounts/internal/platform/dberr"
	"github.com/taibuivan/accounts/internal/platform/postgres"
	"github.com/taibuivan/accounts/internal/platform/sec"
)

// # User Repository

var (
	usersTable = schema.Users

	queryFindByID = fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		usersTable.SelectList(), usersTable.Table, usersTable.ID)

	queryFindByEmail = fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1)`,
		usersTable.SelectList(), usersTable.Table, usersTable.Email)

	queryEmailExists = fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE LOWER(%s) = LOWER($1))`,
		usersTable.Table, usersTable.Email)

	queryInsert = fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		usersTable.Table, usersTable.SelectList())

	queryUpdate = fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9 WHERE %s = $1`,
		usersTable.Table, usersTable.Name, usersTable.Email, usersTable.Password, usersTable.Role,
		usersTable.AvatarPublicID, usersTable.AvatarURL, usersTable.IsSocial, usersTable.UpdatedAt, usersTable.ID)

	queryList = fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC, %s DESC LIMIT $1 OFFSET $2`,
		usersTable.SelectList(), usersTable.Table, usersTable.CreatedAt, usersTable.ID)

	queryCount = fmt.Sprintf(`SELECT COUNT(*) FROM %s`, usersTable.Table)

	queryDelete = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, usersTable.Table, usersTable.ID)
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db  postgres.DB
	now func() time.Time
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db, now: time.Now}
}

/*
Create persists a new user record into the users table.

Description: Timestamps are initialized if not provided. A unique violation on
the email index surfaces as dberr.ErrDuplicate.

Parameters:
  - ctx: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	now := repository.now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	publicID, url := avatarColumns(user.Avatar)

	_, err := repository.db.Exec(ctx, queryInsert,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		publicID,
		url,
		user.IsSocial,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return dberr.Wrap(err, "postgres_user_repo_create_failed")
}

/*
Save persists every mutable column of an existing account.

Parameters:
  - ctx: context.Context
  - user: *User

Returns:
  - error: dberr.ErrNotFound when no row matched, dberr.ErrDuplicate on email collision
*/
func (repository *PostgresUserRepository) Save(ctx context.Context, user *User) error {
	user.UpdatedAt = repository.now().UTC()
	publicID, url := avatarColumns(user.Avatar)

	tag, err := repository.db.Exec(ctx, queryUpdate,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		publicID,
		url,
		user.IsSocial,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_save_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
FindByEmail retrieves a user record by email address.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := scanUser(repository.db.QueryRow(ctx, queryFindByEmail, email))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_email_failed")
	}
	return user, nil
}

/*
FindByID retrieves a user record by primary key.

Parameters:
  - ctx: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	user, err := scanUser(repository.db.QueryRow(ctx, queryFindByID, id))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_id_failed")
	}
	return user, nil
}

// EmailExists reports whether any account uses email.
func (repository *PostgresUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := repository.db.QueryRow(ctx, queryEmailExists, email).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres_user_repo_email_exists_failed")
	}
	return exists, nil
}

/*
List returns one page of accounts ordered by creation time, newest first.

Parameters:
  - ctx: context.Context
  - limit: int
  - offset: int

Returns:
  - []*User: Page of entities (never nil)
  - error: Database errors
*/
func (repository *PostgresUserRepository) List(ctx context.Context, limit, offset int) ([]*User, error) {
	rows, err := repository.db.Query(ctx, queryList, limit, offset)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_list_failed")
	}
	defer rows.Close()

	result := make([]*User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_user_repo_list_scan_failed")
		}
		result = append(result, user)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_user_repo_list_failed")
	}

	return result, nil
}

// Count returns the total number of accounts.
func (repository *PostgresUserRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := repository.db.QueryRow(ctx, queryCount).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "postgres_user_repo_count_failed")
	}
	return total, nil
}

// Delete removes the account permanently.
func (repository *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	tag, err := repository.db.Exec(ctx, queryDelete, id)
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_delete_failed")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Row Mapping

// scanUser hydrates a [User] from a row selected with schema.Users.SelectList.
func scanUser(row pgx.Row) (*User, error) {
	var (
		user     User
		role     string
		publicID *string
		url      *string
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&role,
		&publicID,
		&url,
		&user.IsSocial,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = sec.UserRole(role)
	if url != nil && *url != "" {
		user.Avatar = &Avatar{URL: *url}
		if publicID != nil {
			user.Avatar.PublicID = *publicID
		}
	}

	return &user, nil
}

// avatarColumns flattens the optional avatar into nullable columns.
func avatarColumns(avatar *Avatar) (*string, *string) {
	if avatar == nil {
		return nil, nil
	}
	return &avatar.PublicID, &avatar.URL
}
