package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	apperrors "github.com/julianstephens/cleanstreak/internal/errors"
	"github.com/julianstephens/cleanstreak/internal/models"
)

const userColumns = "id, email, name, password_hash, joined_at, last_login_at"

func (s *Store) AddUser(ctx context.Context, user models.User) error {
	_, err := s.exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, strings.ToLower(user.Email), user.Name, user.PasswordHash,
		formatTime(user.JoinedAt), nullTime(user.LastLoginAt))
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	row := s.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.NotFound("user %s", id)
	}
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.queryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", strings.ToLower(email))
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperrors.NotFound("user %s", email)
	}
	return u, err
}

func (s *Store) UpdateUser(ctx context.Context, user models.User) error {
	res, err := s.exec(ctx, `
		UPDATE users SET email = ?, name = ?, password_hash = ?, last_login_at = ?
		WHERE id = ?`,
		strings.ToLower(user.Email), user.Name, user.PasswordHash, nullTime(user.LastLoginAt), user.ID)
	if err != nil {
		return err
	}
	return rowsAffectedOrNotFound(res, apperrors.NotFound("user %s", user.ID))
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	var joinedAt string
	var lastLogin sql.NullString

	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &joinedAt, &lastLogin); err != nil {
		return models.User{}, err
	}

	var err error
	u.JoinedAt, err = parseTime("joined_at", joinedAt)
	if err != nil {
		return models.User{}, err
	}
	if lastLogin.Valid {
		t, err := parseTime("last_login_at", lastLogin.String)
		if err != nil {
			return models.User{}, err
		}
		u.LastLoginAt = &t
	}
	return u, nil
}
