package sqlstore

import (
	"context"

	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/role"
)

const userColumns = `id, full_name, username, password_hash, role, is_active`

func (s *Store) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var count int64
	if err := s.get(ctx, &count, `SELECT COUNT(*) FROM users WHERE username = ?`, username); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateUser(ctx context.Context, user *ds.User) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	if user.Role == "" {
		user.Role = role.User
	}
	user.IsActive = true
	id, err := s.insert(ctx,
		`INSERT INTO users (full_name, username, password_hash, role, is_active) VALUES (?, ?, ?, ?, ?)`,
		user.FullName, user.Username, user.PasswordHash, string(user.Role), true)
	if err != nil {
		return err
	}
	user.ID = id
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id uint) (*ds.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var user ds.User
	if err := s.get(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*ds.User, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var user ds.User
	if err := s.get(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = ?`, username); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) ListUsers(ctx context.Context, includeInactive bool) ([]ds.User, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	if !includeInactive {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY id`

	users := []ds.User{}
	if err := s.selectAll(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, id uint, upd ds.UserUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `UPDATE users SET role = ?`
	args := []interface{}{string(role.Parse(string(upd.Role)))}
	if upd.FullName != nil {
		query += `, full_name = ?`
		args = append(args, *upd.FullName)
	}
	if upd.Username != nil {
		query += `, username = ?`
		args = append(args, *upd.Username)
	}
	query += ` WHERE id = ?`
	args = append(args, id)

	return s.exec(ctx, query, args...)
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return s.exec(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
}

func (s *Store) SetUserActive(ctx context.Context, id uint, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return s.exec(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, active, id)
}
