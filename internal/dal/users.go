package dal

import (
	"context"
	"errors"
	"fmt"

	"github.com/Roma7-7-7/lawhelp-bot/internal/auth"
)

// Users returns the admin accounts. When none exist yet the default admin is
// created and saved first.
func (r *JSONRepository) Users(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	return r.ensureUsers(ctx)
}

func (r *JSONRepository) FindUser(ctx context.Context, username string) (*User, error) {
	users, err := r.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *JSONRepository) CreateUser(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.Username == "" {
		return errors.New("username is required")
	}
	if !user.Role.Valid() {
		return fmt.Errorf("invalid role %q", user.Role)
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	users, err := r.ensureUsers(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Username == user.Username {
			return ErrUserExists
		}
	}

	users = append(users, user)
	if err = writeJSON(r.path(adminDir, usersFile), users); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

func (r *JSONRepository) DeleteUser(ctx context.Context, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	users, err := r.ensureUsers(ctx)
	if err != nil {
		return err
	}

	kept := make([]User, 0, len(users))
	for _, u := range users {
		if u.Username != username {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return ErrNotFound
	}

	if err = writeJSON(r.path(adminDir, usersFile), kept); err != nil {
		return fmt.Errorf("write users: %w", err)
	}
	return nil
}

func (r *JSONRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mx.Lock()
	defer r.mx.Unlock()

	users, err := r.ensureUsers(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].Username == username {
			users[i].PasswordHash = hash
			if err = writeJSON(r.path(adminDir, usersFile), users); err != nil {
				return fmt.Errorf("write users: %w", err)
			}
			return nil
		}
	}
	return ErrNotFound
}

// ensureUsers must be called with r.mx held.
func (r *JSONRepository) ensureUsers(ctx context.Context) ([]User, error) {
	users := make([]User, 0)
	if err := readJSON(r.path(adminDir, usersFile), &users); err != nil {
		return nil, fmt.Errorf("read users: %w", err)
	}
	if len(users) > 0 {
		return users, nil
	}

	hash, err := auth.HashPassword(r.opts.DefaultAdminPassword, r.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash default admin password: %w", err)
	}
	users = append(users, User{
		Username:     defaultAdminUsername,
		PasswordHash: hash,
		Role:         RoleAdmin,
	})
	if err = writeJSON(r.path(adminDir, usersFile), users); err != nil {
		return nil, fmt.Errorf("write users: %w", err)
	}

	r.log.InfoContext(ctx, "default admin user created", "username", defaultAdminUsername)
	return users, nil
}
