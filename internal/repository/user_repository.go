package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/city-weather/internal/model"
	"github.com/iliyamo/city-weather/internal/utils"
)

// ErrUserNotFound is returned by the lookups when no row matches.
var ErrUserNotFound = errors.New("user not found")

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lower-cases and trims an email the way it is stored.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create hashes the password, inserts the user and returns its ID.  A
// duplicate email or username yields ErrEmailExists / ErrUsernameExists.
func (r *UserRepo) Create(ctx context.Context, username, email, password string, cost int) (uint64, error) {
	email = NormalizeEmail(email)
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?,?,?)",
		username, email, hash)
	if err != nil {
		if isDuplicate(err) {
			if duplicateMentions(err, "uq_users_email") || duplicateMentions(err, "users.email") {
				return 0, ErrEmailExists
			}
			return 0, ErrUsernameExists
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getOne(ctx, "email=?", NormalizeEmail(email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "id=?", id)
}

// EmailExists reports whether the (normalized) email is taken.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email=?", NormalizeEmail(email))
}

// UsernameExists reports whether the username is taken.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username=?", strings.TrimSpace(username))
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg any) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,username,email,password_hash,is_active FROM users WHERE "+where+" LIMIT 1",
		arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

func (r *UserRepo) exists(ctx context.Context, where string, arg any) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE "+where+" LIMIT 1", arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return true, nil
}
