package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/qa-board/internal/model"
	"github.com/iliyamo/qa-board/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts the user, returning its ID.
// MySQL error 1062 (duplicate key on username or email) maps to
// ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, username, password, email string, cost int) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password, role) VALUES (?,?,?,?)",
		username, email, hash, "user")
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUserExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.TrimSpace(username)
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT userid,username,email,password,role FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.UserID, &u.Username, &u.Email, &u.PasswordHash, &u.Role)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT userid,username,email,password,role FROM users WHERE userid=? LIMIT 1",
		id).Scan(&u.UserID, &u.Username, &u.Email, &u.PasswordHash, &u.Role)
	return u, err
}
