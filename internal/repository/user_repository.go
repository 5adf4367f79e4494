package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/TWRT/savvystudy/internal/client"
	"github.com/TWRT/savvystudy/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const minPasswordLength = 6

type User struct {
	LocalID      string
	Email        string
	PasswordHash string
}

// UserRepository is the local identity provider used with the sqlite backend.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *UserRepository) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: INVALID_EMAIL", client.ErrAuth)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: WEAK_PASSWORD", client.ErrAuth)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		LocalID:      uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	// The UNIQUE index on email decides between concurrent sign-ups.
	query := `INSERT INTO users (local_id, email, password_hash) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, user.LocalID, user.Email, user.PasswordHash); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: EMAIL_EXISTS", client.ErrAuth)
		}
		return nil, fmt.Errorf("Error trying to create user: %w", err)
	}

	return &models.User{LocalID: user.LocalID, Email: user.Email}, nil
}

func (r *UserRepository) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	var u User
	query := `SELECT local_id, email, password_hash FROM users WHERE email = ?`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.LocalID, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: EMAIL_NOT_FOUND", client.ErrAuth)
	}
	if err != nil {
		return nil, fmt.Errorf("Error trying to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: INVALID_PASSWORD", client.ErrAuth)
	}

	return &models.User{LocalID: u.LocalID, Email: u.Email}, nil
}

// Refresh returns the user unchanged; local users carry no expiring
// store credential.
func (r *UserRepository) Refresh(_ context.Context, user *models.User) (*models.User, error) {
	return user, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
