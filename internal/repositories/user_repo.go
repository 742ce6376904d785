package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/JaswanthKSnjit/IS601-final/internal/database"
	"github.com/JaswanthKSnjit/IS601-final/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

const userColumns = `id, email, nickname, password_hash, role, email_verified, verification_token,
	failed_login_attempts, is_locked, last_login_at,
	first_name, last_name, bio, github_profile_url, linkedin_profile_url,
	created_at, updated_at`

// rowScanner interface for scanning user rows (single row or rows iterator)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var verificationToken, firstName, lastName, bio, github, linkedin *string
	var lastLoginAt *time.Time

	err := scanner.Scan(
		&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &user.Role,
		&user.EmailVerified, &verificationToken,
		&user.FailedLoginAttempts, &user.IsLocked, &lastLoginAt,
		&firstName, &lastName, &bio, &github, &linkedin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if verificationToken != nil {
		user.VerificationToken = *verificationToken
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if bio != nil {
		user.Bio = *bio
	}
	if github != nil {
		user.GithubProfileURL = *github
	}
	if linkedin != nil {
		user.LinkedinProfileURL = *linkedin
	}
	user.LastLoginAt = lastLoginAt

	return &user, nil
}

func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE verification_token = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, token))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Role == "" {
		user.Role = models.RoleAuthenticated
	}

	query := `
		INSERT INTO users (id, email, nickname, password_hash, role, email_verified, verification_token,
			failed_login_attempts, is_locked,
			first_name, last_name, bio, github_profile_url, linkedin_profile_url,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.Nickname, user.PasswordHash, user.Role,
		user.EmailVerified, nullable(user.VerificationToken),
		user.FailedLoginAttempts, user.IsLocked,
		nullable(user.FirstName), nullable(user.LastName), nullable(user.Bio),
		nullable(user.GithubProfileURL), nullable(user.LinkedinProfileURL),
		user.CreatedAt, user.UpdatedAt,
	))
}

// Update persists profile and administrative fields. Login bookkeeping
// (failed counter, lock flag, last login) has dedicated atomic methods and
// is deliberately not written here.
func (r *UserRepository) Update(ctx context.Context, id string, user *models.User) (*models.User, error) {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET email = $1, nickname = $2, role = $3, email_verified = $4, verification_token = $5,
			first_name = $6, last_name = $7, bio = $8,
			github_profile_url = $9, linkedin_profile_url = $10, updated_at = $11
		WHERE id = $12
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.Email, user.Nickname, user.Role, user.EmailVerified, nullable(user.VerificationToken),
		nullable(user.FirstName), nullable(user.LastName), nullable(user.Bio),
		nullable(user.GithubProfileURL), nullable(user.LinkedinProfileURL),
		user.UpdatedAt, id,
	))
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// RecordFailedLogin increments the failed-attempt counter and flips the
// lock flag when the counter reaches maxFailed. The single UPDATE makes
// the read-increment-write race-safe under concurrent failed logins.
// Returns the updated counter and lock state.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, id string, maxFailed int) (int, bool, error) {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
			is_locked = (failed_login_attempts + 1 >= $2),
			updated_at = NOW()
		WHERE id = $1
		RETURNING failed_login_attempts, is_locked
	`

	var attempts int
	var locked bool
	err := r.pool.QueryRow(ctx, query, id, maxFailed).Scan(&attempts, &locked)
	if err != nil {
		return 0, false, database.MapPostgresError(err)
	}
	return attempts, locked, nil
}

// RecordSuccessfulLogin resets the failed-attempt counter and stamps the
// last login time in one statement.
func (r *UserRepository) RecordSuccessfulLogin(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE users
		SET failed_login_attempts = 0, last_login_at = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Unlock clears the lock flag and the failed-attempt counter
func (r *UserRepository) Unlock(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET is_locked = FALSE, failed_login_attempts = 0, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// CountByRoles counts accounts whose role is in the given set
func (r *UserRepository) CountByRoles(ctx context.Context, roles []models.Role) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = ANY($1)`

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, names).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

// CountInactiveSince counts accounts whose last login is older than the
// cutoff. Accounts that never logged in count as inactive.
func (r *UserRepository) CountInactiveSince(ctx context.Context, cutoff time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE last_login_at IS NULL OR last_login_at < $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, database.MapPostgresError(err)
	}
	return count, nil
}

// nullable maps empty strings to SQL NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
