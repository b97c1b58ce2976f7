package db

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"quicksent/models"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{db: db}
}

// JSONMap maps a JSONB column onto a free-form object.
type JSONMap map[string]any

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into JSONMap", src)
	}
	return json.Unmarshal(b, m)
}

// PermissionMap maps a JSONB column onto permission flags.
type PermissionMap map[string]bool

func (m PermissionMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *PermissionMap) Scan(src any) error {
	if src == nil {
		*m = PermissionMap{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into PermissionMap", src)
	}
	return json.Unmarshal(b, m)
}

// User account with its static role-derived permission set.
type User struct {
	ID            string            `db:"id" json:"id"`
	Email         string            `db:"email" json:"email"`
	PasswordHash  string            `db:"password_hash" json:"-"`
	FirstName     string            `db:"first_name" json:"firstName"`
	LastName      string            `db:"last_name" json:"lastName"`
	Role          models.UserRole   `db:"role" json:"role"`
	Status        models.UserStatus `db:"status" json:"status"`
	Permissions   PermissionMap     `db:"permissions" json:"permissions"`
	CompanyID     *string           `db:"company_id" json:"companyId,omitempty"`
	Phone         string            `db:"phone" json:"phone,omitempty"`
	Language      string            `db:"language" json:"language"`
	Timezone      string            `db:"timezone" json:"timezone"`
	Theme         string            `db:"theme" json:"theme"`
	LastLoginAt   *time.Time        `db:"last_login_at" json:"lastLoginAt,omitempty"`
	LoginAttempts int               `db:"login_attempts" json:"loginAttempts"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updatedAt"`
}

func (s *Storage) CreateUser(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Permissions == nil {
		u.Permissions = PermissionMap(models.DefaultPermissions(u.Role))
	}
	query := `
        INSERT INTO users
            (id, email, password_hash, first_name, last_name, role, status,
             permissions, company_id, phone, language, timezone, theme)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.Status,
		u.Permissions, u.CompanyID, u.Phone, u.Language, u.Timezone, u.Theme).
		Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (s *Storage) GetUser(ctx context.Context, id string) (*User, error) {
	u := &User{}
	err := s.db.GetContext(ctx, u, `SELECT * FROM users WHERE id=$1`, id)
	return u, err
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.db.GetContext(ctx, u, `SELECT * FROM users WHERE email=$1`, email)
	return u, err
}

func (s *Storage) UpdateUser(ctx context.Context, u *User) error {
	query := `
        UPDATE users
        SET email=$1, first_name=$2, last_name=$3, role=$4, status=$5,
            permissions=$6, company_id=$7, phone=$8, language=$9, timezone=$10,
            theme=$11, updated_at=NOW()
        WHERE id=$12`
	_, err := s.db.ExecContext(ctx, query,
		u.Email, u.FirstName, u.LastName, u.Role, u.Status, u.Permissions,
		u.CompanyID, u.Phone, u.Language, u.Timezone, u.Theme, u.ID)
	return err
}

func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

func (s *Storage) RecordLogin(ctx context.Context, userID string, at time.Time) error {
	query := `UPDATE users SET last_login_at=$1, login_attempts=0, updated_at=NOW() WHERE id=$2`
	_, err := s.db.ExecContext(ctx, query, at, userID)
	return err
}

func (s *Storage) RecordFailedLogin(ctx context.Context, userID string) error {
	query := `UPDATE users SET login_attempts=login_attempts+1, updated_at=NOW() WHERE id=$1`
	_, err := s.db.ExecContext(ctx, query, userID)
	return err
}

func (s *Storage) GetUsers(ctx context.Context, role, status, search string, limit, offset int) ([]User, error) {
	query := `
        SELECT * FROM users
        WHERE ($1 = '' OR role = $1)
          AND ($2 = '' OR status = $2)
          AND ($3 = '' OR email ILIKE '%' || $3 || '%'
               OR first_name ILIKE '%' || $3 || '%'
               OR last_name ILIKE '%' || $3 || '%')
        ORDER BY created_at DESC
        LIMIT $4 OFFSET $5`
	users := []User{}
	err := s.db.SelectContext(ctx, &users, query, role, status, search, limit, offset)
	return users, err
}

func (s *Storage) CountUsersByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM users GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (s *Storage) CountUsersByRole(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT role, COUNT(1) FROM users GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var role string
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, err
		}
		counts[role] = n
	}
	return counts, rows.Err()
}

// Session rows keep only a SHA-256 hash of the bearer token.
type Session struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	TokenHash    string    `db:"token_hash" json:"-"`
	IPAddress    string    `db:"ip_address" json:"ipAddress"`
	UserAgent    string    `db:"user_agent" json:"userAgent"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt    time.Time `db:"expires_at" json:"expiresAt"`
	LastActivity time.Time `db:"last_activity" json:"lastActivity"`
}

func (s *Storage) CreateSession(ctx context.Context, sess *Session) error {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	query := `
        INSERT INTO sessions (id, user_id, token_hash, ip_address, user_agent, expires_at, last_activity)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING created_at, last_activity`
	return s.db.QueryRowContext(ctx, query,
		sess.ID, sess.UserID, sess.TokenHash, sess.IPAddress, sess.UserAgent, sess.ExpiresAt).
		Scan(&sess.CreatedAt, &sess.LastActivity)
}

func (s *Storage) GetSessionByTokenHash(ctx context.Context, hash string) (*Session, error) {
	sess := &Session{}
	err := s.db.GetContext(ctx, sess, `SELECT * FROM sessions WHERE token_hash=$1`, hash)
	return sess, err
}

func (s *Storage) TouchSession(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET last_activity=$1 WHERE id=$2`, at, id)
	return err
}

func (s *Storage) DeleteSessionByTokenHash(ctx context.Context, hash string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash=$1`, hash)
	return err
}

func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
