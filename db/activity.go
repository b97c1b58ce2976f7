package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActivityLog is the append-only record of user actions shown in the
// activity tab.
type ActivityLog struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	UserName     string    `db:"user_name" json:"userName"`
	Action       string    `db:"action" json:"action"`
	Resource     string    `db:"resource" json:"resource"`
	ResourceID   string    `db:"resource_id" json:"resourceId,omitempty"`
	Details      JSONMap   `db:"details" json:"details"`
	IPAddress    string    `db:"ip_address" json:"ipAddress"`
	UserAgent    string    `db:"user_agent" json:"userAgent"`
	Success      bool      `db:"success" json:"success"`
	ErrorMessage string    `db:"error_message" json:"errorMessage,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"timestamp"`
}

// AuditTrail records before/after values of data mutations.
type AuditTrail struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	UserName  string    `db:"user_name" json:"userName"`
	Action    string    `db:"action" json:"action"` // create | update | delete | login | logout | export | import
	TableName string    `db:"table_name" json:"tableName"`
	RecordID  string    `db:"record_id" json:"recordId"`
	OldValues JSONMap   `db:"old_values" json:"oldValues,omitempty"`
	NewValues JSONMap   `db:"new_values" json:"newValues,omitempty"`
	IPAddress string    `db:"ip_address" json:"ipAddress"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

func (s *Storage) AppendActivity(ctx context.Context, a *ActivityLog) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `
        INSERT INTO activity_log
            (id, user_id, user_name, action, resource, resource_id, details,
             ip_address, user_agent, success, error_message)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.UserName, a.Action, a.Resource, a.ResourceID,
		a.Details, a.IPAddress, a.UserAgent, a.Success, a.ErrorMessage).
		Scan(&a.CreatedAt)
}

func (s *Storage) GetActivityLogs(ctx context.Context, userID string, limit, offset int) ([]ActivityLog, error) {
	query := `
        SELECT * FROM activity_log
        WHERE $1 = '' OR user_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	logs := []ActivityLog{}
	err := s.db.SelectContext(ctx, &logs, query, userID, limit, offset)
	return logs, err
}

func (s *Storage) AppendAudit(ctx context.Context, a *AuditTrail) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `
        INSERT INTO audit_trail
            (id, user_id, user_name, action, table_name, record_id,
             old_values, new_values, ip_address)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.UserName, a.Action, a.TableName, a.RecordID,
		a.OldValues, a.NewValues, a.IPAddress).
		Scan(&a.CreatedAt)
}

func (s *Storage) GetAuditTrail(ctx context.Context, tableName string, limit, offset int) ([]AuditTrail, error) {
	query := `
        SELECT * FROM audit_trail
        WHERE $1 = '' OR table_name = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	trail := []AuditTrail{}
	err := s.db.SelectContext(ctx, &trail, query, tableName, limit, offset)
	return trail, err
}
