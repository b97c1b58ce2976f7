package db

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"quicksent/models"
)

// Declaration is the persisted view of a SENT 100 message. The full payload
// is kept verbatim in raw_payload; the flat columns exist for listing and
// filtering.
type Declaration struct {
	ID                  string                   `db:"id" json:"id"`
	DeclarationNumber   string                   `db:"declaration_number" json:"declarationNumber"`
	Status              models.DeclarationStatus `db:"status" json:"status"`
	DeclarationType     models.DeclarationType   `db:"declaration_type" json:"declarationType"`
	SenderName          string                   `db:"sender_name" json:"senderName"`
	SenderNIP           string                   `db:"sender_nip" json:"senderNip"`
	ReceiverName        string                   `db:"receiver_name" json:"receiverName"`
	ReceiverNIP         string                   `db:"receiver_nip" json:"receiverNip"`
	TransportType       models.TransportType     `db:"transport_type" json:"transportType"`
	VehicleRegistration string                   `db:"vehicle_registration" json:"vehicleRegistration"`
	GoodsDescription    string                   `db:"goods_description" json:"goodsDescription"`
	Quantity            float64                  `db:"quantity" json:"quantity"`
	Unit                string                   `db:"unit" json:"unit"`
	Value               float64                  `db:"value" json:"value"`
	Currency            models.Currency          `db:"currency" json:"currency"`
	RawPayload          json.RawMessage          `db:"raw_payload" json:"rawPayload,omitempty"`
	CreatedBy           string                   `db:"created_by" json:"createdBy"`
	CreatedAt           time.Time                `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time                `db:"updated_at" json:"updatedAt"`
}

// DeclarationEdit records a SENT EDIT request against an existing declaration.
type DeclarationEdit struct {
	ID                string            `db:"id" json:"id"`
	DeclarationNumber string            `db:"declaration_number" json:"declarationNumber"`
	EditReason        models.EditReason `db:"edit_reason" json:"editReason"`
	EditDescription   string            `db:"edit_description" json:"editDescription"`
	Changes           json.RawMessage   `db:"changes" json:"changes"`
	Accepted          bool              `db:"accepted" json:"accepted"`
	CreatedBy         string            `db:"created_by" json:"createdBy"`
	CreatedAt         time.Time         `db:"created_at" json:"createdAt"`
}

type Report struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Type        string     `db:"type" json:"type"` // declarations | contractors | vehicles | financial | custom
	Parameters  JSONMap    `db:"parameters" json:"parameters"`
	Status      string     `db:"status" json:"status"` // pending | completed | failed
	FilePath    string     `db:"file_path" json:"filePath,omitempty"`
	GeneratedAt *time.Time `db:"generated_at" json:"generatedAt,omitempty"`
	CreatedBy   string     `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

type DashboardStats struct {
	TotalDeclarations    int `db:"total_declarations" json:"totalDeclarations"`
	PendingDeclarations  int `db:"pending_declarations" json:"pendingDeclarations"`
	ApprovedDeclarations int `db:"approved_declarations" json:"approvedDeclarations"`
	RejectedDeclarations int `db:"rejected_declarations" json:"rejectedDeclarations"`
	MonthlyDeclarations  int `db:"monthly_declarations" json:"monthlyDeclarations"`
	TotalContractors     int `json:"totalContractors"`
	TotalVehicles        int `json:"totalVehicles"`
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// error, used to turn duplicate declaration numbers into 409s.
func IsUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505"
}

func (s *Storage) CreateDeclaration(ctx context.Context, d *Declaration) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	query := `
        INSERT INTO declarations
            (id, declaration_number, status, declaration_type, sender_name, sender_nip,
             receiver_name, receiver_nip, transport_type, vehicle_registration,
             goods_description, quantity, unit, value, currency, raw_payload, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
        RETURNING created_at, updated_at`
	return s.db.QueryRowContext(ctx, query,
		d.ID, d.DeclarationNumber, d.Status, d.DeclarationType, d.SenderName, d.SenderNIP,
		d.ReceiverName, d.ReceiverNIP, d.TransportType, d.VehicleRegistration,
		d.GoodsDescription, d.Quantity, d.Unit, d.Value, d.Currency, []byte(d.RawPayload), d.CreatedBy).
		Scan(&d.CreatedAt, &d.UpdatedAt)
}

func (s *Storage) GetDeclaration(ctx context.Context, declarationNumber string) (*Declaration, error) {
	d := &Declaration{}
	query := `SELECT * FROM declarations WHERE declaration_number=$1`
	err := s.db.GetContext(ctx, d, query, declarationNumber)
	return d, err
}

func (s *Storage) UpdateDeclarationStatus(ctx context.Context, declarationNumber string, status models.DeclarationStatus) error {
	query := `UPDATE declarations SET status=$1, updated_at=NOW() WHERE declaration_number=$2`
	_, err := s.db.ExecContext(ctx, query, status, declarationNumber)
	return err
}

// statusFilter wraps the status list for the query. A nil slice must reach
// Postgres as an empty array, not NULL: cardinality(NULL) is NULL and would
// filter every row.
func statusFilter(statuses []string) driver.Valuer {
	if statuses == nil {
		statuses = []string{}
	}
	return pq.Array(statuses)
}

func (s *Storage) GetDeclarations(ctx context.Context, statuses []string, createdBy string, limit, offset int) ([]Declaration, error) {
	query := `
        SELECT * FROM declarations
        WHERE (cardinality($1::text[]) = 0 OR status = ANY($1))
          AND ($2 = '' OR created_by = $2)
        ORDER BY created_at DESC
        LIMIT $3 OFFSET $4`
	declarations := []Declaration{}
	err := s.db.SelectContext(ctx, &declarations, query, statusFilter(statuses), createdBy, limit, offset)
	return declarations, err
}

func (s *Storage) GetDeclarationStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	query := `
        SELECT
            COUNT(1) AS total_declarations,
            COUNT(1) FILTER (WHERE status IN ('DRAFT', 'SUBMITTED')) AS pending_declarations,
            COUNT(1) FILTER (WHERE status = 'APPROVED') AS approved_declarations,
            COUNT(1) FILTER (WHERE status = 'REJECTED') AS rejected_declarations,
            COUNT(1) FILTER (WHERE created_at >= date_trunc('month', NOW())) AS monthly_declarations
        FROM declarations`
	if err := s.db.GetContext(ctx, stats, query); err != nil {
		return nil, err
	}

	var err error
	if stats.TotalContractors, err = s.CountContractors(ctx); err != nil {
		return nil, err
	}
	if stats.TotalVehicles, err = s.CountVehicles(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Storage) CreateDeclarationEdit(ctx context.Context, e *DeclarationEdit) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	query := `
        INSERT INTO declaration_edits
            (id, declaration_number, edit_reason, edit_description, changes, accepted, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query,
		e.ID, e.DeclarationNumber, e.EditReason, e.EditDescription,
		[]byte(e.Changes), e.Accepted, e.CreatedBy).
		Scan(&e.CreatedAt)
}

func (s *Storage) GetDeclarationEdits(ctx context.Context, declarationNumber string) ([]DeclarationEdit, error) {
	query := `
        SELECT * FROM declaration_edits
        WHERE declaration_number=$1
        ORDER BY created_at DESC`
	edits := []DeclarationEdit{}
	err := s.db.SelectContext(ctx, &edits, query, declarationNumber)
	return edits, err
}

func (s *Storage) CreateReport(ctx context.Context, r *Report) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	query := `
        INSERT INTO reports (id, name, type, parameters, status, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`
	return s.db.QueryRowContext(ctx, query,
		r.ID, r.Name, r.Type, r.Parameters, r.Status, r.CreatedBy).
		Scan(&r.CreatedAt)
}

func (s *Storage) GetReport(ctx context.Context, id string) (*Report, error) {
	r := &Report{}
	err := s.db.GetContext(ctx, r, `SELECT * FROM reports WHERE id=$1`, id)
	return r, err
}

func (s *Storage) MarkReportCompleted(ctx context.Context, id, filePath string, at time.Time) error {
	query := `UPDATE reports SET status='completed', file_path=$1, generated_at=$2 WHERE id=$3`
	_, err := s.db.ExecContext(ctx, query, filePath, at, id)
	return err
}

func (s *Storage) MarkReportFailed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE reports SET status='failed' WHERE id=$1`, id)
	return err
}

func (s *Storage) GetReports(ctx context.Context, limit, offset int) ([]Report, error) {
	query := `SELECT * FROM reports ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	reports := []Report{}
	err := s.db.SelectContext(ctx, &reports, query, limit, offset)
	return reports, err
}
