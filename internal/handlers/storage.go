package handlers

import (
	"context"
	"encoding/json"
	"time"

	"quicksent/db"
	"quicksent/internal/puesc"
	"quicksent/models"
)

type StorageInterface interface {
	CreateUser(ctx context.Context, u *db.User) error
	GetUser(ctx context.Context, id string) (*db.User, error)
	UpdateUser(ctx context.Context, u *db.User) error
	DeleteUser(ctx context.Context, id string) error
	GetUsers(ctx context.Context, role, status, search string, limit, offset int) ([]db.User, error)
	CountUsersByStatus(ctx context.Context) (map[string]int, error)
	CountUsersByRole(ctx context.Context) (map[string]int, error)

	AppendActivity(ctx context.Context, a *db.ActivityLog) error
	GetActivityLogs(ctx context.Context, userID string, limit, offset int) ([]db.ActivityLog, error)
	AppendAudit(ctx context.Context, a *db.AuditTrail) error
	GetAuditTrail(ctx context.Context, tableName string, limit, offset int) ([]db.AuditTrail, error)

	CreateCompany(ctx context.Context, c *db.Company) error
	GetCompany(ctx context.Context, id string) (*db.Company, error)
	UpdateCompany(ctx context.Context, c *db.Company) error
	DeleteCompany(ctx context.Context, id string) error
	GetCompanies(ctx context.Context, search string, limit, offset int) ([]db.Company, error)

	CreateContractor(ctx context.Context, c *db.Contractor) error
	GetContractor(ctx context.Context, id string) (*db.Contractor, error)
	UpdateContractor(ctx context.Context, c *db.Contractor) error
	DeleteContractor(ctx context.Context, id string) error
	GetContractors(ctx context.Context, search string, activeOnly bool, limit, offset int) ([]db.Contractor, error)

	CreateLocation(ctx context.Context, l *db.Location) error
	GetLocation(ctx context.Context, id string) (*db.Location, error)
	UpdateLocation(ctx context.Context, l *db.Location) error
	DeleteLocation(ctx context.Context, id string) error
	GetLocations(ctx context.Context, search string, limit, offset int) ([]db.Location, error)

	CreateProduct(ctx context.Context, p *db.Product) error
	GetProduct(ctx context.Context, id string) (*db.Product, error)
	UpdateProduct(ctx context.Context, p *db.Product) error
	DeleteProduct(ctx context.Context, id string) error
	GetProducts(ctx context.Context, search, category string, limit, offset int) ([]db.Product, error)

	CreateVehicle(ctx context.Context, v *db.Vehicle) error
	GetVehicle(ctx context.Context, id string) (*db.Vehicle, error)
	UpdateVehicle(ctx context.Context, v *db.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
	GetVehicles(ctx context.Context, search string, activeOnly bool, limit, offset int) ([]db.Vehicle, error)

	CreateDriver(ctx context.Context, d *db.Driver) error
	GetDriver(ctx context.Context, id string) (*db.Driver, error)
	UpdateDriver(ctx context.Context, d *db.Driver) error
	DeleteDriver(ctx context.Context, id string) error
	GetDrivers(ctx context.Context, search string, limit, offset int) ([]db.Driver, error)

	CreateTransportTemplate(ctx context.Context, t *db.TransportTemplate) error
	GetTransportTemplate(ctx context.Context, id string) (*db.TransportTemplate, error)
	UpdateTransportTemplate(ctx context.Context, t *db.TransportTemplate) error
	DeleteTransportTemplate(ctx context.Context, id string) error
	GetTransportTemplates(ctx context.Context, limit, offset int) ([]db.TransportTemplate, error)

	CreateDeclaration(ctx context.Context, d *db.Declaration) error
	GetDeclaration(ctx context.Context, declarationNumber string) (*db.Declaration, error)
	UpdateDeclarationStatus(ctx context.Context, declarationNumber string, status models.DeclarationStatus) error
	GetDeclarations(ctx context.Context, statuses []string, createdBy string, limit, offset int) ([]db.Declaration, error)
	GetDeclarationStats(ctx context.Context) (*db.DashboardStats, error)
	CreateDeclarationEdit(ctx context.Context, e *db.DeclarationEdit) error
	GetDeclarationEdits(ctx context.Context, declarationNumber string) ([]db.DeclarationEdit, error)

	CreateReport(ctx context.Context, r *db.Report) error
	GetReport(ctx context.Context, id string) (*db.Report, error)
	MarkReportCompleted(ctx context.Context, id, filePath string, at time.Time) error
	MarkReportFailed(ctx context.Context, id string) error
	GetReports(ctx context.Context, limit, offset int) ([]db.Report, error)
}

// PuescAPI is the outbound gateway client as the handlers see it.
type PuescAPI interface {
	SubmitSent100(ctx context.Context, declaration models.Sent100Declaration) puesc.SubmitResult
	SubmitSentEdit(ctx context.Context, edit models.SentEditDeclaration) puesc.EditResult
	GetDeclarationStatus(ctx context.Context, declarationNumber string) (*models.SentStatusResponse, error)
	ValidateCompany(ctx context.Context, nip, regon string) models.GusValidationResponse
	TestConnection(ctx context.Context) puesc.ConnectionResult
	GetDocumentation(ctx context.Context) (json.RawMessage, error)
}
