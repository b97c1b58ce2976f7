package handlers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"quicksent/db"
	"quicksent/internal/auth"
)

// Report generation: declarations, contractors and vehicles are exported
// to XLSX files under ReportDir. Generation runs in-request; SENT volumes
// are small enough that a job queue would be overkill.

const maxReportRows = 10000

type createReportRequest struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Parameters db.JSONMap `json:"parameters"`
}

func (h *Handler) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	switch req.Type {
	case "declarations", "contractors", "vehicles":
	default:
		http.Error(w, "type must be declarations, contractors or vehicles", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		req.Name = req.Type + " report"
	}

	report := &db.Report{
		Name:       req.Name,
		Type:       req.Type,
		Parameters: req.Parameters,
		Status:     "pending",
	}
	if user, ok := auth.UserFrom(r.Context()); ok {
		report.CreatedBy = user.ID
	}
	if err := h.Store.CreateReport(r.Context(), report); err != nil {
		http.Error(w, "Failed to create report", http.StatusInternalServerError)
		return
	}

	filePath := filepath.Join(h.ReportDir, report.ID+".xlsx")
	if err := h.generateReport(r.Context(), report.Type, filePath); err != nil {
		_ = h.Store.MarkReportFailed(r.Context(), report.ID)
		report.Status = "failed"
		writeJSON(w, http.StatusInternalServerError, report)
		return
	}

	now := time.Now()
	if err := h.Store.MarkReportCompleted(r.Context(), report.ID, filePath, now); err != nil {
		http.Error(w, "Failed to finish report", http.StatusInternalServerError)
		return
	}
	report.Status = "completed"
	report.FilePath = filePath
	report.GeneratedAt = &now

	h.audit(r, "create", "reports", report.ID, nil, db.JSONMap{"type": report.Type, "name": report.Name})
	writeJSON(w, http.StatusCreated, report)
}

func (h *Handler) GetReportsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	reports, err := h.Store.GetReports(r.Context(), params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get reports", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (h *Handler) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.Store.GetReport(r.Context(), chi.URLParam(r, "reportId"))
	if err != nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DownloadReportHandler streams a completed report file.
func (h *Handler) DownloadReportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := h.Store.GetReport(r.Context(), chi.URLParam(r, "reportId"))
	if err != nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}
	if report.Status != "completed" || report.FilePath == "" {
		http.Error(w, "Report is not ready", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(report.FilePath)+`"`)
	http.ServeFile(w, r, report.FilePath)
}

func (h *Handler) generateReport(ctx context.Context, reportType, outputPath string) error {
	switch reportType {
	case "declarations":
		declarations, err := h.Store.GetDeclarations(ctx, []string{}, "", maxReportRows, 0)
		if err != nil {
			return err
		}
		return exportDeclarationsToXLSX(declarations, outputPath)
	case "contractors":
		contractors, err := h.Store.GetContractors(ctx, "", false, maxReportRows, 0)
		if err != nil {
			return err
		}
		return exportContractorsToXLSX(contractors, outputPath)
	default:
		vehicles, err := h.Store.GetVehicles(ctx, "", false, maxReportRows, 0)
		if err != nil {
			return err
		}
		return exportVehiclesToXLSX(vehicles, outputPath)
	}
}

func exportDeclarationsToXLSX(declarations []db.Declaration, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"declaration_number", "status", "declaration_type", "sender_name", "sender_nip",
		"receiver_name", "receiver_nip", "transport_type", "vehicle_registration",
		"goods_description", "quantity", "unit", "value", "currency", "created_at",
	}
	writeHeaderRow(f, sheet, headers)

	for i, d := range declarations {
		r := i + 2
		set := cellSetter(f, sheet, r)

		set(1, d.DeclarationNumber)
		set(2, string(d.Status))
		set(3, string(d.DeclarationType))
		set(4, d.SenderName)
		set(5, d.SenderNIP)
		set(6, d.ReceiverName)
		set(7, d.ReceiverNIP)
		set(8, string(d.TransportType))
		set(9, d.VehicleRegistration)
		set(10, d.GoodsDescription)
		set(11, d.Quantity)
		set(12, d.Unit)
		set(13, d.Value)
		set(14, string(d.Currency))
		set(15, d.CreatedAt.Format(time.RFC3339))
	}

	return saveXLSX(f, outputPath)
}

func exportContractorsToXLSX(contractors []db.Contractor, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	writeHeaderRow(f, sheet, []string{
		"name", "nip", "regon", "address", "city", "postal_code", "country",
		"contact_person", "phone", "email", "is_active",
	})

	for i, c := range contractors {
		r := i + 2
		set := cellSetter(f, sheet, r)

		set(1, c.Name)
		set(2, c.NIP)
		set(3, c.REGON)
		set(4, c.Address)
		set(5, c.City)
		set(6, c.PostalCode)
		set(7, c.Country)
		set(8, c.ContactPerson)
		set(9, c.Phone)
		set(10, c.Email)
		set(11, c.IsActive)
	}

	return saveXLSX(f, outputPath)
}

func exportVehiclesToXLSX(vehicles []db.Vehicle, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	writeHeaderRow(f, sheet, []string{"registration_number", "type", "capacity", "is_active"})

	for i, v := range vehicles {
		r := i + 2
		set := cellSetter(f, sheet, r)

		set(1, v.RegistrationNumber)
		set(2, v.Type)
		set(3, v.Capacity)
		set(4, v.IsActive)
	}

	return saveXLSX(f, outputPath)
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func cellSetter(f *excelize.File, sheet string, row int) func(col int, value any) {
	return func(col int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}
}

func saveXLSX(f *excelize.File, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
