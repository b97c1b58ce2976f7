package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"quicksent/db"
	"quicksent/internal/auth"
	"quicksent/internal/puesc"
	"quicksent/models"
)

// CreateDeclarationHandler builds a SENT 100 message from the form input
// and stores it as a DRAFT. Nothing is sent to the gateway yet.
func (h *Handler) CreateDeclarationHandler(w http.ResponseWriter, r *http.Request) {
	var input puesc.DeclarationInput
	if err := readJSON(w, r, &input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if input.Sender.Name == "" || input.Receiver.Name == "" {
		http.Error(w, "sender and receiver are required", http.StatusBadRequest)
		return
	}

	declaration := h.Builder.Sent100(input)

	payload, err := json.Marshal(declaration)
	if err != nil {
		http.Error(w, "Failed to create declaration", http.StatusInternalServerError)
		return
	}

	record := &db.Declaration{
		DeclarationNumber:   declaration.Declaration.DeclarationNumber,
		Status:              declaration.Declaration.Status,
		DeclarationType:     declaration.Declaration.DeclarationType,
		SenderName:          declaration.Declaration.Sender.Name,
		SenderNIP:           declaration.Declaration.Sender.NIP,
		ReceiverName:        declaration.Declaration.Receiver.Name,
		ReceiverNIP:         declaration.Declaration.Receiver.NIP,
		TransportType:       declaration.Declaration.TransportDetails.TransportType,
		VehicleRegistration: declaration.Declaration.TransportDetails.Vehicle.RegistrationNumber,
		GoodsDescription:    declaration.Declaration.Goods.Description,
		Quantity:            declaration.Declaration.Goods.Quantity,
		Unit:                declaration.Declaration.Goods.Unit,
		Value:               declaration.Declaration.Goods.Value,
		Currency:            declaration.Declaration.Goods.Currency,
		RawPayload:          payload,
	}
	if user, ok := auth.UserFrom(r.Context()); ok {
		record.CreatedBy = user.ID
	}

	if err := h.Store.CreateDeclaration(r.Context(), record); err != nil {
		if db.IsUniqueViolation(err) {
			http.Error(w, "Declaration number already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to create declaration", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", "declarations", record.ID, nil,
		db.JSONMap{"declarationNumber": record.DeclarationNumber, "status": string(record.Status)})
	writeJSON(w, http.StatusCreated, map[string]any{
		"declaration": record,
		"message":     declaration,
	})
}

// GetDeclarationsHandler lists declarations. The status query parameter
// takes a comma-separated list; mine=true restricts to the caller's own.
func (h *Handler) GetDeclarationsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	q := r.URL.Query()

	statuses := []string{}
	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}

	createdBy := ""
	if q.Get("mine") == "true" {
		if user, ok := auth.UserFrom(r.Context()); ok {
			createdBy = user.ID
		}
	}

	declarations, err := h.Store.GetDeclarations(r.Context(), statuses, createdBy, params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get declarations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"declarations": declarations})
}

// GetDeclarationHandler returns a declaration together with its edit history.
func (h *Handler) GetDeclarationHandler(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "declarationNumber")

	declaration, err := h.Store.GetDeclaration(r.Context(), number)
	if err != nil {
		http.Error(w, "Declaration not found", http.StatusNotFound)
		return
	}
	edits, err := h.Store.GetDeclarationEdits(r.Context(), number)
	if err != nil {
		http.Error(w, "Failed to get declaration", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"declaration": declaration,
		"edits":       edits,
	})
}

// SubmitDeclarationHandler sends a stored DRAFT to the gateway. On
// acceptance the declaration moves to SUBMITTED.
func (h *Handler) SubmitDeclarationHandler(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "declarationNumber")

	declaration, err := h.Store.GetDeclaration(r.Context(), number)
	if err != nil {
		http.Error(w, "Declaration not found", http.StatusNotFound)
		return
	}
	if declaration.Status != models.StatusDraft {
		http.Error(w, "Only DRAFT declarations can be submitted", http.StatusConflict)
		return
	}

	var message models.Sent100Declaration
	if err := json.Unmarshal(declaration.RawPayload, &message); err != nil {
		http.Error(w, "Stored declaration payload is corrupt", http.StatusInternalServerError)
		return
	}

	result := h.Puesc.SubmitSent100(r.Context(), message)
	if !result.Success {
		writeJSON(w, http.StatusBadGateway, result)
		return
	}

	if err := h.Store.UpdateDeclarationStatus(r.Context(), number, models.StatusSubmitted); err != nil {
		http.Error(w, "Failed to update declaration status", http.StatusInternalServerError)
		return
	}

	h.audit(r, "submit", "declarations", declaration.ID,
		db.JSONMap{"status": string(models.StatusDraft)},
		db.JSONMap{"status": string(models.StatusSubmitted), "gatewayNumber": result.DeclarationNumber})
	writeJSON(w, http.StatusOK, result)
}

type editDeclarationRequest struct {
	EditReason      models.EditReason         `json:"editReason"`
	EditDescription string                    `json:"editDescription"`
	Changes         models.DeclarationChanges `json:"changes"`
}

// EditDeclarationHandler files a SENT EDIT against an existing declaration.
// The edit is recorded locally whether or not the gateway accepts it; a
// declaration number that resolves to nothing is a 404.
func (h *Handler) EditDeclarationHandler(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "declarationNumber")

	declaration, err := h.Store.GetDeclaration(r.Context(), number)
	if err != nil {
		http.Error(w, "Declaration not found", http.StatusNotFound)
		return
	}

	var req editDeclarationRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	switch req.EditReason {
	case models.EditCorrection, models.EditCancellation, models.EditCompletion:
	default:
		http.Error(w, "editReason must be CORRECTION, CANCELLATION or COMPLETION", http.StatusBadRequest)
		return
	}

	message := h.Builder.SentEdit(number, req.EditReason, req.EditDescription, req.Changes)
	result := h.Puesc.SubmitSentEdit(r.Context(), message)

	changes, err := json.Marshal(req.Changes)
	if err != nil {
		http.Error(w, "Failed to record edit", http.StatusInternalServerError)
		return
	}
	edit := &db.DeclarationEdit{
		DeclarationNumber: number,
		EditReason:        message.EditRequest.EditReason,
		EditDescription:   message.EditRequest.EditDescription,
		Changes:           changes,
		Accepted:          result.Success,
	}
	if user, ok := auth.UserFrom(r.Context()); ok {
		edit.CreatedBy = user.ID
	}
	if err := h.Store.CreateDeclarationEdit(r.Context(), edit); err != nil {
		http.Error(w, "Failed to record edit", http.StatusInternalServerError)
		return
	}

	if result.Success && req.EditReason == models.EditCompletion {
		if err := h.Store.UpdateDeclarationStatus(r.Context(), number, models.StatusCompleted); err != nil {
			http.Error(w, "Failed to update declaration status", http.StatusInternalServerError)
			return
		}
	}

	h.audit(r, "edit", "declarations", declaration.ID, nil,
		db.JSONMap{"editReason": string(req.EditReason), "accepted": result.Success})

	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]any{
		"edit":   edit,
		"result": result,
	})
}

// GetDeclarationStatusHandler asks the gateway for the current status and
// mirrors it into the local record.
func (h *Handler) GetDeclarationStatusHandler(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "declarationNumber")

	declaration, err := h.Store.GetDeclaration(r.Context(), number)
	if err != nil {
		http.Error(w, "Declaration not found", http.StatusNotFound)
		return
	}

	status, err := h.Puesc.GetDeclarationStatus(r.Context(), number)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if status.StatusInfo.Status != "" && status.StatusInfo.Status != declaration.Status {
		if err := h.Store.UpdateDeclarationStatus(r.Context(), number, status.StatusInfo.Status); err != nil {
			http.Error(w, "Failed to update declaration status", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, status)
}

// GetDashboardStatsHandler aggregates declaration counts for the dashboard
// landing page.
func (h *Handler) GetDashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDeclarationStats(r.Context())
	if err != nil {
		http.Error(w, "Failed to get dashboard stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type gusValidateRequest struct {
	NIP   string `json:"nip"`
	REGON string `json:"regon"`
}

// ValidateGusHandler checks a NIP/REGON pair against the GUS registry.
// The outcome is always 200 with a validation envelope; only a malformed
// request body is an HTTP error.
func (h *Handler) ValidateGusHandler(w http.ResponseWriter, r *http.Request) {
	var req gusValidateRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	result := puesc.ValidateGusData(r.Context(), h.Puesc, req.NIP, req.REGON)
	writeJSON(w, http.StatusOK, result)
}

// PuescHealthHandler probes the gateway connection.
func (h *Handler) PuescHealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Puesc.TestConnection(r.Context()))
}

// PuescDocsHandler proxies the gateway's API documentation blob.
func (h *Handler) PuescDocsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Puesc.GetDocumentation(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(docs)
}
