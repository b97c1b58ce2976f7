package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quicksent/db"
	"quicksent/internal/auth"
	"quicksent/models"
)

type createUserRequest struct {
	Email     string            `json:"email"`
	Password  string            `json:"password"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Role      models.UserRole   `json:"role"`
	Status    models.UserStatus `json:"status"`
	Phone     string            `json:"phone"`
	CompanyID *string           `json:"companyId"`
}

// GetUsersHandler lists accounts with role/status/search filters.
func (h *Handler) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)
	q := r.URL.Query()

	users, err := h.Store.GetUsers(r.Context(), q.Get("role"), q.Get("status"), q.Get("search"), params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"limit": params.Limit,
	})
}

// CreateUserHandler creates an account with the role's default
// permission template.
func (h *Handler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	status := req.Status
	if status == "" {
		status = models.UserActive
	}
	user := &db.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Status:       status,
		Phone:        req.Phone,
		CompanyID:    req.CompanyID,
		Language:     "pl",
		Timezone:     "Europe/Warsaw",
		Theme:        "light",
	}
	if err := h.Store.CreateUser(r.Context(), user); err != nil {
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	h.audit(r, "create", "users", user.ID, nil, db.JSONMap{"email": user.Email, "role": string(user.Role)})
	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUserHandler applies a partial update. A role change resets the
// permission map to the new role's template.
func (h *Handler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.GetUser(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var input struct {
		Email     *string            `json:"email"`
		FirstName *string            `json:"firstName"`
		LastName  *string            `json:"lastName"`
		Role      *models.UserRole   `json:"role"`
		Status    *models.UserStatus `json:"status"`
		Phone     *string            `json:"phone"`
		CompanyID *string            `json:"companyId"`
		Language  *string            `json:"language"`
		Timezone  *string            `json:"timezone"`
		Theme     *string            `json:"theme"`
	}
	if err := readJSON(w, r, &input); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}

	old := db.JSONMap{"email": user.Email, "role": string(user.Role), "status": string(user.Status)}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil && *input.Role != user.Role {
		user.Role = *input.Role
		user.Permissions = db.PermissionMap(models.DefaultPermissions(user.Role))
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.CompanyID != nil {
		user.CompanyID = input.CompanyID
	}
	if input.Language != nil {
		user.Language = *input.Language
	}
	if input.Timezone != nil {
		user.Timezone = *input.Timezone
	}
	if input.Theme != nil {
		user.Theme = *input.Theme
	}

	if err := h.Store.UpdateUser(r.Context(), user); err != nil {
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	h.audit(r, "update", "users", user.ID, old,
		db.JSONMap{"email": user.Email, "role": string(user.Role), "status": string(user.Status)})
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userId")
	if err := h.Store.DeleteUser(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	h.audit(r, "delete", "users", id, nil, nil)
	w.WriteHeader(http.StatusNoContent)
}

// GetUserStatsHandler aggregates account counts for the dashboard.
func (h *Handler) GetUserStatsHandler(w http.ResponseWriter, r *http.Request) {
	byStatus, err := h.Store.CountUsersByStatus(r.Context())
	if err != nil {
		http.Error(w, "Failed to get user stats", http.StatusInternalServerError)
		return
	}
	byRole, err := h.Store.CountUsersByRole(r.Context())
	if err != nil {
		http.Error(w, "Failed to get user stats", http.StatusInternalServerError)
		return
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"totalUsers":     total,
		"activeUsers":    byStatus["active"],
		"inactiveUsers":  byStatus["inactive"],
		"suspendedUsers": byStatus["suspended"],
		"pendingUsers":   byStatus["pending"],
		"usersByRole":    byRole,
	})
}

// GetActivityLogsHandler lists the activity log, optionally for one user.
func (h *Handler) GetActivityLogsHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	logs, err := h.Store.GetActivityLogs(r.Context(), r.URL.Query().Get("userId"), params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get activity logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

// GetAuditTrailHandler lists audit records, optionally per table.
func (h *Handler) GetAuditTrailHandler(w http.ResponseWriter, r *http.Request) {
	params := parsePaginationParams(r)

	trail, err := h.Store.GetAuditTrail(r.Context(), r.URL.Query().Get("table"), params.Limit, params.Offset)
	if err != nil {
		http.Error(w, "Failed to get audit trail", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"audit": trail})
}

// audit appends an audit record attributed to the authenticated user.
// Failures are logged nowhere: auditing never blocks the mutation.
func (h *Handler) audit(r *http.Request, action, tableName, recordID string, oldValues, newValues db.JSONMap) {
	entry := &db.AuditTrail{
		Action:    action,
		TableName: tableName,
		RecordID:  recordID,
		OldValues: oldValues,
		NewValues: newValues,
		IPAddress: clientIP(r),
	}
	if user, ok := auth.UserFrom(r.Context()); ok {
		entry.UserID = user.ID
		entry.UserName = user.FirstName + " " + user.LastName
	}
	_ = h.Store.AppendAudit(r.Context(), entry)
}
