package handlers

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"

	"quicksent/internal/auth"
	"quicksent/internal/puesc"
)

// Handler wires the HTTP surface to storage, the auth service and the
// PUESC gateway client.
type Handler struct {
	Store     StorageInterface
	Auth      *auth.Service
	Puesc     PuescAPI
	Builder   *puesc.Builder
	ReportDir string
}

func NewHandler(store StorageInterface, authSvc *auth.Service, api PuescAPI, builder *puesc.Builder, reportDir string) *Handler {
	return &Handler{
		Store:     store,
		Auth:      authSvc,
		Puesc:     api,
		Builder:   builder,
		ReportDir: reportDir,
	}
}

// PingHandler answers "ok" for liveness checks.
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams reads limit and offset from the query, with
// defaults and caps.
func parsePaginationParams(r *http.Request) PaginationParams {
	params := PaginationParams{Limit: 20, Offset: 0}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			params.Limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			params.Offset = o
		}
	}
	return params
}

// readJSON decodes a request body with a 1 MiB cap.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	return json.Unmarshal(body, dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
