// Package puesc talks to the PUESC gateway: SENT declaration submission,
// status lookup and GUS company validation.
package puesc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quicksent/internal/config"
	"quicksent/internal/validation"
	"quicksent/models"
)

const (
	apiVersion        = "1.0"
	connectionTimeout = 10 * time.Second
)

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	headers    map[string]string
}

// SubmitResult is the uniform outcome of a SENT 100 submission. Failures
// are folded into the result, never raised.
type SubmitResult struct {
	Success           bool   `json:"success"`
	DeclarationNumber string `json:"declaration_number,omitempty"`
	Error             string `json:"error,omitempty"`
}

// EditResult is the outcome of a SENT EDIT submission.
type EditResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ConnectionResult is the outcome of a gateway health probe.
type ConnectionResult struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.PuescTimeoutMs) * time.Millisecond},
		headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer " + cfg.PuescAPIKey,
			"X-Environment": cfg.PuescEnvironment,
			"X-API-Version": apiVersion,
		},
	}
}

// SubmitSent100 posts a new declaration. The gateway answers with the
// registered declaration number.
func (c *Client) SubmitSent100(ctx context.Context, declaration models.Sent100Declaration) SubmitResult {
	body, err := c.do(ctx, http.MethodPost, "/sent/100", declaration)
	if err != nil {
		return SubmitResult{Success: false, Error: err.Error()}
	}

	var out struct {
		DeclarationNumber string `json:"declaration_number"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return SubmitResult{Success: false, Error: err.Error()}
	}
	return SubmitResult{Success: true, DeclarationNumber: out.DeclarationNumber}
}

// SubmitSentEdit puts an edit request for an existing declaration.
func (c *Client) SubmitSentEdit(ctx context.Context, edit models.SentEditDeclaration) EditResult {
	if _, err := c.do(ctx, http.MethodPut, "/sent/edit", edit); err != nil {
		return EditResult{Success: false, Error: err.Error()}
	}
	return EditResult{Success: true}
}

// GetDeclarationStatus fetches the current gateway-side status of a
// declaration.
func (c *Client) GetDeclarationStatus(ctx context.Context, declarationNumber string) (*models.SentStatusResponse, error) {
	body, err := c.do(ctx, http.MethodGet, "/sent/status/"+url.PathEscape(declarationNumber), nil)
	if err != nil {
		return nil, err
	}

	status := &models.SentStatusResponse{}
	if err := json.Unmarshal(body, status); err != nil {
		return nil, err
	}
	return status, nil
}

// ValidateCompany looks a NIP/REGON pair up in the GUS registry. Transport
// failures come back as a validation error, not a Go error.
func (c *Client) ValidateCompany(ctx context.Context, nip, regon string) models.GusValidationResponse {
	payload := map[string]string{"nip": nip}
	if regon != "" {
		payload["regon"] = regon
	}

	body, err := c.do(ctx, http.MethodPost, "/gus/validate", payload)
	if err != nil {
		return models.GusValidationResponse{
			Valid: false,
			Errors: []models.GusError{
				{ErrorCode: "VALIDATION_ERROR", ErrorMessage: err.Error()},
			},
		}
	}

	var out models.GusValidationResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return models.GusValidationResponse{
			Valid: false,
			Errors: []models.GusError{
				{ErrorCode: "VALIDATION_ERROR", ErrorMessage: err.Error()},
			},
		}
	}
	return out
}

// TestConnection probes /health with a 10-second deadline. Timeouts,
// transport failures and everything else are reported as distinct messages.
func (c *Client) TestConnection(ctx context.Context) ConnectionResult {
	ctx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/health"), nil)
	if err != nil {
		return ConnectionResult{Connected: false, Error: err.Error()}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ConnectionResult{Connected: false, Error: classifyConnectionError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ConnectionResult{
			Connected: false,
			Error:     fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}
	return ConnectionResult{Connected: true}
}

// GetDocumentation fetches the gateway's API documentation blob.
func (c *Client) GetDocumentation(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/docs", nil)
}

func classifyConnectionError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "connection timed out - the server may be unavailable or your network connection is slow"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "connection timed out - the server may be unavailable or your network connection is slow"
		}
		return "network error - please check your connection and try again"
	}
	return err.Error()
}

// do issues a single request. No retry and no backoff: the gateway treats
// repeated submissions as new declarations.
func (c *Client) do(ctx context.Context, method, path string, payload any) (json.RawMessage, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reqBody)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope models.PuescErrorResponse
		if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
			return nil, errors.New(envelope.Error.Message)
		}
		return nil, fmt.Errorf("puesc api error: status=%d", resp.StatusCode)
	}

	return body, nil
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.PuescBaseURL, "/") + path
}

func (c *Client) setHeaders(req *http.Request) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

// CompanyValidator is the registry-lookup half of the client.
type CompanyValidator interface {
	ValidateCompany(ctx context.Context, nip, regon string) models.GusValidationResponse
}

// ValidateGusData checks the identifiers locally before asking the
// registry. Missing or malformed identifiers never reach the network.
func ValidateGusData(ctx context.Context, client CompanyValidator, nip, regon string) models.GusValidationResponse {
	nip = strings.TrimSpace(nip)
	regon = strings.TrimSpace(regon)

	if nip == "" && regon == "" {
		return models.GusValidationResponse{
			Valid: false,
			Errors: []models.GusError{
				{ErrorCode: "MISSING_DATA", ErrorMessage: "either NIP or REGON is required for validation"},
			},
		}
	}
	if nip != "" && !validation.ValidNIP(nip) {
		return models.GusValidationResponse{
			Valid: false,
			Errors: []models.GusError{
				{ErrorCode: "INVALID_NIP", ErrorMessage: "NIP must be 10 digits with a valid checksum"},
			},
		}
	}
	if regon != "" && !validation.ValidREGON(regon) {
		return models.GusValidationResponse{
			Valid: false,
			Errors: []models.GusError{
				{ErrorCode: "INVALID_REGON", ErrorMessage: "REGON must be 9 digits with a valid checksum"},
			},
		}
	}

	return client.ValidateCompany(ctx, nip, regon)
}
