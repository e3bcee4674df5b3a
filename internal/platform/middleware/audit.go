package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prescript/prescript/internal/platform/auth"
)

// AuditEntry represents an audit log entry produced by the middleware.
// It captures who accessed what, when, from where, and the action type.
type AuditEntry struct {
	UserID       string
	UserRoles    []string
	PatientEmail string
	Action       string // read, create, update, delete
	IPAddress    string
	UserAgent    string
	Path         string
	Method       string
	Timestamp    time.Time
	RequestID    string
	StatusCode   int
}

// AuditRecorder is the interface that the audit middleware uses to persist
// audit entries. This decouples the middleware from any concrete store so
// that tests can provide a mock implementation.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// auditablePrefixes lists route prefixes that touch patient prescription data.
var auditablePrefixes = []string{
	"/create-prescript",
	"/complete-prescript",
	"/get-prescript",
	"/get-prescripts",
	"/get-prescripts-by-doctor",
	"/get-prescripts-not-expired-by-doctor",
	"/get-expired-prescripts-by-doctor",
	"/get-prescripts-grouped",
	"/get-patients-by-doctor",
	"/prescription-analysis",
}

// Audit returns Echo middleware that intercepts requests to prescription
// routes, extracts the authenticated user from JWT claims, and logs every
// access to patient data.
//
// If no AuditRecorder is provided, it falls back to structured zerolog
// logging only.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !isAuditablePath(path) {
				return next(c)
			}

			// Execute the handler first so we capture the response status
			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
			}

			// Authenticated user from JWT claims via context
			ctx := req.Context()
			entry.UserID = auth.UserIDFromContext(ctx)
			entry.UserRoles = auth.RolesFromContext(ctx)

			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			entry.Action = httpMethodToAction(req.Method)
			entry.PatientEmail = extractPatientEmail(c)

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			// Always emit a structured log for the audit trail
			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Strs("user_roles", entry.UserRoles).
				Str("patient_email", entry.PatientEmail).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("patient_data_access")

			return err
		}
	}
}

func isAuditablePath(path string) bool {
	for _, prefix := range auditablePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// httpMethodToAction maps HTTP methods to audit action codes.
func httpMethodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// extractPatientEmail attempts to find a patient identifier in the request.
// Patient-scoped routes carry the email as the trailing path parameter.
func extractPatientEmail(c echo.Context) string {
	if email := c.Param("email"); email != "" && strings.Contains(email, "@") {
		return email
	}

	// Fall back to the last path segment for routes bound before param
	// resolution.
	path := c.Request().URL.Path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		if seg := path[idx+1:]; strings.Contains(seg, "@") {
			return seg
		}
	}

	return ""
}
