package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrec/medrec/internal/platform/auth"
)

// AuditEntry captures who accessed what, when, from where, and the action type.
type AuditEntry struct {
	UserID     string
	UserRoles  []string
	Resource   string
	PatientUID string
	Action     string // read, create, update, delete
	IPAddress  string
	UserAgent  string
	Path       string
	Method     string
	Timestamp  time.Time
	RequestID  string
	StatusCode int
}

// AuditRecorder is the interface the audit middleware uses to persist audit
// entries, decoupling it from any concrete sink so tests can provide a mock.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit returns Echo middleware that intercepts requests to /api/*, extracts
// the authenticated user from the request context, determines the resource
// and patient UID from the URL path, and logs the access.
//
// Every entry is written to the structured log; any AuditRecorders given are
// fed the same entries on top of that. Patient record, prescription, and
// report access is patient health information; every such access is recorded.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !strings.HasPrefix(path, "/api/") {
				return next(c)
			}

			err := next(c)

			ctx := req.Context()
			entry := AuditEntry{
				UserID:     auth.UserIDFromContext(ctx),
				UserRoles:  auth.RolesFromContext(ctx),
				Resource:   resourceFromPath(path),
				PatientUID: patientUIDFromPath(path),
				Action:     actionFromMethod(req.Method),
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				Path:       path,
				Method:     req.Method,
				Timestamp:  time.Now().UTC(),
				StatusCode: c.Response().Status,
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			logger.Info().
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Strs("roles", entry.UserRoles).
				Str("resource", entry.Resource).
				Str("patient_uid", entry.PatientUID).
				Str("action", entry.Action).
				Str("ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("record access")

			for _, r := range recorders {
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("audit recorder failed")
				}
			}

			return err
		}
	}
}

// resourceFromPath extracts the resource name from an API path, e.g.
// "/api/reports/by-uid/PAT-001" -> "reports".
func resourceFromPath(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/api/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}
	return parts[0]
}

// patientUIDFromPath extracts the patient UID from by-uid scoped paths, e.g.
// "/api/reports/by-uid/PAT-001/abc" -> "PAT-001". Returns "" for paths
// without a by-uid segment.
func patientUIDFromPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "by-uid" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func actionFromMethod(method string) string {
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
		return strings.ToLower(method)
	}
}
