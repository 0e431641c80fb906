// Package analytics aggregates record-access counts from the audit stream.
// Counters live in memory and reset on restart; they back an admin-only
// stats endpoint, not a durable audit trail (that is the audit log itself).
package analytics

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medrec/medrec/internal/platform/middleware"
)

type resourceCounts struct {
	Reads   int64 `json:"reads"`
	Creates int64 `json:"creates"`
	Updates int64 `json:"updates"`
	Deletes int64 `json:"deletes"`
}

// UsageTracker counts API accesses per resource and per user. It implements
// middleware.AuditRecorder so it can be fed directly by the audit
// middleware.
type UsageTracker struct {
	mu        sync.Mutex
	startedAt time.Time
	total     int64
	errors    int64
	resources map[string]*resourceCounts
	users     map[string]int64
}

func NewUsageTracker() *UsageTracker {
	return &UsageTracker{
		startedAt: time.Now().UTC(),
		resources: make(map[string]*resourceCounts),
		users:     make(map[string]int64),
	}
}

// RecordAccess ingests one audit entry.
func (t *UsageTracker) RecordAccess(entry middleware.AuditEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.total++
	if entry.StatusCode >= 400 {
		t.errors++
	}
	if entry.UserID != "" {
		t.users[entry.UserID]++
	}

	if entry.Resource == "" {
		return nil
	}
	rc, ok := t.resources[entry.Resource]
	if !ok {
		rc = &resourceCounts{}
		t.resources[entry.Resource] = rc
	}
	switch entry.Action {
	case "read":
		rc.Reads++
	case "create":
		rc.Creates++
	case "update":
		rc.Updates++
	case "delete":
		rc.Deletes++
	}
	return nil
}

// ResourceUsage is one row of the usage summary.
type ResourceUsage struct {
	Resource string `json:"resource"`
	Reads    int64  `json:"reads"`
	Creates  int64  `json:"creates"`
	Updates  int64  `json:"updates"`
	Deletes  int64  `json:"deletes"`
}

// Snapshot reports the counters accumulated since the tracker started.
type Snapshot struct {
	StartedAt     time.Time       `json:"started_at"`
	TotalRequests int64           `json:"total_requests"`
	ErrorCount    int64           `json:"error_count"`
	ActiveUsers   int             `json:"active_users"`
	Resources     []ResourceUsage `json:"resources"`
}

func (t *UsageTracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{
		StartedAt:     t.startedAt,
		TotalRequests: t.total,
		ErrorCount:    t.errors,
		ActiveUsers:   len(t.users),
	}
	for name, rc := range t.resources {
		snap.Resources = append(snap.Resources, ResourceUsage{
			Resource: name,
			Reads:    rc.Reads,
			Creates:  rc.Creates,
			Updates:  rc.Updates,
			Deletes:  rc.Deletes,
		})
	}
	sort.Slice(snap.Resources, func(i, j int) bool {
		return snap.Resources[i].Resource < snap.Resources[j].Resource
	})
	return snap
}

// Handler serves the usage snapshot.
func (t *UsageTracker) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, t.Snapshot())
	}
}
