package controllers

import (
	"net/http"
	"time"

	"CafeMaemi/services"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Content *services.ContentService
}

func NewHealthController(content *services.ContentService) *HealthController {
	return &HealthController{Content: content}
}

type MirrorStatus struct {
	Ready    bool      `json:"ready"`
	Stale    bool      `json:"stale"`
	Error    string    `json:"error,omitempty"`
	Items    int       `json:"items"`
	Rejected int       `json:"rejected"`
	ReadTime time.Time `json:"readTime"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string                  `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Mirrors   map[string]MirrorStatus `json:"mirrors"`
}

func addMirrorStatus[T any](statuses map[string]MirrorStatus, m *services.Mirror[T]) {
	snap, ok := m.Current()
	statuses[m.Collection()] = MirrorStatus{
		// a stale marker alone, with no data received yet, is not ready
		Ready:    ok && !snap.ReadTime.IsZero(),
		Stale:    snap.Stale,
		Error:    snap.Err,
		Items:    len(snap.Items),
		Rejected: snap.Rejected,
		ReadTime: snap.ReadTime,
	}
}

// Status answers 200 while serving; a failing watch is reported as
// "degraded" because the mirror keeps serving its last snapshot.
func (h *HealthController) Status(c *gin.Context) {
	mirrors := make(map[string]MirrorStatus, 3)
	addMirrorStatus(mirrors, h.Content.Menu)
	addMirrorStatus(mirrors, h.Content.Reviews)
	addMirrorStatus(mirrors, h.Content.Gallery)
	status := "healthy"
	for _, m := range mirrors {
		if m.Stale || !m.Ready {
			status = "degraded"
		}
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Mirrors:   mirrors,
	})
}
