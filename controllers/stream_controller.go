package controllers

import (
	"io"
	"net/http"

	"CafeMaemi/services"
	"CafeMaemi/utils"

	"github.com/gin-gonic/gin"
)

// StreamController pushes mirror snapshots to browsers over SSE.
type StreamController struct {
	Content *services.ContentService
}

func NewStreamController(content *services.ContentService) *StreamController {
	return &StreamController{Content: content}
}

func (s *StreamController) Stream(c *gin.Context) {
	switch c.Param("collection") {
	case services.CollectionMenu:
		streamSnapshots(c, s.Content.Menu.Subscribe())
	case services.CollectionReviews:
		streamSnapshots(c, s.Content.Reviews.Subscribe())
	case services.CollectionGallery:
		streamSnapshots(c, s.Content.Gallery.Subscribe())
	default:
		utils.ErrorResponse(c, http.StatusNotFound, "Unknown collection")
	}
}

// streamSnapshots sends each snapshot as a "snapshot" event until the
// client leaves or the mirror shuts down.
func streamSnapshots[T any](c *gin.Context, sub *services.Subscription[services.Snapshot[T]]) {
	defer sub.Cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case snap, ok := <-sub.C:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", snap)
			return true
		}
	})
}
