package controllers

import (
	"net/http"

	"CafeMaemi/services"
	"CafeMaemi/utils"

	"github.com/gin-gonic/gin"
)

// BlobController serves assets kept by the in-memory blob store.
type BlobController struct {
	Blobs *services.MemoryBlobStore
}

func NewBlobController(blobs *services.MemoryBlobStore) *BlobController {
	return &BlobController{Blobs: blobs}
}

func (b *BlobController) Serve(c *gin.Context) {
	data, contentType, ok := b.Blobs.Open(c.Param("path"))
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "Asset not found")
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, contentType, data)
}
