package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"CafeMaemi/models"
	"CafeMaemi/services"
	"CafeMaemi/utils"
	"CafeMaemi/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultMessageLimit = 100
	maxMessageLimit     = 500
	// multipart bodies may carry the JSON part next to the image
	multipartOverhead = 1 << 20
)

var errBadRequest = utils.NewCustomError(http.StatusBadRequest, "Invalid request format")

// AdminController applies dashboard edits. Image uploads report progress
// to the live feed under the X-Upload-ID header, or a generated id.
type AdminController struct {
	Content *services.ContentService
	Live    *ws.LiveHub
}

func NewAdminController(content *services.ContentService, live *ws.LiveHub) *AdminController {
	return &AdminController{Content: content, Live: live}
}

func (a *AdminController) Dashboard(c *gin.Context) {
	messages, err := a.Content.ListMessages(c.Request.Context(), defaultMessageLimit)
	if err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Dashboard fetched successfully", models.Dashboard{
		Menu:     a.Content.Menu.Items(),
		Reviews:  a.Content.Reviews.Items(),
		Gallery:  a.Content.Gallery.Items(),
		Messages: messages,
		Stale:    a.Content.Stale(),
	})
}

// bindEntity fills dst from a JSON body, or from the "data" part of a
// multipart body whose "image" part becomes the returned file.
func (a *AdminController) bindEntity(c *gin.Context, dst interface{}) (*services.AssetFile, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(dst); err != nil {
			return nil, noop, errBadRequest
		}
		return nil, noop, nil
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.Content.MaxUploadBytes()+multipartOverhead)
	if err := c.Request.ParseMultipartForm(a.Content.MaxUploadBytes() + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, noop, &services.UploadError{Path: "image", Err: services.ErrAssetTooLarge}
		}
		return nil, noop, errBadRequest
	}
	if err := json.Unmarshal([]byte(c.PostForm("data")), dst); err != nil {
		return nil, noop, errBadRequest
	}

	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, errBadRequest
	}
	f, err := header.Open()
	if err != nil {
		return nil, noop, errBadRequest
	}
	file := &services.AssetFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      f,
	}
	return file, func() { f.Close() }, nil
}

func (a *AdminController) progress(c *gin.Context, collection string) (string, services.ProgressFunc) {
	uploadID := c.GetHeader("X-Upload-ID")
	if uploadID == "" {
		uploadID = uuid.NewString()
	}
	return uploadID, a.Live.Progress(uploadID, collection)
}

type mutationResult struct {
	ID       string `json:"id"`
	UploadID string `json:"uploadId,omitempty"`
}

func (a *AdminController) CreateMenuItem(c *gin.Context) {
	var item models.MenuItem
	file, done, err := a.bindEntity(c, &item)
	defer done()
	if err != nil {
		c.Error(err)
		return
	}
	uploadID, progress := a.progress(c, services.CollectionMenu)

	id, err := a.Content.CreateMenuItem(c.Request.Context(), item, file, progress)
	if err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Menu item created", mutationResult{ID: id, UploadID: uploadID})
}

func (a *AdminController) UpdateMenuItem(c *gin.Context) {
	var item models.MenuItem
	file, done, err := a.bindEntity(c, &item)
	defer done()
	if err != nil {
		c.Error(err)
		return
	}
	item.ID = c.Param("id")
	uploadID, progress := a.progress(c, services.CollectionMenu)

	if err := a.Content.UpdateMenuItem(c.Request.Context(), item, file, progress); err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Menu item updated", mutationResult{ID: item.ID, UploadID: uploadID})
}

func (a *AdminController) DeleteMenuItem(c *gin.Context) {
	id := c.Param("id")
	if err := a.Content.DeleteMenuItem(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Menu item deleted", mutationResult{ID: id})
}

func (a *AdminController) CreateReview(c *gin.Context) {
	var review models.Review
	file, done, err := a.bindEntity(c, &review)
	defer done()
	if err != nil {
		c.Error(err)
		return
	}
	uploadID, progress := a.progress(c, services.CollectionReviews)

	id, err := a.Content.CreateReview(c.Request.Context(), review, file, progress)
	if err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Review created", mutationResult{ID: id, UploadID: uploadID})
}

func (a *AdminController) UpdateReview(c *gin.Context) {
	var review models.Review
	file, done, err := a.bindEntity(c, &review)
	defer done()
	if err != nil {
		c.Error(err)
		return
	}
	review.ID = c.Param("id")
	uploadID, progress := a.progress(c, services.CollectionReviews)

	if err := a.Content.UpdateReview(c.Request.Context(), review, file, progress); err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Review updated", mutationResult{ID: review.ID, UploadID: uploadID})
}

func (a *AdminController) DeleteReview(c *gin.Context) {
	id := c.Param("id")
	if err := a.Content.DeleteReview(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Review deleted", mutationResult{ID: id})
}

func (a *AdminController) CreateGalleryItem(c *gin.Context) {
	var item models.GalleryItem
	file, done, err := a.bindEntity(c, &item)
	defer done()
	if err != nil {
		c.Error(err)
		return
	}
	uploadID, progress := a.progress(c, services.CollectionGallery)

	id, err := a.Content.CreateGalleryItem(c.Request.Context(), item, file, progress)
	if err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Gallery item created", mutationResult{ID: id, UploadID: uploadID})
}

func (a *AdminController) UpdateGalleryItem(c *gin.Context) {
	var item models.GalleryItem
	file, done, err := a.bindEntity(c, &item)
	defer done()
	if err != nil {
		c.Error(err)
		return
	}
	item.ID = c.Param("id")
	uploadID, progress := a.progress(c, services.CollectionGallery)

	if err := a.Content.UpdateGalleryItem(c.Request.Context(), item, file, progress); err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Gallery item updated", mutationResult{ID: item.ID, UploadID: uploadID})
}

func (a *AdminController) DeleteGalleryItem(c *gin.Context) {
	id := c.Param("id")
	if err := a.Content.DeleteGalleryItem(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Gallery item deleted", mutationResult{ID: id})
}

// UploadRequest is the JSON form of a standalone upload.
type UploadRequest struct {
	Folder  string `json:"folder" form:"folder"`
	Name    string `json:"name" form:"name"`
	DataURL string `json:"dataUrl"`
}

var uploadFolders = map[string]bool{"menu": true, "avatars": true, "gallery": true, "uploads": true}

// Upload stores an asset on its own and returns its URL: a multipart
// "file" part, or a JSON data URL.
func (a *AdminController) Upload(c *gin.Context) {
	var req UploadRequest
	var asset services.Asset

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.Content.MaxUploadBytes()+multipartOverhead)
		header, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.Error(&services.UploadError{Path: "file", Err: services.ErrAssetTooLarge})
				return
			}
			c.Error(errBadRequest)
			return
		}
		f, err := header.Open()
		if err != nil {
			c.Error(errBadRequest)
			return
		}
		defer f.Close()
		req.Folder = c.PostForm("folder")
		req.Name = c.DefaultPostForm("name", header.Filename)
		asset.File = &services.AssetFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Reader:      f,
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil || req.DataURL == "" {
			c.Error(errBadRequest)
			return
		}
		asset.Inline = req.DataURL
	}

	if req.Folder == "" {
		req.Folder = "uploads"
	}
	if !uploadFolders[req.Folder] {
		c.Error(utils.NewCustomError(http.StatusBadRequest, "Unknown upload folder"))
		return
	}

	uploadID, progress := a.progress(c, req.Folder)
	url, err := a.Content.UploadAsset(c.Request.Context(), asset, a.Content.UploadPath(req.Folder, req.Name), progress)
	if err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusCreated, "Asset uploaded", gin.H{"url": url, "uploadId": uploadID})
}

func (a *AdminController) ListMessages(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultMessageLimit)))
	if err != nil || limit <= 0 {
		c.Error(utils.NewCustomError(http.StatusBadRequest, "Invalid limit"))
		return
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	messages, err := a.Content.ListMessages(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Messages fetched successfully", messages)
}

func (a *AdminController) DeleteMessage(c *gin.Context) {
	id := c.Param("id")
	if err := a.Content.DeleteMessage(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Message deleted", mutationResult{ID: id})
}
