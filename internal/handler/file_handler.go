package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/response"
	"github.com/school-portal/admin-api/pkg/storage"
)

// FileHandler serves signed object URLs and tracked transient blobs.
type FileHandler struct {
	store   storage.ObjectStore
	signer  *storage.SignedURLSigner
	tracker *storage.BlobTracker
}

// NewFileHandler constructs FileHandler.
func NewFileHandler(store storage.ObjectStore, signer *storage.SignedURLSigner, tracker *storage.BlobTracker) *FileHandler {
	return &FileHandler{store: store, signer: signer, tracker: tracker}
}

// Signed godoc
// @Summary Serve an object through a time-limited signed token
// @Tags Files
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Router /files/{token} [get]
func (h *FileHandler) Signed(c *gin.Context) {
	path, _, err := h.signer.Verify(c.Param("token"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired file token"))
		return
	}

	data, err := h.store.Download(c.Request.Context(), path)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "object not found"))
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// Blob godoc
// @Summary Serve a tracked transient blob
// @Tags Files
// @Param id path string true "Blob ID"
// @Success 200 {file} file
// @Router /blobs/{id} [get]
func (h *FileHandler) Blob(c *gin.Context) {
	data, contentType, err := h.tracker.Open(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "blob not found"))
		return
	}
	if contentType == "" || contentType == "image/*" {
		contentType = http.DetectContentType(data)
	}
	c.Data(http.StatusOK, contentType, data)
}
