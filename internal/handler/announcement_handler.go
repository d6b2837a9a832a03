package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/school-portal/admin-api/internal/models"
	"github.com/school-portal/admin-api/internal/service"
	appErrors "github.com/school-portal/admin-api/pkg/errors"
	"github.com/school-portal/admin-api/pkg/response"
)

// AnnouncementHandler exposes announcement endpoints.
type AnnouncementHandler struct {
	announcements *service.AnnouncementService
}

// NewAnnouncementHandler constructs AnnouncementHandler.
func NewAnnouncementHandler(announcements *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

// List godoc
// @Summary List announcements
// @Tags Announcements
// @Produce json
// @Param search query string false "Search in title and content"
// @Param priority query string false "Filter by priority (low, medium, high)"
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	var filter models.AnnouncementFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	if p := c.Query("priority"); p != "" {
		priority := models.AnnouncementPriority(p)
		if !priority.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown priority: "+p))
			return
		}
		filter.Priority = &priority
	}

	announcements, pagination, err := h.announcements.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcements, pagination)
}

// Get godoc
// @Summary Get announcement detail
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	announcement, err := h.announcements.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcement, nil)
}

// Create godoc
// @Summary Create announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param payload body service.CreateAnnouncementRequest true "Announcement payload"
// @Success 201 {object} response.Envelope
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	announcement, err := h.announcements.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, announcement)
}

// Update godoc
// @Summary Update announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param payload body service.UpdateAnnouncementRequest true "Announcement payload"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id} [put]
func (h *AnnouncementHandler) Update(c *gin.Context) {
	var req service.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	announcement, err := h.announcements.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcement, nil)
}

type toggleRequest struct {
	Active bool `json:"active"`
}

// Toggle godoc
// @Summary Toggle announcement visibility
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param payload body toggleRequest true "Active flag"
// @Success 204
// @Router /announcements/{id}/active [patch]
func (h *AnnouncementHandler) Toggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.announcements.Toggle(c.Request.Context(), c.Param("id"), req.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadImage godoc
// @Summary Upload announcement banner
// @Tags Announcements
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Announcement ID"
// @Param image formData file true "Banner image"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/image [post]
func (h *AnnouncementHandler) UploadImage(c *gin.Context) {
	filename, contentType, data, err := readUpload(c, "image")
	if err != nil {
		response.Error(c, err)
		return
	}
	announcement, err := h.announcements.UploadImage(c.Request.Context(), c.Param("id"), filename, contentType, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcement, nil)
}

// Delete godoc
// @Summary Delete announcement
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 204
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	if err := h.announcements.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// readUpload extracts a multipart file field as bytes.
func readUpload(c *gin.Context, field string) (filename, contentType string, data []byte, err error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", "", nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing file field "+field)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", "", nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload")
	}
	defer file.Close() //nolint:errcheck

	data, err = io.ReadAll(file)
	if err != nil {
		return "", "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read upload")
	}
	return fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data, nil
}
